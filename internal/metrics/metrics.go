// Copyright 2023 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package metrics contains the Prometheus collectors shared by the job
// manager, the translator, and the UDF binder, plus the label sets and
// bucket definitions they're built from.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LatencyBuckets are the histogram buckets shared by every latency
// metric in this module, in seconds.
var LatencyBuckets = []float64{
	.001, .002, .005, .01, .02, .05, .1, .2, .5, 1, 2, 5, 10, 20, 50,
}

// ProjectLabels tags a metric with the originating project id.
var ProjectLabels = []string{"project"}

// KindLabels tags a metric with an error-kind or statement-kind tag.
var KindLabels = []string{"kind"}

// JobsSubmitted counts query jobs submitted, labeled by project.
var JobsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "local_bigquery",
	Name:      "jobs_submitted_total",
	Help:      "Number of query jobs submitted.",
}, ProjectLabels)

// JobsFailed counts query jobs that failed, labeled by project and
// the wire reason tag (apperr.Error.Reason) of the error that failed
// them.
var JobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "local_bigquery",
	Name:      "jobs_failed_total",
	Help:      "Number of query jobs that failed.",
}, append(append([]string{}, ProjectLabels...), KindLabels...))

// QueryLatency observes end-to-end query execution latency, labeled
// by project.
var QueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "local_bigquery",
	Name:      "query_duration_seconds",
	Help:      "Query execution latency.",
	Buckets:   LatencyBuckets,
}, ProjectLabels)

// TranslationFailures counts SQL statements the translator rejected,
// labeled by project.
var TranslationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "local_bigquery",
	Name:      "translation_failures_total",
	Help:      "Number of SQL statements the translator rejected.",
}, ProjectLabels)

// UDFInvocations counts JS UDF calls, labeled by function name.
var UDFInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "local_bigquery",
	Name:      "udf_invocations_total",
	Help:      "Number of JS UDF invocations.",
}, []string{"udf"})
