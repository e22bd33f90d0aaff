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

// Package diag provides a small named-healthcheck registry, used by
// the engine pool and the federation attachment to expose their status
// without every caller threading a bespoke health type through the
// stack.
package diag

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// A Diagnostic reports its own health. Implementations should be
// cheap; Diagnostics.Report may be called frequently.
type Diagnostic interface {
	Health(ctx context.Context) error
}

// DiagnosticFunc adapts a plain function to the Diagnostic interface.
type DiagnosticFunc func(ctx context.Context) error

// Health implements Diagnostic.
func (f DiagnosticFunc) Health(ctx context.Context) error { return f(ctx) }

// Diagnostics is a registry of named Diagnostic instances.
type Diagnostics struct {
	mu    sync.Mutex
	named map[string]Diagnostic
}

// New constructs an empty registry.
func New() *Diagnostics {
	return &Diagnostics{named: make(map[string]Diagnostic)}
}

// Register adds a named Diagnostic. It is an error to reuse a name.
func (d *Diagnostics) Register(name string, diag Diagnostic) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, found := d.named[name]; found {
		return errors.Errorf("diagnostic %q already registered", name)
	}
	d.named[name] = diag
	return nil
}

// Report runs every registered Diagnostic and returns the set of
// names whose Health call returned a non-nil error, keyed to that
// error.
func (d *Diagnostics) Report(ctx context.Context) map[string]error {
	d.mu.Lock()
	snapshot := make(map[string]Diagnostic, len(d.named))
	for name, diag := range d.named {
		snapshot[name] = diag
	}
	d.mu.Unlock()

	out := make(map[string]error)
	for name, diag := range snapshot {
		if err := diag.Health(ctx); err != nil {
			out[name] = err
		}
	}
	return out
}
