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

// Package apperr defines the error taxonomy shared by the catalog, the
// translator, the executor and the job manager, plus the mapping from
// that taxonomy to the wire error envelope and HTTP status code. The
// mapping exists to keep cloud client libraries, which retry 5xx
// responses indefinitely, from retry-looping against the emulator.
package apperr

import (
	"fmt"
	"strings"

	"github.com/novucs/local-bigquery/internal/model"
	"github.com/pkg/errors"
)

// Kind tags the taxonomy an Error belongs to.
type Kind int

// The error kinds enumerated in spec §4.8.
const (
	// KindInvalid covers malformed requests: bad JSON, bad path
	// components.
	KindInvalid Kind = iota
	// KindNotFound covers an absent dataset, table or job.
	KindNotFound
	// KindAlreadyExists covers a duplicate create.
	KindAlreadyExists
	// KindInvalidQuery covers a SQL parse failure or an engine
	// execution failure.
	KindInvalidQuery
	// KindNotImplemented covers a stubbed surface.
	KindNotImplemented
	// KindInternal covers everything else.
	KindInternal
)

// statusAndReason is the fixed §4.8 table.
var statusAndReason = map[Kind]struct {
	status int
	reason string
}{
	KindInvalid:         {422, "invalid"},
	KindNotFound:        {404, "notFound"},
	KindAlreadyExists:   {409, "duplicate"},
	KindInvalidQuery:    {400, "invalidQuery"},
	KindNotImplemented:  {501, "notImplemented"},
	KindInternal:        {500, "dontRetry"},
}

// An Error is a taxonomy-tagged error. It wraps an underlying cause so
// %+v and errors.Cause keep working the way github.com/pkg/errors
// callers expect.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: cause}
}

// NotFound is a convenience constructor for the common case.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// AlreadyExists is a convenience constructor for the common case.
func AlreadyExists(format string, args ...any) *Error {
	return New(KindAlreadyExists, format, args...)
}

// InvalidQuery is a convenience constructor for the common case.
func InvalidQuery(format string, args ...any) *Error {
	return New(KindInvalidQuery, format, args...)
}

// NotImplemented is a convenience constructor for the common case.
func NotImplemented(surface string) *Error {
	return New(KindNotImplemented, "%s is not implemented; see the issue tracker", surface)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

// Unwrap supports errors.As/errors.Is against the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Kind returns the error's taxonomy tag.
func (e *Error) Kind() Kind { return e.kind }

// Of extracts the Kind from err, reclassifying common engine-message
// substrings per spec §4.8 when err is not already a tagged *Error:
// "does not exist"/"not found" become NotFound, "already exists"
// becomes AlreadyExists, anything else is treated as an
// InvalidQuery-shaped execution failure (since most untagged errors
// reaching this point come from the embedded engine).
func Of(err error) *Error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "does not exist"), strings.Contains(lower, "not found"):
		return Wrap(KindNotFound, err, "%s", msg)
	case strings.Contains(lower, "already exists"):
		return Wrap(KindAlreadyExists, err, "%s", msg)
	default:
		return Wrap(KindInvalidQuery, err, "%s", msg)
	}
}

// HTTPStatus returns the status code an HTTP dispatcher should use for
// this error.
func (e *Error) HTTPStatus() int {
	return statusAndReason[e.kind].status
}

// Reason returns the wire "reason" tag for this error.
func (e *Error) Reason() string {
	return statusAndReason[e.kind].reason
}

// Envelope renders the error as the wire error envelope described in
// spec §4.8.
func (e *Error) Envelope() model.ErrorResponse {
	entry := statusAndReason[e.kind]
	return model.ErrorResponse{
		Error: model.ErrorBody{
			Code:    entry.status,
			Message: e.Error(),
			Errors: []model.ErrorProto{{
				Domain:  "global",
				Reason:  entry.reason,
				Message: e.Error(),
			}},
		},
	}
}

// ToEnvelope maps any error, tagged or not, straight to its wire
// envelope and HTTP status, applying the Of reclassification first.
func ToEnvelope(err error) (model.ErrorResponse, int) {
	tagged := Of(err)
	return tagged.Envelope(), tagged.HTTPStatus()
}
