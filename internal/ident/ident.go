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

// Package ident holds the naming primitives shared by the catalog and
// the SQL translator: project, dataset and table identifiers, and the
// quoting rules used when those identifiers are re-emitted into
// generated SQL.
package ident

import "strings"

// An Ident is a single, unqualified identifier: a project id, a
// dataset id, or a table id.
type Ident string

// Strip removes a single layer of surrounding back-tick, single- or
// double-quote characters from a user-supplied identifier. Hyphenated
// identifiers are left intact; it is the caller's job to re-quote them
// when emitting SQL.
func Strip(raw string) Ident {
	if len(raw) < 2 {
		return Ident(raw)
	}
	first, last := raw[0], raw[len(raw)-1]
	if first != last {
		return Ident(raw)
	}
	switch first {
	case '`', '\'', '"':
		return Ident(raw[1 : len(raw)-1])
	default:
		return Ident(raw)
	}
}

// Quoted double-quotes the identifier for use in generated SQL,
// doubling any embedded double-quote so hyphenated or otherwise
// unusual identifiers round-trip.
func (i Ident) Quoted() string {
	escaped := strings.ReplaceAll(string(i), `"`, `""`)
	return `"` + escaped + `"`
}

// Raw returns the identifier without quoting.
func (i Ident) Raw() string { return string(i) }

// Empty reports whether the identifier is the empty string.
func (i Ident) Empty() bool { return i == "" }

// A Schema names a dataset within a project.
type Schema struct {
	Project Ident
	Dataset Ident
}

// NewSchema strips quoting from both components.
func NewSchema(project, dataset string) Schema {
	return Schema{Project: Strip(project), Dataset: Strip(dataset)}
}

// Qualified joins the non-empty components with '.', double-quoting
// each one.
func (s Schema) Qualified() string {
	return Join(s.Project, s.Dataset)
}

func (s Schema) String() string { return s.Qualified() }

// A Table names a table within a project and dataset.
type Table struct {
	Schema
	Name Ident
}

// NewTable strips quoting from all three components.
func NewTable(project, dataset, table string) Table {
	return Table{Schema: NewSchema(project, dataset), Name: Strip(table)}
}

// TableIn builds a Table from an already-built Schema.
func TableIn(schema Schema, table string) Table {
	return Table{Schema: schema, Name: Strip(table)}
}

// Qualified joins the non-empty components with '.', double-quoting
// each one.
func (t Table) Qualified() string {
	return Join(t.Project, t.Dataset, t.Name)
}

func (t Table) String() string { return t.Qualified() }

// Join builds a fully-qualified, double-quoted dotted name from the
// non-empty components given, in order. Empty components are skipped
// rather than emitted as an empty pair of quotes, so a Table with no
// Dataset set still produces "project"."table" instead of
// "project".."table".
func Join(parts ...Ident) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Empty() {
			continue
		}
		nonEmpty = append(nonEmpty, p.Quoted())
	}
	return strings.Join(nonEmpty, ".")
}
