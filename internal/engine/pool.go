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

// Package engine manages the embedded analytical SQL engine that
// backs every project's storage: a single DuckDB process attaches one
// on-disk database file per warehouse project, and one schema per
// dataset within it.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb" // register the "duckdb" driver
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/stopper"
)

// Pool is the single engine connection shared by every request. DuckDB
// serializes writers internally, so one *sql.DB with a small max-open
// setting is sufficient; see Open.
type Pool struct {
	dataDir string
	db      *sql.DB

	mu       sync.Mutex
	projects map[string]bool // project IDs already ATTACHed
	datasets map[string]bool // "project.dataset" schemas already created
}

// Open starts the embedded engine rooted at dataDir. An empty dataDir
// runs entirely in memory, which is useful for tests. Close is wired
// to ctx's shutdown.
func Open(ctx *stopper.Context, dataDir string) (*Pool, error) {
	target := ":memory:"
	if dataDir != "" {
		target = filepath.Join(dataDir, "catalog.duckdb")
	}

	db, err := sql.Open("duckdb", target)
	if err != nil {
		return nil, errors.Wrap(err, "could not open embedded engine")
	}
	// DuckDB's single-process model does not benefit from a large
	// connection pool, and concurrent writers across connections can
	// deadlock against each other.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "could not start embedded engine")
	}
	log.WithField("path", target).Info("embedded engine started")

	p := &Pool{
		dataDir:  dataDir,
		db:       db,
		projects: make(map[string]bool),
		datasets: make(map[string]bool),
	}

	ctx.Go(func() error {
		<-ctx.Stopping()
		if err := db.Close(); err != nil {
			log.WithError(errors.WithStack(err)).Warn("could not close embedded engine")
		}
		return nil
	})

	return p, nil
}

// DB returns the underlying connection for ad-hoc statements that do
// not need project/dataset scoping (catalog bookkeeping queries).
func (p *Pool) DB() *sql.DB {
	return p.db
}

// EnsureProject idempotently attaches the on-disk database for
// projectID, creating it on first use. Safe to call concurrently and
// repeatedly.
func (p *Pool) EnsureProject(ctx context.Context, projectID ident.Ident) error {
	key := projectID.Raw()

	p.mu.Lock()
	if p.projects[key] {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	path := ":memory:"
	if p.dataDir != "" {
		path = filepath.Join(p.dataDir, fmt.Sprintf("%s.duckdb", key))
	}

	stmt := fmt.Sprintf("ATTACH IF NOT EXISTS %s AS %s", sqlQuoteLiteral(path), projectID.Quoted())
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrapf(err, "could not attach project %q", key)
	}

	p.mu.Lock()
	p.projects[key] = true
	p.mu.Unlock()
	return nil
}

// EnsureDataset idempotently creates the schema backing a dataset
// within an already-attached project.
func (p *Pool) EnsureDataset(ctx context.Context, projectID, datasetID ident.Ident) error {
	if err := p.EnsureProject(ctx, projectID); err != nil {
		return err
	}

	key := projectID.Raw() + "." + datasetID.Raw()
	p.mu.Lock()
	if p.datasets[key] {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.%s", projectID.Quoted(), datasetID.Quoted())
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrapf(err, "could not create dataset schema %q", key)
	}

	p.mu.Lock()
	p.datasets[key] = true
	p.mu.Unlock()
	return nil
}

// Projects returns the IDs of every project attached so far.
func (p *Pool) Projects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.projects))
	for id := range p.projects {
		out = append(out, id)
	}
	return out
}

// DropDataset drops a dataset schema and every table within it.
func (p *Pool) DropDataset(ctx context.Context, projectID, datasetID ident.Ident) error {
	stmt := fmt.Sprintf("DROP SCHEMA IF EXISTS %s.%s CASCADE", projectID.Quoted(), datasetID.Quoted())
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrapf(err, "could not drop dataset schema %q.%q", projectID.Raw(), datasetID.Raw())
	}
	p.mu.Lock()
	delete(p.datasets, projectID.Raw()+"."+datasetID.Raw())
	p.mu.Unlock()
	return nil
}

// sqlQuoteLiteral quotes a string as a DuckDB SQL string literal.
func sqlQuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
