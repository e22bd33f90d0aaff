// Package catalog is the sole owner of persisted state: per-project
// attached storage in the embedded engine, plus an internal metadata
// store (held in a reserved project) for datasets, jobs and query
// results. The SQL translator and query executor are pure by
// comparison; everything they touch that needs to survive a request
// flows through this package.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/ident"
)

// Config names the two bootstrap projects every store needs: the
// project new datasets default into when a request omits one, and the
// reserved project holding this package's own metadata tables.
type Config struct {
	DefaultProject ident.Ident
	DefaultDataset ident.Ident
	InternalProject ident.Ident
	InternalDataset ident.Ident
}

// Store is the catalog's single entry point.
type Store struct {
	pool *engine.Pool
	cfg  Config
}

// Open bootstraps the default and internal project attachments, their
// default schemas, and the internal metadata tables, then returns a
// ready Store.
func Open(ctx context.Context, pool *engine.Pool, cfg Config) (*Store, error) {
	if err := pool.EnsureDataset(ctx, cfg.DefaultProject, cfg.DefaultDataset); err != nil {
		return nil, errors.Wrap(err, "could not bootstrap default project")
	}
	if err := pool.EnsureDataset(ctx, cfg.InternalProject, cfg.InternalDataset); err != nil {
		return nil, errors.Wrap(err, "could not bootstrap internal project")
	}

	s := &Store{pool: pool, cfg: cfg}
	if err := s.ensureMetadataTables(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) metaSchema() ident.Schema {
	return ident.Schema{Project: s.cfg.InternalProject, Dataset: s.cfg.InternalDataset}
}

func (s *Store) metaTable(name string) string {
	return ident.TableIn(s.metaSchema(), name).Qualified()
}

func (s *Store) ensureMetadataTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.metaTable("datasets") + ` (
			project VARCHAR, dataset VARCHAR, payload VARCHAR,
			PRIMARY KEY (project, dataset))`,
		`CREATE TABLE IF NOT EXISTS ` + s.metaTable("tables") + ` (
			project VARCHAR, dataset VARCHAR, table_name VARCHAR, payload VARCHAR,
			PRIMARY KEY (project, dataset, table_name))`,
		`CREATE TABLE IF NOT EXISTS ` + s.metaTable("jobs") + ` (
			project VARCHAR, job_id VARCHAR, payload VARCHAR,
			PRIMARY KEY (project, job_id))`,
		`CREATE TABLE IF NOT EXISTS ` + s.metaTable("query_results") + ` (
			project VARCHAR, job_id VARCHAR, payload VARCHAR,
			PRIMARY KEY (project, job_id))`,
		`CREATE TABLE IF NOT EXISTS ` + s.metaTable("routines") + ` (
			project VARCHAR, dataset VARCHAR, routine_name VARCHAR, payload VARCHAR,
			PRIMARY KEY (project, dataset, routine_name))`,
		`CREATE TABLE IF NOT EXISTS ` + s.metaTable("models") + ` (
			project VARCHAR, dataset VARCHAR, model_name VARCHAR, payload VARCHAR,
			PRIMARY KEY (project, dataset, model_name))`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.DB().ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "could not create internal metadata table")
		}
	}
	return nil
}

// DefaultProject returns the project new requests default into.
func (s *Store) DefaultProject() ident.Ident { return s.cfg.DefaultProject }

// DefaultDataset returns the dataset new requests default into.
func (s *Store) DefaultDataset() ident.Ident { return s.cfg.DefaultDataset }

// Pool exposes the underlying engine pool for components (the
// executor, the translator) that need to run arbitrary statements
// against project-scoped storage.
func (s *Store) Pool() *engine.Pool { return s.pool }

func marshalPayload(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "could not marshal catalog record")
	}
	return string(b), nil
}

func unmarshalPayload(payload string, out any) error {
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return apperr.Wrap(apperr.KindInternal, err, "could not unmarshal catalog record")
	}
	return nil
}

// rowNotFound normalizes sql.ErrNoRows into the apperr taxonomy with a
// caller-supplied message.
func rowNotFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.KindNotFound, format, args...)
	}
	return apperr.Wrap(apperr.KindInternal, err, format, args...)
}
