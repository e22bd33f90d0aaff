package main

import (
	"context"

	"github.com/novucs/local-bigquery/internal/api"
	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/config"
	"github.com/novucs/local-bigquery/internal/diag"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/federation"
	"github.com/novucs/local-bigquery/internal/jobs"
	"github.com/novucs/local-bigquery/internal/query"
	"github.com/novucs/local-bigquery/internal/stopper"
	"github.com/novucs/local-bigquery/internal/translate"
	"github.com/novucs/local-bigquery/internal/udf"
)

// application is every long-lived component the composition root holds
// a reference to once wiring is complete.
type application struct {
	pool        *engine.Pool
	catalog     *catalog.Store
	federation  *federation.Source
	translator  *translate.Translator
	udfs        *udf.Registry
	executor    *query.Executor
	jobs        *jobs.Manager
	service     *api.Service
	diagnostics *diag.Diagnostics
}

func provideEnginePool(ctx *stopper.Context, cfg *config.Config) (*engine.Pool, error) {
	return engine.Open(ctx, cfg.DataDir)
}

func provideCatalog(ctx *stopper.Context, pool *engine.Pool, cfg *config.Config) (*catalog.Store, error) {
	return catalog.Open(ctx, pool, cfg.CatalogConfig())
}

func provideFederation(pool *engine.Pool, cfg *config.Config) *federation.Source {
	return federation.New(cfg.FederationConfig(), pool)
}

func provideTranslator(store *catalog.Store, fed *federation.Source) *translate.Translator {
	return translate.New(store, fed)
}

func provideUDFRegistry() *udf.Registry {
	return udf.NewRegistry()
}

func provideExecutor(pool *engine.Pool, store *catalog.Store, translator *translate.Translator, udfs *udf.Registry) *query.Executor {
	return query.New(pool, store, translator, udfs)
}

func provideJobs(store *catalog.Store, executor *query.Executor) *jobs.Manager {
	return jobs.New(store, executor)
}

func provideService(pool *engine.Pool, store *catalog.Store, jobManager *jobs.Manager) *api.Service {
	return api.New(pool, store, jobManager)
}

func provideDiagnostics(pool *engine.Pool, fed *federation.Source) *diag.Diagnostics {
	d := diag.New()
	_ = d.Register("engine", diag.DiagnosticFunc(func(ctx context.Context) error {
		return pool.DB().PingContext(ctx)
	}))
	_ = d.Register("federation", diag.DiagnosticFunc(func(ctx context.Context) error {
		if !fed.Enabled() {
			return nil
		}
		_, err := fed.Resolve(ctx, fed.ConnectionID())
		return err
	}))
	return d
}
