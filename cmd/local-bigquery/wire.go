//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/novucs/local-bigquery/internal/config"
	"github.com/novucs/local-bigquery/internal/stopper"
)

func newApplication(ctx *stopper.Context, cfg *config.Config) (*application, error) {
	panic(wire.Build(
		wire.Struct(new(application), "*"),
		provideEnginePool,
		provideCatalog,
		provideFederation,
		provideTranslator,
		provideUDFRegistry,
		provideExecutor,
		provideJobs,
		provideService,
		provideDiagnostics,
	))
}
