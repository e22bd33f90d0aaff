// Command local-bigquery runs the warehouse emulator as a standalone
// process: it parses flags, builds the engine/catalog/translator/
// executor/job-manager chain via Wire, and blocks until the process is
// asked to stop. It does not listen on any socket; wiring an HTTP
// dispatcher in front of internal/api.Service is left to the caller
// embedding this module (see internal/api's package doc).
package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/novucs/local-bigquery/internal/config"
	"github.com/novucs/local-bigquery/internal/stopper"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("local-bigquery exited with an error")
	}
}

func run() error {
	cfg := &config.Config{}
	flags := pflag.NewFlagSet("local-bigquery", pflag.ContinueOnError)
	cfg.Bind(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		return errors.Wrap(err, "could not parse flags")
	}
	if err := config.ApplyEnv(flags); err != nil {
		return errors.Wrap(err, "could not apply environment overrides")
	}
	if err := cfg.Preflight(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	ctx := stopper.New(context.Background())
	defer ctx.Stop()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "could not start emulator")
	}

	log.WithFields(log.Fields{
		"defaultProject": cfg.DefaultProjectID,
		"defaultDataset": cfg.DefaultDatasetID,
		"dataDir":        cfg.DataDir,
	}).Info("local-bigquery emulator ready")

	// fail fast if bootstrap left anything unhealthy
	for name, err := range app.diagnostics.Report(ctx) {
		return errors.Wrapf(err, "diagnostic %q is unhealthy", name)
	}

	return ctx.Wait()
}
