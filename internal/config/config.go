// Package config aggregates the emulator's user-visible configuration
// (spec §6 "Environment / configuration"): the engine data directory,
// the default and internal project/dataset names, the federation
// connection id and source URI, and the listen address.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/federation"
	"github.com/novucs/local-bigquery/internal/ident"
)

// EnvPrefix is prepended to a flag's upper-cased name to form the environment variable ApplyEnv checks for it, e.g.
// flag "defaultProject" becomes BQEMU_DEFAULTPROJECT.
const EnvPrefix = "BQEMU_"

// Config is the full set of flags and environment variables the
// emulator's composition root reads at startup.
type Config struct {
	BindAddr string
	DataDir  string

	DefaultProjectID  string
	DefaultDatasetID  string
	InternalProjectID string
	InternalDatasetID string

	FederationConnectionID string
	FederationSourceURI    string
}

// Bind registers flags, mirroring every BQEMU_-prefixed environment
// variable a caller may set instead (see cmd/local-bigquery).
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(
		&c.BindAddr,
		"bindAddr",
		":9050",
		"the network address for the emulator's API; validated, but this command opens no socket on it")
	flags.StringVar(
		&c.DataDir,
		"dataDir",
		"",
		"root directory for per-project storage files; empty runs entirely in memory")
	flags.StringVar(
		&c.DefaultProjectID,
		"defaultProject",
		"default-project",
		"the project id pre-created at startup")
	flags.StringVar(
		&c.DefaultDatasetID,
		"defaultDataset",
		"default_dataset",
		"the dataset id pre-created within the default project")
	flags.StringVar(
		&c.InternalProjectID,
		"internalProject",
		"local_bigquery_internal",
		"the project id reserved for the metadata catalog")
	flags.StringVar(
		&c.InternalDatasetID,
		"internalDataset",
		"meta",
		"the dataset id reserved for the metadata catalog")
	flags.StringVar(
		&c.FederationConnectionID,
		"federationConnectionId",
		"",
		"the connection id EXTERNAL_QUERY accepts; empty disables federation")
	flags.StringVar(
		&c.FederationSourceURI,
		"federationSourceUri",
		"",
		"the connection string of the federated relational source")
}

// ApplyEnv fills in any flag left at its default with the value of its
// BQEMU_-prefixed environment variable, if set. Call after flags.Parse
// and before Preflight.
func ApplyEnv(flags *pflag.FlagSet) error {
	var firstErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || firstErr != nil {
			return
		}
		name := EnvPrefix + strings.ToUpper(f.Name)
		if v, ok := os.LookupEnv(name); ok {
			if err := flags.Set(f.Name, v); err != nil {
				firstErr = errors.Wrapf(err, "could not apply %s", name)
			}
		}
	})
	return firstErr
}

// Preflight validates the configuration once flags have been parsed.
func (c *Config) Preflight() error {
	if c.BindAddr == "" {
		return errors.New("bindAddr unset")
	}
	if c.DefaultProjectID == "" || c.DefaultDatasetID == "" {
		return errors.New("defaultProject and defaultDataset must both be set")
	}
	if c.InternalProjectID == "" || c.InternalDatasetID == "" {
		return errors.New("internalProject and internalDataset must both be set")
	}
	if c.InternalProjectID == c.DefaultProjectID && c.InternalDatasetID == c.DefaultDatasetID {
		return errors.New("internalProject/internalDataset must not collide with defaultProject/defaultDataset")
	}
	if (c.FederationConnectionID == "") != (c.FederationSourceURI == "") {
		return errors.New("either both of federationConnectionId and federationSourceUri must be set, or neither")
	}
	return nil
}

// CatalogConfig derives the internal/catalog configuration.
func (c *Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		DefaultProject:  ident.Strip(c.DefaultProjectID),
		DefaultDataset:  ident.Strip(c.DefaultDatasetID),
		InternalProject: ident.Strip(c.InternalProjectID),
		InternalDataset: ident.Strip(c.InternalDatasetID),
	}
}

// FederationConfig derives the internal/federation configuration.
func (c *Config) FederationConfig() federation.Config {
	return federation.Config{
		ConnectionID: c.FederationConnectionID,
		SourceURI:    c.FederationSourceURI,
	}
}
