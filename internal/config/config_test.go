package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/config"
)

func bind(t *testing.T) (*config.Config, *pflag.FlagSet) {
	t.Helper()
	cfg := &config.Config{}
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.Bind(flags)
	return cfg, flags
}

func TestPreflightAcceptsDefaults(t *testing.T) {
	cfg, flags := bind(t)
	require.NoError(t, flags.Parse(nil))
	require.NoError(t, cfg.Preflight())
}

func TestPreflightRejectsCollidingProjects(t *testing.T) {
	cfg, flags := bind(t)
	require.NoError(t, flags.Parse([]string{
		"--internalProject=default-project",
		"--internalDataset=default_dataset",
	}))
	require.Error(t, cfg.Preflight())
}

func TestPreflightRejectsPartialFederationConfig(t *testing.T) {
	cfg, flags := bind(t)
	require.NoError(t, flags.Parse([]string{"--federationConnectionId=conn1"}))
	require.Error(t, cfg.Preflight())
}

func TestApplyEnvFillsUnsetFlagsOnly(t *testing.T) {
	cfg, flags := bind(t)
	t.Setenv("BQEMU_DEFAULTPROJECT", "from-env")

	require.NoError(t, flags.Parse([]string{"--defaultDataset=explicit_dataset"}))
	require.NoError(t, config.ApplyEnv(flags))

	require.Equal(t, "from-env", cfg.DefaultProjectID)
	require.Equal(t, "explicit_dataset", cfg.DefaultDatasetID)
}

func TestCatalogConfigAndFederationConfigDeriveFromFields(t *testing.T) {
	cfg, flags := bind(t)
	require.NoError(t, flags.Parse([]string{
		"--federationConnectionId=conn1",
		"--federationSourceUri=postgres://localhost/db",
	}))

	cc := cfg.CatalogConfig()
	require.Equal(t, "default-project", cc.DefaultProject.Raw())
	require.Equal(t, "local_bigquery_internal", cc.InternalProject.Raw())

	fc := cfg.FederationConfig()
	require.True(t, fc.Enabled())
}
