package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/config"
)

func TestParseAppliesDefaultsForUnsetFields(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[postgres]
host = "db.internal"
port = 5432
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 900, cfg.Server.SessionTimeoutS)
	assert.Equal(t, "nodeframe.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(`
[server]
listen_addr = ":9090"
session_timeout_seconds = 60

[log]
level = "debug"
format = "json"
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, 60, cfg.Server.SessionTimeoutS)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load("/nonexistent/nodeframe.toml")
	assert.Error(t, err)
}

func TestParseRejectsMalformedTOML(t *testing.T) {
	_, err := config.Parse(strings.NewReader("this is not = [valid toml"))
	assert.Error(t, err)
}
