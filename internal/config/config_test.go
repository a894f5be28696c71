package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/governance"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	gov, err := cfg.GovernanceProgram()
	require.NoError(t, err)
	assert.Equal(t, governance.DefaultProgramID, gov)

	agg, err := cfg.AggregatorProgram()
	require.NoError(t, err)
	assert.Equal(t, aggregator.DefaultProgramID, agg)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
rpc:
  endpoint: http://localhost:8899
  timeout: 5s
storage:
  use_memory: true
log:
  level: debug
  json: true
`))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.RPC.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.RPC.Timeout)
	assert.Equal(t, 3, cfg.RPC.MaxRetries, "unset fields keep defaults")
	assert.Equal(t, "wss://api.mainnet-beta.solana.com", cfg.RPC.WSEndpoint)
	assert.True(t, cfg.Storage.UseMemory)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("rpc:\n  endpoit: http://typo\n"))
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.RPC.Endpoint = "" }},
		{"zero timeout", func(c *Config) { c.RPC.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.RPC.MaxRetries = -1 }},
		{"bad governance program", func(c *Config) { c.Programs.Governance = "not-a-key" }},
		{"bad aggregator program", func(c *Config) { c.Programs.Aggregator = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRequireStorage(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.RequireStorage())

	cfg.Storage.UseMemory = true
	assert.NoError(t, cfg.RequireStorage())

	cfg = Default()
	cfg.Storage.PostgresDSN = "postgres://localhost/db"
	cfg.Storage.ClickhouseDSN = "clickhouse://localhost/db"
	assert.NoError(t, cfg.RequireStorage())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SOLANA_RPC_ENDPOINT": "http://env-rpc",
		"POSTGRES_DSN":        "postgres://env",
		"CLICKHOUSE_DSN":      "",
	}
	cfg := Default()
	cfg.Storage.ClickhouseDSN = "clickhouse://kept"
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "http://env-rpc", cfg.RPC.Endpoint)
	assert.Equal(t, "postgres://env", cfg.Storage.PostgresDSN)
	assert.Equal(t, "clickhouse://kept", cfg.Storage.ClickhouseDSN, "empty values do not override")
	assert.Equal(t, "wss://api.mainnet-beta.solana.com", cfg.RPC.WSEndpoint)
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("GOVKIT_CONFIG", "")
	t.Setenv("SOLANA_RPC_ENDPOINT", "")
	t.Setenv("SOLANA_WS_ENDPOINT", "ws://from-env")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("CLICKHOUSE_DSN", "")

	path := writeConfig(t, `
rpc:
  endpoint: http://from-file
  ws_endpoint: ws://from-file
  max_retries: 7
log:
  level: warn
`)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	owner := fs.String("owner", "", "command flag")

	cfg, err := Load(fs, []string{"--config", path, "--rpc-retries", "1", "--owner", "abc"})
	require.NoError(t, err)

	assert.Equal(t, "http://from-file", cfg.RPC.Endpoint)
	assert.Equal(t, "ws://from-env", cfg.RPC.WSEndpoint, "env overrides file")
	assert.Equal(t, 1, cfg.RPC.MaxRetries, "flag overrides file")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.RPC.Timeout)
	assert.Equal(t, "abc", *owner)
}

func TestLoad_InvalidFlagValue(t *testing.T) {
	t.Setenv("GOVKIT_CONFIG", "")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, err := Load(fs, []string{"--aggregator-program", "xyz"})
	assert.Error(t, err)
}
