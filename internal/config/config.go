// Package config provides configuration loading for the command-line tools.
//
// Values are resolved in order: built-in defaults, the YAML file named by
// --config (or GOVKIT_CONFIG), environment variables, then explicit flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/governance"
)

// Config is the configuration shared by the command-line tools.
type Config struct {
	// RPC configures the Solana node connection.
	RPC RPCConfig `yaml:"rpc"`

	// Programs holds the program ids accounts are read from.
	Programs ProgramsConfig `yaml:"programs"`

	// Storage configures snapshot and resolution persistence.
	Storage StorageConfig `yaml:"storage"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Log configures the zap logger.
	Log LogConfig `yaml:"log"`
}

// RPCConfig configures the Solana node connection.
type RPCConfig struct {
	// Endpoint is the JSON-RPC HTTP endpoint.
	Endpoint string `yaml:"endpoint"`

	// WSEndpoint is the PubSub WebSocket endpoint.
	WSEndpoint string `yaml:"ws_endpoint"`

	// Timeout bounds one HTTP request.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is how often a failed transport call is retried.
	MaxRetries int `yaml:"max_retries"`
}

// ProgramsConfig holds base58 program ids.
type ProgramsConfig struct {
	Governance string `yaml:"governance"`
	Aggregator string `yaml:"aggregator"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`

	// UseMemory selects the in-memory stores and ignores both DSNs.
	UseMemory bool `yaml:"use_memory"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RPC: RPCConfig{
			Endpoint:   "https://api.mainnet-beta.solana.com",
			WSEndpoint: "wss://api.mainnet-beta.solana.com",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Programs: ProgramsConfig{
			Governance: governance.DefaultProgramID.String(),
			Aggregator: aggregator.DefaultProgramID.String(),
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadFile reads a YAML file over the defaults. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for name, field := range map[string]*string{
		"SOLANA_RPC_ENDPOINT": &c.RPC.Endpoint,
		"SOLANA_WS_ENDPOINT":  &c.RPC.WSEndpoint,
		"POSTGRES_DSN":        &c.Storage.PostgresDSN,
		"CLICKHOUSE_DSN":      &c.Storage.ClickhouseDSN,
	} {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}
}

// BindFlags registers a flag for every field, defaulting to its current value.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.RPC.Endpoint, "rpc-endpoint", c.RPC.Endpoint, "Solana RPC HTTP endpoint")
	fs.StringVar(&c.RPC.WSEndpoint, "ws-endpoint", c.RPC.WSEndpoint, "Solana WebSocket endpoint")
	fs.DurationVar(&c.RPC.Timeout, "rpc-timeout", c.RPC.Timeout, "Timeout of one RPC request")
	fs.IntVar(&c.RPC.MaxRetries, "rpc-retries", c.RPC.MaxRetries, "Retries of a failed RPC request")
	fs.StringVar(&c.Programs.Governance, "governance-program", c.Programs.Governance, "SPL governance program id")
	fs.StringVar(&c.Programs.Aggregator, "aggregator-program", c.Programs.Aggregator, "Vote aggregator program id")
	fs.StringVar(&c.Storage.PostgresDSN, "postgres-dsn", c.Storage.PostgresDSN, "PostgreSQL connection string")
	fs.StringVar(&c.Storage.ClickhouseDSN, "clickhouse-dsn", c.Storage.ClickhouseDSN, "ClickHouse connection string")
	fs.BoolVar(&c.Storage.UseMemory, "use-memory", c.Storage.UseMemory, "Use in-memory storage")
	fs.StringVar(&c.Metrics.Addr, "metrics-addr", c.Metrics.Addr, "Prometheus metrics HTTP address")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "Log level (debug, info, warn, error)")
	fs.BoolVar(&c.Log.JSON, "log-json", c.Log.JSON, "Log as JSON")
}

// Load parses args with fs and resolves the configuration. Command-specific
// flags may be registered on fs beforehand.
func Load(fs *pflag.FlagSet, args []string) (Config, error) {
	path := fs.String("config", os.Getenv("GOVKIT_CONFIG"), "YAML configuration file")
	shown := Default()
	shown.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *path != "" {
		loaded, err := LoadFile(*path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.LookupEnv)

	// Replay explicitly set flags over the resolved values.
	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	cfg.BindFlags(overlay)
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err == nil && overlay.Lookup(f.Name) != nil {
			err = overlay.Set(f.Name, f.Value.String())
		}
	})
	if err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks that program ids parse and numeric fields are in range.
func (c Config) Validate() error {
	if c.RPC.Endpoint == "" {
		return errors.New("rpc endpoint is required")
	}
	if c.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc timeout must be positive, got %s", c.RPC.Timeout)
	}
	if c.RPC.MaxRetries < 0 {
		return fmt.Errorf("rpc max retries must not be negative, got %d", c.RPC.MaxRetries)
	}
	if _, err := c.GovernanceProgram(); err != nil {
		return err
	}
	if _, err := c.AggregatorProgram(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// RequireStorage reports an error unless in-memory storage is selected or
// both DSNs are set.
func (c Config) RequireStorage() error {
	if c.Storage.UseMemory {
		return nil
	}
	if c.Storage.PostgresDSN == "" || c.Storage.ClickhouseDSN == "" {
		return errors.New("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}
	return nil
}

func (c Config) GovernanceProgram() (address.PublicKey, error) {
	key, err := address.ParsePublicKey(c.Programs.Governance)
	if err != nil {
		return address.PublicKey{}, fmt.Errorf("governance program: %w", err)
	}
	return key, nil
}

func (c Config) AggregatorProgram() (address.PublicKey, error) {
	key, err := address.ParsePublicKey(c.Programs.Aggregator)
	if err != nil {
		return address.PublicKey{}, fmt.Errorf("aggregator program: %w", err)
	}
	return key, nil
}
