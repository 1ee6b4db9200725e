package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Muhammaduzair321/ip-checker/internal/store"
)

// EnvPrefix namespaces every environment variable, e.g.
// IPCHECKER_SERVER_HTTP_ADDR sets server.http_addr.
const EnvPrefix = "IPCHECKER_"

const (
	ModeMemory    = "memory"
	ModePersisted = "persisted"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverREST     = "rest"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Ledger LedgerConfig `koanf:"ledger"`
	Store  StoreConfig  `koanf:"store"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	HTTPAddr string `koanf:"http_addr"`
	GRPCAddr string `koanf:"grpc_addr"`
}

type LedgerConfig struct {
	Mode            string        `koanf:"mode"`
	RefreshInterval time.Duration `koanf:"refresh_interval"` // 0 disables background refresh
	StaleAfter      time.Duration `koanf:"stale_after"`      // 0 disables the readiness age check
}

type StoreConfig struct {
	Driver    string `koanf:"driver"`
	DSN       string `koanf:"dsn"` // file path, postgres DSN, redis URL or REST base URL
	Table     string `koanf:"table"`
	Retention int    `koanf:"retention"` // redis only: entries kept in the list
	APIKey    string `koanf:"api_key"`   // rest only
}

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			HTTPAddr: ":8080",
			GRPCAddr: ":9090",
		},
		Ledger: LedgerConfig{
			Mode:            ModeMemory,
			RefreshInterval: time.Minute,
		},
		Store: StoreConfig{
			Driver:    DriverSQLite,
			DSN:       "data/ip-checker.db",
			Table:     "hosts",
			Retention: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults overridden by IPCHECKER_*
// environment variables.
func Load() (Config, error) {
	return load(nil)
}

// load takes an optional environ function so tests don't touch the process env.
func load(environ func() []string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	envOpt := env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return transformEnvKey(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}
	if environ != nil {
		envOpt.EnvironFunc = environ
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// transformEnvKey maps SERVER_HTTP_ADDR to server.http_addr: the first
// segment is the section, the rest is the field name.
func transformEnvKey(s string) string {
	s = strings.ToLower(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' })
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + "." + strings.Join(parts[1:], "_")
	}
}

func (c Config) Validate() error {
	switch c.Ledger.Mode {
	case ModeMemory, ModePersisted:
	default:
		return fmt.Errorf("invalid ledger.mode=%q, want %q or %q", c.Ledger.Mode, ModeMemory, ModePersisted)
	}

	if c.Server.HTTPAddr == "" && c.Server.GRPCAddr == "" {
		return fmt.Errorf("at least one of server.http_addr and server.grpc_addr must be set")
	}

	if c.Ledger.Mode == ModeMemory {
		return nil
	}

	if d := c.Ledger.RefreshInterval; d != 0 {
		if d < time.Second {
			return fmt.Errorf("ledger.refresh_interval too small (%s), must be >=1s", d)
		}
		if d > 24*time.Hour {
			return fmt.Errorf("ledger.refresh_interval too large (%s), must be <=24h", d)
		}
	}
	if c.Ledger.StaleAfter < 0 {
		return fmt.Errorf("ledger.stale_after must not be negative")
	}
	if c.Ledger.StaleAfter > 0 && c.Ledger.RefreshInterval == 0 {
		return fmt.Errorf("ledger.stale_after needs ledger.refresh_interval")
	}
	if c.Ledger.StaleAfter > 0 && c.Ledger.StaleAfter <= c.Ledger.RefreshInterval {
		return fmt.Errorf("ledger.stale_after (%s) must exceed ledger.refresh_interval (%s)",
			c.Ledger.StaleAfter, c.Ledger.RefreshInterval)
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverREST:
	default:
		return fmt.Errorf("invalid store.driver=%q", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store.dsn must not be empty")
	}
	if err := store.ValidateTable(c.Store.Table); err != nil {
		return fmt.Errorf("store.table: %w", err)
	}
	if c.Store.Retention <= 0 {
		return fmt.Errorf("store.retention must be positive")
	}

	return nil
}
