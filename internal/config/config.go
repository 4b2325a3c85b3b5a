package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDSN is returned when the postgres driver is selected without a DSN.
var ErrMissingDSN = errors.New("store.dsn is required for the postgres driver")

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// EnvProduction switches logging to the JSON encoder.
const EnvProduction = "production"

// Config holds application configuration loaded from files, .env and
// FLUENZ_* environment variables.
type Config struct {
	Env       string `mapstructure:"env"`
	User      string `mapstructure:"user"`  // empty means guest
	Guest     bool   `mapstructure:"guest"` // forces guest mode even when user is set
	Timezone  string `mapstructure:"timezone"`
	DailyGoal int    `mapstructure:"daily_goal"`

	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// StoreConfig selects the progress document backend.
type StoreConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"` // sqlite file; empty uses the XDG data dir
	DSN             string        `mapstructure:"dsn"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// LLMConfig selects the content provider. An empty provider falls back to
// discovering a conventional API key variable.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ReminderConfig struct {
	At string `mapstructure:"at"` // HH:MM in the configured timezone
}

// New returns a viper instance with defaults and FLUENZ_* environment
// binding. Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("config", "")
	v.SetDefault("env_file", ".env")
	v.SetDefault("env", "development")
	v.SetDefault("user", "")
	v.SetDefault("guest", false)
	v.SetDefault("timezone", "")
	v.SetDefault("daily_goal", 50)

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.max_conn_lifetime", "30m")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "45s")

	v.SetDefault("reminder.at", "09:00")

	v.SetEnvPrefix("fluenz")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads .env, the optional config file and the environment into a
// validated Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(v.GetString("env_file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("fluenz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if _, _, err := c.Reminder.Clock(); err != nil {
		return err
	}
	if c.DailyGoal < 0 {
		return fmt.Errorf("daily_goal must not be negative, got %d", c.DailyGoal)
	}
	return nil
}

// IsGuest reports whether progress should stay in memory only.
func (c *Config) IsGuest() bool {
	return c.Guest || c.User == ""
}

// Location resolves the configured timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Clock parses At as hour and minute.
func (r ReminderConfig) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", r.At)
	if err != nil {
		return 0, 0, fmt.Errorf("reminder.at %q: want HH:MM", r.At)
	}
	return t.Hour(), t.Minute(), nil
}

func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fluenz"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fluenz"), nil
}
