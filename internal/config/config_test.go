package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated returns a viper instance that cannot see a developer's real
// config or .env files.
func isolated(t *testing.T) *viper.Viper {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	v := New()
	v.Set("env_file", filepath.Join(dir, "missing.env"))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 50, cfg.DailyGoal)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, int32(4), cfg.Store.MaxConns)
	assert.Equal(t, 30*time.Minute, cfg.Store.MaxConnLifetime)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "09:00", cfg.Reminder.At)
	assert.True(t, cfg.IsGuest())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	v := isolated(t)
	t.Setenv("FLUENZ_USER", "alice")
	t.Setenv("FLUENZ_DAILY_GOAL", "80")
	t.Setenv("FLUENZ_STORE_DRIVER", "postgres")
	t.Setenv("FLUENZ_STORE_DSN", "postgres://localhost/fluenz")
	t.Setenv("FLUENZ_LLM_TIMEOUT", "10s")
	t.Setenv("FLUENZ_TIMEZONE", "Asia/Ho_Chi_Minh")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.User)
	assert.False(t, cfg.IsGuest())
	assert.Equal(t, 80, cfg.DailyGoal)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/fluenz", cfg.Store.DSN)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())
}

func TestLoad_PostgresWithoutDSN(t *testing.T) {
	v := isolated(t)
	t.Setenv("FLUENZ_STORE_DRIVER", "postgres")

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestLoad_ConfigFile(t *testing.T) {
	v := isolated(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
user: bob
daily_goal: 120
log:
  level: debug
  file: /tmp/fluenz.log
llm:
  provider: mock
reminder:
  at: "20:30"
`), 0o644))
	v.Set("config", path)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, 120, cfg.DailyGoal)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/fluenz.log", cfg.Log.File)
	assert.Equal(t, "mock", cfg.LLM.Provider)

	h, m, err := cfg.Reminder.Clock()
	require.NoError(t, err)
	assert.Equal(t, 20, h)
	assert.Equal(t, 30, m)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	v := isolated(t)
	v.Set("config", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	// Registers a restore of the original (unset) value for after the test,
	// since godotenv writes to the process environment.
	t.Setenv("FLUENZ_USER", "placeholder")
	require.NoError(t, os.Unsetenv("FLUENZ_USER"))

	v := isolated(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FLUENZ_USER=carol\n"), 0o644))
	v.Set("env_file", envFile)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.User)
}

func TestLoad_FlagsOverride(t *testing.T) {
	v := isolated(t)
	t.Setenv("FLUENZ_USER", "from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("user", "", "")
	fs.Bool("guest", false, "")
	require.NoError(t, v.BindPFlag("user", fs.Lookup("user")))
	require.NoError(t, v.BindPFlag("guest", fs.Lookup("guest")))
	require.NoError(t, fs.Parse([]string{"--user", "dave", "--guest"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "dave", cfg.User)
	assert.True(t, cfg.IsGuest(), "--guest wins over a user id")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad reminder", func(c *Config) { c.Reminder.At = "9am" }},
		{"negative goal", func(c *Config) { c.DailyGoal = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Store: StoreConfig{Driver: DriverSQLite}, Reminder: ReminderConfig{At: "09:00"}}
			require.NoError(t, cfg.Validate())
			tt.edit(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}
