package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.yaml"), false, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 4*time.Second, cfg.Pace)
	assert.Equal(t, "br-salaries", cfg.TableID)
	assert.Equal(t, "salaries.json", cfg.StorePath())
}

func TestLoadRequiredFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "brsalaries.yaml", `
mode: concurrent
pace: 1500ms
concurrency: 4
per_host: 2
store: sqlite
sqlite_path: campaign.db
year_min: 2010
year_max: 2024
clearance_token: abc
`)
	cfg, err := Load(path, true, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "concurrent", cfg.Mode)
	assert.Equal(t, 1500*time.Millisecond, cfg.Pace)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "campaign.db", cfg.StorePath())
	assert.Equal(t, 2010, cfg.Years().Min)
	assert.Equal(t, "abc", cfg.ClientOptions().ClearanceToken)
	assert.Equal(t, 2, cfg.ProcessorOptions().PerHost)
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "brsalaries.yaml", "mode: [unterminated")
	_, err := Load(path, false)
	assert.Error(t, err)
}

func TestEnvironmentBeatsYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "brsalaries.yaml", "mode: concurrent\ntimeout: 10s\n")
	t.Setenv("BRSALARIES_MODE", "Sequential")
	t.Setenv("BRSALARIES_TIMEOUT", "45s")
	t.Setenv("BRSALARIES_RETRY_FAILED", "true")

	cfg, err := Load(path, true, filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "sequential", cfg.Mode)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.True(t, cfg.RetryFailed)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "BRSALARIES_USER_AGENT=from-dotenv\nBRSALARIES_PROXY=http://127.0.0.1:8080\n")
	t.Setenv("BRSALARIES_USER_AGENT", "from-env")
	// godotenv sets variables process-wide
	t.Cleanup(func() { os.Unsetenv("BRSALARIES_PROXY") })

	cfg, err := Load(filepath.Join(dir, "absent.yaml"), false, dotenv)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.UserAgent)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Proxy)
}

func TestBadEnvironmentValue(t *testing.T) {
	t.Setenv("BRSALARIES_CONCURRENCY", "many")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Mode = "parallel" }, "mode must be"},
		{"unknown store", func(c *Config) { c.Store = "redis" }, "store must be"},
		{"negative pace", func(c *Config) { c.Pace = -time.Second }, "pace"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
		{"zero per host", func(c *Config) { c.PerHost = 0 }, "per_host"},
		{"inverted years", func(c *Config) { c.YearMin, c.YearMax = 2025, 2018 }, "year_min"},
		{"empty table id", func(c *Config) { c.TableID = "" }, "table_id"},
		{"sqlite without path", func(c *Config) { c.Store, c.SQLitePath = "sqlite", "" }, "sqlite_path"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParserUsesCurrency(t *testing.T) {
	cfg := Default()
	cfg.Currency = "€"
	assert.Equal(t, "€", cfg.Parser().CurrencyMarker)
}
