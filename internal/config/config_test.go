package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/cpuhistory/internal/config"
	"codeberg.org/mutker/cpuhistory/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cpuhistory.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
capacity = 120
interval = 500
display_interval = 2000
source = "none"
log_level = "debug"
journal = true
journal_db = "/path/to/samples.db"
journal_batch_size = 5
journal_batch_timeout = 3
pid = false
`)
	t.Setenv("CPUHISTORY_CONFIG", configPath)

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Capacity, "Expected Capacity 120")
	assert.Equal(t, 500, cfg.Interval, "Expected Interval 500")
	assert.Equal(t, 2*time.Second, cfg.DisplayEvery())
	assert.Equal(t, "none", cfg.Source)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Journal)
	assert.False(t, cfg.PIDFile)

	jc := cfg.JournalConfig()
	assert.Equal(t, "/path/to/samples.db", jc.DBPath)
	assert.Equal(t, 5, jc.BatchSize)
	assert.Equal(t, 3*time.Second, jc.BatchTimeout)
	assert.True(t, jc.Enabled)

	sc := cfg.SamplerConfig()
	assert.Equal(t, 120, sc.HistoryCapacity)
	assert.Equal(t, 500*time.Millisecond, sc.UpdateInterval)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CPUHISTORY_CONFIG", "")

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultCapacity, cfg.Capacity)
	assert.Equal(t, config.DefaultIntervalMillis, cfg.Interval)
	assert.Equal(t, config.DefaultDisplayMillis, cfg.DisplayInterval)
	assert.Equal(t, config.DefaultSource, cfg.Source)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Journal)
	assert.True(t, cfg.PIDFile)
	assert.Equal(t, config.DefaultJournalDB, cfg.JournalDB)
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	configPath := writeConfig(t, `
capacity = 10
interval = 250
`)
	t.Setenv("CPUHISTORY_INTERVAL", "750")

	cfg, err := config.Load(
		config.WithConfigFile(configPath),
		config.WithArgs([]string{"--capacity", "30", "--log-level", "warning", "--display-interval=100"}),
	)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Capacity, "flag beats file")
	assert.Equal(t, 750, cfg.Interval, "env beats file")
	assert.Equal(t, 100, cfg.DisplayInterval)
	assert.Equal(t, "warning", cfg.LogLevel)
}

func TestConfigFlagSelectsFile(t *testing.T) {
	t.Setenv("CPUHISTORY_CONFIG", "")
	configPath := writeConfig(t, `capacity = 7`)

	cfg, err := config.Load(config.WithArgs([]string{"--config", configPath}))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Capacity)
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("CPUHISTORY_CONFIG", "")
	t.Setenv("CPUMON_CAPACITY", "9")

	cfg, err := config.Load(config.WithArgs(nil), config.WithEnvPrefix("CPUMON"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Capacity)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	t.Setenv("CPUHISTORY_CONFIG", writeConfig(t, `
This is not a valid TOML file
`))

	_, err := config.Load(config.WithArgs(nil))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CPUHISTORY_CONFIG", "")

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"zero capacity", []string{"--capacity", "0"}, errors.ErrInvalidCapacity},
		{"negative interval", []string{"--interval", "-5"}, errors.ErrInvalidInterval},
		{"zero display interval", []string{"--display-interval", "0"}, errors.ErrInvalidInterval},
		{"unknown source", []string{"--source", "gpu"}, errors.ErrInvalidConfig},
		{"invalid log level", []string{"--log-level", "invalid"}, errors.ErrInvalidLogLevel},
		{"journal without path", []string{"--journal", "--journal-db", ""}, errors.ErrInvalidConfig},
		{"unknown flag", []string{"--temperature", "80"}, errors.ErrBindFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(config.WithArgs(tt.args))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}
