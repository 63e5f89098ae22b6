package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidtracker/internal/errors"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	var cfg Config
	require.NoError(t, envconfig.Process("COVID", &cfg))
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	require.Len(t, cfg.Sources.Order, 3)
	assert.Equal(t, "sample_data/owid-covid-data.csv", cfg.Sources.Order[0])
	assert.Contains(t, cfg.Sources.Order[1], "https://")

	assert.Equal(t, 120*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 15, cfg.Charts.TopN)
	assert.Equal(t, 7, cfg.Charts.RollingWindow)
	assert.Equal(t, []string{
		"cases_per_million",
		"deaths_per_million",
		"case_fatality_rate",
		"pct_fully_vaccinated",
	}, cfg.Charts.Metrics)

	assert.Equal(t, "covid_clean_data.csv", cfg.Output.CleanDataFile)
	assert.Equal(t, "covid_summary.xlsx", cfg.Output.SummaryWorkbook)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty source list",
			mutate:  func(c *Config) { c.Sources.Order = nil },
			wantErr: true,
		},
		{
			name:    "unknown chart metric",
			mutate:  func(c *Config) { c.Charts.Metrics = []string{"total_cases"} },
			wantErr: true,
		},
		{
			name:    "top-n below minimum",
			mutate:  func(c *Config) { c.Charts.TopN = 0 },
			wantErr: true,
		},
		{
			name:    "negative http timeout",
			mutate:  func(c *Config) { c.HTTP.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Charts.TopN)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFrom_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
charts:
  top_n: 30
logging:
  level: debug
`)

	cfg, err := loadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Charts.TopN, "file value must beat the default")
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Fields the file does not name keep their defaults.
	assert.Equal(t, 7, cfg.Charts.RollingWindow)
	assert.Equal(t, 120*time.Second, cfg.HTTP.Timeout)
	assert.Len(t, cfg.Sources.Order, 3)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	t.Setenv("COVID_CHARTS_TOP_N", "40")

	path := writeConfigFile(t, `
charts:
  top_n: 30
logging:
  level: debug
`)

	cfg, err := loadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Charts.TopN, "env value must beat the file value")
	assert.Equal(t, "debug", cfg.Logging.Level, "file value must survive for fields env does not set")
}

func TestLoadFrom_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("COVID_HTTP_USER_AGENT", "covid-tracker-test/9.9")

	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "covid-tracker-test/9.9", cfg.HTTP.UserAgent)
}

func TestLoadFrom_InvalidFileValue(t *testing.T) {
	path := writeConfigFile(t, `
charts:
  top_n: 0
`)

	_, err := loadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "charts: [not: a: mapping\n")

	_, err := loadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}
