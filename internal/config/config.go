package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"covidtracker/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	HTTP    HTTPConfig    `yaml:"http" envconfig:"HTTP"`
	Charts  ChartsConfig  `yaml:"charts" envconfig:"CHARTS"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourcesConfig lists the dataset sources in fallback order. An entry starting
// with http:// or https:// is fetched over the network; anything else is a
// local file path, resolved relative to the executable when not absolute.
type SourcesConfig struct {
	Order []string `yaml:"order" envconfig:"ORDER" default:"sample_data/owid-covid-data.csv,https://covid.ourworldindata.org/data/owid-covid-data.csv,https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/owid-covid-data.csv" validate:"min=1,dive,required"`
}

// HTTPConfig contains settings for remote dataset downloads
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"120s" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"covid-tracker/1.0" validate:"required"`
}

// ChartsConfig controls the generated comparison charts
type ChartsConfig struct {
	Metrics       []string `yaml:"metrics" envconfig:"METRICS" default:"cases_per_million,deaths_per_million,case_fatality_rate,pct_fully_vaccinated" validate:"min=1,dive,oneof=cases_per_million deaths_per_million case_fatality_rate pct_vaccinated pct_fully_vaccinated"`
	TopN          int      `yaml:"top_n" envconfig:"TOP_N" default:"15" validate:"min=1,max=100"`
	RollingWindow int      `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" default:"7" validate:"min=1,max=30"`
}

// OutputConfig names the exported artifacts inside the output directory
type OutputConfig struct {
	CleanDataFile   string `yaml:"clean_data_file" envconfig:"CLEAN_DATA_FILE" default:"covid_clean_data.csv" validate:"required"`
	SummaryWorkbook string `yaml:"summary_workbook" envconfig:"SUMMARY_WORKBOOK" default:"covid_summary.xlsx" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/tracker.log" validate:"required"`
}

// Load loads configuration from default tags, the optional config.yaml next
// to the executable, and environment variables, in increasing precedence:
// env > file > defaults.
func Load() (*Config, error) {
	return loadFrom(getConfigFilePath())
}

// loadFrom builds the configuration against an explicit config file path.
func loadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Defaults plus any environment overrides.
	if err := envconfig.Process("COVID", &cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		// The file overlays everything, including values the environment
		// set; the pass below puts the environment back on top.
		if err := overlayFile(configFile, &cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config file", err).
				WithContext("path", configFile)
		}

		var env envOverrides
		if err := envconfig.Process("COVID", &env); err != nil {
			return nil, errors.NewConfigError("failed to load config from env", err)
		}
		applyEnvOverrides(&cfg, env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overlayFile unmarshals the YAML file over cfg, replacing only the fields
// the file names.
func overlayFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// envOverrides mirrors Config without default tags, so a field comes back
// non-zero only when the environment actually set it.
type envOverrides struct {
	Sources struct {
		Order []string `envconfig:"ORDER"`
	} `envconfig:"SOURCES"`
	HTTP struct {
		Timeout   time.Duration `envconfig:"TIMEOUT"`
		UserAgent string        `envconfig:"USER_AGENT"`
	} `envconfig:"HTTP"`
	Charts struct {
		Metrics       []string `envconfig:"METRICS"`
		TopN          int      `envconfig:"TOP_N"`
		RollingWindow int      `envconfig:"ROLLING_WINDOW"`
	} `envconfig:"CHARTS"`
	Output struct {
		CleanDataFile   string `envconfig:"CLEAN_DATA_FILE"`
		SummaryWorkbook string `envconfig:"SUMMARY_WORKBOOK"`
	} `envconfig:"OUTPUT"`
	Logging struct {
		Level    string `envconfig:"LEVEL"`
		Format   string `envconfig:"FORMAT"`
		Output   string `envconfig:"OUTPUT"`
		FilePath string `envconfig:"FILE_PATH"`
	} `envconfig:"LOGGING"`
}

// applyEnvOverrides copies environment-set fields over cfg.
func applyEnvOverrides(cfg *Config, env envOverrides) {
	if len(env.Sources.Order) > 0 {
		cfg.Sources.Order = env.Sources.Order
	}
	if env.HTTP.Timeout != 0 {
		cfg.HTTP.Timeout = env.HTTP.Timeout
	}
	if env.HTTP.UserAgent != "" {
		cfg.HTTP.UserAgent = env.HTTP.UserAgent
	}
	if len(env.Charts.Metrics) > 0 {
		cfg.Charts.Metrics = env.Charts.Metrics
	}
	if env.Charts.TopN != 0 {
		cfg.Charts.TopN = env.Charts.TopN
	}
	if env.Charts.RollingWindow != 0 {
		cfg.Charts.RollingWindow = env.Charts.RollingWindow
	}
	if env.Output.CleanDataFile != "" {
		cfg.Output.CleanDataFile = env.Output.CleanDataFile
	}
	if env.Output.SummaryWorkbook != "" {
		cfg.Output.SummaryWorkbook = env.Output.SummaryWorkbook
	}
	if env.Logging.Level != "" {
		cfg.Logging.Level = env.Logging.Level
	}
	if env.Logging.Format != "" {
		cfg.Logging.Format = env.Logging.Format
	}
	if env.Logging.Output != "" {
		cfg.Logging.Output = env.Logging.Output
	}
	if env.Logging.FilePath != "" {
		cfg.Logging.FilePath = env.Logging.FilePath
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.NewValidationError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path of the optional config file, which lives
// next to the executable
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yaml")
}
