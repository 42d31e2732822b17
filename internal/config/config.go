package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Inputs   InputsConfig   `yaml:"inputs" envconfig:"INPUTS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// PipelineConfig contains the knobs of the allocation and diagnostics runs
type PipelineConfig struct {
	// FocalYear selects the year for the focal-year report and audits.
	// Zero means "latest year present in the panel".
	FocalYear int `yaml:"focal_year" envconfig:"FOCAL_YEAR" default:"0" validate:"eq=0|gte=1900,lte=2100"`

	// Workers bounds the per-year allocation worker pool.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"gte=0,lte=256"`

	// TopN is the row count of top-by-export rankings and ranked plots.
	TopN int `yaml:"top_n" envconfig:"TOP_N" default:"20" validate:"gte=1,lte=1000"`

	// Precision is the decimal precision of value columns in CSV output.
	Precision int `yaml:"precision" envconfig:"PRECISION" default:"6" validate:"gte=0,lte=12"`

	// Plots toggles PNG chart generation.
	Plots bool `yaml:"plots" envconfig:"PLOTS" default:"true"`
}

// InputsConfig names the source files. Relative paths resolve against the
// data directory next to the executable.
type InputsConfig struct {
	PanelFile      string `yaml:"panel_file" envconfig:"PANEL_FILE" default:"hs92_panel.csv" validate:"required"`
	DictionaryFile string `yaml:"dictionary_file" envconfig:"DICTIONARY_FILE" default:"hs_labels.json" validate:"required"`
	CrosswalkFile  string `yaml:"crosswalk_file" envconfig:"CROSSWALK_FILE" default:"hs6_industry_crosswalk.csv" validate:"required"`
	TitlesFile     string `yaml:"titles_file" envconfig:"TITLES_FILE" default:"industry_titles.csv" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/hspanel.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// envconfig fills defaults for unset variables, so "env wins when it differs
// from the default" is the workable precedence rule for scalar fields.
func mergeConfigs(fileConfig, envConfig Config) Config {
	defaults := Default()

	if envConfig.Pipeline.FocalYear == defaults.Pipeline.FocalYear && fileConfig.Pipeline.FocalYear != 0 {
		envConfig.Pipeline.FocalYear = fileConfig.Pipeline.FocalYear
	}
	if envConfig.Pipeline.Workers == defaults.Pipeline.Workers && fileConfig.Pipeline.Workers != 0 {
		envConfig.Pipeline.Workers = fileConfig.Pipeline.Workers
	}
	if envConfig.Pipeline.TopN == defaults.Pipeline.TopN && fileConfig.Pipeline.TopN != 0 {
		envConfig.Pipeline.TopN = fileConfig.Pipeline.TopN
	}
	if envConfig.Pipeline.Precision == defaults.Pipeline.Precision && fileConfig.Pipeline.Precision != 0 {
		envConfig.Pipeline.Precision = fileConfig.Pipeline.Precision
	}

	if envConfig.Inputs.PanelFile == defaults.Inputs.PanelFile && fileConfig.Inputs.PanelFile != "" {
		envConfig.Inputs.PanelFile = fileConfig.Inputs.PanelFile
	}
	if envConfig.Inputs.DictionaryFile == defaults.Inputs.DictionaryFile && fileConfig.Inputs.DictionaryFile != "" {
		envConfig.Inputs.DictionaryFile = fileConfig.Inputs.DictionaryFile
	}
	if envConfig.Inputs.CrosswalkFile == defaults.Inputs.CrosswalkFile && fileConfig.Inputs.CrosswalkFile != "" {
		envConfig.Inputs.CrosswalkFile = fileConfig.Inputs.CrosswalkFile
	}
	if envConfig.Inputs.TitlesFile == defaults.Inputs.TitlesFile && fileConfig.Inputs.TitlesFile != "" {
		envConfig.Inputs.TitlesFile = fileConfig.Inputs.TitlesFile
	}

	if envConfig.Logging.Level == defaults.Logging.Level && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == defaults.Logging.Output && fileConfig.Logging.Output != "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == defaults.Logging.FilePath && fileConfig.Logging.FilePath != "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if envConfig.Paths.DataDir == defaults.Paths.DataDir && fileConfig.Paths.DataDir != "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == defaults.Paths.ReportsDir && fileConfig.Paths.ReportsDir != "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}

	return envConfig
}

// EffectiveWorkers resolves the worker count, mapping zero to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	return runtime.NumCPU()
}

// validate validates the configuration
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	// Output tables are diffed between runs; a non-JSON log format would be
	// the only non-deterministic artifact, so it is pinned here.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/hspanel.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			FocalYear: 0,
			Workers:   0,
			TopN:      20,
			Precision: 6,
			Plots:     true,
		},
		Inputs: InputsConfig{
			PanelFile:      "hs92_panel.csv",
			DictionaryFile: "hs_labels.json",
			CrosswalkFile:  "hs6_industry_crosswalk.csv",
			TitlesFile:     "industry_titles.csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/hspanel.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
	}
}
