package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"farmstat/adapters/stats/hypothesis"
	"farmstat/internal/errors"
	"farmstat/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Dataset  DatasetConfig
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8080"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LogConfig holds logging settings
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Logging converts the settings into a logger configuration.
func (l LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if l.Development {
		cfg = logging.DevelopmentConfig()
	}
	if l.Level != "" {
		cfg.Level = l.Level
	}
	return cfg
}

// DatasetConfig controls the farm dataset. When File is set the dataset is read
// from that .csv or .xlsx file; otherwise it is generated from Seed, and a negative
// seed asks for a fresh random one at startup.
type DatasetConfig struct {
	File string `envconfig:"DATASET_FILE"`
	Seed int64  `envconfig:"DATASET_SEED" default:"-1"`
	Size int    `envconfig:"DATASET_SIZE" default:"200"`
}

// AnalysisConfig holds statistics engine settings
type AnalysisConfig struct {
	TwoSampleLevels  string `envconfig:"TWO_SAMPLE_LEVELS" default:"first"`
	BatchConcurrency int    `envconfig:"BATCH_CONCURRENCY" default:"8"`
}

// LevelPolicy parses TwoSampleLevels.
func (a AnalysisConfig) LevelPolicy() (hypothesis.LevelPolicy, error) {
	return hypothesis.ParseLevelPolicy(a.TwoSampleLevels)
}

// Load reads an optional .env file, then the environment, and validates the result.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("reading %s: %w", f, err))
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with an empty environment.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: "8080"},
		Log:      LogConfig{Level: "info"},
		Dataset:  DatasetConfig{Seed: -1, Size: 200},
		Analysis: AnalysisConfig{TwoSampleLevels: string(hypothesis.LevelsFirst), BatchConcurrency: 8},
	}
}

// Validate checks the values envconfig cannot.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL %q is not a log level", c.Log.Level))
	}
	if c.Dataset.Size <= 0 {
		return errors.ConfigInvalid("DATASET_SIZE must be positive")
	}
	if _, err := c.Analysis.LevelPolicy(); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if c.Analysis.BatchConcurrency <= 0 {
		return errors.ConfigInvalid("BATCH_CONCURRENCY must be positive")
	}
	return nil
}
