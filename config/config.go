package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viant/sqlite-knn/knn"
)

// Config describes where samples live and how they are classified.
type Config struct {
	DB          string       `yaml:"db"`
	Dataset     string       `yaml:"dataset"`
	TrainSplit  string       `yaml:"trainSplit"`
	TestSplit   string       `yaml:"testSplit"`
	Strategy    knn.Strategy `yaml:"strategy"`
	K           int          `yaml:"k"`
	Folds       int          `yaml:"folds"`
	Ks          []int        `yaml:"ks"`
	LogLevel    string       `yaml:"logLevel"`
	LogFormat   string       `yaml:"logFormat"`
	MetricsAddr string       `yaml:"metricsAddr,omitempty"`
}

// Default returns the configuration used for fields a file leaves out.
func Default() *Config {
	return &Config{
		DB:         "knn.db",
		Dataset:    "default",
		TrainSplit: "train",
		TestSplit:  "test",
		Strategy:   knn.ZeroLoop,
		K:          1,
		Folds:      5,
		Ks:         []int{1, 3, 5, 8, 10, 12, 15, 20, 50, 100},
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads and validates the YAML file at path on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.DB == "":
		return fmt.Errorf("db is required")
	case c.Dataset == "":
		return fmt.Errorf("dataset is required")
	case c.TrainSplit == "":
		return fmt.Errorf("trainSplit is required")
	case !c.Strategy.Valid():
		return &knn.ErrInvalidStrategy{Strategy: c.Strategy}
	case c.K < 1:
		return fmt.Errorf("k must be positive, got %d", c.K)
	case c.Folds < 2:
		return fmt.Errorf("folds must be at least 2, got %d", c.Folds)
	}
	for _, k := range c.Ks {
		if k < 1 {
			return fmt.Errorf("ks must be positive, got %d", k)
		}
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Logger builds the logger selected by LogLevel and LogFormat.
func (c *Config) Logger() (*knn.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(c.LogFormat, "json") {
		return knn.NewJSONLogger(level), nil
	}
	return knn.NewTextLogger(level), nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("logLevel: %w", err)
	}
	return level, nil
}
