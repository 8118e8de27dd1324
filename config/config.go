// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viant/archgate/analyzer/report"
	"github.com/viant/archgate/analyzer/rule"
	"github.com/viant/archgate/inspector/info"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the default config location
const EnvConfig = "ARCHGATE_CONFIG"

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Config represents gate configuration
type Config struct {
	Source  *info.Config `yaml:"source"`
	Policy  *rule.Policy `yaml:"policy"`
	Workers int          `yaml:"workers"`
	Log     Log          `yaml:"log"`
	Output  Output       `yaml:"output"`
}

// Log represents logging configuration
type Log struct {
	Level string `yaml:"level"`
}

// Output represents report output configuration
type Output struct {
	Format      string `yaml:"format"`
	MetricsFile string `yaml:"metricsFile,omitempty"`
}

// NewDefaultConfig returns configuration with default policy and discovery settings
func NewDefaultConfig() *Config {
	return &Config{
		Source: info.DefaultConfig(),
		Policy: rule.DefaultPolicy(),
		Log:    Log{Level: "warn"},
		Output: Output{Format: string(report.FormatText)},
	}
}

// Validate checks configuration
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.By(validateSource)),
		validation.Field(&c.Policy, validation.Required),
		validation.Field(&c.Workers, validation.Min(0)),
		validation.Field(&c.Log),
		validation.Field(&c.Output),
	)
}

// Validate checks log configuration
func (l Log) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
	)
}

// Validate checks output configuration
func (o Output) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Format, validation.By(func(value interface{}) error {
			format, _ := value.(string)
			if format == "" {
				return nil
			}
			_, err := report.ParseFormat(format)
			return err
		})),
	)
}

func validateSource(value interface{}) error {
	source, _ := value.(*info.Config)
	if source == nil {
		return nil
	}
	return validation.ValidateStruct(source,
		validation.Field(&source.Extensions, validation.Required),
		validation.Field(&source.Exclusions, validation.Each(validation.By(validateExclusion))),
	)
}

func validateExclusion(value interface{}) error {
	pattern, _ := value.(string)
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid pattern %q", pattern)
	}
	return nil
}

// Load loads configuration from a YAML file with environment variable expansion.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// Resolve returns the effective configuration: defaults overlaid with the file at location,
// or the file named by ARCHGATE_CONFIG when location is empty.
func Resolve(location string) (*Config, error) {
	ret := NewDefaultConfig()
	if location == "" {
		location = os.Getenv(EnvConfig)
	}
	if location == "" {
		return ret, ret.Validate()
	}
	if err := Load(location, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
