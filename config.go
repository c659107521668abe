// Package carbonparser carries the configuration shared by the
// carbon-parser command-line tool. The parsing engine itself lives in
// the parser and tokenizer subpackages and needs no configuration.
package carbonparser

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Version is the released version of the carbon-parser tool.
const Version = "0.1.2"

// Config represents the carbon-parser configuration
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Output OutputConfig `yaml:"output"`
}

// ParserConfig represents parsing limits
type ParserConfig struct {
	// MaxDepth bounds expression nesting; 0 disables the limit.
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig represents CLI output settings
type OutputConfig struct {
	Color   string `yaml:"color"` // auto, always, never
	Verbose bool   `yaml:"verbose"`
}

func getDefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Color: "auto"},
	}
}

// LoadConfig loads configuration from the given path. A missing file
// yields the defaults. A .env file in the working directory is loaded
// first so the YAML can rely on exported variables.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := getDefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Parser.MaxDepth < 0 {
		return fmt.Errorf("%w: parser.max_depth must not be negative", ErrConfigValidation)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: output.color must be auto, always, or never", ErrConfigValidation)
	}

	return nil
}

func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}
