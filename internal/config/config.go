package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/envbind/internal/logging"
	"github.com/eugenenazirov/envbind/pkg/binding"
	"github.com/eugenenazirov/envbind/pkg/field"
)

const (
	defaultFormat = FormatYAML

	envSchema   = "ENVBIND_SCHEMA"
	envEnvFiles = "ENVBIND_ENV_FILES"
	envPrefixes = "ENVBIND_PREFIXES"
	envValidate = "ENVBIND_VALIDATE"
	envFormat   = "ENVBIND_FORMAT"
	envLogLevel = "ENVBIND_LOG_LEVEL"
)

// Output formats.
const (
	FormatYAML   = "yaml"
	FormatJSON   = "json"
	FormatDotenv = "dotenv"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	SchemaFile string
	EnvFiles   []string
	Prefixes   []string
	Validate   bool
	Format     string `validate:"oneof=yaml json dotenv"`
	LogLevel   string `validate:"oneof=debug info warn error dpanic panic fatal"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Schema   string   `yaml:"schema"`
	EnvFiles []string `yaml:"env_files"`
	Prefixes []string `yaml:"prefixes"`
	Validate *bool    `yaml:"validate"`
	Format   string   `yaml:"format"`
	LogLevel string   `yaml:"log_level"`
}

// envConfig receives the ENVBIND_* variables; nil means unset.
type envConfig struct {
	SchemaFile *string  `env:"ENVBIND_SCHEMA"`
	EnvFiles   []string `env:"ENVBIND_ENV_FILES"`
	Prefixes   []string `env:"ENVBIND_PREFIXES"`
	Validate   *bool    `env:"ENVBIND_VALIDATE"`
	Format     *string  `env:"ENVBIND_FORMAT"`
	LogLevel   *string  `env:"ENVBIND_LOG_LEVEL"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile string
	SchemaFile *string
	EnvFiles   []string
	Prefixes   []string
	Validate   *bool
	Format     *string
	LogLevel   *string
}

var listField = field.Variable{Factory: func(raw string) (any, error) {
	return splitList(raw), nil
}}

var envDeclarations = []field.Declaration{
	field.Declare(envSchema),
	field.Declare(envEnvFiles, field.Explicit(listField)),
	field.Declare(envPrefixes, field.Explicit(listField)),
	field.Declare(envValidate, field.Hint(field.Bool)),
	field.Declare(envFormat),
	field.Declare(envLogLevel),
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("load environment config: %w", err)
	}

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Format:   defaultFormat,
		LogLevel: logging.DefaultLevel,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Schema != "" {
		cfg.SchemaFile = yamlCfg.Schema
	}
	if len(yamlCfg.EnvFiles) > 0 {
		cfg.EnvFiles = yamlCfg.EnvFiles
	}
	if len(yamlCfg.Prefixes) > 0 {
		cfg.Prefixes = yamlCfg.Prefixes
	}
	if yamlCfg.Validate != nil {
		cfg.Validate = *yamlCfg.Validate
	}
	if yamlCfg.Format != "" {
		cfg.Format = yamlCfg.Format
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
}

// applyEnvConfig applies the ENVBIND_* environment variables.
func applyEnvConfig(cfg *Config) error {
	resolved, err := binding.Load(envDeclarations)
	if err != nil {
		return err
	}

	var env envConfig
	if err := resolved.Decode(&env); err != nil {
		return err
	}

	if env.SchemaFile != nil && *env.SchemaFile != "" {
		cfg.SchemaFile = *env.SchemaFile
	}
	if len(env.EnvFiles) > 0 {
		cfg.EnvFiles = env.EnvFiles
	}
	if len(env.Prefixes) > 0 {
		cfg.Prefixes = env.Prefixes
	}
	if env.Validate != nil {
		cfg.Validate = *env.Validate
	}
	if env.Format != nil && *env.Format != "" {
		cfg.Format = strings.ToLower(*env.Format)
	}
	if env.LogLevel != nil && *env.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(*env.LogLevel)
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.SchemaFile != nil && *overrides.SchemaFile != "" {
		cfg.SchemaFile = *overrides.SchemaFile
	}
	if len(overrides.EnvFiles) > 0 {
		cfg.EnvFiles = overrides.EnvFiles
	}
	if len(overrides.Prefixes) > 0 {
		cfg.Prefixes = overrides.Prefixes
	}
	if overrides.Validate != nil {
		cfg.Validate = *overrides.Validate
	}
	if overrides.Format != nil && *overrides.Format != "" {
		cfg.Format = *overrides.Format
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, prefix := range cfg.Prefixes {
		if prefix == "" {
			return fmt.Errorf("prefixes cannot be empty strings")
		}
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
