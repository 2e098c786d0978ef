package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envSchema, envEnvFiles, envPrefixes, envValidate, envFormat, envLogLevel} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Format != defaultFormat {
		t.Fatalf("expected default format %s, got %s", defaultFormat, cfg.Format)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %s", cfg.LogLevel)
	}
	if cfg.Validate || cfg.SchemaFile != "" || len(cfg.Prefixes) != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(envSchema, "schema.yaml")
	t.Setenv(envPrefixes, "APP_, DB_ ,")
	t.Setenv(envValidate, "yes")
	t.Setenv(envFormat, "JSON")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.SchemaFile != "schema.yaml" {
		t.Fatalf("expected schema from env, got %q", cfg.SchemaFile)
	}
	if want := []string{"APP_", "DB_"}; !slices.Equal(cfg.Prefixes, want) {
		t.Fatalf("expected prefixes %v, got %v", want, cfg.Prefixes)
	}
	if !cfg.Validate {
		t.Fatalf("expected validation enabled from env")
	}
	if cfg.Format != FormatJSON {
		t.Fatalf("expected json format, got %s", cfg.Format)
	}
}

func TestLoadInvalidEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(envValidate, "maybe")

	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for unparsable %s", envValidate)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(envSchema, "from-env.yaml")
	t.Setenv(envFormat, "dotenv")
	t.Setenv(envLogLevel, "warn")

	configFile := writeFile(t, "envbind.yaml", `
schema: from-yaml.yaml
format: json
validate: true
prefixes: [YAML_]
`)

	format := "yaml"
	cfg, err := Load(&CLIOverrides{
		ConfigFile: configFile,
		Format:     &format,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.SchemaFile != "from-yaml.yaml" {
		t.Fatalf("expected YAML to override env, got %q", cfg.SchemaFile)
	}
	if cfg.Format != FormatYAML {
		t.Fatalf("expected CLI to override YAML, got %s", cfg.Format)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected env log level to survive, got %s", cfg.LogLevel)
	}
	if !cfg.Validate || !slices.Equal(cfg.Prefixes, []string{"YAML_"}) {
		t.Fatalf("unexpected YAML values: %+v", cfg)
	}
}

func TestLoadCLIOverrides(t *testing.T) {
	clearEnv(t)

	schemaFile := "cli.yaml"
	validate := true
	cfg, err := Load(&CLIOverrides{
		SchemaFile: &schemaFile,
		EnvFiles:   []string{".env", ".env.local"},
		Prefixes:   []string{"TERM"},
		Validate:   &validate,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SchemaFile != schemaFile || !cfg.Validate {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if !slices.Equal(cfg.EnvFiles, []string{".env", ".env.local"}) || !slices.Equal(cfg.Prefixes, []string{"TERM"}) {
		t.Fatalf("unexpected lists: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	format := "xml"
	if _, err := Load(&CLIOverrides{Format: &format}); err == nil {
		t.Fatalf("expected error for unknown format")
	}

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}

	broken := writeFile(t, "broken.yaml", "format: [")
	if _, err := Load(&CLIOverrides{ConfigFile: broken}); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a, ,b "); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected list: %v", got)
	}
	if got := splitList(""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
