// Package config loads the envbind CLI configuration from multiple sources
// (YAML files, ENVBIND_* environment variables, CLI flags) with precedence:
// CLI flags > YAML config > Environment variables > Defaults. The
// environment layer is itself read with pkg/binding.
package config
