package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/envbind/internal/application"
	"github.com/eugenenazirov/envbind/internal/config"
	"github.com/eugenenazirov/envbind/internal/logging"
	"github.com/eugenenazirov/envbind/pkg/binding"
)

// bindFlags are shared by every command that binds a schema.
type bindFlags struct {
	schema   *string
	envFiles *[]string
	prefixes *[]string
}

func addBindFlags(cmd *kingpin.CmdClause) bindFlags {
	return bindFlags{
		schema:   cmd.Flag("schema", "Path to YAML schema declaring the fields").String(),
		envFiles: cmd.Flag("env-file", "Dotenv file layered under the process environment (repeatable)").Strings(),
		prefixes: cmd.Flag("prefix", "Include undeclared variables starting with this prefix (repeatable)").Strings(),
	}
}

func (f bindFlags) apply(overrides *config.CLIOverrides) {
	if *f.schema != "" {
		overrides.SchemaFile = f.schema
	}
	overrides.EnvFiles = *f.envFiles
	overrides.Prefixes = *f.prefixes
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	kingpinApp := kingpin.New("envbind", "Binds typed configuration fields to environment variables")
	kingpinApp.UsageWriter(stderr)
	kingpinApp.ErrorWriter(stderr)
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()

	resolveCmd := kingpinApp.Command("resolve", "Resolve the schema against the environment and print the result").Default()
	resolveFlags := addBindFlags(resolveCmd)
	var validateSet bool
	validate := resolveCmd.Flag("validate", "Fail when a required field has no value").IsSetByUser(&validateSet).Bool()
	format := resolveCmd.Flag("format", "Output format").Enum(config.FormatYAML, config.FormatJSON, config.FormatDotenv)

	checkCmd := kingpinApp.Command("check", "Fail unless every required field has a value")
	checkFlags := addBindFlags(checkCmd)

	command, err := kingpinApp.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "envbind: %v\n", err)
		return 2
	}

	overrides := &config.CLIOverrides{ConfigFile: *configFile}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	switch command {
	case resolveCmd.FullCommand():
		resolveFlags.apply(overrides)
		if validateSet {
			overrides.Validate = validate
		}
		if *format != "" {
			overrides.Format = format
		}
	case checkCmd.FullCommand():
		checkFlags.apply(overrides)
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, logging.WithOutput(stderr))
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger, application.WithOutput(stdout))
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 1
	}

	switch command {
	case checkCmd.FullCommand():
		err = app.Check()
	default:
		err = app.Run()
	}
	if err != nil {
		logBindError(logger, err)
		return 1
	}
	return 0
}

func logBindError(logger *zap.Logger, err error) {
	var validationErr *binding.ValidationError
	var castErr *binding.CastError
	switch {
	case errors.As(err, &validationErr):
		logger.Error("environment is incomplete", zap.Strings("missing", validationErr.Missing), zap.Error(err))
	case errors.As(err, &castErr):
		logger.Error("environment value has the wrong type",
			zap.String("field", castErr.Field),
			zap.String("type", castErr.Type),
			zap.String("reason", castErr.Reason()),
		)
	default:
		logger.Error("failed to bind environment", zap.Error(err))
	}
}
