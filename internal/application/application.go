package application

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/envbind/internal/config"
	"github.com/eugenenazirov/envbind/internal/schema"
	"github.com/eugenenazirov/envbind/pkg/binding"
	"github.com/eugenenazirov/envbind/pkg/environment"
)

// Option configures New.
type Option func(*App)

// WithEnvironment replaces the process environment (primarily for tests).
func WithEnvironment(snap environment.Snapshot) Option {
	return func(a *App) {
		a.base = &snap
	}
}

// WithOutput sets where resolved configuration is written.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// App encapsulates the loaded schema, the environment snapshot and output.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	schema *schema.Schema
	env    environment.Snapshot
	base   *environment.Snapshot
	out    io.Writer
}

// New loads the schema and env files named by cfg and snapshots the
// environment. Process variables override values from env files.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	app := &App{cfg: cfg, logger: logger, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	app.schema = schema.Empty()
	if cfg.SchemaFile != "" {
		s, err := schema.Load(cfg.SchemaFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		app.schema = s
	}

	base := environment.FromOS()
	if app.base != nil {
		base = *app.base
	}

	env := base
	if len(cfg.EnvFiles) > 0 {
		files, err := environment.FromDotenv(cfg.EnvFiles...)
		if err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
		env, err = environment.Merge(files, base)
		if err != nil {
			return nil, err
		}
	}
	app.env = env

	logger.Debug("application initialised",
		zap.String("schema", cfg.SchemaFile),
		zap.Int("fields", len(app.schema.Declarations())),
		zap.Strings("env_files", cfg.EnvFiles),
		zap.Strings("prefixes", cfg.Prefixes),
	)
	return app, nil
}

// Resolve binds the schema against the environment snapshot.
func (a *App) Resolve() (*binding.Config, error) {
	return a.bind(a.cfg.Validate)
}

// Run resolves the configuration and writes it in the configured format.
func (a *App) Run() error {
	resolved, err := a.Resolve()
	if err != nil {
		return err
	}
	return Render(a.out, a.cfg.Format, resolved, a.schema)
}

// Check binds with validation enabled and reports the outcome.
func (a *App) Check() error {
	resolved, err := a.bind(true)
	if err != nil {
		return err
	}
	a.logger.Info("environment satisfies schema",
		zap.Int("declared", len(resolved.Declared())),
		zap.Int("discovered", len(resolved.Discovered())),
	)
	return nil
}

func (a *App) bind(validate bool) (*binding.Config, error) {
	return binding.Load(a.schema.Declarations(),
		binding.WithEnvironment(a.env),
		binding.WithValidation(validate),
		binding.WithPrefixes(a.cfg.Prefixes...),
		binding.WithLogger(a.logger),
	)
}
