package binding

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eugenenazirov/envbind/pkg/environment"
	"github.com/eugenenazirov/envbind/pkg/field"
)

// Load resolves decls and binds them against the environment selected with
// WithEnvironment, or a fresh snapshot of the process environment.
func Load(decls []field.Declaration, opts ...Option) (*Config, error) {
	o := newOptions(opts)

	specs, err := field.NewResolver(o.logger).Resolve(decls)
	if err != nil {
		return nil, err
	}

	env := environment.FromOS()
	if o.env != nil {
		env = *o.env
	}
	return bind(specs, env, o)
}

// Bind resolves every spec against env. It fails on the first value that
// cannot be cast; with validation enabled it reports all missing required
// fields at once. No Config is returned on failure.
func Bind(specs []field.Spec, env environment.Snapshot, opts ...Option) (*Config, error) {
	return bind(specs, env, newOptions(opts))
}

func bind(specs []field.Spec, env environment.Snapshot, o options) (*Config, error) {
	cfg := &Config{values: make(map[string]any, len(specs))}
	declared := make(map[string]struct{}, len(specs))
	var missing error

	for _, spec := range specs {
		name := spec.Name()
		declared[name] = struct{}{}

		if raw, ok := env.Lookup(name); ok {
			value, err := Cast(spec, raw)
			if err != nil {
				return nil, err
			}
			cfg.set(name, value)
			continue
		}

		if def, ok := spec.Default(); ok {
			cfg.set(name, def)
			continue
		}

		if o.validate {
			missing = multierr.Append(missing, &MissingError{Field: name})
			continue
		}
		cfg.unset = append(cfg.unset, name)
	}

	for _, key := range env.WithPrefix(o.prefixes...) {
		if _, ok := declared[key]; ok {
			continue
		}
		raw, _ := env.Lookup(key)
		cfg.values[key] = raw
		cfg.discovered = append(cfg.discovered, key)
	}

	if missing != nil {
		return nil, newValidationError(missing)
	}

	o.logger.Debug("environment bound",
		zap.Int("declared", len(specs)),
		zap.Int("resolved", len(cfg.declared)),
		zap.Int("discovered", len(cfg.discovered)),
		zap.Strings("unset", cfg.unset),
	)
	return cfg, nil
}
