package field

import (
	"errors"
	"maps"
	"reflect"

	"go.uber.org/zap"
)

var errNoArgs = errors.New("only custom types with a constructor or an Unmarshaler take arguments")

// Resolver normalizes declarations into specs.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve normalizes decls with a silent Resolver.
func Resolve(decls []Declaration) ([]Spec, error) {
	return NewResolver(nil).Resolve(decls)
}

// Resolve returns one Spec per declaration, in declaration order. It never
// touches the environment; the only failures are malformed declarations.
func (r *Resolver) Resolve(decls []Declaration) ([]Spec, error) {
	specs := make([]Spec, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))

	for _, d := range decls {
		if d.Name == "" {
			return nil, invalid(d.Name, "empty name", nil)
		}
		if _, dup := seen[d.Name]; dup {
			return nil, invalid(d.Name, "declared more than once", nil)
		}
		seen[d.Name] = struct{}{}

		spec, err := r.resolveOne(d)
		if err != nil {
			return nil, err
		}
		if spec.mismatch {
			r.logger.Warn("default does not match declared type; declared type is used for casting",
				zap.String("field", spec.name),
				zap.Stringer("type", spec.typ),
				zap.String("default_type", reflect.TypeOf(spec.def).String()),
			)
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

func (r *Resolver) resolveOne(d Declaration) (Spec, error) {
	switch {
	case d.Variable != nil:
		return resolveVariable(d)

	case d.HasDefault && !d.Hint.IsZero():
		spec := Spec{name: d.Name, typ: d.Hint, def: d.Default, hasDefault: true}
		spec.mismatch = d.Default != nil && reflect.TypeOf(d.Default) != d.Hint.Reflect()
		return spec, nil

	case d.HasDefault:
		t, err := TypeOfValue(d.Default)
		if err != nil {
			return Spec{}, invalid(d.Name, "cannot infer type from default", err)
		}
		return Spec{name: d.Name, typ: t, def: d.Default, hasDefault: true}, nil

	case !d.Hint.IsZero():
		return Spec{name: d.Name, typ: d.Hint}, nil

	default:
		return Spec{name: d.Name, typ: String}, nil
	}
}

func resolveVariable(d Declaration) (Spec, error) {
	v := d.Variable

	if d.HasDefault {
		return Spec{}, invalid(d.Name, "default must be declared on the variable", nil)
	}
	if v.Type.IsZero() && v.Factory == nil {
		return Spec{}, invalid(d.Name, "variable needs a type or a factory", nil)
	}
	if !v.Type.IsZero() && !d.Hint.IsZero() && !v.Type.Same(d.Hint) {
		return Spec{}, invalid(d.Name, "type hint "+d.Hint.String()+" conflicts with variable type "+v.Type.String(), nil)
	}

	hasArgs := len(v.Args) > 0 || len(v.NamedArgs) > 0
	if hasArgs && v.Factory != nil {
		return Spec{}, invalid(d.Name, "constructor arguments cannot be combined with a factory", nil)
	}
	if hasArgs && !v.Type.AcceptsArgs() {
		return Spec{}, invalid(d.Name, "type "+v.Type.String()+" does not accept constructor arguments", errNoArgs)
	}

	t := v.Type
	if t.IsZero() {
		t = d.Hint
	}
	if t.IsZero() && v.HasDefault && v.Default != nil {
		// Best effort; a factory alone is enough to produce values.
		if inferred, err := TypeOfValue(v.Default); err == nil {
			t = inferred
		}
	}

	return Spec{
		name:       d.Name,
		typ:        t,
		def:        v.Default,
		hasDefault: v.HasDefault,
		args:       append([]any(nil), v.Args...),
		named:      maps.Clone(v.NamedArgs),
		factory:    v.Factory,
	}, nil
}

