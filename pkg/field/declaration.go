package field

import "maps"

// Factory produces the final value of a field from its raw environment value.
type Factory func(raw string) (any, error)

// Variable is an explicit custom-constructor declaration. When set on a
// Declaration it is used as the field's spec verbatim.
type Variable struct {
	Type       Type
	Default    any
	HasDefault bool
	Args       []any
	NamedArgs  map[string]any
	Factory    Factory
}

// WithDefault returns a copy of v with def as its default value.
func (v Variable) WithDefault(def any) Variable {
	v.Default = def
	v.HasDefault = true
	return v
}

// Declaration is one registered configuration field before resolution.
type Declaration struct {
	Name       string
	Hint       Type
	Default    any
	HasDefault bool
	Variable   *Variable
}

// DeclOption configures a Declaration.
type DeclOption func(*Declaration)

// Hint attaches a type annotation.
func Hint(t Type) DeclOption {
	return func(d *Declaration) {
		d.Hint = t
	}
}

// Default attaches a default value. The value is returned as is when the
// variable is absent, so it must already have the field's final type.
func Default(v any) DeclOption {
	return func(d *Declaration) {
		d.Default = v
		d.HasDefault = true
	}
}

// Explicit attaches a custom-constructor declaration.
func Explicit(v Variable) DeclOption {
	return func(d *Declaration) {
		v.Args = append([]any(nil), v.Args...)
		v.NamedArgs = maps.Clone(v.NamedArgs)
		d.Variable = &v
	}
}

// Declare builds a Declaration for the environment variable name.
func Declare(name string, opts ...DeclOption) Declaration {
	d := Declaration{Name: name}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
