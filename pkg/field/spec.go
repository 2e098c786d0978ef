package field

import "maps"

// Spec is the normalized, immutable descriptor of one field.
type Spec struct {
	name       string
	typ        Type
	def        any
	hasDefault bool
	args       []any
	named      map[string]any
	factory    Factory
	mismatch   bool
}

// Name is both the config key and the environment variable name.
func (s Spec) Name() string { return s.name }

// Type is the target type used for casting.
func (s Spec) Type() Type { return s.typ }

// Default returns the default value and whether one was declared.
func (s Spec) Default() (any, bool) { return s.def, s.hasDefault }

// Required reports whether the field has no default.
func (s Spec) Required() bool { return !s.hasDefault }

// Args returns a copy of the extra positional constructor arguments.
func (s Spec) Args() []any { return append([]any(nil), s.args...) }

// NamedArgs returns a copy of the extra named constructor arguments.
func (s Spec) NamedArgs() map[string]any { return maps.Clone(s.named) }

// Factory returns the value factory, or nil.
func (s Spec) Factory() Factory { return s.factory }

// DefaultMismatch reports that the declared default does not have the type
// the hint declares. The hint is still used for casting and the default is
// still returned unmodified when the variable is absent.
func (s Spec) DefaultMismatch() bool { return s.mismatch }
