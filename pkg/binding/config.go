package binding

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the resolved configuration. It is never modified after Bind
// returns and is safe for concurrent reads.
//
// Declared fields that ended up without a value (absent, no default,
// validation off) are not part of the mapping; Unset lists them.
type Config struct {
	values     map[string]any
	declared   []string
	discovered []string
	unset      []string
}

func (c *Config) set(name string, value any) {
	c.values[name] = value
	c.declared = append(c.declared, name)
}

// Lookup returns the value of name and whether it is present.
func (c *Config) Lookup(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Value returns the value of name, or nil when it is absent.
func (c *Config) Value(name string) any {
	return c.values[name]
}

// Has reports whether name is present.
func (c *Config) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Len returns the number of present keys.
func (c *Config) Len() int { return len(c.values) }

// Keys returns the resolved declared fields in declaration order, followed by
// the prefix-discovered variables in sorted order.
func (c *Config) Keys() []string {
	out := make([]string, 0, len(c.declared)+len(c.discovered))
	out = append(out, c.declared...)
	return append(out, c.discovered...)
}

// Declared returns the resolved declared fields in declaration order.
func (c *Config) Declared() []string { return append([]string(nil), c.declared...) }

// Discovered returns the prefix-discovered variables in sorted order.
func (c *Config) Discovered() []string { return append([]string(nil), c.discovered...) }

// Unset returns the declared fields left without a value.
func (c *Config) Unset() []string { return append([]string(nil), c.unset...) }

// Map returns a copy of all present values.
func (c *Config) Map() map[string]any {
	out := maps.Clone(c.values)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Decode copies the values into the struct pointed to by dst. Fields are
// matched by their `env` tag, or by name when the tag is missing.
func (c *Config) Decode(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "env",
		Result:  dst,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(c.values); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Get returns the value of name as a T. A nil default yields the zero T.
func Get[T any](c *Config, name string) (T, error) {
	var zero T
	v, ok := c.values[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnset, name)
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, not %s", ErrTypeMismatch, name, v, reflect.TypeFor[T]())
	}
	return typed, nil
}
