package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/envbind/pkg/binding"
	"github.com/eugenenazirov/envbind/pkg/field"
)

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// document is the YAML layout of a schema file.
type document struct {
	Fields []entry `yaml:"fields" validate:"dive"`
}

type entry struct {
	Name        string         `yaml:"name" validate:"required,envname"`
	Type        string         `yaml:"type"`
	Default     *yaml.Node     `yaml:"default" validate:"-"`
	Args        []any          `yaml:"args"`
	NamedArgs   map[string]any `yaml:"named_args"`
	Factory     string         `yaml:"factory"`
	Secret      bool           `yaml:"secret"`
	Description string         `yaml:"description"`
}

// Field is one declared field with its CLI-only metadata.
type Field struct {
	Declaration field.Declaration
	Secret      bool
	Description string
}

// Schema is an ordered set of field declarations loaded from YAML.
type Schema struct {
	fields  []Field
	secrets map[string]struct{}
}

// Load reads and parses the schema file at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// Parse decodes a schema document. Unknown keys, type names and factory
// names are rejected. An empty document declares no fields.
func Parse(data []byte) (*Schema, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	if err := newValidator().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", field.ErrInvalidFieldSpec, err)
	}

	s := &Schema{secrets: make(map[string]struct{})}
	for _, e := range doc.Fields {
		decl, err := e.declaration()
		if err != nil {
			return nil, err
		}
		s.fields = append(s.fields, Field{Declaration: decl, Secret: e.Secret, Description: e.Description})
		if e.Secret {
			s.secrets[e.Name] = struct{}{}
		}
	}
	return s, nil
}

// Empty returns a schema without fields.
func Empty() *Schema {
	return &Schema{secrets: map[string]struct{}{}}
}

// Declarations returns the field declarations in file order.
func (s *Schema) Declarations() []field.Declaration {
	out := make([]field.Declaration, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.Declaration)
	}
	return out
}

// Fields returns the declared fields in file order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Secret reports whether the field called name must be masked on output.
func (s *Schema) Secret(name string) bool {
	_, ok := s.secrets[name]
	return ok
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("envname", func(fl validator.FieldLevel) bool {
		return envNamePattern.MatchString(fl.Field().String())
	})
	return v
}

func (e entry) declaration() (field.Declaration, error) {
	var t field.Type
	if e.Type != "" {
		known, ok := types[e.Type]
		if !ok {
			return field.Declaration{}, &field.InvalidSpecError{Field: e.Name, Reason: fmt.Sprintf("unknown type %q", e.Type)}
		}
		t = known
	}

	var factory field.Factory
	if e.Factory != "" {
		known, ok := factories[e.Factory]
		if !ok {
			return field.Declaration{}, &field.InvalidSpecError{Field: e.Name, Reason: fmt.Sprintf("factory %q is not defined", e.Factory)}
		}
		factory = known
	}

	def, hasDefault, err := e.defaultValue(t, factory != nil)
	if err != nil {
		return field.Declaration{}, err
	}

	if factory != nil || len(e.Args) > 0 || len(e.NamedArgs) > 0 {
		v := field.Variable{Type: t, Args: e.Args, NamedArgs: e.NamedArgs, Factory: factory}
		if hasDefault {
			v = v.WithDefault(def)
		}
		return field.Declare(e.Name, field.Explicit(v)), nil
	}

	var opts []field.DeclOption
	if !t.IsZero() {
		opts = append(opts, field.Hint(t))
	}
	if hasDefault {
		opts = append(opts, field.Default(def))
	}
	return field.Declare(e.Name, opts...), nil
}

// defaultValue turns the YAML default into a value of the field type. Typed
// scalars are parsed with the field type and constructor arguments; untyped
// ones keep the YAML type, which then becomes the inferred field type. A null
// default is the same as no default.
func (e entry) defaultValue(t field.Type, hasFactory bool) (any, bool, error) {
	node := e.Default
	if node == nil || node.ShortTag() == "!!null" {
		return nil, false, nil
	}
	if node.Kind != yaml.ScalarNode {
		return nil, false, &field.InvalidSpecError{Field: e.Name, Reason: "default must be a scalar"}
	}
	if t.IsZero() || hasFactory {
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, false, &field.InvalidSpecError{Field: e.Name, Reason: "invalid default", Err: err}
		}
		return v, true, nil
	}

	var (
		v   any
		err error
	)
	if ctor := t.Constructor(); ctor != nil && (len(e.Args) > 0 || len(e.NamedArgs) > 0) {
		v, err = ctor(node.Value, e.Args, e.NamedArgs)
	} else {
		v, err = binding.CastValue(t, node.Value)
	}
	if err != nil {
		return nil, false, &field.InvalidSpecError{Field: e.Name, Reason: "default does not match type " + e.Type, Err: err}
	}
	return v, true, nil
}
