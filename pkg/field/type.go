package field

import (
	"encoding"
	"fmt"
	"reflect"
	"time"
)

// Kind selects the casting rule applied to a raw environment value.
type Kind uint8

// Casting rules. KindInvalid is the Kind of the zero Type.
const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindBool
	KindCustom
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindBool:    "bool",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Unmarshaler is implemented by types that can construct themselves from a
// raw environment value. args and named carry the extra constructor
// arguments declared on the field; both are empty when none were given.
type Unmarshaler interface {
	UnmarshalEnv(raw string, args []any, named map[string]any) error
}

// Constructor builds the final value of a custom type from a raw value.
type Constructor func(raw string, args []any, named map[string]any) (any, error)

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType        = reflect.TypeFor[time.Duration]()
)

// Type is the target type of a field.
type Type struct {
	kind      Kind
	rtype     reflect.Type
	construct Constructor
}

// Predeclared types.
var (
	String   = Type{kind: KindString, rtype: reflect.TypeFor[string]()}
	Int      = Type{kind: KindInt, rtype: reflect.TypeFor[int]()}
	Int64    = Type{kind: KindInt, rtype: reflect.TypeFor[int64]()}
	Uint     = Type{kind: KindUint, rtype: reflect.TypeFor[uint]()}
	Float    = Type{kind: KindFloat, rtype: reflect.TypeFor[float64]()}
	Bool     = Type{kind: KindBool, rtype: reflect.TypeFor[bool]()}
	Duration = Constructed(func(raw string, _ []any, _ map[string]any) (time.Duration, error) {
		return time.ParseDuration(raw)
	})
)

// TypeFor classifies T. Primitive kinds (including named types such as
// `type Port int`) use the primitive casting rules, time.Duration is parsed
// with time.ParseDuration, and types whose pointer implements Unmarshaler or
// encoding.TextUnmarshaler are custom types, as are pointer types that
// implement them directly. Anything else is rejected.
func TypeFor[T any]() (Type, error) {
	return typeOf(reflect.TypeFor[T]())
}

// MustTypeFor is like TypeFor but panics on error. It simplifies package
// level type variables.
func MustTypeFor[T any]() Type {
	t, err := TypeFor[T]()
	if err != nil {
		panic(err)
	}
	return t
}

// Constructed returns a custom type built by fn.
func Constructed[T any](fn func(raw string, args []any, named map[string]any) (T, error)) Type {
	return Type{
		kind:  KindCustom,
		rtype: reflect.TypeFor[T](),
		construct: func(raw string, args []any, named map[string]any) (any, error) {
			return fn(raw, args, named)
		},
	}
}

// TypeOfValue infers the type of a default value.
func TypeOfValue(v any) (Type, error) {
	if v == nil {
		return Type{}, fmt.Errorf("cannot infer type of nil default")
	}
	return typeOf(reflect.TypeOf(v))
}

func typeOf(rt reflect.Type) (Type, error) {
	if rt == nil {
		return Type{}, fmt.Errorf("nil type")
	}
	if rt == durationType {
		return Duration, nil
	}

	// Capabilities win over the underlying kind so that a named string
	// implementing Unmarshaler is constructed, not copied.
	ptr := reflect.PointerTo(rt)
	if ptr.Implements(unmarshalerType) || ptr.Implements(textUnmarshalerType) {
		return Type{kind: KindCustom, rtype: rt}, nil
	}
	// Pointer types such as *big.Int are allocated and filled in place.
	if rt.Kind() == reflect.Pointer && (rt.Implements(unmarshalerType) || rt.Implements(textUnmarshalerType)) {
		return Type{kind: KindCustom, rtype: rt}, nil
	}

	switch rt.Kind() {
	case reflect.String:
		return Type{kind: KindString, rtype: rt}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Type{kind: KindInt, rtype: rt}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Type{kind: KindUint, rtype: rt}, nil
	case reflect.Float32, reflect.Float64:
		return Type{kind: KindFloat, rtype: rt}, nil
	case reflect.Bool:
		return Type{kind: KindBool, rtype: rt}, nil
	}
	return Type{}, fmt.Errorf("type %s is not constructible from an environment value", rt)
}

// Kind reports the casting rule of t.
func (t Type) Kind() Kind { return t.kind }

// Reflect returns the Go type of the values t produces.
func (t Type) Reflect() reflect.Type { return t.rtype }

// Constructor returns the explicit constructor of a custom type, if any.
func (t Type) Constructor() Constructor { return t.construct }

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool { return t.kind == KindInvalid }

// IsPrimitive reports whether t is cast with one of the fixed primitive rules.
func (t Type) IsPrimitive() bool {
	switch t.kind {
	case KindString, KindInt, KindUint, KindFloat, KindBool:
		return true
	}
	return false
}

// AcceptsArgs reports whether values of t can be constructed with extra
// constructor arguments.
func (t Type) AcceptsArgs() bool {
	if t.kind != KindCustom {
		return false
	}
	if t.construct != nil {
		return true
	}
	if t.rtype.Kind() == reflect.Pointer && t.rtype.Implements(unmarshalerType) {
		return true
	}
	return reflect.PointerTo(t.rtype).Implements(unmarshalerType)
}

// Same reports whether t and o produce the same Go type with the same rule.
func (t Type) Same(o Type) bool {
	return t.kind == o.kind && t.rtype == o.rtype
}

func (t Type) String() string {
	if t.rtype == nil {
		return t.kind.String()
	}
	return t.rtype.String()
}
