package binding

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/eugenenazirov/envbind/pkg/field"
)

var (
	truthy = map[string]struct{}{"true": {}, "1": {}, "yes": {}, "on": {}}
	falsy  = map[string]struct{}{"false": {}, "0": {}, "no": {}, "off": {}}

	errInvalidBool = errors.New("expected one of true, 1, yes, on, false, 0, no, off")
	errNoType      = errors.New("field has neither a type nor a factory")
)

// Cast converts raw to the final value of spec: the factory wins, then the
// custom constructor, then the primitive rules.
func Cast(spec field.Spec, raw string) (any, error) {
	value, err := castSpec(spec, raw)
	if err != nil {
		return nil, &CastError{Field: spec.Name(), Value: raw, Type: typeName(spec), Err: err}
	}
	return value, nil
}

// CastValue converts raw to t without extra constructor arguments.
func CastValue(t field.Type, raw string) (any, error) {
	value, err := castType(t, raw, nil, nil)
	if err != nil {
		return nil, &CastError{Value: raw, Type: t.String(), Err: err}
	}
	return value, nil
}

func castSpec(spec field.Spec, raw string) (any, error) {
	if factory := spec.Factory(); factory != nil {
		return factory(raw)
	}
	return castType(spec.Type(), raw, spec.Args(), spec.NamedArgs())
}

func castType(t field.Type, raw string, args []any, named map[string]any) (any, error) {
	rt := t.Reflect()

	switch t.Kind() {
	case field.KindString:
		return reflect.ValueOf(raw).Convert(rt).Interface(), nil

	case field.KindInt:
		n, err := strconv.ParseInt(raw, 10, rt.Bits())
		if err != nil {
			return nil, err
		}
		v := reflect.New(rt).Elem()
		v.SetInt(n)
		return v.Interface(), nil

	case field.KindUint:
		n, err := strconv.ParseUint(raw, 10, rt.Bits())
		if err != nil {
			return nil, err
		}
		v := reflect.New(rt).Elem()
		v.SetUint(n)
		return v.Interface(), nil

	case field.KindFloat:
		f, err := strconv.ParseFloat(raw, rt.Bits())
		if err != nil {
			return nil, err
		}
		v := reflect.New(rt).Elem()
		v.SetFloat(f)
		return v.Interface(), nil

	case field.KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return nil, err
		}
		v := reflect.New(rt).Elem()
		v.SetBool(b)
		return v.Interface(), nil

	case field.KindCustom:
		return construct(t, raw, args, named)
	}

	return nil, errNoType
}

func construct(t field.Type, raw string, args []any, named map[string]any) (any, error) {
	if ctor := t.Constructor(); ctor != nil {
		return ctor(raw, args, named)
	}

	rt := t.Reflect()
	isPtr := rt.Kind() == reflect.Pointer
	if isPtr {
		rt = rt.Elem()
	}
	ptr := reflect.New(rt)
	switch u := ptr.Interface().(type) {
	case field.Unmarshaler:
		if err := u.UnmarshalEnv(raw, args, named); err != nil {
			return nil, err
		}
	case encoding.TextUnmarshaler:
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("type %s is not constructible from an environment value", t)
	}
	if isPtr {
		return ptr.Interface(), nil
	}
	return ptr.Elem().Interface(), nil
}

func parseBool(raw string) (bool, error) {
	lower := strings.ToLower(raw)
	if _, ok := truthy[lower]; ok {
		return true, nil
	}
	if _, ok := falsy[lower]; ok {
		return false, nil
	}
	return false, errInvalidBool
}

func typeName(spec field.Spec) string {
	if spec.Type().IsZero() {
		return "factory result"
	}
	return spec.Type().String()
}
