package bridge

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/hupe1980/helpermesh/core"
)

// IsCompatible decides whether argument may bind to parameter. Rules, first
// match wins:
//
//  1. the parameter's effective type is unspecified: compatible
//  2. nil binds only to nullable parameters
//  3. the argument's runtime type equals the effective type: compatible
//  4. the effective type is numeric and the argument is numeric, or its
//     textual form parses as a numeric literal: compatible
//  5. otherwise incompatible
//
// IsCompatible is pure and never panics.
func IsCompatible(parameter core.ParameterMetadata, argument any) bool {
	expected := parameter.EffectiveType()
	if expected == core.TypeUnspecified {
		return true
	}

	if isNil(argument) {
		return parameter.IsNullable()
	}

	actual := TypeOf(argument)
	if actual == expected {
		return true
	}

	if expected.IsNumeric() {
		return actual.IsNumeric() || ParsesAsNumber(fmt.Sprint(argument))
	}

	return false
}

// TypeOf classifies a runtime value into the closed ParameterType set.
// Pointers are dereferenced; nil classifies as TypeUnspecified.
func TypeOf(v any) core.ParameterType {
	if v == nil {
		return core.TypeUnspecified
	}
	if _, ok := v.(json.Number); ok {
		return core.TypeNumber
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return core.TypeUnspecified
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return core.TypeString
	case reflect.Bool:
		return core.TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return core.TypeInteger
	case reflect.Float32, reflect.Float64:
		return core.TypeNumber
	case reflect.Slice, reflect.Array:
		return core.TypeArray
	case reflect.Map, reflect.Struct:
		return core.TypeObject
	default:
		return core.TypeUnspecified
	}
}

// ParsesAsNumber reports whether s is numeric text as understood by
// core.ParseNumber, the parser functions read their arguments with.
func ParsesAsNumber(s string) bool {
	_, ok := core.ParseNumber(s)
	return ok
}

// typeName renders the runtime type of v for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
