package util

import (
	"reflect"
	"strings"

	"github.com/hupe1980/helpermesh/core"
)

// ParametersFromStruct derives parameter metadata from a struct using
// reflection, in field order. Field names follow the json tag; the
// description tag documents the parameter. Fields tagged omitempty or of
// pointer type are optional, pointer fields are also nullable.
func ParametersFromStruct(structType any) []core.ParameterMetadata {
	t := reflect.TypeOf(structType)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	params := make([]core.ParameterMetadata, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			if parts := strings.Split(jsonTag, ","); parts[0] != "" {
				name = parts[0]
			}
		}

		params = append(params, core.ParameterMetadata{
			Name:        name,
			Description: field.Tag.Get("description"),
			Type:        parameterType(field.Type),
			Required:    !hasOmitEmpty(jsonTag) && !isPointer(field.Type),
			Nullable:    isPointer(field.Type),
		})
	}

	return params
}

// CreateSchema renders parameters as a JSON schema object, the shape model
// providers and schema validators expect.
func CreateSchema(params []core.ParameterMetadata) map[string]any {
	properties := make(map[string]any, len(params))
	required := make([]string, 0)

	for _, p := range params {
		prop := map[string]any{}
		for k, v := range p.Schema {
			prop[k] = v
		}
		if t := p.EffectiveType(); t != core.TypeUnspecified {
			if p.IsNullable() {
				prop["type"] = []any{t.String(), "null"}
			} else {
				prop["type"] = t.String()
			}
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// parameterType returns the parameter type for a given Go type.
func parameterType(t reflect.Type) core.ParameterType {
	switch t.Kind() {
	case reflect.String:
		return core.TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return core.TypeInteger
	case reflect.Float32, reflect.Float64:
		return core.TypeNumber
	case reflect.Bool:
		return core.TypeBoolean
	case reflect.Slice, reflect.Array:
		return core.TypeArray
	case reflect.Map, reflect.Struct:
		return core.TypeObject
	case reflect.Ptr:
		return parameterType(t.Elem())
	default:
		return core.TypeUnspecified
	}
}

// hasOmitEmpty checks if a JSON tag has the "omitempty" option.
func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}

// isPointer checks if a type is a pointer.
func isPointer(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr
}
