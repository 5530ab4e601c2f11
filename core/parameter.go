package core

import (
	"fmt"
	"strings"
)

// ParameterType is the closed set of type tags a function parameter can declare.
// The names mirror JSON schema primitive types so manifests and schemas share
// one vocabulary.
type ParameterType int

const (
	// TypeUnspecified means the parameter accepts any value.
	TypeUnspecified ParameterType = iota
	// TypeString is a text value.
	TypeString
	// TypeInteger is a whole number.
	TypeInteger
	// TypeNumber is any numeric value.
	TypeNumber
	// TypeBoolean is a true/false value.
	TypeBoolean
	// TypeArray is an ordered list of values.
	TypeArray
	// TypeObject is a key/value mapping or struct.
	TypeObject
)

var parameterTypeNames = map[ParameterType]string{
	TypeUnspecified: "",
	TypeString:      "string",
	TypeInteger:     "integer",
	TypeNumber:      "number",
	TypeBoolean:     "boolean",
	TypeArray:       "array",
	TypeObject:      "object",
}

// String returns the JSON schema name of the type ("" for TypeUnspecified).
func (t ParameterType) String() string {
	if s, ok := parameterTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ParameterType(%d)", int(t))
}

// IsNumeric reports whether the type is TypeInteger or TypeNumber.
func (t ParameterType) IsNumeric() bool {
	return t == TypeInteger || t == TypeNumber
}

// ParseParameterType converts a JSON schema type name into a ParameterType.
// The empty string and "any" map to TypeUnspecified.
func ParseParameterType(s string) (ParameterType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return TypeUnspecified, nil
	case "string":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "number", "float", "double":
		return TypeNumber, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "array":
		return TypeArray, nil
	case "object":
		return TypeObject, nil
	default:
		return TypeUnspecified, fmt.Errorf("unknown parameter type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ParameterType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ParameterType) UnmarshalText(b []byte) error {
	pt, err := ParseParameterType(string(b))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}

// ParameterMetadata describes one declared parameter of a function.
type ParameterMetadata struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Type        ParameterType  `json:"type,omitempty" yaml:"type,omitempty"`
	Nullable    bool           `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	// Default documents the value a function falls back to. The bridge never
	// binds it; functions apply their own defaults.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`
}

// EffectiveType returns the declared Type, or the type derived from Schema
// when no type is declared. A "null" member of a schema type list is the
// optional wrapper and is stripped.
func (p ParameterMetadata) EffectiveType() ParameterType {
	if p.Type != TypeUnspecified {
		return p.Type
	}
	t, _ := schemaType(p.Schema)
	return t
}

// IsNullable reports whether the parameter accepts nil, either through the
// Nullable flag or a schema type list containing "null".
func (p ParameterMetadata) IsNullable() bool {
	if p.Nullable {
		return true
	}
	_, nullable := schemaType(p.Schema)
	return nullable
}

// ExpectedTypeName renders the expected type for error messages.
func (p ParameterMetadata) ExpectedTypeName() string {
	if t := p.EffectiveType(); t != TypeUnspecified {
		return t.String()
	}
	return "any"
}

// schemaType extracts the primitive type of a JSON schema fragment. It returns
// the first non-null member and whether "null" was listed.
func schemaType(schema map[string]any) (ParameterType, bool) {
	if schema == nil {
		return TypeUnspecified, false
	}

	var names []string
	switch v := schema["type"].(type) {
	case string:
		names = []string{v}
	case []string:
		names = v
	case []any:
		for _, n := range v {
			if s, ok := n.(string); ok {
				names = append(names, s)
			}
		}
	}

	result, nullable := TypeUnspecified, false
	for _, n := range names {
		if n == "null" {
			nullable = true
			continue
		}
		if result != TypeUnspecified {
			continue
		}
		if t, err := ParseParameterType(n); err == nil {
			result = t
		}
	}
	return result, nullable
}
