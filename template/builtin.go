package template

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/hupe1980/helpermesh/core"
)

func builtinHelpers() map[string]any {
	return map[string]any{
		"hash": hash,
		"default": func(defaultVal any, val any) any {
			if val == nil || val == "" {
				return defaultVal
			}
			return val
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": func(s string) string {
			r, size := utf8.DecodeRuneInString(s)
			if size == 0 {
				return s
			}
			return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
		},
		"join": func(sep string, items any) (string, error) {
			strItems, err := cast.ToStringSliceE(items)
			if err != nil {
				return "", err
			}
			return strings.Join(strItems, sep), nil
		},
		"concat": func(parts ...any) string {
			var b strings.Builder
			for _, p := range parts {
				b.WriteString(fmt.Sprint(p))
			}
			return b.String()
		},
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

// hash builds named arguments from alternating key/value pairs.
func hash(pairs ...any) (core.NamedArguments, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("hash expects key/value pairs, got %d arguments", len(pairs))
	}
	args := make(core.NamedArguments, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("hash key at position %d must be a string, got %T", i, pairs[i])
		}
		args[key] = pairs[i+1]
	}
	return args, nil
}
