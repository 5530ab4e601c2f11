package core

import (
	"errors"
	"fmt"
	"maps"
	"sort"

	"github.com/spf13/cast"

	"github.com/hupe1980/helpermesh/logging"
)

// ErrValueNotFound is returned by the typed getters when a key is absent.
var ErrValueNotFound = errors.New("value not found in execution context")

// ExecutionContext is the mutable name/value store shared between the caller
// of a function and the function itself. The bridge writes bound arguments
// into it before invocation; functions read their arguments from it and may
// leave values behind as observable side effects.
//
// An ExecutionContext is not safe for concurrent use. One render pass owns one
// context; concurrent renders need their own instances.
type ExecutionContext struct {
	id     string
	values map[string]any

	*loggerAdapter
}

// NewExecutionContext constructs a context seeded with a copy of values.
func NewExecutionContext(values map[string]any, logger logging.Logger) *ExecutionContext {
	ec := &ExecutionContext{
		id:            NewID(),
		values:        make(map[string]any, len(values)),
		loggerAdapter: newLoggerAdapter(logger),
	}
	maps.Copy(ec.values, values)
	return ec
}

// ID returns the unique identifier of this context.
func (ec *ExecutionContext) ID() string { return ec.id }

// Get returns the value stored under key.
func (ec *ExecutionContext) Get(key string) (any, bool) {
	v, ok := ec.values[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (ec *ExecutionContext) Set(key string, value any) {
	ec.values[key] = value
}

// Merge stores every pair of values, overwriting existing keys.
func (ec *ExecutionContext) Merge(values map[string]any) {
	maps.Copy(ec.values, values)
}

// Delete removes key.
func (ec *ExecutionContext) Delete(key string) { delete(ec.values, key) }

// Has reports whether key is present.
func (ec *ExecutionContext) Has(key string) bool {
	_, ok := ec.values[key]
	return ok
}

// Len returns the number of stored values.
func (ec *ExecutionContext) Len() int { return len(ec.values) }

// Keys returns the stored keys in sorted order.
func (ec *ExecutionContext) Keys() []string {
	keys := make([]string, 0, len(ec.values))
	for k := range ec.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a shallow copy of the stored values.
func (ec *ExecutionContext) Values() map[string]any {
	return maps.Clone(ec.values)
}

// Clone returns an independent context with a new ID and a shallow copy of the values.
func (ec *ExecutionContext) Clone() *ExecutionContext {
	return NewExecutionContext(ec.values, ec.Logger())
}

// GetString returns the value under key converted to a string.
func (ec *ExecutionContext) GetString(key string) (string, error) {
	v, ok := ec.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, key)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		ec.LogWarn("context.value.convert_failed", "key", key, "target", "string", "error", err.Error())
	}
	return s, err
}

// GetFloat64 returns the value under key converted to a float64. Text is read
// with ParseNumber, so " 3", "0x10" and "2.5" convert.
func (ec *ExecutionContext) GetFloat64(key string) (float64, error) {
	v, ok := ec.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrValueNotFound, key)
	}
	if text, ok := v.(string); ok {
		if f, ok := ParseNumber(text); ok {
			return f, nil
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		ec.LogWarn("context.value.convert_failed", "key", key, "target", "float64", "error", err.Error())
	}
	return f, err
}

// GetInt returns the value under key converted to an int.
func (ec *ExecutionContext) GetInt(key string) (int, error) {
	v, ok := ec.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrValueNotFound, key)
	}
	if text, ok := v.(string); ok {
		if i, ok := parseInteger(text); ok {
			return int(i), nil
		}
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		ec.LogWarn("context.value.convert_failed", "key", key, "target", "int", "error", err.Error())
	}
	return i, err
}

// GetBool returns the value under key converted to a bool.
func (ec *ExecutionContext) GetBool(key string) (bool, error) {
	v, ok := ec.values[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrValueNotFound, key)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		ec.LogWarn("context.value.convert_failed", "key", key, "target", "bool", "error", err.Error())
	}
	return b, err
}

// Commit writes a fully validated binding into the context and logs the keys
// written. Callers validate first; Commit never fails.
func (ec *ExecutionContext) Commit(binding map[string]any) {
	maps.Copy(ec.values, binding)
	ec.LogDebug("context.binding.commit", "context_id", ec.id, "count", len(binding))
}
