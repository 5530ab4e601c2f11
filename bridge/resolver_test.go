package bridge_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hupe1980/helpermesh/bridge"
	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/internal/testutil"
)

func addMeta() core.FunctionMetadata {
	return testutil.NewMetadataBuilder("math", "add").
		Required("a", core.TypeNumber).
		Required("b", core.TypeNumber).
		Build()
}

func TestResolve_Named(t *testing.T) {
	binding, err := bridge.Resolve(addMeta(), []any{core.NamedArguments{"a": "3", "b": 4}}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "3", "b": 4}, binding)
}

func TestResolve_NamedPrefersCompoundKey(t *testing.T) {
	args := core.NamedArguments{"add_a": 10, "a": 1, "b": 2}
	binding, err := bridge.Resolve(addMeta(), []any{args}, "_")
	require.NoError(t, err)
	assert.Equal(t, 10, binding["a"])
	assert.Equal(t, 2, binding["b"])
}

func TestResolve_NamedMissingRequired(t *testing.T) {
	_, err := bridge.Resolve(addMeta(), []any{core.NamedArguments{"a": 1}}, "_")
	require.Error(t, err)

	var mErr *bridge.MissingRequiredParameterError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "math.add", mErr.Function)
	assert.Equal(t, "b", mErr.Parameter)
	assert.ErrorIs(t, err, bridge.ErrMissingRequiredParameter)
}

func TestResolve_NamedOptionalOmitted(t *testing.T) {
	md := testutil.NewMetadataBuilder("text", "pad").
		Required("s", core.TypeString).
		Param(core.ParameterMetadata{Name: "width", Type: core.TypeInteger, Default: 10}).
		Build()

	binding, err := bridge.Resolve(md, []any{core.NamedArguments{"s": "x"}}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"s": "x"}, binding)
}

func TestResolve_NamedTypeMismatch(t *testing.T) {
	_, err := bridge.Resolve(addMeta(), []any{core.NamedArguments{"a": "three", "b": 4}}, "_")

	var tErr *bridge.TypeMismatchError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "math.add", tErr.Function)
	assert.Equal(t, "a", tErr.Parameter)
	assert.Equal(t, "number", tErr.Expected)
	assert.Equal(t, "string", tErr.Received)
	assert.ErrorIs(t, err, bridge.ErrTypeMismatch)
}

func TestResolve_Positional(t *testing.T) {
	binding, err := bridge.Resolve(addMeta(), []any{1, 2.5}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 2.5}, binding)
}

func TestResolve_PositionalArity(t *testing.T) {
	md := testutil.NewMetadataBuilder("", "f").
		Required("a", core.TypeUnspecified).
		Optional("b", core.TypeUnspecified).
		Build()

	_, err := bridge.Resolve(md, []any{1, 2}, "_")
	require.NoError(t, err)

	_, err = bridge.Resolve(md, []any{1, 2, 3}, "_")
	var aErr *bridge.ArityMismatchError
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, 3, aErr.Got)
	assert.Equal(t, 1, aErr.Required)
	assert.Equal(t, 2, aErr.Total)
	assert.Contains(t, err.Error(), "3 were specified but 1 to 2 are accepted")
}

func TestResolve_PositionalStopsAtFirstMismatch(t *testing.T) {
	md := testutil.NewMetadataBuilder("", "f").
		Required("a", core.TypeString).
		Required("b", core.TypeBoolean).
		Build()

	_, err := bridge.Resolve(md, []any{1, "no"}, "_")
	var tErr *bridge.TypeMismatchError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "a", tErr.Parameter)
}

func TestResolve_SingleMapIsPositional(t *testing.T) {
	md := testutil.NewMetadataBuilder("", "keys").Required("m", core.TypeObject).Build()

	binding, err := bridge.Resolve(md, []any{map[string]any{"m": 1}}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"m": map[string]any{"m": 1}}, binding)
}

func TestResolve_NoArguments(t *testing.T) {
	greet := testutil.NewMetadataBuilder("", "greet").Required("name", core.TypeString).Build()

	_, err := bridge.Resolve(greet, nil, "_")
	var mErr *bridge.MissingRequiredParameterError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "greet", mErr.Function)
	assert.Equal(t, "name", mErr.Parameter)

	now := testutil.NewMetadataBuilder("time", "now").Optional("zone", core.TypeString).Build()
	binding, err := bridge.Resolve(now, []any{}, "_")
	require.NoError(t, err)
	assert.Empty(t, binding)
}

func TestBindArguments_CommitsOnlyOnSuccess(t *testing.T) {
	ec := core.NewExecutionContext(map[string]any{"a": "old", "unrelated": true}, nil)

	_, err := bridge.BindArguments(ec, addMeta(), []any{core.NamedArguments{"a": 1, "b": "x"}}, "_")
	require.Error(t, err)
	assert.Equal(t, map[string]any{"a": "old", "unrelated": true}, ec.Values())

	binding, err := bridge.BindArguments(ec, addMeta(), []any{5, 6}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 5, "b": 6}, binding)
	assert.Equal(t, map[string]any{"a": 5, "b": 6, "unrelated": true}, ec.Values())
}

func TestBindArguments_ClearsUnboundParameters(t *testing.T) {
	pad := testutil.NewMetadataBuilder("text", "pad").
		Required("s", core.TypeString).
		Optional("width", core.TypeInteger).
		Build()
	ec := core.NewExecutionContext(map[string]any{"width": 4, "unrelated": true}, nil)

	_, err := bridge.BindArguments(ec, pad, []any{"x"}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"s": "x", "unrelated": true}, ec.Values())

	_, err = bridge.BindArguments(ec, pad, []any{"y", 8}, "_")
	require.NoError(t, err)
	_, err = bridge.BindArguments(ec, pad, []any{core.NamedArguments{"s": "z"}}, "_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"s": "z", "unrelated": true}, ec.Values())

	_, err = bridge.BindArguments(ec, pad, []any{1.5}, "_")
	require.Error(t, err)
	assert.Equal(t, map[string]any{"s": "z", "unrelated": true}, ec.Values(), "failed binds leave the context alone")
}

func TestResolve_NamedOmittingRequiredProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "params")
		b := testutil.NewMetadataBuilder("p", "f")
		for i := 0; i < n; i++ {
			b.Required(fmt.Sprintf("r%d", i), core.TypeUnspecified)
		}
		md := b.Build()

		omit := rapid.IntRange(0, n-1).Draw(rt, "omit")
		args := core.NamedArguments{}
		for i := 0; i < n; i++ {
			if i != omit {
				args[fmt.Sprintf("r%d", i)] = i
			}
		}

		_, err := bridge.Resolve(md, []any{args}, "_")
		var mErr *bridge.MissingRequiredParameterError
		if !errors.As(err, &mErr) || mErr.Parameter != fmt.Sprintf("r%d", omit) {
			rt.Fatalf("expected missing r%d, got %v", omit, err)
		}
	})
}

func TestResolve_PositionalArityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		required := rapid.IntRange(0, 4).Draw(rt, "required")
		optional := rapid.IntRange(0, 4).Draw(rt, "optional")
		b := testutil.NewMetadataBuilder("p", "f")
		for i := 0; i < required; i++ {
			b.Required(fmt.Sprintf("r%d", i), core.TypeUnspecified)
		}
		for i := 0; i < optional; i++ {
			b.Optional(fmt.Sprintf("o%d", i), core.TypeUnspecified)
		}
		md := b.Build()

		count := rapid.IntRange(1, required+optional+3).Draw(rt, "count")
		args := make([]any, count)
		for i := range args {
			args[i] = i
		}

		binding, err := bridge.Resolve(md, args, "_")
		if count < required || count > required+optional {
			if !errors.Is(err, bridge.ErrArityMismatch) {
				rt.Fatalf("count %d with %d..%d params: expected arity mismatch, got %v", count, required, required+optional, err)
			}
			return
		}
		if err != nil {
			rt.Fatalf("count %d with %d..%d params: unexpected error %v", count, required, required+optional, err)
		}
		if len(binding) != count {
			rt.Fatalf("bound %d values, want %d", len(binding), count)
		}
	})
}
