package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/helpermesh/core"
)

func byName(fns []core.Function, name string) core.Function {
	for _, fn := range fns {
		if fn.Metadata().Name == name {
			return fn
		}
	}
	return nil
}

func TestMathPlugin(t *testing.T) {
	fns := MathPlugin()
	require.Len(t, fns, 4)

	tests := []struct {
		name string
		a, b any
		want float64
	}{
		{"add", "3", 4, 7},
		{"add", " 3", "0x10", 19},
		{"subtract", 10, 2.5, 7.5},
		{"multiply", "1.5", "2", 3},
		{"divide", 9, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := byName(fns, tt.name)
			require.NotNil(t, fn)
			assert.Equal(t, "math."+tt.name, fn.Metadata().QualifiedName())

			res, err := await(t, fn, core.NewExecutionContext(map[string]any{"a": tt.a, "b": tt.b}, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestMathPlugin_DivideByZero(t *testing.T) {
	_, err := await(t, byName(MathPlugin(), "divide"), core.NewExecutionContext(map[string]any{"a": 1, "b": 0}, nil))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMathPlugin_MissingOperand(t *testing.T) {
	_, err := await(t, byName(MathPlugin(), "add"), core.NewExecutionContext(map[string]any{"a": 1}, nil))
	assert.ErrorIs(t, err, core.ErrValueNotFound)
}

func TestTextPlugin(t *testing.T) {
	fns := TextPlugin()
	require.Len(t, fns, 4)

	res, err := await(t, byName(fns, "upper"), core.NewExecutionContext(map[string]any{"input": "abc"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "ABC", res.Value)

	res, err = await(t, byName(fns, "lower"), core.NewExecutionContext(map[string]any{"input": "AbC"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Value)

	res, err = await(t, byName(fns, "length"), core.NewExecutionContext(map[string]any{"input": "héllo"}, nil))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Value)

	res, err = await(t, byName(fns, "concat"), core.NewExecutionContext(map[string]any{"first": "a", "second": "b"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "ab", res.Value)

	res, err = await(t, byName(fns, "concat"), core.NewExecutionContext(map[string]any{"first": "a", "second": "b", "separator": "-"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "a-b", res.Value)
}
