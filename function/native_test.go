package function

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/helpermesh/core"
)

func await(t *testing.T, fn core.Function, ec *core.ExecutionContext) (*core.FunctionResult, error) {
	t.Helper()
	resCh, errCh := fn.InvokeAsync(context.Background(), ec)
	for resCh != nil || errCh != nil {
		select {
		case res, ok := <-resCh:
			if !ok {
				resCh = nil
				continue
			}
			return res, nil
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			return nil, err
		}
	}
	t.Fatal("function completed without a result")
	return nil, nil
}

func TestNativeFunction_Result(t *testing.T) {
	meta := core.FunctionMetadata{PluginName: "p", Name: "echo"}
	fn := NewNativeFunction(meta, func(_ context.Context, ec *core.ExecutionContext) (any, error) {
		return ec.GetString("msg")
	})

	res, err := await(t, fn, core.NewExecutionContext(map[string]any{"msg": "hi"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Value)
	assert.Equal(t, meta, res.Function)
	assert.NotNil(t, res.Metadata)
}

func TestNativeFunction_PassesFunctionResult(t *testing.T) {
	meta := core.FunctionMetadata{Name: "ask"}
	fn := NewNativeFunction(meta, func(context.Context, *core.ExecutionContext) (any, error) {
		r := &core.FunctionResult{Value: "question?"}
		r.SetMetadata("PromptInput", true)
		return r, nil
	})

	res, err := await(t, fn, core.NewExecutionContext(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "question?", res.Value)
	assert.Equal(t, "ask", res.Function.Name)
	assert.True(t, res.HasMetadata("PromptInput"))
}

func TestNativeFunction_Error(t *testing.T) {
	boom := errors.New("boom")
	fn := NewNativeFunction(core.FunctionMetadata{Name: "f"}, func(context.Context, *core.ExecutionContext) (any, error) {
		return nil, boom
	})

	_, err := await(t, fn, core.NewExecutionContext(nil, nil))
	assert.ErrorIs(t, err, boom)
}

func TestNativeFunction_PanicRecovered(t *testing.T) {
	fn := NewNativeFunction(core.FunctionMetadata{Name: "f"}, func(context.Context, *core.ExecutionContext) (any, error) {
		panic("kaboom")
	})

	_, err := await(t, fn, core.NewExecutionContext(nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestNativeFunction_CancelledContext(t *testing.T) {
	called := false
	fn := NewNativeFunction(core.FunctionMetadata{Name: "f"}, func(context.Context, *core.ExecutionContext) (any, error) {
		called = true
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resCh, errCh := fn.InvokeAsync(ctx, core.NewExecutionContext(nil, nil))
	assert.ErrorIs(t, <-errCh, context.Canceled)
	_, ok := <-resCh
	assert.False(t, ok)
	assert.False(t, called)
}

func TestNewNativeFunctionFromStruct(t *testing.T) {
	type greetArgs struct {
		Name     string `json:"name" description:"Who to greet"`
		Greeting string `json:"greeting,omitempty"`
	}
	fn := NewNativeFunctionFromStruct("", "greet", "Greets someone", greetArgs{}, nil)

	md := fn.Metadata()
	assert.Equal(t, "greet", md.QualifiedName())
	require.Len(t, md.Parameters, 2)
	assert.True(t, md.Parameters[0].Required)
	assert.Equal(t, core.TypeString, md.Parameters[0].Type)
	assert.False(t, md.Parameters[1].Required)
}
