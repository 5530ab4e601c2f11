package function

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/internal/util"
	"github.com/hupe1980/helpermesh/logging"
)

// Body is the implementation of a NativeFunction. Bound arguments are read
// from ec. Returning a *core.FunctionResult hands the result through
// unchanged, which is how a function sets flow markers; any other value is
// wrapped into a new result.
type Body func(ctx context.Context, ec *core.ExecutionContext) (any, error)

// NativeOptions configures a NativeFunction.
type NativeOptions struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// NativeFunction exposes a plain Go func as a core.Function.
//
// Concurrency:
//
//	A NativeFunction has no internal mutable state after construction and is
//	safe for concurrent use. Each invocation runs on a new goroutine; panics
//	are recovered and reported as errors.
type NativeFunction struct {
	meta   core.FunctionMetadata
	body   Body
	logger logging.Logger
}

// NewNativeFunction constructs a NativeFunction from explicit metadata.
//
// Example:
//
//	add := NewNativeFunction(
//	  core.FunctionMetadata{
//	    PluginName: "math",
//	    Name:       "add",
//	    Parameters: []core.ParameterMetadata{
//	      {Name: "a", Type: core.TypeNumber, Required: true},
//	      {Name: "b", Type: core.TypeNumber, Required: true},
//	    },
//	  },
//	  func(ctx context.Context, ec *core.ExecutionContext) (any, error) {
//	    a, _ := ec.GetFloat64("a")
//	    b, _ := ec.GetFloat64("b")
//	    return a + b, nil
//	  },
//	)
func NewNativeFunction(meta core.FunctionMetadata, body Body, optFns ...func(o *NativeOptions)) *NativeFunction {
	opts := NativeOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &NativeFunction{meta: meta, body: body, logger: opts.Logger}
}

// NewNativeFunctionFromStruct derives the parameters from a struct using
// reflection (see util.ParametersFromStruct).
//
// Example:
//
//	type GreetArgs struct {
//	  Name string `json:"name" description:"Who to greet"`
//	}
//
//	greet := NewNativeFunctionFromStruct("", "greet", "Greets someone", GreetArgs{}, body)
func NewNativeFunctionFromStruct(plugin, name, description string, structType any, body Body, optFns ...func(o *NativeOptions)) *NativeFunction {
	return NewNativeFunction(core.FunctionMetadata{
		PluginName:  plugin,
		Name:        name,
		Description: description,
		Parameters:  util.ParametersFromStruct(structType),
	}, body, optFns...)
}

// Metadata returns the function descriptor.
func (f *NativeFunction) Metadata() core.FunctionMetadata { return f.meta }

// InvokeAsync runs the body on a new goroutine.
func (f *NativeFunction) InvokeAsync(ctx context.Context, ec *core.ExecutionContext) (<-chan *core.FunctionResult, <-chan error) {
	resCh := make(chan *core.FunctionResult, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(resCh)
		defer close(errCh)

		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}

		var (
			value any
			err   error
			pc    panics.Catcher
		)
		pc.Try(func() {
			value, err = f.body(ctx, ec)
		})
		if r := pc.Recovered(); r != nil {
			f.logger.Error("function.invoke.panic", "function", f.meta.QualifiedName(), "panic", fmt.Sprint(r.Value))
			errCh <- r.AsError()
			return
		}
		if err != nil {
			errCh <- err
			return
		}

		resCh <- f.result(value)
	}()

	return resCh, errCh
}

func (f *NativeFunction) result(value any) *core.FunctionResult {
	if res, ok := value.(*core.FunctionResult); ok && res != nil {
		if res.Function.Name == "" {
			res.Function = f.meta
		}
		if res.Metadata == nil {
			res.Metadata = map[string]any{}
		}
		return res
	}
	return core.NewFunctionResult(f.meta, value)
}
