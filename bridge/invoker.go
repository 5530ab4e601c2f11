package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/logging"
)

var errNoResult = errors.New("function completed without a result")

// Invoker calls registry functions on behalf of template helpers. It adapts
// the asynchronous core.Function contract to the synchronous call convention
// of the template engine.
type Invoker struct {
	registry core.FunctionRegistry
	logger   logging.Logger
}

// NewInvoker creates an Invoker resolving callables from registry.
func NewInvoker(registry core.FunctionRegistry, logger logging.Logger) *Invoker {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Invoker{registry: registry, logger: logger}
}

// Invoke runs fn with ec and returns its value, unwrapping core.ContentResponse
// to its payload. See InvokeResult.
func (i *Invoker) Invoke(ctx context.Context, fn core.FunctionMetadata, ec *core.ExecutionContext) (any, error) {
	res, err := i.InvokeResult(ctx, fn, ec)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return core.UnwrapContent(res.Value), nil
}

// InvokeResult resolves the live callable for fn, starts it and blocks the
// calling goroutine until the asynchronous execution delivers a result or an
// error. This wait is the bridge's only suspension point. ctx is handed to
// the function at start; honoring cancellation is the function's job, the
// wait itself is not interrupted and nothing is retried.
//
// Failures are returned as *InvocationError wrapping the original error.
func (i *Invoker) InvokeResult(ctx context.Context, fn core.FunctionMetadata, ec *core.ExecutionContext) (*core.FunctionResult, error) {
	name := fn.QualifiedName()

	callable, err := i.registry.Resolve(name)
	if err != nil {
		i.logger.Error("bridge.invoke.resolve_failed", "function", name, "error", err.Error())
		return nil, &InvocationError{Function: name, Err: err}
	}

	start := time.Now()
	resCh, errCh := callable.InvokeAsync(ctx, ec)

	res, err := await(resCh, errCh)
	if err != nil {
		i.logger.Error("bridge.invoke.failed", "function", name, "duration_ms", time.Since(start).Milliseconds(), "error", err.Error())
		return nil, &InvocationError{Function: name, Err: err}
	}

	i.logger.Debug("bridge.invoke.completed", "function", name, "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// await drains the result/error channel pair until one of them delivers a
// value or both are closed.
func await(resCh <-chan *core.FunctionResult, errCh <-chan error) (*core.FunctionResult, error) {
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
			if err != nil {
				return nil, err
			}
		}
	}
	return nil, errNoResult
}
