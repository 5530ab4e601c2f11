package bridge

import (
	"context"
	"time"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/internal/metrics"
	"github.com/hupe1980/helpermesh/logging"
)

// Helper is the adapter registered with a template engine for one function.
// It holds the function descriptor, the shared ExecutionContext of the render
// pass and the name delimiter; Call performs resolve, commit and invoke.
//
// A Helper shares its ExecutionContext with every other helper of the same
// render pass and takes no locks: it must only be called from the goroutine
// rendering the template.
type Helper struct {
	name      string
	meta      core.FunctionMetadata
	ec        *core.ExecutionContext
	delimiter string
	invoker   *Invoker
	ctx       context.Context // render-scoped, used by Call
	logger    logging.Logger
	metrics   *metrics.Collector
	onResult  func(helper string, res *core.FunctionResult)
}

// Name returns the helper name the adapter is registered under.
func (h *Helper) Name() string { return h.name }

// Metadata returns the descriptor of the wrapped function.
func (h *Helper) Metadata() core.FunctionMetadata { return h.meta }

// Call is the func installed into the template engine. text/template calls
// helpers without a context, so Call uses the context given to Register,
// which is scoped to the render pass like the ExecutionContext.
func (h *Helper) Call(args ...any) (any, error) {
	return h.CallContext(h.ctx, args...)
}

// CallContext binds raw template arguments to the function's parameters,
// commits the binding into the shared ExecutionContext and invokes the
// function with ctx. It returns the unwrapped result, with nil rendered as
// the empty string; any error aborts the render.
func (h *Helper) CallContext(ctx context.Context, args ...any) (any, error) {
	start := time.Now()
	h.logger.Debug("bridge.helper.call", "helper", h.name, "args", len(args))

	if _, err := BindArguments(h.ec, h.meta, args, h.delimiter); err != nil {
		h.logger.Warn("bridge.resolve.failed", "helper", h.name, "error", err.Error())
		h.metrics.ObserveHelperCall(h.name, metrics.StatusBindingError, time.Since(start))
		return nil, err
	}

	res, err := h.invoker.InvokeResult(ctx, h.meta, h.ec)

	dur := time.Since(start)
	logging.LogHelperCall(h.logger, h.name, dur, err)

	if err != nil {
		h.metrics.ObserveHelperCall(h.name, metrics.StatusInvocationError, dur)
		return nil, err
	}
	h.metrics.ObserveHelperCall(h.name, metrics.StatusOK, dur)

	if res == nil {
		return "", nil
	}
	if h.onResult != nil {
		h.onResult(h.name, res)
	}

	// nil would render as "<no value>"
	value := core.UnwrapContent(res.Value)
	if value == nil {
		return "", nil
	}
	return value, nil
}
