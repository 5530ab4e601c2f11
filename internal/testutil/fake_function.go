package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/helpermesh/core"
)

// FakeFunction is a core.Function whose body is a plain Go func executed on
// its own goroutine, mirroring the asynchronous contract of real functions.
// It counts invocations and remembers the context values of the last one.
type FakeFunction struct {
	meta core.FunctionMetadata
	fn   func(ctx context.Context, ec *core.ExecutionContext) (any, error)

	mu       sync.Mutex
	calls    int
	lastSeen map[string]any
}

// NewFakeFunction creates a FakeFunction. A nil fn returns (nil, nil).
func NewFakeFunction(meta core.FunctionMetadata, fn func(ctx context.Context, ec *core.ExecutionContext) (any, error)) *FakeFunction {
	return &FakeFunction{meta: meta, fn: fn}
}

// Metadata returns the descriptor.
func (f *FakeFunction) Metadata() core.FunctionMetadata { return f.meta }

// InvokeAsync runs the body on a new goroutine.
func (f *FakeFunction) InvokeAsync(ctx context.Context, ec *core.ExecutionContext) (<-chan *core.FunctionResult, <-chan error) {
	resCh := make(chan *core.FunctionResult, 1)
	errCh := make(chan error, 1)

	f.mu.Lock()
	f.calls++
	f.lastSeen = ec.Values()
	f.mu.Unlock()

	go func() {
		defer close(resCh)
		defer close(errCh)

		if f.fn == nil {
			resCh <- core.NewFunctionResult(f.meta, nil)
			return
		}
		v, err := f.fn(ctx, ec)
		if err != nil {
			errCh <- err
			return
		}
		resCh <- core.NewFunctionResult(f.meta, v)
	}()

	return resCh, errCh
}

// Calls returns the number of invocations so far.
func (f *FakeFunction) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastValues returns a snapshot of the ExecutionContext at the last invocation.
func (f *FakeFunction) LastValues() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSeen
}

// ErrNotFound is returned by StaticRegistry.Resolve for unknown names.
var ErrNotFound = errors.New("function not found")

// StaticRegistry is a fixed core.FunctionRegistry over a list of functions.
type StaticRegistry struct {
	fns []core.Function
}

// NewStaticRegistry creates a registry listing fns in the given order.
func NewStaticRegistry(fns ...core.Function) *StaticRegistry {
	return &StaticRegistry{fns: fns}
}

// List returns the descriptors in registration order.
func (r *StaticRegistry) List() []core.FunctionMetadata {
	out := make([]core.FunctionMetadata, 0, len(r.fns))
	for _, fn := range r.fns {
		out = append(out, fn.Metadata())
	}
	return out
}

// Resolve looks up a function by qualified name.
func (r *StaticRegistry) Resolve(qualifiedName string) (core.Function, error) {
	for _, fn := range r.fns {
		if fn.Metadata().QualifiedName() == qualifiedName {
			return fn, nil
		}
	}
	return nil, ErrNotFound
}
