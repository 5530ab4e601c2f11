package bridge

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/internal/metrics"
	"github.com/hupe1980/helpermesh/logging"
	"github.com/hupe1980/helpermesh/template"
)

// DefaultNameDelimiter joins plugin and function names into helper names. It
// must keep helper names valid template identifiers.
const DefaultNameDelimiter = "_"

// HelperEngine is the registration primitive of a template engine.
type HelperEngine interface {
	RegisterHelper(name string, fn any) error
	HasHelper(name string) bool
}

// Options configures a Bridge.
type Options struct {
	// NameDelimiter joins plugin, function and parameter names (default "_").
	NameDelimiter string
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
	// Metrics records helper calls; nil disables metrics.
	Metrics *metrics.Collector
	// OnResult, when set, observes the full result of every successful
	// helper call before it is unwrapped. Orchestrators use it to read
	// flow markers.
	OnResult func(helper string, res *core.FunctionResult)
}

// Bridge exposes the functions of a registry as template helpers.
type Bridge struct {
	opts     Options
	registry core.FunctionRegistry
	invoker  *Invoker
}

// New creates a Bridge over registry.
func New(registry core.FunctionRegistry, optFns ...func(o *Options)) *Bridge {
	opts := Options{
		NameDelimiter: DefaultNameDelimiter,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.NameDelimiter == "" {
		opts.NameDelimiter = DefaultNameDelimiter
	}

	return &Bridge{
		opts:     opts,
		registry: registry,
		invoker:  NewInvoker(registry, opts.Logger),
	}
}

// NameDelimiter returns the configured delimiter.
func (b *Bridge) NameDelimiter() string { return b.opts.NameDelimiter }

// Invoker returns the invoker used by registered helpers.
func (b *Bridge) Invoker() *Invoker { return b.invoker }

// HelperNames returns the helper name of every registry function, sorted.
func (b *Bridge) HelperNames() []string {
	fns := b.registry.List()
	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		names = append(names, fn.HelperName(b.opts.NameDelimiter))
	}
	sort.Strings(names)
	return names
}

// Helpers builds one adapter per registry function, bound to ec and ctx. The
// adapters are not registered anywhere.
func (b *Bridge) Helpers(ctx context.Context, ec *core.ExecutionContext) []*Helper {
	fns := b.registry.List()
	helpers := make([]*Helper, 0, len(fns))
	for _, fn := range fns {
		name := fn.HelperName(b.opts.NameDelimiter)
		helpers = append(helpers, &Helper{
			name:      name,
			meta:      fn,
			ec:        ec,
			delimiter: b.opts.NameDelimiter,
			invoker:   b.invoker,
			ctx:       ctx,
			logger:    b.opts.Logger,
			metrics:   b.opts.Metrics,
			onResult:  b.opts.OnResult,
		})
	}
	return helpers
}

// Register installs a helper for every registry function into engine. All
// helpers share ec, which should be scoped to a single render pass. ctx is
// handed to every function the helpers invoke.
//
// A helper name that is already taken, by the engine or by another function
// of the registry, fails the whole registration with a
// *DuplicateRegistrationError before any helper is installed. Existing
// helpers are never overwritten.
func (b *Bridge) Register(ctx context.Context, engine HelperEngine, ec *core.ExecutionContext) ([]string, error) {
	helpers := b.Helpers(ctx, ec)

	seen := make(map[string]struct{}, len(helpers))
	for _, h := range helpers {
		if _, dup := seen[h.name]; dup || engine.HasHelper(h.name) {
			return nil, &DuplicateRegistrationError{Helper: h.name, Err: template.ErrDuplicateHelper}
		}
		seen[h.name] = struct{}{}
	}

	names := make([]string, 0, len(helpers))
	for _, h := range helpers {
		if err := engine.RegisterHelper(h.name, h.Call); err != nil {
			if errors.Is(err, template.ErrDuplicateHelper) {
				return names, &DuplicateRegistrationError{Helper: h.name, Err: err}
			}
			return names, fmt.Errorf("register helper %s: %w", h.name, err)
		}
		b.opts.Logger.Debug("bridge.helper.register", "helper", h.name, "function", h.meta.QualifiedName())
		names = append(names, h.name)
	}

	b.opts.Metrics.AddRegistrations(len(names))
	return names, nil
}

// RegisterFunctionHelpers is a shortcut for New(registry).Register with the
// given delimiter.
func RegisterFunctionHelpers(ctx context.Context, engine HelperEngine, registry core.FunctionRegistry, ec *core.ExecutionContext, delimiter string) ([]string, error) {
	return New(registry, func(o *Options) {
		o.NameDelimiter = delimiter
	}).Register(ctx, engine, ec)
}
