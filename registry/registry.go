package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/logging"
)

// Sentinel errors for the function registry.
var (
	ErrPluginNotFound            = errors.New("plugin not found")
	ErrFunctionNotFound          = errors.New("function not found")
	ErrFunctionAlreadyRegistered = errors.New("function already registered")
	ErrInvalidFunction           = errors.New("invalid function")
)

// Options configures a Registry.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Registry is a thread-safe in-memory FunctionRegistry. Functions are keyed
// by their qualified name ("plugin.name").
type Registry struct {
	mu        sync.RWMutex
	functions map[string]core.Function
	logger    logging.Logger
}

// Compile-time interface compliance check.
var _ core.FunctionRegistry = (*Registry)(nil)

// New creates an empty Registry.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Registry{
		functions: make(map[string]core.Function),
		logger:    opts.Logger,
	}
}

// Register adds functions. Registration is atomic: when any function is
// invalid or its qualified name is taken, nothing is added.
func (r *Registry) Register(fns ...core.Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]core.Function, len(fns))
	for _, fn := range fns {
		if fn == nil {
			return fmt.Errorf("%w: nil function", ErrInvalidFunction)
		}
		md := fn.Metadata()
		if md.Name == "" {
			return fmt.Errorf("%w: function name must not be empty", ErrInvalidFunction)
		}

		name := md.QualifiedName()
		if _, exists := r.functions[name]; exists {
			return fmt.Errorf("%w: %s", ErrFunctionAlreadyRegistered, name)
		}
		if _, exists := batch[name]; exists {
			return fmt.Errorf("%w: %s", ErrFunctionAlreadyRegistered, name)
		}
		batch[name] = fn
	}

	for name, fn := range batch {
		r.functions[name] = fn
		r.logger.Debug("registry.function.register", "function", name)
	}
	return nil
}

// Unregister removes a function by qualified name.
func (r *Registry) Unregister(qualifiedName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[qualifiedName]; !exists {
		return fmt.Errorf("%w: %s", ErrFunctionNotFound, qualifiedName)
	}
	delete(r.functions, qualifiedName)
	r.logger.Debug("registry.function.unregister", "function", qualifiedName)
	return nil
}

// List returns metadata for every function, sorted by plugin then name.
func (r *Registry) List() []core.FunctionMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]core.FunctionMetadata, 0, len(r.functions))
	for _, fn := range r.functions {
		result = append(result, fn.Metadata())
	}
	core.SortMetadata(result)
	return result
}

// Resolve returns the live callable for a qualified name.
func (r *Registry) Resolve(qualifiedName string) (core.Function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.functions[qualifiedName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, qualifiedName)
	}
	return fn, nil
}

// Plugin returns the functions of one plugin, sorted by name.
func (r *Registry) Plugin(name string) ([]core.FunctionMetadata, error) {
	var result []core.FunctionMetadata
	for _, md := range r.List() {
		if md.PluginName == name {
			result = append(result, md)
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return result, nil
}

// Plugins returns the distinct plugin names, sorted. Functions without a
// plugin are not listed.
func (r *Registry) Plugins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	for _, fn := range r.functions {
		if p := fn.Metadata().PluginName; p != "" {
			seen[p] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for p := range seen {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}
