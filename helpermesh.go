// Package helpermesh provides a high-level façade over the function registry,
// the helper bridge and the template engine. Most applications interact with
// this package by:
//  1. Creating a HelperMesh via New() or NewFromConfig()
//  2. Registering plugins (native functions, prompt functions, manifests)
//  3. Rendering templates that call those functions as helpers (Render)
//
// Every Render call gets its own ExecutionContext, so argument bindings of one
// render never leak into another.
package helpermesh

import (
	"context"
	"fmt"
	"maps"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/helpermesh/bridge"
	"github.com/hupe1980/helpermesh/config"
	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/flow"
	"github.com/hupe1980/helpermesh/function"
	"github.com/hupe1980/helpermesh/internal/metrics"
	"github.com/hupe1980/helpermesh/logging"
	"github.com/hupe1980/helpermesh/model"
	anthropicmodel "github.com/hupe1980/helpermesh/model/anthropic"
	openaimodel "github.com/hupe1980/helpermesh/model/openai"
	"github.com/hupe1980/helpermesh/registry"
	"github.com/hupe1980/helpermesh/template"
)

// Options configures the HelperMesh instance.
type Options struct {
	// Registry holds the functions exposed as helpers (defaults to an empty registry).
	Registry *registry.Registry

	// Model backs prompt functions loaded from manifests. Nil leaves manifest
	// functions without a model; invoking them fails.
	Model model.Model

	// NameDelimiter joins plugin, function and parameter names (default "_").
	NameDelimiter string

	// MissingKey is handed to the template engine ("default", "zero" or "error").
	MissingKey string

	// Metrics records helper calls; nil disables metrics.
	Metrics *metrics.Collector

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// HelperMesh is the high-level façade aggregating registry, bridge and engine.
type HelperMesh struct {
	opts  Options
	flows map[string]*flow.Flow
}

// New creates a new HelperMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *HelperMesh {
	opts := Options{
		NameDelimiter: bridge.DefaultNameDelimiter,
		MissingKey:    "default",
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Registry == nil {
		opts.Registry = registry.New(func(o *registry.Options) {
			o.Logger = opts.Logger
		})
	}
	if opts.NameDelimiter == "" {
		opts.NameDelimiter = bridge.DefaultNameDelimiter
	}

	return &HelperMesh{opts: opts, flows: map[string]*flow.Flow{}}
}

// NewFromConfig builds a HelperMesh from loaded configuration: logger, model,
// metrics, manifests and flows. reg receives the metrics when enabled; nil
// uses a private registry.
func NewFromConfig(cfg *config.Config, reg prometheus.Registerer) (*HelperMesh, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Logging.LoggerConfig())

	mdl, err := NewModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, reg)
	}

	hm := New(func(o *Options) {
		o.Model = mdl
		o.NameDelimiter = cfg.Bridge.NameDelimiter
		o.Metrics = collector
		o.Logger = logger
	})

	for _, path := range cfg.Manifests {
		if err := hm.LoadManifest(path); err != nil {
			return nil, err
		}
	}
	for _, path := range cfg.Flows {
		if err := hm.LoadFlow(path); err != nil {
			return nil, err
		}
	}

	logger.Info("helpermesh.ready",
		"functions", hm.opts.Registry.Len(),
		"flows", len(hm.flows),
		"provider", cfg.Model.Provider,
	)
	return hm, nil
}

// NewModel creates the model adapter named by cfg.Provider.
func NewModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderMock, "":
		name := cfg.Name
		if name == "" {
			name = "mock"
		}
		return model.NewMockModel(name), nil
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			o.APIKey = cfg.APIKey
		}), nil
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropic.Model(cfg.Name)
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.APIKey = cfg.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Provider)
	}
}

// Registry returns the underlying function registry.
func (hm *HelperMesh) Registry() *registry.Registry { return hm.opts.Registry }

// RegisterFunction adds functions to the registry.
func (hm *HelperMesh) RegisterFunction(fns ...core.Function) error {
	return hm.opts.Registry.Register(fns...)
}

// RegisterPlugin adds every function of a plugin, e.g. function.MathPlugin().
func (hm *HelperMesh) RegisterPlugin(fns []core.Function) error {
	return hm.opts.Registry.Register(fns...)
}

// LoadManifest registers the prompt functions described by a manifest file.
func (hm *HelperMesh) LoadManifest(path string) error {
	m, err := registry.LoadFile(path)
	if err != nil {
		return err
	}
	fns := m.BuildFunctions(hm.opts.Model, func(o *function.PromptOptions) {
		o.Helpers = hm.opts.Registry
		o.NameDelimiter = hm.opts.NameDelimiter
		o.Logger = hm.opts.Logger
	})
	if err := hm.opts.Registry.Register(fns...); err != nil {
		return fmt.Errorf("manifest %s: %w", path, err)
	}
	hm.opts.Logger.Debug("helpermesh.manifest.load", "path", path, "plugin", m.Plugin, "functions", len(fns))
	return nil
}

// LoadFlow loads a flow definition and registers the flow plugin on first use.
func (hm *HelperMesh) LoadFlow(path string) error {
	f, err := flow.LoadFile(path)
	if err != nil {
		return err
	}
	if err := hm.ensureFlowPlugin(); err != nil {
		return err
	}
	hm.flows[f.Name] = f
	hm.opts.Logger.Debug("helpermesh.flow.load", "path", path, "flow", f.Name, "steps", len(f.Steps))
	return nil
}

// Flow returns a loaded flow by name.
func (hm *HelperMesh) Flow(name string) (*flow.Flow, bool) {
	f, ok := hm.flows[name]
	return f, ok
}

func (hm *HelperMesh) ensureFlowPlugin() error {
	if _, err := hm.opts.Registry.Plugin(flow.PluginName); err == nil {
		return nil
	}
	return hm.opts.Registry.Register(flow.Plugin(hm.opts.Logger)...)
}

// RenderResult is the outcome of a render pass.
type RenderResult struct {
	// Output is the rendered text.
	Output string
	// Context holds the values the helpers saw, including argument bindings.
	Context *core.ExecutionContext
	// Markers merges the flow markers of every helper call, later calls winning.
	Markers map[string]any
	// Calls lists the helpers invoked, in call order.
	Calls []string
}

// Render renders text with every registered function available as a helper.
// values seed the ExecutionContext; data is the template dot.
func (hm *HelperMesh) Render(ctx context.Context, text string, values map[string]any, data any) (string, error) {
	res, err := hm.RenderResult(ctx, text, values, data)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// RenderResult renders like Render and also returns the execution context and
// the collected flow markers.
func (hm *HelperMesh) RenderResult(ctx context.Context, text string, values map[string]any, data any) (*RenderResult, error) {
	ec := core.NewExecutionContext(values, hm.opts.Logger)

	// OnResult runs on the rendering goroutine; no locking needed.
	var (
		markers = map[string]any{}
		calls   []string
	)

	b := bridge.New(hm.opts.Registry, func(o *bridge.Options) {
		o.NameDelimiter = hm.opts.NameDelimiter
		o.Logger = hm.opts.Logger
		o.Metrics = hm.opts.Metrics
		o.OnResult = func(helper string, res *core.FunctionResult) {
			calls = append(calls, helper)
			maps.Copy(markers, res.Metadata)
		}
	})

	engine := template.New(func(o *template.Options) {
		o.MissingKey = hm.opts.MissingKey
		o.Logger = hm.opts.Logger
	})
	if _, err := b.Register(ctx, engine, ec); err != nil {
		return nil, err
	}

	out, err := engine.Render(text, data)
	if err != nil {
		return nil, err
	}

	hm.opts.Logger.Debug("helpermesh.render", "context", ec.ID(), "calls", len(calls), "markers", len(markers))

	return &RenderResult{Output: out, Context: ec, Markers: markers, Calls: calls}, nil
}

// FlowComplete reports whether the markers of a render satisfy every output
// the named flow provides.
func (hm *HelperMesh) FlowComplete(name string, res *RenderResult) (bool, error) {
	f, ok := hm.flows[name]
	if !ok {
		return false, fmt.Errorf("flow %q not loaded", name)
	}
	if res == nil {
		return false, nil
	}
	return f.IsComplete(mergeValues(res)), nil
}

func mergeValues(res *RenderResult) map[string]any {
	out := res.Context.Values()
	maps.Copy(out, res.Markers)
	return out
}
