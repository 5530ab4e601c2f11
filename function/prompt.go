package function

import (
	"context"
	"fmt"

	"github.com/hupe1980/helpermesh/bridge"
	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/logging"
	"github.com/hupe1980/helpermesh/model"
	"github.com/hupe1980/helpermesh/template"
)

// PromptOptions configures a PromptFunction.
type PromptOptions struct {
	// System is sent as system instruction; it is rendered like the prompt.
	System string
	// Temperature overrides the model default when non-nil.
	Temperature *float64
	// MaxTokens overrides the model default when positive.
	MaxTokens int64
	// Helpers exposes registry functions to the prompt template. Nil renders
	// with the built-in helpers only.
	Helpers core.FunctionRegistry
	// NameDelimiter used for helper names (default "_").
	NameDelimiter string
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// PromptFunction is a function whose body is a prompt template. Invoking it
// renders the template against the ExecutionContext values and sends the
// result to a model. The generated text is returned wrapped in a
// core.ContentResponse.
type PromptFunction struct {
	meta   core.FunctionMetadata
	prompt string
	model  model.Model
	opts   PromptOptions
}

// NewPromptFunction creates a PromptFunction.
func NewPromptFunction(meta core.FunctionMetadata, prompt string, m model.Model, optFns ...func(o *PromptOptions)) *PromptFunction {
	opts := PromptOptions{
		NameDelimiter: bridge.DefaultNameDelimiter,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &PromptFunction{meta: meta, prompt: prompt, model: m, opts: opts}
}

// Metadata returns the function descriptor.
func (f *PromptFunction) Metadata() core.FunctionMetadata { return f.meta }

// Prompt returns the raw prompt template.
func (f *PromptFunction) Prompt() string { return f.prompt }

// InvokeAsync renders the prompt and generates a completion on a new goroutine.
func (f *PromptFunction) InvokeAsync(ctx context.Context, ec *core.ExecutionContext) (<-chan *core.FunctionResult, <-chan error) {
	resCh := make(chan *core.FunctionResult, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(resCh)
		defer close(errCh)

		text, err := f.generate(ctx, ec)
		if err != nil {
			errCh <- err
			return
		}

		resCh <- core.NewFunctionResult(f.meta, core.ContentResponse{
			Content:     text,
			ContentType: "text/plain",
		})
	}()

	return resCh, errCh
}

// RenderPrompt renders system instruction and prompt against ec without
// calling the model.
func (f *PromptFunction) RenderPrompt(ctx context.Context, ec *core.ExecutionContext) (string, string, error) {
	engine := template.New(func(o *template.Options) {
		o.Name = f.meta.QualifiedName()
		o.Logger = f.opts.Logger
	})

	if f.opts.Helpers != nil {
		b := bridge.New(f.opts.Helpers, func(o *bridge.Options) {
			o.NameDelimiter = f.opts.NameDelimiter
			o.Logger = f.opts.Logger
		})
		if _, err := b.Register(ctx, engine, ec); err != nil {
			return "", "", err
		}
	}

	system, err := engine.Render(f.opts.System, ec.Values())
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	prompt, err := engine.Render(f.prompt, ec.Values())
	if err != nil {
		return "", "", fmt.Errorf("render prompt: %w", err)
	}
	return system, prompt, nil
}

func (f *PromptFunction) generate(ctx context.Context, ec *core.ExecutionContext) (string, error) {
	if f.model == nil {
		return "", fmt.Errorf("prompt function %s has no model", f.meta.QualifiedName())
	}

	system, prompt, err := f.RenderPrompt(ctx, ec)
	if err != nil {
		return "", err
	}

	req := model.UserRequest(system, prompt)
	req.Temperature = f.opts.Temperature
	req.MaxTokens = f.opts.MaxTokens

	info := f.model.Info()
	f.opts.Logger.Debug("function.prompt.generate", "function", f.meta.QualifiedName(), "provider", info.Provider, "model", info.Name)

	respCh, errCh := f.model.Generate(ctx, req)
	resp, err := model.Collect(ctx, respCh, errCh)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
