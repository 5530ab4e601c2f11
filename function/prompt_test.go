package function

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/internal/testutil"
	"github.com/hupe1980/helpermesh/model"
)

func summarizeMeta() core.FunctionMetadata {
	return testutil.NewMetadataBuilder("writer", "summarize").Required("input", core.TypeString).Build()
}

func TestPromptFunction_Generate(t *testing.T) {
	m := model.NewMockModel("mock")
	m.AddResponse("Summarize: long text", "short")

	temp := 0.2
	fn := NewPromptFunction(summarizeMeta(), "Summarize: {{ .input }}", m, func(o *PromptOptions) {
		o.System = "You are {{ .persona }}."
		o.Temperature = &temp
		o.MaxTokens = 64
	})

	res, err := await(t, fn, core.NewExecutionContext(map[string]any{"input": "long text", "persona": "terse"}, nil))
	require.NoError(t, err)
	assert.Equal(t, core.ContentResponse{Content: "short", ContentType: "text/plain"}, res.Value)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "You are terse.", reqs[0].System)
	assert.Equal(t, 0.2, *reqs[0].Temperature)
	assert.Equal(t, int64(64), reqs[0].MaxTokens)
}

func TestPromptFunction_HelpersInPrompt(t *testing.T) {
	m := model.NewMockModel("mock")
	helpers := testutil.NewStaticRegistry(MathPlugin()...)

	fn := NewPromptFunction(summarizeMeta(), `{{ .input }} = {{ math_add 2 3 }}`, m, func(o *PromptOptions) {
		o.Helpers = helpers
	})

	system, prompt, err := fn.RenderPrompt(context.Background(), core.NewExecutionContext(map[string]any{"input": "2+3"}, nil))
	require.NoError(t, err)
	assert.Empty(t, system)
	assert.Equal(t, "2+3 = 5", prompt)
}

func TestPromptFunction_RenderError(t *testing.T) {
	fn := NewPromptFunction(summarizeMeta(), `{{ unknown_helper }}`, model.NewMockModel("mock"))

	_, err := await(t, fn, core.NewExecutionContext(nil, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render prompt")
}

type failingModel struct{ err error }

func (f failingModel) Generate(context.Context, model.Request) (<-chan model.Response, <-chan error) {
	respCh := make(chan model.Response)
	errCh := make(chan error, 1)
	errCh <- f.err
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (failingModel) Info() model.Info { return model.Info{Name: "failing", Provider: "test"} }

func TestPromptFunction_ModelError(t *testing.T) {
	boom := errors.New("rate limited")
	fn := NewPromptFunction(summarizeMeta(), "hi", failingModel{err: boom})

	_, err := await(t, fn, core.NewExecutionContext(nil, nil))
	assert.ErrorIs(t, err, boom)
}

func TestPromptFunction_NoModel(t *testing.T) {
	fn := NewPromptFunction(summarizeMeta(), "hi", nil)

	_, err := await(t, fn, core.NewExecutionContext(nil, nil))
	assert.ErrorContains(t, err, "has no model")
}
