package flow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/helpermesh/bridge"
	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/flow"
	"github.com/hupe1980/helpermesh/registry"
	"github.com/hupe1980/helpermesh/template"
)

func renderWithMarkers(t *testing.T, text string) (string, map[string]any, error) {
	t.Helper()
	out, markers, _, err := renderSeeded(t, text, nil)
	return out, markers, err
}

func renderSeeded(t *testing.T, text string, seed map[string]any) (string, map[string]any, *core.ExecutionContext, error) {
	t.Helper()

	reg := registry.New()
	require.NoError(t, reg.Register(flow.Plugin(nil)...))

	markers := map[string]any{}
	b := bridge.New(reg, func(o *bridge.Options) {
		o.OnResult = func(_ string, res *core.FunctionResult) {
			for k, v := range res.Metadata {
				markers[k] = v
			}
		}
	})

	engine := template.New()
	ec := core.NewExecutionContext(seed, nil)
	_, err := b.Register(context.Background(), engine, ec)
	require.NoError(t, err)

	out, err := engine.Render(text, nil)
	return out, markers, ec, err
}

func TestPlugin_PromptInput(t *testing.T) {
	out, markers, err := renderWithMarkers(t, `{{ flow_prompt_input "Where to?" }}`)
	require.NoError(t, err)
	assert.Equal(t, "Where to?", out)
	assert.Equal(t, map[string]any{flow.PromptInputKey: true}, markers)
}

func TestPlugin_ExitLoop(t *testing.T) {
	out, markers, err := renderWithMarkers(t, `{{ flow_exit_loop (hash "response" "done") }}`)
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, "done", markers[flow.ExitLoopKey])
}

func TestPlugin_ContinueAndTerminate(t *testing.T) {
	_, markers, err := renderWithMarkers(t, `{{ flow_continue_loop }}{{ flow_terminate "enough" }}`)
	require.NoError(t, err)
	assert.Contains(t, markers, flow.ContinueLoopKey)
	assert.Contains(t, markers, flow.TerminateFlowKey)
}

func TestPlugin_PromptInputRequiresMessage(t *testing.T) {
	_, _, err := renderWithMarkers(t, `{{ flow_prompt_input }}`)
	assert.ErrorIs(t, err, bridge.ErrMissingRequiredParameter)
}

func TestPlugin_OptionalValuesAreCallScoped(t *testing.T) {
	out, markers, ec, err := renderSeeded(t,
		`[{{ flow_exit_loop "bye" }}][{{ flow_exit_loop }}][{{ flow_terminate }}]`,
		map[string]any{"reason": "seeded"})
	require.NoError(t, err)
	assert.Equal(t, "[bye][][]", out)
	assert.Equal(t, "", markers[flow.ExitLoopKey])
	assert.Contains(t, markers, flow.TerminateFlowKey)
	assert.False(t, ec.Has("reason"))
	assert.False(t, ec.Has("response"))
}
