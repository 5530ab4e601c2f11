package flow

import (
	"context"

	"github.com/hupe1980/helpermesh/core"
	"github.com/hupe1980/helpermesh/function"
	"github.com/hupe1980/helpermesh/logging"
)

// PluginName is the plugin name of the signaling functions.
const PluginName = "flow"

// Plugin returns functions that raise flow markers, so templates and
// planners can signal the orchestrator:
//
//	flow.prompt_input(message)  PromptInput, value is message
//	flow.exit_loop([response])  ExitLoop, value is response
//	flow.continue_loop()        ContinueLoop
//	flow.terminate([reason])    StopFlow, value is reason
func Plugin(logger logging.Logger) []core.Function {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	signal := func(name string, params []core.ParameterMetadata, valueKey string, mark func(*core.FunctionResult) bool) core.Function {
		return function.NewNativeFunction(core.FunctionMetadata{
			PluginName: PluginName,
			Name:       name,
			Parameters: params,
		}, func(_ context.Context, ec *core.ExecutionContext) (any, error) {
			r := &core.FunctionResult{Metadata: map[string]any{}}
			if valueKey != "" {
				if v, ok := ec.Get(valueKey); ok {
					r.Value = v
				}
			}
			if mark(r) {
				logger.Debug("flow.marker.set", "function", PluginName+"."+name)
			}
			return r, nil
		})
	}

	optionalText := func(name string) []core.ParameterMetadata {
		return []core.ParameterMetadata{{Name: name, Type: core.TypeString}}
	}

	return []core.Function{
		signal("prompt_input", []core.ParameterMetadata{{Name: "message", Type: core.TypeString, Required: true}}, "message", PromptInput),
		signal("exit_loop", optionalText("response"), "response", func(r *core.FunctionResult) bool {
			resp, _ := r.Value.(string)
			return ExitLoop(r, resp)
		}),
		signal("continue_loop", nil, "", func(r *core.FunctionResult) bool {
			ContinueLoop(r)
			return true
		}),
		signal("terminate", optionalText("reason"), "reason", func(r *core.FunctionResult) bool {
			TerminateFlow(r)
			return true
		}),
	}
}
