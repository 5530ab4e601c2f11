package function

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/helpermesh/core"
)

// TextPluginName is the plugin name of the built-in text functions.
const TextPluginName = "text"

// TextPlugin returns upper, lower, concat and length.
func TextPlugin() []core.Function {
	input := core.ParameterMetadata{Name: "input", Description: "text to transform", Type: core.TypeString, Required: true}

	return []core.Function{
		unaryText("upper", "Converts input to upper case", input, func(s string) any { return strings.ToUpper(s) }),
		unaryText("lower", "Converts input to lower case", input, func(s string) any { return strings.ToLower(s) }),
		unaryText("length", "Counts the characters of input", input, func(s string) any { return utf8.RuneCountInString(s) }),
		NewNativeFunction(core.FunctionMetadata{
			PluginName:  TextPluginName,
			Name:        "concat",
			Description: "Joins first and second, optionally with a separator",
			Parameters: []core.ParameterMetadata{
				{Name: "first", Type: core.TypeString, Required: true},
				{Name: "second", Type: core.TypeString, Required: true},
				{Name: "separator", Type: core.TypeString, Default: ""},
			},
			ReturnType: core.TypeString,
		}, func(_ context.Context, ec *core.ExecutionContext) (any, error) {
			first, err := ec.GetString("first")
			if err != nil {
				return nil, err
			}
			second, err := ec.GetString("second")
			if err != nil {
				return nil, err
			}
			sep, _ := ec.GetString("separator")
			return first + sep + second, nil
		}),
	}
}

func unaryText(name, description string, input core.ParameterMetadata, op func(string) any) *NativeFunction {
	return NewNativeFunction(core.FunctionMetadata{
		PluginName:  TextPluginName,
		Name:        name,
		Description: description,
		Parameters:  []core.ParameterMetadata{input},
	}, func(_ context.Context, ec *core.ExecutionContext) (any, error) {
		s, err := ec.GetString("input")
		if err != nil {
			return nil, err
		}
		return op(s), nil
	})
}
