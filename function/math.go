package function

import (
	"context"
	"errors"

	"github.com/hupe1980/helpermesh/core"
)

// MathPluginName is the plugin name of the built-in math functions.
const MathPluginName = "math"

// ErrDivisionByZero is returned by math.divide for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// MathPlugin returns add, subtract, multiply and divide. Each takes two
// required numeric parameters a and b; numeric text is accepted.
func MathPlugin() []core.Function {
	return []core.Function{
		binaryMath("add", "Adds b to a", func(a, b float64) (float64, error) { return a + b, nil }),
		binaryMath("subtract", "Subtracts b from a", func(a, b float64) (float64, error) { return a - b, nil }),
		binaryMath("multiply", "Multiplies a by b", func(a, b float64) (float64, error) { return a * b, nil }),
		binaryMath("divide", "Divides a by b", func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		}),
	}
}

func binaryMath(name, description string, op func(a, b float64) (float64, error)) *NativeFunction {
	return NewNativeFunction(core.FunctionMetadata{
		PluginName:  MathPluginName,
		Name:        name,
		Description: description,
		Parameters: []core.ParameterMetadata{
			{Name: "a", Description: "first operand", Type: core.TypeNumber, Required: true},
			{Name: "b", Description: "second operand", Type: core.TypeNumber, Required: true},
		},
		ReturnType: core.TypeNumber,
	}, func(_ context.Context, ec *core.ExecutionContext) (any, error) {
		a, err := ec.GetFloat64("a")
		if err != nil {
			return nil, err
		}
		b, err := ec.GetFloat64("b")
		if err != nil {
			return nil, err
		}
		return op(a, b)
	})
}
