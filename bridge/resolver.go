package bridge

import (
	"github.com/hupe1980/helpermesh/core"
)

// Resolve validates raw helper arguments against fn and returns the binding
// (parameter name to value). The binding mode follows the argument shape:
// a single core.NamedArguments value binds by name, any other non-empty list
// binds by position. No argument at all fails when fn has a required parameter.
//
// Resolve does not touch any ExecutionContext; callers commit the binding
// only after it succeeded.
func Resolve(fn core.FunctionMetadata, raw []any, delimiter string) (map[string]any, error) {
	if len(raw) == 0 {
		for _, p := range fn.Parameters {
			if p.Required {
				return nil, &MissingRequiredParameterError{Function: fn.QualifiedName(), Parameter: p.Name}
			}
		}
		return map[string]any{}, nil
	}

	if len(raw) == 1 {
		if named, ok := raw[0].(core.NamedArguments); ok {
			return ResolveNamed(fn, named, delimiter)
		}
	}

	return ResolvePositional(fn, raw)
}

// ResolveNamed binds parameters by name. For each parameter the compound key
// function + delimiter + parameter is consulted before the bare parameter
// name, so templates can disambiguate parameters that share a name across
// functions. Absent optional parameters are left unbound.
func ResolveNamed(fn core.FunctionMetadata, args core.NamedArguments, delimiter string) (map[string]any, error) {
	binding := make(map[string]any, len(fn.Parameters))

	for _, p := range fn.Parameters {
		value, found := args[fn.Name+delimiter+p.Name]
		if !found {
			value, found = args[p.Name]
		}

		if !found {
			if p.Required {
				return nil, &MissingRequiredParameterError{Function: fn.QualifiedName(), Parameter: p.Name}
			}
			continue
		}

		if !IsCompatible(p, value) {
			return nil, mismatch(fn, p, value)
		}
		binding[p.Name] = value
	}

	return binding, nil
}

// ResolvePositional binds the i-th value to the i-th declared parameter. The
// number of values must lie between the required count and the declared
// count. Binding stops at the first incompatible value.
func ResolvePositional(fn core.FunctionMetadata, args []any) (map[string]any, error) {
	required, total := fn.RequiredCount(), len(fn.Parameters)
	if len(args) < required || len(args) > total {
		return nil, &ArityMismatchError{Function: fn.QualifiedName(), Got: len(args), Required: required, Total: total}
	}

	binding := make(map[string]any, len(args))
	for i, value := range args {
		p := fn.Parameters[i]
		if !IsCompatible(p, value) {
			return nil, mismatch(fn, p, value)
		}
		binding[p.Name] = value
	}

	return binding, nil
}

// BindArguments resolves raw against fn and, on success only, writes the
// binding into ec. Declared parameters the call left unbound are removed from
// ec, so a function never sees an optional value from an earlier call or from
// the seed values. On failure ec is left untouched.
func BindArguments(ec *core.ExecutionContext, fn core.FunctionMetadata, raw []any, delimiter string) (map[string]any, error) {
	binding, err := Resolve(fn, raw, delimiter)
	if err != nil {
		return nil, err
	}
	for _, p := range fn.Parameters {
		if _, bound := binding[p.Name]; !bound {
			ec.Delete(p.Name)
		}
	}
	ec.Commit(binding)
	return binding, nil
}

func mismatch(fn core.FunctionMetadata, p core.ParameterMetadata, value any) *TypeMismatchError {
	return &TypeMismatchError{
		Function:  fn.QualifiedName(),
		Parameter: p.Name,
		Expected:  p.ExpectedTypeName(),
		Received:  typeName(value),
	}
}
