package core

import (
	"context"
	"sort"
)

// FunctionMetadata is the immutable description of one callable function as
// exposed by a FunctionRegistry. PluginName groups functions into namespaces.
type FunctionMetadata struct {
	PluginName  string              `json:"plugin_name,omitempty" yaml:"plugin_name,omitempty"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []ParameterMetadata `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnType  ParameterType       `json:"return_type,omitempty" yaml:"return_type,omitempty"`
}

// QualifiedName returns "plugin.name", or just the name for functions without a plugin.
// It is the key understood by FunctionRegistry.Resolve.
func (m FunctionMetadata) QualifiedName() string {
	return m.JoinName(".")
}

// JoinName joins plugin and function name with the given delimiter.
func (m FunctionMetadata) JoinName(delimiter string) string {
	if m.PluginName == "" {
		return m.Name
	}
	return m.PluginName + delimiter + m.Name
}

// HelperName returns the name a template engine exposes the function under:
// plugin + delimiter + name.
func (m FunctionMetadata) HelperName(delimiter string) string {
	return m.JoinName(delimiter)
}

// Parameter looks up a declared parameter by name.
func (m FunctionMetadata) Parameter(name string) (ParameterMetadata, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterMetadata{}, false
}

// RequiredCount returns the number of required parameters.
func (m FunctionMetadata) RequiredCount() int {
	n := 0
	for _, p := range m.Parameters {
		if p.Required {
			n++
		}
	}
	return n
}

// HasRequired reports whether any parameter is required.
func (m FunctionMetadata) HasRequired() bool { return m.RequiredCount() > 0 }

// Function is a live callable resolved from a FunctionRegistry.
//
// InvokeAsync starts the function and returns immediately. Exactly one of the
// two channels delivers a value (a result or an error) before both are closed.
// Cancellation is carried by ctx and honored by the implementation.
type Function interface {
	Metadata() FunctionMetadata
	InvokeAsync(ctx context.Context, ec *ExecutionContext) (<-chan *FunctionResult, <-chan error)
}

// FunctionRegistry is the capability the bridge consumes to enumerate function
// metadata and to fetch live callables by qualified name.
type FunctionRegistry interface {
	// List returns metadata for every registered function.
	List() []FunctionMetadata
	// Resolve returns the live callable for a qualified name ("plugin.name").
	Resolve(qualifiedName string) (Function, error)
}

// SortMetadata orders metadata by plugin then function name.
func SortMetadata(ms []FunctionMetadata) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].PluginName != ms[j].PluginName {
			return ms[i].PluginName < ms[j].PluginName
		}
		return ms[i].Name < ms[j].Name
	})
}
