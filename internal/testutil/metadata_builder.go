package testutil

import (
	"github.com/hupe1980/helpermesh/core"
)

// MetadataBuilder helps construct function descriptors with fluent chaining.
// Example:
//
//	md := NewMetadataBuilder("math", "add").Required("a", core.TypeNumber).Required("b", core.TypeNumber).Build()
type MetadataBuilder struct {
	meta core.FunctionMetadata
}

// NewMetadataBuilder creates a builder for plugin.name. An empty plugin
// yields a function without namespace.
func NewMetadataBuilder(plugin, name string) *MetadataBuilder {
	return &MetadataBuilder{meta: core.FunctionMetadata{PluginName: plugin, Name: name}}
}

// Description sets the function description (chainable).
func (b *MetadataBuilder) Description(d string) *MetadataBuilder {
	b.meta.Description = d
	return b
}

// Required appends a required parameter (chainable).
func (b *MetadataBuilder) Required(name string, typ core.ParameterType) *MetadataBuilder {
	b.meta.Parameters = append(b.meta.Parameters, core.ParameterMetadata{Name: name, Type: typ, Required: true})
	return b
}

// Optional appends an optional parameter (chainable).
func (b *MetadataBuilder) Optional(name string, typ core.ParameterType) *MetadataBuilder {
	b.meta.Parameters = append(b.meta.Parameters, core.ParameterMetadata{Name: name, Type: typ})
	return b
}

// Param appends a fully specified parameter (chainable).
func (b *MetadataBuilder) Param(p core.ParameterMetadata) *MetadataBuilder {
	b.meta.Parameters = append(b.meta.Parameters, p)
	return b
}

// Returns sets the declared return type (chainable).
func (b *MetadataBuilder) Returns(typ core.ParameterType) *MetadataBuilder {
	b.meta.ReturnType = typ
	return b
}

// Build returns a copy of the descriptor.
func (b *MetadataBuilder) Build() core.FunctionMetadata {
	md := b.meta
	md.Parameters = append([]core.ParameterMetadata(nil), b.meta.Parameters...)
	return md
}
