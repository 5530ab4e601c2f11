// Package core provides the foundational domain types and interfaces shared by
// the helper bridge, the template engine and function implementations. It
// defines the core abstractions for:
//
//   - Function metadata (FunctionMetadata / ParameterMetadata / ParameterType)
//   - The asynchronous Function contract and the FunctionRegistry capability
//   - ExecutionContext (shared name/value store passed into a function call)
//   - FunctionResult (produced value plus the mutable marker mapping)
//   - ContentResponse (a content wrapper unwrapped before reaching templates)
//
// The package intentionally keeps implementation concerns (storage, template
// parsing, model providers) out of scope, exposing small interfaces so custom
// registries and function kinds can be plugged in.
package core
