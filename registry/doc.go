// Package registry provides an in-memory core.FunctionRegistry grouping
// functions by plugin, and a loader for declarative plugin manifests whose
// functions are prompt templates.
package registry
