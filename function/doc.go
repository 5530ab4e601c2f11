// Package function provides concrete core.Function implementations:
//
//   - NativeFunction wraps a Go func and runs it on its own goroutine
//   - PromptFunction renders a prompt template and asks a model.Model
//   - MathPlugin and TextPlugin are small built-in plugins
//
// All functions follow the asynchronous contract of core.Function: InvokeAsync
// returns immediately and exactly one of the two channels delivers a value.
package function
