package flow

import (
	"github.com/hupe1980/helpermesh/core"
)

// Marker keys set on core.FunctionResult.Metadata.
const (
	PromptInputKey   = "PromptInput"
	ExitLoopKey      = "ExitLoop"
	ContinueLoopKey  = "ContinueLoop"
	TerminateFlowKey = "StopFlow"
)

// PromptInput asks the orchestrator to collect user input before continuing.
// It is a no-op when the result already carries ExitLoop; the return value
// reports whether the marker was set.
func PromptInput(r *core.FunctionResult) bool {
	if r.HasMetadata(ExitLoopKey) {
		return false
	}
	r.SetMetadata(PromptInputKey, true)
	return true
}

// ExitLoop asks the orchestrator to leave the current loop, optionally with a
// response. It is a no-op when the result already carries PromptInput; the
// return value reports whether the marker was set.
func ExitLoop(r *core.FunctionResult, response ...string) bool {
	if r.HasMetadata(PromptInputKey) {
		return false
	}
	var resp string
	if len(response) > 0 {
		resp = response[0]
	}
	r.SetMetadata(ExitLoopKey, resp)
	return true
}

// ContinueLoop asks the orchestrator to run the current step again.
func ContinueLoop(r *core.FunctionResult) {
	r.SetMetadata(ContinueLoopKey, true)
}

// TerminateFlow asks the orchestrator to stop the whole flow.
func TerminateFlow(r *core.FunctionResult) {
	r.SetMetadata(TerminateFlowKey, true)
}

// IsPromptInput reports whether the result requests user input.
func IsPromptInput(r *core.FunctionResult) bool {
	return r != nil && r.HasMetadata(PromptInputKey)
}

// ShouldExitLoop reports whether the result requests leaving the loop.
func ShouldExitLoop(r *core.FunctionResult) bool {
	return r != nil && r.HasMetadata(ExitLoopKey)
}

// ExitLoopResponse returns the response attached to ExitLoop.
func ExitLoopResponse(r *core.FunctionResult) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.GetMetadata(ExitLoopKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// ShouldContinueLoop reports whether the result requests another iteration.
func ShouldContinueLoop(r *core.FunctionResult) bool {
	return r != nil && r.HasMetadata(ContinueLoopKey)
}

// ShouldTerminateFlow reports whether the result requests stopping the flow.
func ShouldTerminateFlow(r *core.FunctionResult) bool {
	return r != nil && r.HasMetadata(TerminateFlowKey)
}
