// Package flow implements the flow signaling protocol: a unit of work tells
// an external, loop-driving orchestrator to request user input, repeat the
// current step, exit a loop or terminate the flow by setting well-known
// markers on a core.FunctionResult.
//
// The orchestrator itself is not part of this package. It reads the markers
// with the Is/Should helpers and checks progress against a Flow definition
// with IsComplete.
package flow
