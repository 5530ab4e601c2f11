package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const tripFlow = `
name: trip
goal: plan a trip
requires: [destination]
provides: [itinerary, budget]
steps:
  - goal: find flights
    plugins: [travel]
    requires: [destination]
    provides: [flights]
  - goal: write itinerary
    plugins: [writer, math]
    requires: [flights]
    provides: [itinerary, budget]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(tripFlow))
	require.NoError(t, err)

	assert.Equal(t, "trip", f.Name)
	assert.Equal(t, []string{"itinerary", "budget"}, f.Provides)
	require.Len(t, f.Steps, 2)
	assert.Equal(t, []string{"writer", "math"}, f.Steps[1].Plugins)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing name":         "goal: x",
		"requirement too late": "name: f\nsteps:\n  - {goal: a, requires: [x]}\n  - {goal: b, provides: [x]}",
		"never provided":       "name: f\nprovides: [y]\nsteps:\n  - {goal: a, provides: [x]}",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidFlow)
		})
	}

	_, err := Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestFlow_IsComplete(t *testing.T) {
	f, err := Parse([]byte(tripFlow))
	require.NoError(t, err)

	markers := map[string]any{"itinerary": "..."}
	assert.False(t, f.IsComplete(markers))
	assert.Equal(t, []string{"budget"}, f.Missing(markers))

	markers["budget"] = 1200
	markers["extra"] = true
	assert.True(t, f.IsComplete(markers))
	assert.Empty(t, f.Missing(markers))
}

func TestIsComplete_Lists(t *testing.T) {
	assert.True(t, IsComplete(nil, nil))
	assert.True(t, IsComplete([]string{}, map[string]any{"x": 1}))

	assert.False(t, IsComplete([]string{"a"}, map[string]any{}))
	assert.True(t, IsComplete([]string{"a"}, map[string]any{"a": nil}))

	assert.False(t, IsComplete([]string{"a", "b", "c"}, map[string]any{"a": 1, "c": 3}))
	assert.True(t, IsComplete([]string{"a", "b", "c"}, map[string]any{"a": 1, "b": 2, "c": 3}))
}

func TestIsComplete_SupersetProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,4}`), func(s string) string { return s }).Draw(rt, "names")
		provides := rapid.SliceOf(rapid.SampledFrom(append(names, "zz"))).Draw(rt, "provides")

		markers := map[string]any{}
		for _, n := range names {
			if rapid.Bool().Draw(rt, fmt.Sprintf("has_%s", n)) {
				markers[n] = n
			}
		}

		want := true
		for _, p := range provides {
			if _, ok := markers[p]; !ok {
				want = false
				break
			}
		}

		if got := IsComplete(provides, markers); got != want {
			rt.Fatalf("IsComplete(%v, %v) = %v, want %v", provides, markers, got, want)
		}
	})
}

func TestMarkerExclusionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ops := rapid.SliceOfN(rapid.SampledFrom([]string{"prompt", "exit", "continue", "terminate"}), 1, 8).Draw(rt, "ops")

		r := newResult()
		for _, op := range ops {
			switch op {
			case "prompt":
				PromptInput(r)
			case "exit":
				ExitLoop(r, "x")
			case "continue":
				ContinueLoop(r)
			case "terminate":
				TerminateFlow(r)
			}
		}

		if IsPromptInput(r) && ShouldExitLoop(r) {
			rt.Fatalf("ops %v set both PromptInput and ExitLoop", ops)
		}
	})
}
