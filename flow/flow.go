package flow

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFlow is returned for flow definitions that cannot run.
var ErrInvalidFlow = errors.New("invalid flow")

// Step is one stage of a flow.
type Step struct {
	Goal     string   `yaml:"goal" json:"goal"`
	Plugins  []string `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Requires []string `yaml:"requires,omitempty" json:"requires,omitempty"`
	Provides []string `yaml:"provides,omitempty" json:"provides,omitempty"`
}

// Flow is a declarative multi-step plan. Provides lists the names the flow
// produces; the orchestrator records them in a marker mapping as steps
// complete.
//
// Example (YAML):
//
//	name: trip
//	goal: plan a trip
//	requires: [destination]
//	provides: [itinerary]
//	steps:
//	  - goal: find flights
//	    plugins: [travel]
//	    requires: [destination]
//	    provides: [flights]
//	  - goal: write itinerary
//	    requires: [flights]
//	    provides: [itinerary]
type Flow struct {
	Name     string   `yaml:"name" json:"name"`
	Goal     string   `yaml:"goal,omitempty" json:"goal,omitempty"`
	Requires []string `yaml:"requires,omitempty" json:"requires,omitempty"`
	Provides []string `yaml:"provides,omitempty" json:"provides,omitempty"`
	Steps    []Step   `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Parse decodes and validates a YAML flow definition.
func Parse(data []byte) (*Flow, error) {
	var f Flow
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse flow: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads and parses a YAML flow definition.
func LoadFile(path string) (*Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow: %w", err)
	}
	return Parse(data)
}

// Validate checks that the flow is named, that every step requirement is a
// flow input or provided by an earlier step, and that every name the flow
// provides is produced by some step. Flows without steps are not checked
// for the latter.
func (f *Flow) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidFlow)
	}

	available := map[string]struct{}{}
	for _, r := range f.Requires {
		available[r] = struct{}{}
	}

	var problems []string
	for i, s := range f.Steps {
		for _, r := range s.Requires {
			if _, ok := available[r]; !ok {
				problems = append(problems, fmt.Sprintf("step %d (%s) requires %s before it is provided", i+1, s.Goal, r))
			}
		}
		for _, p := range s.Provides {
			available[p] = struct{}{}
		}
	}

	if len(f.Steps) > 0 {
		for _, p := range f.Provides {
			if _, ok := available[p]; !ok {
				problems = append(problems, fmt.Sprintf("%s is never provided by a step", p))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidFlow, f.Name, strings.Join(problems, "; "))
	}
	return nil
}

// IsComplete reports whether every name the flow provides is a key of
// markers. A flow that provides nothing is complete.
func (f *Flow) IsComplete(markers map[string]any) bool {
	return IsComplete(f.Provides, markers)
}

// Missing returns the provided names not yet present in markers, in
// declaration order.
func (f *Flow) Missing(markers map[string]any) []string {
	var missing []string
	for _, p := range f.Provides {
		if _, ok := markers[p]; !ok && !slices.Contains(missing, p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// IsComplete reports whether the key set of markers is a superset of provides.
func IsComplete(provides []string, markers map[string]any) bool {
	for _, p := range provides {
		if _, ok := markers[p]; !ok {
			return false
		}
	}
	return true
}
