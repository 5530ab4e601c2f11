package core

import (
	"fmt"
	"maps"
)

// FunctionResult is the outcome of a function invocation. Value holds the
// produced value; Metadata is the marker mapping used by flow signaling to
// communicate control intent to an external orchestrator.
type FunctionResult struct {
	Function FunctionMetadata `json:"function"`
	Value    any              `json:"value,omitempty"`
	Metadata map[string]any   `json:"metadata,omitempty"`
}

// NewFunctionResult constructs a result with an empty marker mapping.
func NewFunctionResult(fn FunctionMetadata, value any) *FunctionResult {
	return &FunctionResult{
		Function: fn,
		Value:    value,
		Metadata: map[string]any{},
	}
}

// SetMetadata stores a marker.
func (r *FunctionResult) SetMetadata(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	r.Metadata[key] = value
}

// GetMetadata returns a marker value.
func (r *FunctionResult) GetMetadata(key string) (any, bool) {
	v, ok := r.Metadata[key]
	return v, ok
}

// HasMetadata reports whether a marker is present.
func (r *FunctionResult) HasMetadata(key string) bool {
	_, ok := r.Metadata[key]
	return ok
}

// MetadataSnapshot returns a copy of the marker mapping.
func (r *FunctionResult) MetadataSnapshot() map[string]any {
	return maps.Clone(r.Metadata)
}

// ContentResponse wraps content returned by remote operations (HTTP / API
// backed functions) together with transport details. Template helpers only
// ever see Content.
type ContentResponse struct {
	Content     any    `json:"content"`
	ContentType string `json:"content_type,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
}

// String renders the payload.
func (c ContentResponse) String() string {
	return fmt.Sprintf("%v", c.Content)
}

// UnwrapContent returns the payload of a ContentResponse (value or pointer);
// any other value is returned unchanged.
func UnwrapContent(v any) any {
	switch c := v.(type) {
	case ContentResponse:
		return c.Content
	case *ContentResponse:
		if c == nil {
			return nil
		}
		return c.Content
	default:
		return v
	}
}
