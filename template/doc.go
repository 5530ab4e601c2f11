// Package template is the text template engine the helper bridge plugs into.
// It wraps text/template, owns the helper table (FuncMap) and exposes a
// registration primitive that rejects duplicate or malformed helper names
// instead of panicking.
//
// Built-in helpers:
//
//	hash    builds core.NamedArguments from key/value pairs: (hash "a" 1 "b" 2)
//	default returns the first argument when the second is nil or ""
//	upper, lower, title, join, concat, json
//
// Helper errors abort Render; the returned error wraps the helper's error so
// callers can inspect it with errors.Is / errors.As.
package template
