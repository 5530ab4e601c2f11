package core

// NamedArguments is the raw argument shape of a named helper call. The
// template engine's hash helper produces it; a helper called with a single
// NamedArguments value binds its parameters by name instead of by position.
type NamedArguments map[string]any
