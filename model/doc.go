// Package model defines the provider-agnostic text generation abstraction used
// by prompt functions.
//
// Core goals:
//   - Unify streaming and non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement Model in sub-packages so prompt
// functions stay decoupled from vendor SDKs.
package model
