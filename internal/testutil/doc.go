// Package testutil contains helper builders and fakes used across tests to
// reduce boilerplate when constructing function descriptors, async functions
// and registries. They are not intended for production usage.
package testutil
