// Package metrics provides internal Prometheus metrics for helper
// registration and invocation. This package is internal and should not be
// imported by external projects.
package metrics
