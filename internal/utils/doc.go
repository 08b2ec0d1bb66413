// Package utils hosts shared infrastructure for logging, configuration
// loading, command context propagation, and output handling.
package utils
