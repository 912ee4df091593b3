// Package errors provides the structured error type used across autowire.
// Every failure raised while introspecting, caching or constructing carries a
// machine-readable code and the identifiers needed to diagnose it (class,
// parameter, config key path).
package errors
