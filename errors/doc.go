// Package errors provides the structured error type shared by the toolbox
// packages. Every failure carries a machine-readable code so callers can tell
// configuration mistakes (unknown related types, unsupported operators) apart
// from user input problems (missing fields, validation) and lookups that
// found nothing.
package errors
