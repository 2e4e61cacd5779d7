// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable indicates a backing service could not be reached.
// Callers must fail closed: never admit access on ErrUnavailable.
var ErrUnavailable = errors.New("service unavailable")
