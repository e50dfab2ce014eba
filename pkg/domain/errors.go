package domain

import "errors"

// ErrTimeout is returned by a response wait that elapsed without a matching
// message. It is an expected outcome, handled locally by every caller, never
// a fault.
var ErrTimeout = errors.New("timed out waiting for response")

// ErrConfigNotFound is returned when a scope has no stored configuration.
var ErrConfigNotFound = errors.New("questionnaire config not found")

// ErrCategoryNotFound is returned when a category ID no longer resolves.
var ErrCategoryNotFound = errors.New("category not found")

// ErrNotAuthorized is returned by the permission gate for users below the
// required level.
var ErrNotAuthorized = errors.New("not authorized")

// ErrGatewayClosed is returned when the gateway connection is gone.
var ErrGatewayClosed = errors.New("gateway connection closed")
