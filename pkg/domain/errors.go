package domain

import "errors"

// ErrPlanNotFound is returned when a plan run ID cannot be found, either by
// the remote service (404) or by a local store.
var ErrPlanNotFound = errors.New("plan run not found")

// ErrIncompleteForm is returned when a travel form fails validation.
var ErrIncompleteForm = errors.New("incomplete travel form")
