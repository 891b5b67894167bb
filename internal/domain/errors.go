package domain

import "errors"

// Sentinel errors shared by services and the HTTP layer.
var (
	ErrNotFound          = errors.New("not found")
	ErrApplicantNotFound = errors.New("applicant not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Store error kinds. Store adapters translate provider-specific failures into
// one of these so callers never inspect error text.
var (
	// ErrPrimitiveUnavailable means the store has no atomic set-if-absent
	// primitive provisioned (e.g. the stored function is missing).
	ErrPrimitiveUnavailable = errors.New("store primitive unavailable")
	// ErrConflict means a guarded write was rejected because its precondition no longer held.
	ErrConflict = errors.New("store conflict")
	// ErrTransient means the store failed for infrastructure reasons.
	ErrTransient = errors.New("store transient failure")
)
