package domain

import (
	"context"
	"time"
)

// Applicant statuses.
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusWaitlisted = "waitlisted"
	StatusDenied     = "denied"
)

// Decision is an organizer's verdict on an application.
type Decision string

const (
	DecisionAccepted   Decision = StatusAccepted
	DecisionWaitlisted Decision = StatusWaitlisted
	DecisionDenied     Decision = StatusDenied
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionAccepted, DecisionWaitlisted, DecisionDenied:
		return true
	}
	return false
}

// Applicant is a hackathon application and, once accepted, the attendee record
// the check-in desk works against.
// swagger:model Applicant
type Applicant struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	FullName       string       `json:"full_name"`
	University     string       `json:"university"`
	GraduationYear string       `json:"graduation_year"`
	ShirtSize      string       `json:"shirt_size,omitempty"`
	Status         string       `json:"status"`
	DecisionNote   *string      `json:"decision_note,omitempty"`
	DecidedBy      *string      `json:"decided_by,omitempty"`
	QRToken        *string      `json:"qr_token,omitempty"`
	CheckedInAt    *time.Time   `json:"checked_in_at,omitempty"`
	MealCheckins   MealCheckins `json:"meal_checkins"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// DisplayFields is the read-only profile subset shown to the operator after a scan.
// swagger:model DisplayFields
type DisplayFields struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	University string `json:"university,omitempty"`
	ShirtSize  string `json:"shirt_size,omitempty"`
}

// Display returns the operator-facing fields of the applicant.
func (a *Applicant) Display() DisplayFields {
	return DisplayFields{
		FullName:   a.FullName,
		Email:      a.Email,
		University: a.University,
		ShirtSize:  a.ShirtSize,
	}
}

// NameOrEmail returns the full name, or the email when no name was given.
func (a *Applicant) NameOrEmail() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Email
}

// DecisionUpdate carries the fields written when an organizer decides on an application.
type DecisionUpdate struct {
	Status    string
	Note      *string
	QRToken   *string
	DecidedBy string
	UpdatedAt time.Time
}

// ApplicantListParams filters and pages the applicant listing.
// Query matches email or full name case-insensitively; empty matches all.
type ApplicantListParams struct {
	Query      string
	Pagination PaginationParams
}

// PaginationParams selects a 1-based page of PageSize rows.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page starts.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ApplicantRepository defines storage operations for applicants.
type ApplicantRepository interface {
	List(ctx context.Context, params ApplicantListParams) ([]*Applicant, int, error)
	GetByID(ctx context.Context, id string) (*Applicant, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Applicant, error)
	FindIDByEmail(ctx context.Context, email string) (string, error)
	RecordDecision(ctx context.Context, id string, update DecisionUpdate) error
}

// BatchAdmitResult summarizes a batch admit run.
// swagger:model BatchAdmitResult
type BatchAdmitResult struct {
	Total    int               `json:"total"`
	Eligible int               `json:"eligible"`
	Skipped  int               `json:"skipped"`
	Admitted int               `json:"admitted"`
	Failed   int               `json:"failed"`
	Errors   []BatchAdmitError `json:"errors"`
}

// BatchAdmitError records why one applicant could not be admitted.
type BatchAdmitError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// ApplicantService defines the organizer-facing applicant desk.
type ApplicantService interface {
	List(ctx context.Context, params ApplicantListParams) ([]*Applicant, int, error)
	GetByID(ctx context.Context, id string) (*Applicant, error)
	// Decide records a decision and sends the matching email. Accepting issues a QR token if the applicant has none.
	Decide(ctx context.Context, id string, decision Decision, note *string, organizer string) (*Applicant, error)
	// BatchAdmit accepts every pending applicant in ids whose email is not excluded.
	BatchAdmit(ctx context.Context, ids []string, organizer string) (*BatchAdmitResult, error)
}
