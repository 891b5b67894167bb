package domain

import (
	"context"
	"time"
)

// MealTag identifies one catered meal at the event.
type MealTag string

const (
	MealSatBreakfast MealTag = "sat_breakfast"
	MealSatLunch     MealTag = "sat_lunch"
	MealSatDinner    MealTag = "sat_dinner"
	MealSunBreakfast MealTag = "sun_breakfast"
	MealSunLunch     MealTag = "sun_lunch"
)

// MealTags lists every meal that can be credited, in event order.
var MealTags = []MealTag{MealSatBreakfast, MealSatLunch, MealSatDinner, MealSunBreakfast, MealSunLunch}

// Valid reports whether m is one of MealTags.
func (m MealTag) Valid() bool {
	for _, t := range MealTags {
		if t == m {
			return true
		}
	}
	return false
}

// MealCheckin is the value stored under a meal key. WriteToken is unique per
// write and is what the read-back check compares, so timestamp precision lost
// in a store round trip cannot cause a false mismatch.
type MealCheckin struct {
	At         time.Time `json:"at" dynamodbav:"at"`
	WriteToken string    `json:"write_token" dynamodbav:"write_token"`
}

// MealCheckins maps meal tags to the credit recorded for them.
type MealCheckins map[MealTag]MealCheckin

// Clone returns a copy of m that is safe to modify.
func (m MealCheckins) Clone() MealCheckins {
	out := make(MealCheckins, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CheckInStatus is the business outcome of a check-in attempt.
type CheckInStatus string

const (
	CheckInSuccess          CheckInStatus = "SUCCESS"
	CheckInAlreadyCheckedIn CheckInStatus = "ALREADY_CHECKED_IN"
)

// CheckInResult is returned for both successful and conflicting scans. A token
// that resolves to nothing is reported as ErrApplicantNotFound instead, and any
// other error is a store failure.
type CheckInResult struct {
	Status        CheckInStatus
	RecordID      string
	MealTag       MealTag
	DisplayFields DisplayFields
}

// CheckInStore is the record store the check-in coordinator needs. It is keyed
// by applicant id after an initial lookup by QR token.
type CheckInStore interface {
	// FindByToken returns ErrApplicantNotFound when no applicant holds token.
	FindByToken(ctx context.Context, token string) (*Applicant, error)
	// ConditionalSetCheckedIn sets checked_in_at only while it is still null
	// and returns the number of rows changed (0 or 1).
	ConditionalSetCheckedIn(ctx context.Context, id string, at time.Time) (int64, error)
	// SetMealCheckinIfAbsent atomically stores entry under meal when the key is
	// absent. It returns false when the key already exists, and
	// ErrPrimitiveUnavailable when the store cannot do this atomically.
	SetMealCheckinIfAbsent(ctx context.Context, id string, meal MealTag, entry MealCheckin) (bool, error)
	ReadMealCheckins(ctx context.Context, id string) (MealCheckins, error)
	// WriteMealCheckins overwrites the whole mapping without any guard.
	WriteMealCheckins(ctx context.Context, id string, checkins MealCheckins) error
}

// CheckInService credits attendees at the door and at meal stations.
type CheckInService interface {
	// CheckIn marks the attendee holding token as checked in, or credits meal
	// when it is non-empty. Each dimension transitions at most once.
	CheckIn(ctx context.Context, token string, meal MealTag) (*CheckInResult, error)
}
