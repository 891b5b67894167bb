package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"applicantdesk/internal/domain"
)

type checkInService struct {
	store  domain.CheckInStore
	logger *slog.Logger
	now    func() time.Time
	// newWriteToken returns the opaque value compared on read-back in the fallback path.
	newWriteToken func() string
}

// NewCheckInService returns the check-in coordinator backed by store.
func NewCheckInService(store domain.CheckInStore, logger *slog.Logger) domain.CheckInService {
	return &checkInService{
		store:         store,
		logger:        logger,
		now:           time.Now,
		newWriteToken: uuid.NewString,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, token string, meal domain.MealTag) (*domain.CheckInResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if meal != "" && !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal tag %q", domain.ErrInvalidInput, meal)
	}

	applicant, err := s.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("find applicant by token: %w", err)
	}

	if meal == "" {
		return s.checkInMain(ctx, applicant)
	}
	return s.checkInMeal(ctx, applicant, meal)
}

func (s *checkInService) checkInMain(ctx context.Context, applicant *domain.Applicant) (*domain.CheckInResult, error) {
	if applicant.CheckedInAt != nil {
		return alreadyCheckedIn(applicant, ""), nil
	}

	affected, err := s.store.ConditionalSetCheckedIn(ctx, applicant.ID, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return alreadyCheckedIn(applicant, ""), nil
		}
		return nil, fmt.Errorf("set checked_in_at: %w", err)
	}
	// Another scanner won the race between our read and the guarded write.
	if affected == 0 {
		return alreadyCheckedIn(applicant, ""), nil
	}
	return checkedIn(applicant, ""), nil
}

func (s *checkInService) checkInMeal(ctx context.Context, applicant *domain.Applicant, meal domain.MealTag) (*domain.CheckInResult, error) {
	if _, ok := applicant.MealCheckins[meal]; ok {
		return alreadyCheckedIn(applicant, meal), nil
	}

	entry := domain.MealCheckin{At: s.now().UTC(), WriteToken: s.newWriteToken()}
	set, err := s.store.SetMealCheckinIfAbsent(ctx, applicant.ID, meal, entry)
	switch {
	case err == nil:
		if !set {
			return alreadyCheckedIn(applicant, meal), nil
		}
		return checkedIn(applicant, meal), nil
	case errors.Is(err, domain.ErrConflict):
		return alreadyCheckedIn(applicant, meal), nil
	case errors.Is(err, domain.ErrPrimitiveUnavailable):
		s.logger.WarnContext(ctx, "atomic meal check-in unavailable, using read-modify-write",
			"applicant_id", applicant.ID, "meal", string(meal))
		return s.checkInMealFallback(ctx, applicant, meal, entry)
	default:
		return nil, fmt.Errorf("set meal check-in: %w", err)
	}
}

// checkInMealFallback is the weaker read-modify-write path. The read-back
// compares write tokens so a concurrent writer whose update landed last turns
// this call into a conflict. A window remains between the read and the write
// in which two callers can both observe the key as absent; whichever write
// lands last wins the read-back, but the earlier writer may already have
// verified and reported success.
func (s *checkInService) checkInMealFallback(ctx context.Context, applicant *domain.Applicant, meal domain.MealTag, entry domain.MealCheckin) (*domain.CheckInResult, error) {
	current, err := s.store.ReadMealCheckins(ctx, applicant.ID)
	if err != nil {
		return nil, fmt.Errorf("read meal check-ins: %w", err)
	}
	if _, ok := current[meal]; ok {
		return alreadyCheckedIn(applicant, meal), nil
	}

	next := current.Clone()
	next[meal] = entry
	if err := s.store.WriteMealCheckins(ctx, applicant.ID, next); err != nil {
		return nil, fmt.Errorf("write meal check-ins: %w", err)
	}

	after, err := s.store.ReadMealCheckins(ctx, applicant.ID)
	if err != nil {
		return nil, fmt.Errorf("verify meal check-ins: %w", err)
	}
	if got, ok := after[meal]; !ok || got.WriteToken != entry.WriteToken {
		s.logger.InfoContext(ctx, "meal check-in lost read-back race",
			"applicant_id", applicant.ID, "meal", string(meal))
		return alreadyCheckedIn(applicant, meal), nil
	}
	return checkedIn(applicant, meal), nil
}

func checkedIn(a *domain.Applicant, meal domain.MealTag) *domain.CheckInResult {
	return &domain.CheckInResult{
		Status:        domain.CheckInSuccess,
		RecordID:      a.ID,
		MealTag:       meal,
		DisplayFields: a.Display(),
	}
}

func alreadyCheckedIn(a *domain.Applicant, meal domain.MealTag) *domain.CheckInResult {
	return &domain.CheckInResult{
		Status:        domain.CheckInAlreadyCheckedIn,
		RecordID:      a.ID,
		MealTag:       meal,
		DisplayFields: a.Display(),
	}
}
