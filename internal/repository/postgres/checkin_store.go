package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"applicantdesk/internal/domain"
)

type checkInStore struct {
	DB *sql.DB
}

// NewCheckInStore returns the Postgres-backed check-in store. Meal check-ins
// use the checkin_meal function installed by CreateSchema when it exists.
func NewCheckInStore(db *sql.DB) domain.CheckInStore {
	return &checkInStore{DB: db}
}

func (s *checkInStore) FindByToken(ctx context.Context, token string) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE qr_token = $1`
	a, err := scanApplicant(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, storeError("find applicant by token", err)
	}
	return a, nil
}

func (s *checkInStore) ConditionalSetCheckedIn(ctx context.Context, id string, at time.Time) (int64, error) {
	query := `
		UPDATE applicants
		SET checked_in_at = $2, updated_at = $2
		WHERE id = $1 AND checked_in_at IS NULL
	`
	res, err := s.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return 0, storeError("set checked_in_at", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError("set checked_in_at", err)
	}
	return n, nil
}

func (s *checkInStore) SetMealCheckinIfAbsent(ctx context.Context, id string, meal domain.MealTag, entry domain.MealCheckin) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("encode meal entry: %w", err)
	}
	var inserted bool
	err = s.DB.QueryRowContext(ctx, `SELECT checkin_meal($1::uuid, $2, $3::jsonb)`, id, string(meal), string(payload)).Scan(&inserted)
	if err != nil {
		return false, storeError("checkin_meal", err)
	}
	return inserted, nil
}

func (s *checkInStore) ReadMealCheckins(ctx context.Context, id string) (domain.MealCheckins, error) {
	var raw []byte
	err := s.DB.QueryRowContext(ctx, `SELECT meal_checkins FROM applicants WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, storeError("read meal_checkins", err)
	}
	return decodeMealCheckins(raw)
}

func (s *checkInStore) WriteMealCheckins(ctx context.Context, id string, checkins domain.MealCheckins) error {
	payload, err := json.Marshal(checkins)
	if err != nil {
		return fmt.Errorf("encode meal_checkins: %w", err)
	}
	query := `UPDATE applicants SET meal_checkins = $2::jsonb, updated_at = NOW() WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id, string(payload))
	if err != nil {
		return storeError("write meal_checkins", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("write meal_checkins", err)
	}
	if n == 0 {
		return domain.ErrApplicantNotFound
	}
	return nil
}
