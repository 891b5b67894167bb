package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicantdesk/internal/domain"
)

var applicantCols = []string{
	"id", "email", "full_name", "university", "graduation_year", "shirt_size", "status",
	"decision_note", "decided_by", "qr_token", "checked_in_at", "meal_checkins", "created_at", "updated_at",
}

func applicantRow(rows *sqlmock.Rows, id, email, token string, checkedIn any, meals string) *sqlmock.Rows {
	created := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(id, email, "Ada Lovelace", "UMass Amherst", "2027", "M", "accepted",
		nil, "grace", token, checkedIn, []byte(meals), created, created)
}

func TestCheckInStore_FindByToken(t *testing.T) {
	ctx := context.Background()
	checkedIn := time.Date(2025, 10, 11, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		mock    func(mock sqlmock.Sqlmock)
		errIs   error
		checkFn func(t *testing.T, a *domain.Applicant)
	}{
		{
			name:  "found",
			token: "def456",
			mock: func(mock sqlmock.Sqlmock) {
				rows := applicantRow(sqlmock.NewRows(applicantCols), "app-1", "ada@example.com", "def456", checkedIn,
					`{"sat_lunch":{"at":"2025-10-11T12:00:00Z","write_token":"w1"}}`)
				mock.ExpectQuery(`SELECT (.+) FROM applicants WHERE qr_token = \$1`).WithArgs("def456").WillReturnRows(rows)
			},
			checkFn: func(t *testing.T, a *domain.Applicant) {
				assert.Equal(t, "app-1", a.ID)
				assert.Equal(t, "M", a.ShirtSize)
				require.NotNil(t, a.CheckedInAt)
				assert.True(t, checkedIn.Equal(*a.CheckedInAt))
				require.Contains(t, a.MealCheckins, domain.MealSatLunch)
				assert.Equal(t, "w1", a.MealCheckins[domain.MealSatLunch].WriteToken)
				assert.Nil(t, a.DecisionNote)
				assert.Equal(t, "grace", *a.DecidedBy)
			},
		},
		{
			name:  "no such token",
			token: "abc123",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM applicants WHERE qr_token`).WithArgs("abc123").
					WillReturnRows(sqlmock.NewRows(applicantCols))
			},
			errIs: domain.ErrApplicantNotFound,
		},
		{
			name:  "connection lost",
			token: "def456",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM applicants WHERE qr_token`).WillReturnError(sql.ErrConnDone)
			},
			errIs: domain.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			a, err := NewCheckInStore(db).FindByToken(ctx, tt.token)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				tt.checkFn(t, a)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckInStore_ConditionalSetCheckedIn(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 10, 11, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rows     int64
		err      error
		wantRows int64
		errIs    error
	}{
		{name: "first scan wins", rows: 1, wantRows: 1},
		{name: "already set", rows: 0, wantRows: 0},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, errIs: domain.ErrConflict},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, errIs: domain.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			exp := mock.ExpectExec(`UPDATE applicants\s+SET checked_in_at = \$2, updated_at = \$2\s+WHERE id = \$1 AND checked_in_at IS NULL`).
				WithArgs("app-1", at)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.rows))
			}

			n, err := NewCheckInStore(db).ConditionalSetCheckedIn(ctx, "app-1", at)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRows, n)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckInStore_SetMealCheckinIfAbsent(t *testing.T) {
	ctx := context.Background()
	entry := domain.MealCheckin{At: time.Date(2025, 10, 11, 12, 0, 0, 0, time.UTC), WriteToken: "w1"}

	tests := []struct {
		name    string
		mock    func(e *sqlmock.ExpectedQuery)
		want    bool
		errIs   error
		wantErr bool
	}{
		{
			name: "inserted",
			mock: func(e *sqlmock.ExpectedQuery) {
				e.WillReturnRows(sqlmock.NewRows([]string{"checkin_meal"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "key already present",
			mock: func(e *sqlmock.ExpectedQuery) {
				e.WillReturnRows(sqlmock.NewRows([]string{"checkin_meal"}).AddRow(false))
			},
			want: false,
		},
		{
			name: "function not installed",
			mock: func(e *sqlmock.ExpectedQuery) {
				e.WillReturnError(&pq.Error{Code: "42883", Message: "function checkin_meal(uuid, text, jsonb) does not exist"})
			},
			errIs: domain.ErrPrimitiveUnavailable,
		},
		{
			name: "serialization failure",
			mock: func(e *sqlmock.ExpectedQuery) {
				e.WillReturnError(&pq.Error{Code: "40001"})
			},
			errIs: domain.ErrConflict,
		},
		{
			name: "other database error",
			mock: func(e *sqlmock.ExpectedQuery) {
				e.WillReturnError(&pq.Error{Code: "XX000"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			e := mock.ExpectQuery(`SELECT checkin_meal\(\$1::uuid, \$2, \$3::jsonb\)`).
				WithArgs("app-1", "sat_lunch", `{"at":"2025-10-11T12:00:00Z","write_token":"w1"}`)
			tt.mock(e)

			got, err := NewCheckInStore(db).SetMealCheckinIfAbsent(ctx, "app-1", domain.MealSatLunch, entry)
			switch {
			case tt.errIs != nil:
				require.ErrorIs(t, err, tt.errIs)
			case tt.wantErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrPrimitiveUnavailable)
				assert.NotErrorIs(t, err, domain.ErrConflict)
				assert.NotErrorIs(t, err, domain.ErrTransient)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckInStore_ReadWriteMealCheckins(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewCheckInStore(db)

	mock.ExpectQuery(`SELECT meal_checkins FROM applicants WHERE id = \$1`).WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{"meal_checkins"}).AddRow([]byte(`{"sat_dinner":{"at":"2025-10-11T18:00:00Z","write_token":"w2"}}`)))
	got, err := store.ReadMealCheckins(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w2", got[domain.MealSatDinner].WriteToken)

	mock.ExpectQuery(`SELECT meal_checkins FROM applicants`).WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"meal_checkins"}))
	_, err = store.ReadMealCheckins(ctx, "gone")
	require.ErrorIs(t, err, domain.ErrApplicantNotFound)

	mock.ExpectQuery(`SELECT meal_checkins FROM applicants`).WithArgs("app-2").
		WillReturnRows(sqlmock.NewRows([]string{"meal_checkins"}).AddRow(nil))
	got, err = store.ReadMealCheckins(ctx, "app-2")
	require.NoError(t, err)
	assert.Empty(t, got)

	write := domain.MealCheckins{domain.MealSunLunch: {At: time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC), WriteToken: "w3"}}
	mock.ExpectExec(`UPDATE applicants SET meal_checkins = \$2::jsonb`).
		WithArgs("app-1", `{"sun_lunch":{"at":"2025-10-12T12:00:00Z","write_token":"w3"}}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.WriteMealCheckins(ctx, "app-1", write))

	mock.ExpectExec(`UPDATE applicants SET meal_checkins`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, store.WriteMealCheckins(ctx, "gone", write), domain.ErrApplicantNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
