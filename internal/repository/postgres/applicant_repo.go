package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"applicantdesk/internal/domain"
)

const applicantColumns = `id, email, full_name, university, graduation_year, shirt_size, status,
		decision_note, decided_by, qr_token, checked_in_at, meal_checkins, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row rowScanner) (*domain.Applicant, error) {
	a := &domain.Applicant{}
	var noteNull, decidedByNull, tokenNull sql.NullString
	var checkedInNull sql.NullTime
	var meals []byte
	err := row.Scan(
		&a.ID, &a.Email, &a.FullName, &a.University, &a.GraduationYear, &a.ShirtSize, &a.Status,
		&noteNull, &decidedByNull, &tokenNull, &checkedInNull, &meals, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if noteNull.Valid {
		a.DecisionNote = &noteNull.String
	}
	if decidedByNull.Valid {
		a.DecidedBy = &decidedByNull.String
	}
	if tokenNull.Valid {
		a.QRToken = &tokenNull.String
	}
	if checkedInNull.Valid {
		t := checkedInNull.Time
		a.CheckedInAt = &t
	}
	if a.MealCheckins, err = decodeMealCheckins(meals); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeMealCheckins(raw []byte) (domain.MealCheckins, error) {
	m := domain.MealCheckins{}
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode meal_checkins: %w", err)
	}
	return m, nil
}

type applicantRepository struct {
	DB *sql.DB
}

func NewApplicantRepository(db *sql.DB) domain.ApplicantRepository {
	return &applicantRepository{DB: db}
}

// List returns one page of applicants, newest first, and the total matching count.
func (r *applicantRepository) List(ctx context.Context, params domain.ApplicantListParams) ([]*domain.Applicant, int, error) {
	where := ""
	args := []any{}
	if q := strings.TrimSpace(params.Query); q != "" {
		where = `WHERE email ILIKE $1 OR full_name ILIKE $1`
		args = append(args, "%"+escapeLike(q)+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM applicants ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storeError("count applicants", err)
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s
		FROM applicants
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, applicantColumns, where, n+1, n+2)
	args = append(args, params.Pagination.PageSize, params.Pagination.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeError("list applicants", err)
	}
	defer rows.Close()
	items := make([]*domain.Applicant, 0)
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeError("list applicants", err)
	}
	return items, total, nil
}

func (r *applicantRepository) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`
	a, err := scanApplicant(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPQCode(err, pqInvalidTextRepr) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, storeError("get applicant", err)
	}
	return a, nil
}

// ListByIDs returns the applicants among ids that exist. Unknown or malformed ids are ignored.
func (r *applicantRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id::text = ANY($1) ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, storeError("list applicants by id", err)
	}
	defer rows.Close()
	items := make([]*domain.Applicant, 0, len(ids))
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *applicantRepository) FindIDByEmail(ctx context.Context, email string) (string, error) {
	query := `SELECT id FROM applicants WHERE lower(email) = lower($1) ORDER BY created_at LIMIT 1`
	var id string
	err := r.DB.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrApplicantNotFound
		}
		return "", storeError("find applicant by email", err)
	}
	return id, nil
}

// RecordDecision writes status, note and organizer. A nil QRToken keeps the stored token.
func (r *applicantRepository) RecordDecision(ctx context.Context, id string, u domain.DecisionUpdate) error {
	query := `
		UPDATE applicants
		SET status = $1, decision_note = $2, qr_token = COALESCE($3, qr_token), decided_by = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.DB.ExecContext(ctx, query, u.Status, u.Note, u.QRToken, u.DecidedBy, u.UpdatedAt, id)
	if err != nil {
		if isPQCode(err, pqInvalidTextRepr) {
			return domain.ErrApplicantNotFound
		}
		return storeError("record decision", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrApplicantNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
