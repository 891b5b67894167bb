package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"applicantdesk/internal/domain"
)

const emailLogColumns = `id, event_type, applicant_id, applicant_email, subject, provider_message_id,
		provider_event_id, reason, raw_event, created_at`

type emailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) domain.EmailLogRepository {
	return &emailLogRepository{DB: db}
}

func (r *emailLogRepository) Create(ctx context.Context, l *domain.EmailLog) error {
	query := `
		INSERT INTO email_logs (id, event_type, applicant_id, applicant_email, subject, provider_message_id,
			provider_event_id, reason, raw_event, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	var raw any
	if len(l.RawEvent) > 0 {
		raw = string(l.RawEvent)
	}
	_, err := r.DB.ExecContext(ctx, query,
		l.ID, l.EventType, l.ApplicantID, l.ApplicantEmail, l.Subject, l.ProviderMessageID,
		l.ProviderEventID, l.Reason, raw, l.CreatedAt,
	)
	if err != nil {
		return storeError("insert email log", err)
	}
	return nil
}

// List returns the newest logs first. An empty eventType matches every event.
func (r *emailLogRepository) List(ctx context.Context, eventType string, limit int) ([]*domain.EmailLog, error) {
	query := `SELECT ` + emailLogColumns + ` FROM email_logs`
	args := []any{}
	if eventType != "" {
		query += ` WHERE event_type = $1`
		args = append(args, eventType)
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list email logs", err)
	}
	return scanEmailLogs(rows)
}

// ListByEmailsSince returns logs of eventType for the given emails created after since, newest first.
func (r *emailLogRepository) ListByEmailsSince(ctx context.Context, emails []string, eventType string, since time.Time) ([]*domain.EmailLog, error) {
	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}
	query := `
		SELECT ` + emailLogColumns + `
		FROM email_logs
		WHERE lower(applicant_email) = ANY($1) AND event_type = $2 AND created_at >= $3
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(lowered), eventType, since)
	if err != nil {
		return nil, storeError("list email logs by email", err)
	}
	return scanEmailLogs(rows)
}

func scanEmailLogs(rows *sql.Rows) ([]*domain.EmailLog, error) {
	defer rows.Close()
	logs := make([]*domain.EmailLog, 0)
	for rows.Next() {
		l := &domain.EmailLog{}
		var applicantID, subject, messageID, eventID, reason sql.NullString
		var raw []byte
		if err := rows.Scan(&l.ID, &l.EventType, &applicantID, &l.ApplicantEmail, &subject, &messageID,
			&eventID, &reason, &raw, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.ApplicantID = nullString(applicantID)
		l.Subject = nullString(subject)
		l.ProviderMessageID = nullString(messageID)
		l.ProviderEventID = nullString(eventID)
		l.Reason = nullString(reason)
		if len(raw) > 0 {
			l.RawEvent = json.RawMessage(raw)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
