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

const (
	emailLogListLimit      = 1000
	deliveryStatusLookback = 2 * time.Minute
)

type emailLogService struct {
	logs       domain.EmailLogRepository
	applicants domain.ApplicantRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewEmailLogService creates an EmailLogService over the log and applicant repositories.
func NewEmailLogService(logs domain.EmailLogRepository, applicants domain.ApplicantRepository, logger *slog.Logger) domain.EmailLogService {
	return &emailLogService{logs: logs, applicants: applicants, logger: logger, now: time.Now}
}

// Ingest stores each webhook event, linking it to an applicant by email when one exists.
// A failing event is logged and skipped so the rest of the batch still lands.
func (s *emailLogService) Ingest(ctx context.Context, events []domain.EmailWebhookEvent) (*domain.WebhookIngestResult, error) {
	result := &domain.WebhookIngestResult{Total: len(events)}
	for _, ev := range events {
		entry := &domain.EmailLog{
			ID:                uuid.NewString(),
			EventType:         ev.Event,
			ApplicantEmail:    strings.TrimSpace(ev.Email),
			Subject:           optional(ev.Subject),
			ProviderMessageID: optional(ev.MessageID),
			ProviderEventID:   optional(ev.EventID),
			Reason:            optional(ev.Reason),
			RawEvent:          ev.Raw,
			CreatedAt:         s.now().UTC(),
		}
		id, err := s.applicants.FindIDByEmail(ctx, entry.ApplicantEmail)
		switch {
		case err == nil:
			entry.ApplicantID = &id
		case errors.Is(err, domain.ErrApplicantNotFound):
		default:
			s.logger.WarnContext(ctx, "webhook applicant lookup failed", "email", entry.ApplicantEmail, "err", err)
		}
		if err := s.logs.Create(ctx, entry); err != nil {
			s.logger.ErrorContext(ctx, "failed to store email event", "provider_event_id", ev.EventID, "err", err)
			continue
		}
		result.Processed++
	}
	s.logger.InfoContext(ctx, "email webhook processed", "processed", result.Processed, "total", result.Total)
	return result, nil
}

func (s *emailLogService) List(ctx context.Context, eventType string) ([]*domain.EmailLog, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "all" {
		eventType = ""
	}
	logs, err := s.logs.List(ctx, eventType, emailLogListLimit)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	if logs == nil {
		logs = []*domain.EmailLog{}
	}
	return logs, nil
}

// DeliveryStatus reports, for each email, whether it saw a delivered event in the last two minutes.
func (s *emailLogService) DeliveryStatus(ctx context.Context, emails []string) (*domain.DeliveryReport, error) {
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: emails must not be empty", domain.ErrInvalidInput)
	}
	lowered := make([]string, 0, len(emails))
	for _, e := range emails {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(e)))
	}
	logs, err := s.logs.ListByEmailsSince(ctx, lowered, domain.EmailEventDelivered, s.now().Add(-deliveryStatusLookback))
	if err != nil {
		return nil, fmt.Errorf("list delivered events: %w", err)
	}

	deliveredAt := make(map[string]time.Time, len(logs))
	for _, l := range logs {
		key := strings.ToLower(l.ApplicantEmail)
		if _, seen := deliveredAt[key]; !seen {
			deliveredAt[key] = l.CreatedAt
		}
	}

	report := &domain.DeliveryReport{
		Status: make(map[string]domain.DeliveryStatus, len(emails)),
		Total:  len(emails),
	}
	for i, e := range emails {
		at, ok := deliveredAt[lowered[i]]
		st := domain.DeliveryStatus{Delivered: ok}
		if ok {
			st.DeliveredAt = &at
			report.Delivered++
		}
		report.Status[e] = st
	}
	report.Pending = report.Total - report.Delivered
	return report, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
