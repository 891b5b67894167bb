package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Email provider event types we act on.
const (
	EmailEventDelivered = "delivered"
	EmailEventBounce    = "bounce"
	EmailEventDropped   = "dropped"
)

// EmailLog is one delivery event reported by the email provider.
// swagger:model EmailLog
type EmailLog struct {
	ID                string          `json:"id"`
	EventType         string          `json:"event_type"`
	ApplicantID       *string         `json:"applicant_id,omitempty"`
	ApplicantEmail    string          `json:"applicant_email"`
	Subject           *string         `json:"subject,omitempty"`
	ProviderMessageID *string         `json:"provider_message_id,omitempty"`
	ProviderEventID   *string         `json:"provider_event_id,omitempty"`
	Reason            *string         `json:"reason,omitempty"`
	RawEvent          json.RawMessage `json:"raw_event,omitempty" swaggertype:"object"`
	CreatedAt         time.Time       `json:"created_at"`
}

// EmailWebhookEvent is the subset of a provider webhook event we read.
type EmailWebhookEvent struct {
	Event     string `json:"event"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	MessageID string `json:"sg_message_id"`
	EventID   string `json:"sg_event_id"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
	// Raw is the event exactly as received.
	Raw json.RawMessage `json:"-"`
}

// DeliveryStatus reports whether an address received a recent delivered event.
type DeliveryStatus struct {
	Delivered   bool       `json:"delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// DeliveryReport is the response of a delivery status check.
// swagger:model DeliveryReport
type DeliveryReport struct {
	Status    map[string]DeliveryStatus `json:"status"`
	Delivered int                       `json:"delivered"`
	Pending   int                       `json:"pending"`
	Total     int                       `json:"total"`
}

// WebhookIngestResult counts how many webhook events were stored.
type WebhookIngestResult struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// EmailLogRepository defines storage operations for email logs.
type EmailLogRepository interface {
	Create(ctx context.Context, log *EmailLog) error
	List(ctx context.Context, eventType string, limit int) ([]*EmailLog, error)
	ListByEmailsSince(ctx context.Context, emails []string, eventType string, since time.Time) ([]*EmailLog, error)
}

// EmailLogService ingests provider webhooks and answers delivery questions.
type EmailLogService interface {
	Ingest(ctx context.Context, events []EmailWebhookEvent) (*WebhookIngestResult, error)
	List(ctx context.Context, eventType string) ([]*EmailLog, error)
	DeliveryStatus(ctx context.Context, emails []string) (*DeliveryReport, error)
}
