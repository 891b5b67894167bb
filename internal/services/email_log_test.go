package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicantdesk/internal/domain"
)

// fakeEmailLogRepo implements domain.EmailLogRepository for tests.
type fakeEmailLogRepo struct {
	created   []*domain.EmailLog
	failEvent string
	listed    []*domain.EmailLog
	lastType  string
	lastSince time.Time
	lastEmail []string
}

func (f *fakeEmailLogRepo) Create(ctx context.Context, l *domain.EmailLog) error {
	if l.ProviderEventID != nil && *l.ProviderEventID == f.failEvent {
		return errors.New("insert failed")
	}
	f.created = append(f.created, l)
	return nil
}

func (f *fakeEmailLogRepo) List(ctx context.Context, eventType string, limit int) ([]*domain.EmailLog, error) {
	f.lastType = eventType
	return f.listed, nil
}

func (f *fakeEmailLogRepo) ListByEmailsSince(ctx context.Context, emails []string, eventType string, since time.Time) ([]*domain.EmailLog, error) {
	f.lastEmail = emails
	f.lastType = eventType
	f.lastSince = since
	return f.listed, nil
}

func TestEmailLogService_Ingest(t *testing.T) {
	logs := &fakeEmailLogRepo{failEvent: "ev-bad"}
	applicants := newFakeApplicantRepo(&domain.Applicant{ID: "a1", Email: "ada@example.com"})
	svc := NewEmailLogService(logs, applicants, testLogger())

	res, err := svc.Ingest(context.Background(), []domain.EmailWebhookEvent{
		{Event: "delivered", Email: "ada@example.com", EventID: "ev-1", Subject: "You are accepted"},
		{Event: "bounce", Email: "ghost@example.com", EventID: "ev-2", Reason: "mailbox full"},
		{Event: "delivered", Email: "ada@example.com", EventID: "ev-bad"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Processed)

	require.Len(t, logs.created, 2)
	require.NotNil(t, logs.created[0].ApplicantID)
	assert.Equal(t, "a1", *logs.created[0].ApplicantID)
	assert.Nil(t, logs.created[1].ApplicantID)
	assert.Equal(t, "mailbox full", *logs.created[1].Reason)
	assert.Nil(t, logs.created[1].Subject)
	assert.NotEmpty(t, logs.created[0].ID)
}

func TestEmailLogService_List(t *testing.T) {
	logs := &fakeEmailLogRepo{}
	svc := NewEmailLogService(logs, newFakeApplicantRepo(), testLogger())

	got, err := svc.List(context.Background(), "all")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "", logs.lastType)

	_, err = svc.List(context.Background(), "bounce")
	require.NoError(t, err)
	assert.Equal(t, "bounce", logs.lastType)
}

func TestEmailLogService_DeliveryStatus(t *testing.T) {
	now := time.Date(2025, 10, 20, 15, 0, 0, 0, time.UTC)
	deliveredAt := now.Add(-30 * time.Second)
	logs := &fakeEmailLogRepo{listed: []*domain.EmailLog{
		{ApplicantEmail: "ada@example.com", EventType: domain.EmailEventDelivered, CreatedAt: deliveredAt},
	}}
	svc := NewEmailLogService(logs, newFakeApplicantRepo(), testLogger()).(*emailLogService)
	svc.now = func() time.Time { return now }

	report, err := svc.DeliveryStatus(context.Background(), []string{"Ada@Example.com", "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, report.Pending)
	assert.True(t, report.Status["Ada@Example.com"].Delivered)
	assert.Equal(t, deliveredAt, *report.Status["Ada@Example.com"].DeliveredAt)
	assert.False(t, report.Status["grace@example.com"].Delivered)

	assert.Equal(t, []string{"ada@example.com", "grace@example.com"}, logs.lastEmail)
	assert.Equal(t, domain.EmailEventDelivered, logs.lastType)
	assert.Equal(t, now.Add(-2*time.Minute), logs.lastSince)

	_, err = svc.DeliveryStatus(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
