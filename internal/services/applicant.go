package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"applicantdesk/internal/domain"
)

// ApplicantServiceConfig holds the event settings the applicant desk needs.
type ApplicantServiceConfig struct {
	EventSlug string
	EventName string
	// ExcludedEmails is the lowercased set of emails batch admit never accepts.
	ExcludedEmails map[string]struct{}
}

type applicantService struct {
	repo         domain.ApplicantRepository
	tokens       domain.QRTokenGenerator
	encoder      domain.QREncoder
	images       domain.QRImageStore
	emailService domain.EmailService
	cfg          ApplicantServiceConfig
	logger       *slog.Logger
}

// NewApplicantService creates an ApplicantService with the given repository and QR/email ports.
func NewApplicantService(
	repo domain.ApplicantRepository,
	tokens domain.QRTokenGenerator,
	encoder domain.QREncoder,
	images domain.QRImageStore,
	emailService domain.EmailService,
	cfg ApplicantServiceConfig,
	logger *slog.Logger,
) domain.ApplicantService {
	if cfg.ExcludedEmails == nil {
		cfg.ExcludedEmails = map[string]struct{}{}
	}
	return &applicantService{
		repo:         repo,
		tokens:       tokens,
		encoder:      encoder,
		images:       images,
		emailService: emailService,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *applicantService) List(ctx context.Context, params domain.ApplicantListParams) ([]*domain.Applicant, int, error) {
	params.Query = strings.TrimSpace(params.Query)
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list applicants: %w", err)
	}
	if items == nil {
		items = []*domain.Applicant{}
	}
	return items, total, nil
}

func (s *applicantService) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	return a, nil
}

func (s *applicantService) Decide(ctx context.Context, id string, decision domain.Decision, note *string, organizer string) (*domain.Applicant, error) {
	if !decision.Valid() {
		return nil, fmt.Errorf("%w: decision must be accepted, waitlisted or denied", domain.ErrInvalidInput)
	}
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note != nil && strings.TrimSpace(*note) == "" {
		note = nil
	}
	if err := s.apply(ctx, a, decision, note, organizer, false); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *applicantService) BatchAdmit(ctx context.Context, ids []string, organizer string) (*domain.BatchAdmitResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no applicant ids provided", domain.ErrInvalidInput)
	}
	applicants, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}

	var eligible []*domain.Applicant
	for _, a := range applicants {
		if a.Status != domain.StatusPending {
			continue
		}
		if _, excluded := s.cfg.ExcludedEmails[strings.ToLower(a.Email)]; excluded {
			continue
		}
		eligible = append(eligible, a)
	}

	result := &domain.BatchAdmitResult{
		Total:    len(ids),
		Eligible: len(eligible),
		Skipped:  len(applicants) - len(eligible),
		Errors:   []domain.BatchAdmitError{},
	}
	for _, a := range eligible {
		// Pending applicants always get a fresh token.
		if err := s.apply(ctx, a, domain.DecisionAccepted, nil, organizer, true); err != nil {
			s.logger.WarnContext(ctx, "batch admit failed", "applicant_id", a.ID, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, domain.BatchAdmitError{Email: a.Email, Error: err.Error()})
			continue
		}
		result.Admitted++
	}
	s.logger.InfoContext(ctx, "batch admit finished",
		"organizer", organizer, "admitted", result.Admitted, "failed", result.Failed, "skipped", result.Skipped)
	return result, nil
}

// apply persists the decision on a and sends the decision email. a is updated in place.
func (s *applicantService) apply(ctx context.Context, a *domain.Applicant, decision domain.Decision, note *string, organizer string, freshToken bool) error {
	update := domain.DecisionUpdate{
		Status:    string(decision),
		Note:      note,
		QRToken:   a.QRToken,
		DecidedBy: organizer,
		UpdatedAt: time.Now(),
	}

	var qrURL string
	if decision == domain.DecisionAccepted {
		if freshToken || a.QRToken == nil || *a.QRToken == "" {
			token, err := s.tokens.NewToken()
			if err != nil {
				return fmt.Errorf("generate qr token: %w", err)
			}
			update.QRToken = &token
		}
		url, err := s.renderQR(ctx, *update.QRToken)
		if err != nil {
			return err
		}
		qrURL = url
	}

	if err := s.repo.RecordDecision(ctx, a.ID, update); err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return domain.ErrApplicantNotFound
		}
		return fmt.Errorf("record decision: %w", err)
	}
	a.Status = update.Status
	a.DecisionNote = update.Note
	a.QRToken = update.QRToken
	a.DecidedBy = &update.DecidedBy
	a.UpdatedAt = update.UpdatedAt

	data := &domain.DecisionEmailData{
		Email:      a.Email,
		Name:       a.NameOrEmail(),
		Decision:   decision,
		EventName:  s.cfg.EventName,
		QRImageURL: qrURL,
	}
	if err := s.emailService.SendDecision(ctx, data); err != nil {
		return fmt.Errorf("send decision email: %w", err)
	}
	return nil
}

func (s *applicantService) renderQR(ctx context.Context, token string) (string, error) {
	payload, err := json.Marshal(domain.QRPayload{Token: token, EventSlug: s.cfg.EventSlug})
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}
	png, err := s.encoder.EncodePNG(string(payload))
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	url, err := s.images.Put(ctx, token, png)
	if err != nil {
		return "", fmt.Errorf("store qr image: %w", err)
	}
	return url, nil
}
