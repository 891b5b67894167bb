package services

import (
	"context"
	"fmt"
	"log/slog"

	"applicantdesk/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendDecision renders the "decision_<decision>" template and sends it to the applicant.
func (s *emailService) SendDecision(ctx context.Context, data *domain.DecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("decision email data is nil")
	}
	if !data.Decision.Valid() {
		return fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidInput, data.Decision)
	}
	name := "decision_" + string(data.Decision)
	subject, htmlBody, textBody, err := s.renderer.Render(name, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", name, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", data.Decision, err)
	}
	s.logger.InfoContext(ctx, "decision email sent", "to", data.Email, "decision", string(data.Decision))
	return nil
}
