package services

import (
	"context"
	"fmt"
	"log/slog"

	"karyadi/internal/domain"
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

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.send(ctx, domain.EmailTemplateWelcome, data.Email, data)
}

// SendApplicationStatus tells an applicant that their application changed status.
func (s *emailService) SendApplicationStatus(ctx context.Context, data *domain.ApplicationStatusEmailData) error {
	if data == nil {
		return fmt.Errorf("application status data is nil")
	}
	return s.send(ctx, domain.EmailTemplateApplicationStatus, data.Email, data)
}

// SendEventRegistration confirms an event registration.
func (s *emailService) SendEventRegistration(ctx context.Context, data *domain.EventRegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("event registration data is nil")
	}
	return s.send(ctx, domain.EmailTemplateEventRegistration, data.Email, data)
}
