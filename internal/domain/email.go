package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// Email template names.
const (
	EmailTemplateWelcome           = "welcome"
	EmailTemplateApplicationStatus = "application_status"
	EmailTemplateEventRegistration = "event_registration"
)

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// ApplicationStatusEmailData holds data for the application status notification.
type ApplicationStatusEmailData struct {
	Email    string
	Name     string
	JobTitle string
	Status   string
	Note     string
}

// EventRegistrationEmailData holds data for the event registration confirmation.
type EventRegistrationEmailData struct {
	Email      string
	Name       string
	EventTitle string
	StartsAt   string
	Location   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendApplicationStatus(ctx context.Context, data *ApplicationStatusEmailData) error
	SendEventRegistration(ctx context.Context, data *EventRegistrationEmailData) error
}
