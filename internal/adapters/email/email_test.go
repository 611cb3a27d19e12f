package email

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karyadi/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTemplateRenderer_Render(t *testing.T) {
	r := NewTemplateRenderer()

	tests := []struct {
		name        string
		template    string
		data        any
		wantSubject string
		wantInHTML  string
		wantInText  string
	}{
		{
			name:        "welcome",
			template:    domain.EmailTemplateWelcome,
			data:        &domain.WelcomeMessageEmailData{Email: "ana@example.com", Name: "Ana"},
			wantSubject: "Welcome to KARYADI, Ana",
			wantInHTML:  "ana@example.com",
			wantInText:  "Welcome, Ana!",
		},
		{
			name:     "application status with note",
			template: domain.EmailTemplateApplicationStatus,
			data: &domain.ApplicationStatusEmailData{
				Name: "Ana", JobTitle: "Backend Engineer", Status: "shortlisted", Note: "See you Monday",
			},
			wantSubject: "Your application for Backend Engineer is now shortlisted",
			wantInHTML:  "See you Monday",
			wantInText:  "changed to shortlisted",
		},
		{
			name:     "event registration",
			template: domain.EmailTemplateEventRegistration,
			data: &domain.EventRegistrationEmailData{
				Name: "Ana", EventTitle: "GoConf", StartsAt: "2026-11-01 09:00 UTC", Location: "Jakarta",
			},
			wantSubject: "You're registered for GoConf",
			wantInHTML:  "Jakarta",
			wantInText:  "2026-11-01 09:00 UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html, text, err := r.Render(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Contains(t, html, tt.wantInHTML)
			assert.Contains(t, text, tt.wantInText)
		})
	}
}

func TestTemplateRenderer_escapesHTML(t *testing.T) {
	r := NewTemplateRenderer()
	_, html, text, err := r.Render("welcome", &domain.WelcomeMessageEmailData{Name: "<b>x</b>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, text, "<b>x</b>")
}

func TestTemplateRenderer_applicationStatusWithoutNote(t *testing.T) {
	_, html, text, err := NewTemplateRenderer().Render(domain.EmailTemplateApplicationStatus, &domain.ApplicationStatusEmailData{
		Name: "Ana", JobTitle: "Backend Engineer", Status: "rejected",
	})
	require.NoError(t, err)
	assert.NotContains(t, text, "Note from the employer")
	assert.Contains(t, html, "rejected")
}

func TestTemplateRenderer_subjectIsOneLine(t *testing.T) {
	subject, _, _, err := NewTemplateRenderer().Render(domain.EmailTemplateEventRegistration, &domain.EventRegistrationEmailData{
		EventTitle: "GoConf\nDay 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "You're registered for GoConf Day 2", subject)
}

func TestTemplateRenderer_unknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown email template "missing"`)
}

func TestTemplateRenderer_wrongData(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render(domain.EmailTemplateEventRegistration, &domain.WelcomeMessageEmailData{Name: "Ana"})
	require.Error(t, err)
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	require.NoError(t, m.Send(context.Background(), "a@b.c", "s", "<p>h</p>", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, testLogger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, testLogger)
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "no-reply@x.io", FromName: "X", SES: SESConfig{Region: "us-east-1"}}, testLogger)
	require.NoError(t, err)
	require.IsType(t, &sesMailer{}, m)
	assert.Equal(t, "X <no-reply@x.io>", m.(*sesMailer).source())
}

func TestBuildSendEmailInput(t *testing.T) {
	in := buildSendEmailInput("a@x.io", "b@y.io", "hi", "", "plain")
	assert.Equal(t, "a@x.io", aws.ToString(in.Source))
	assert.Equal(t, []string{"b@y.io"}, in.Destination.ToAddresses)
	assert.Equal(t, "hi", aws.ToString(in.Message.Subject.Data))
	assert.Nil(t, in.Message.Body.Html)
	require.NotNil(t, in.Message.Body.Text)
	assert.Equal(t, "plain", aws.ToString(in.Message.Body.Text.Data))
}
