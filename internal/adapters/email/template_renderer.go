package email

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"karyadi/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Each email template <name> ships as <name>_subject.txt, <name>.html and <name>.txt.
var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

type templateRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewTemplateRenderer returns an EmailTemplateRenderer over the embedded templates.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{html: htmlTemplates, text: textTemplates}
}

// Render returns the subject (collapsed to one line), HTML and plain-text bodies of the named template.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subjectTmpl := r.text.Lookup(templateName + "_subject.txt")
	htmlTmpl := r.html.Lookup(templateName + ".html")
	textTmpl := r.text.Lookup(templateName + ".txt")
	if subjectTmpl == nil || htmlTmpl == nil || textTmpl == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", templateName)
	}

	var b strings.Builder
	if err := subjectTmpl.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", templateName, err)
	}
	subject = strings.Join(strings.Fields(b.String()), " ")

	b.Reset()
	if err := htmlTmpl.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", templateName, err)
	}
	htmlBody = b.String()

	b.Reset()
	if err := textTmpl.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", templateName, err)
	}
	return subject, htmlBody, b.String(), nil
}
