package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

// VerificationSubject is the subject line of the verification mail.
const VerificationSubject = "E-commerce Email Verification"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// VerificationData fills the verification mail template.
type VerificationData struct {
	Username string
	Link     string
}

// RenderVerification renders the HTML body of the verification mail.
func RenderVerification(data VerificationData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "verification_email.html", data); err != nil {
		return "", fmt.Errorf("render verification mail: %w", err)
	}
	return buf.String(), nil
}
