// pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"text/template"
)

// SMTPEmailService implements EmailService using SMTP
type SMTPEmailService struct {
	config    *Config
	templates *Templates
	auth      smtp.Auth
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *Config) *SMTPEmailService {
	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, config.SMTPHost)

	return &SMTPEmailService{
		config:    config,
		templates: NewTemplates(),
		auth:      auth,
	}
}

// SendTaskCreated notifies the owner that a task was created for them.
func (s *SMTPEmailService) SendTaskCreated(ctx context.Context, to string, data *TaskEmailData) error {
	return s.sendEmail(ctx, to, s.templates.TaskCreated, data, nil)
}

// SendTaskUpdated notifies the owner that a task's details changed.
func (s *SMTPEmailService) SendTaskUpdated(ctx context.Context, to string, data *TaskEmailData) error {
	return s.sendEmail(ctx, to, s.templates.TaskUpdated, data, nil)
}

// SendTaskReminder reminds the owner about a task due tomorrow.
func (s *SMTPEmailService) SendTaskReminder(ctx context.Context, to string, data *TaskEmailData) error {
	return s.sendEmail(ctx, to, s.templates.TaskReminder, data, nil)
}

// SendTaskExport delivers the CSV export as an attachment.
func (s *SMTPEmailService) SendTaskExport(ctx context.Context, to string, data *TaskEmailData, attachment Attachment) error {
	return s.sendEmail(ctx, to, s.templates.TaskExport, data, &attachment)
}

// sendEmail renders the template and sends the message over SMTP.
func (s *SMTPEmailService) sendEmail(ctx context.Context, to string, tmpl EmailTemplate, data *TaskEmailData, attachment *Attachment) error {
	if data.AppName == "" {
		data.AppName = s.config.AppName
	}

	subject, err := s.render(tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("render subject template: %w", err)
	}

	body, err := s.render(tmpl.TextBody, data)
	if err != nil {
		return fmt.Errorf("render body template: %w", err)
	}

	var message []byte
	if attachment != nil {
		message = s.buildMIMEMessage(to, subject, body, attachment)
	} else {
		message = s.buildTextMessage(to, subject, body)
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := smtp.SendMail(addr, s.auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// render executes a template string against the email data
func (s *SMTPEmailService) render(templateStr string, data *TaskEmailData) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateBoundary generates a random boundary for MIME messages
func (s *SMTPEmailService) generateBoundary() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// buildTextMessage builds a plain-text email message
func (s *SMTPEmailService) buildTextMessage(to, subject, body string) []byte {
	message := fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s
`, s.config.FromName, s.config.FromEmail, to, subject, body)

	return []byte(message)
}

// buildMIMEMessage builds a multipart MIME message with a text part and
// a file attachment
func (s *SMTPEmailService) buildMIMEMessage(to, subject, body string, attachment *Attachment) []byte {
	boundary := s.generateBoundary()
	encoded := base64.StdEncoding.EncodeToString(attachment.Content)

	message := fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s
Content-Type: %s; name="%s"
Content-Disposition: attachment; filename="%s"
Content-Transfer-Encoding: base64

%s

--%s--
`, s.config.FromName, s.config.FromEmail, to, subject, boundary,
		boundary, body,
		boundary, attachment.ContentType, attachment.Filename, attachment.Filename, encoded,
		boundary)

	return []byte(message)
}

// TestConnection tests the SMTP connection
func (s *SMTPEmailService) TestConnection(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.Auth(s.auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	return nil
}
