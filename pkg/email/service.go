// pkg/email/service.go
package email

import (
	"context"
	"time"
)

// EmailService defines the interface for sending task notifications.
type EmailService interface {
	SendTaskCreated(ctx context.Context, to string, data *TaskEmailData) error
	SendTaskUpdated(ctx context.Context, to string, data *TaskEmailData) error
	SendTaskReminder(ctx context.Context, to string, data *TaskEmailData) error
	SendTaskExport(ctx context.Context, to string, data *TaskEmailData, attachment Attachment) error
}

// EmailTemplate represents an email template
type EmailTemplate struct {
	Subject  string
	TextBody string
}

// TaskEmailData contains data for template rendering
type TaskEmailData struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Title       string
	Status      string
	Priority    string
	Description string
	DueDate     string
	AppName     string
}

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Config holds email service configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AppName      string
}

// Templates holds all email templates
type Templates struct {
	TaskCreated  EmailTemplate
	TaskUpdated  EmailTemplate
	TaskReminder EmailTemplate
	TaskExport   EmailTemplate
}

// NewTemplates creates the default email templates
func NewTemplates() *Templates {
	return &Templates{
		TaskCreated: EmailTemplate{
			Subject: "New Task Created: {{.Title}}",
			TextBody: `Hello {{or .FirstName .PhoneNumber}},

A new task has been created for you.

Task Title: {{.Title}}
Status: {{.Status}}
Priority: {{.Priority}}
Description: {{.Description}}
`,
		},

		TaskUpdated: EmailTemplate{
			Subject: "Task Updated: {{.Title}}",
			TextBody: `Hello {{or .FirstName "User"}},

Your task status or details have been updated.

Title: {{.Title}}
Current Status: {{.Status}}
Current Priority: {{.Priority}}
`,
		},

		TaskReminder: EmailTemplate{
			Subject: "Reminder: '{{.Title}}' is due tomorrow",
			TextBody: `Hello {{.FirstName}} {{.LastName}},

This is a reminder that your task '{{.Title}}' needs to be finished by tomorrow.
Priority: {{.Priority}}

Good luck!
`,
		},

		TaskExport: EmailTemplate{
			Subject: "Your {{.AppName}} task export",
			TextBody: `Hello {{or .FirstName .PhoneNumber}},

Your task export is attached as a CSV file.

Best regards,
The {{.AppName}} Team
`,
		},
	}
}

// SentEmail represents an email captured by MockEmailService.
type SentEmail struct {
	To         string
	Template   string
	Data       *TaskEmailData
	Attachment *Attachment
	SentAt     time.Time
}
