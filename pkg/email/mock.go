// pkg/email/mock.go
package email

import (
	"context"
	"sync"
	"time"
)

// MockEmailService implements EmailService for development and testing.
type MockEmailService struct {
	mu         sync.Mutex
	SentEmails []SentEmail

	// FailWith, when set, makes every send return this error.
	FailWith error
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{
		SentEmails: make([]SentEmail, 0),
	}
}

func (m *MockEmailService) record(to, tmpl string, data *TaskEmailData, attachment *Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.SentEmails = append(m.SentEmails, SentEmail{
		To:         to,
		Template:   tmpl,
		Data:       data,
		Attachment: attachment,
		SentAt:     time.Now(),
	})
	return nil
}

// SendTaskCreated mock implementation
func (m *MockEmailService) SendTaskCreated(ctx context.Context, to string, data *TaskEmailData) error {
	return m.record(to, "task_created", data, nil)
}

// SendTaskUpdated mock implementation
func (m *MockEmailService) SendTaskUpdated(ctx context.Context, to string, data *TaskEmailData) error {
	return m.record(to, "task_updated", data, nil)
}

// SendTaskReminder mock implementation
func (m *MockEmailService) SendTaskReminder(ctx context.Context, to string, data *TaskEmailData) error {
	return m.record(to, "task_reminder", data, nil)
}

// SendTaskExport mock implementation
func (m *MockEmailService) SendTaskExport(ctx context.Context, to string, data *TaskEmailData, attachment Attachment) error {
	return m.record(to, "task_export", data, &attachment)
}

// GetSentEmails returns all sent emails (for testing)
func (m *MockEmailService) GetSentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.SentEmails))
	copy(out, m.SentEmails)
	return out
}

// GetLastSentEmail returns the last sent email (for testing)
func (m *MockEmailService) GetLastSentEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentEmails) == 0 {
		return nil
	}
	last := m.SentEmails[len(m.SentEmails)-1]
	return &last
}

// Clear clears all sent emails (for testing)
func (m *MockEmailService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = make([]SentEmail, 0)
}
