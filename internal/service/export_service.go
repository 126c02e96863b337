package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/pkg/email"
)

// csvHeader is the fixed column set of a task export.
var csvHeader = []string{"Title", "Description", "Due Date", "Status", "Priority"}

// ExportService materializes a user's tasks as CSV and emails the file
// as an attachment. It runs on the job queue; the triggering endpoint
// returns before it starts.
type ExportService struct {
	userRepo *repository.UserRepository
	taskRepo *repository.TaskRepository
	emails   email.EmailService
}

func NewExportService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, emails email.EmailService) *ExportService {
	return &ExportService{userRepo: userRepo, taskRepo: taskRepo, emails: emails}
}

// ExportTasks loads all of the user's tasks, renders the CSV and sends
// it. Every failure mode ends in the returned Delivery; nothing
// propagates to the scheduler.
func (s *ExportService) ExportTasks(ctx context.Context, userID uuid.UUID) Delivery {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return Delivery{Sent: false, Reason: fmt.Sprintf("user %s not found", userID)}
		}
		return Delivery{Sent: false, Reason: err.Error()}
	}

	if !user.HasEmail() {
		return Delivery{Recipient: user.PhoneNumber, Sent: false, Reason: "no email address on file"}
	}

	tasks, err := s.taskRepo.ListAllByOwner(ctx, userID)
	if err != nil {
		return Delivery{Recipient: user.Email.String, Sent: false, Reason: err.Error()}
	}

	content, err := renderCSV(tasks)
	if err != nil {
		return Delivery{Recipient: user.Email.String, Sent: false, Reason: err.Error()}
	}

	attachment := email.Attachment{
		Filename:    "tasks.csv",
		ContentType: "text/csv",
		Content:     content,
	}
	data := &email.TaskEmailData{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
	}
	if err := s.emails.SendTaskExport(ctx, user.Email.String, data, attachment); err != nil {
		return Delivery{Recipient: user.Email.String, Sent: false, Reason: err.Error()}
	}

	return Delivery{Recipient: user.Email.String, Sent: true}
}

func renderCSV(tasks []*models.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		dueDate := ""
		if t.DueDate.Valid {
			dueDate = t.DueDate.Time.Format("2006-01-02")
		}
		record := []string{t.Title, t.Description, dueDate, t.Status, t.Priority}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
