package service

import (
	"context"
	"log"
	"time"

	"tasktrack/internal/repository"
	"tasktrack/pkg/email"
)

// ReminderService emails users about unfinished tasks due the next day.
type ReminderService struct {
	taskRepo *repository.TaskRepository
	emails   email.EmailService
}

func NewReminderService(taskRepo *repository.TaskRepository, emails email.EmailService) *ReminderService {
	return &ReminderService{taskRepo: taskRepo, emails: emails}
}

// SendDueTomorrowReminders sweeps all users' tasks due tomorrow that are
// still todo or in progress and sends one reminder per task, skipping
// owners without an email. It returns the number of emails sent.
//
// The sweep keeps no sent-marker: running it twice, or two overlapping
// runs, re-sends to every currently qualifying task.
func (s *ReminderService) SendDueTomorrowReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := normalizeDate(now.AddDate(0, 0, 1))

	due, err := s.taskRepo.ListDueOn(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, task := range due {
		if !task.OwnerEmail.Valid || task.OwnerEmail.String == "" {
			continue
		}

		data := &email.TaskEmailData{
			FirstName:   task.OwnerFirstName,
			LastName:    task.OwnerLastName,
			PhoneNumber: task.OwnerPhone,
			Title:       task.Title,
			Status:      task.Status,
			Priority:    task.Priority,
			Description: task.Description,
			DueDate:     tomorrow.Format("2006-01-02"),
		}

		if err := s.emails.SendTaskReminder(ctx, task.OwnerEmail.String, data); err != nil {
			log.Printf("[ERROR] reminder for task %s: %v", task.ID, err)
			continue
		}
		sent++
	}

	log.Printf("[INFO] reminder sweep: %d of %d due tasks notified", sent, len(due))
	return sent, nil
}
