package service

import (
	"context"
	"fmt"
	"log"

	"tasktrack/internal/jobs"
	"tasktrack/internal/models"
	"tasktrack/pkg/email"
)

// Delivery is the typed outcome of an asynchronous send attempt. It is
// logged, never propagated to the request that triggered the send.
type Delivery struct {
	Recipient string
	Sent      bool
	Reason    string
}

func (d Delivery) String() string {
	if d.Sent {
		return fmt.Sprintf("sent to %s", d.Recipient)
	}
	return fmt.Sprintf("not sent to %q: %s", d.Recipient, d.Reason)
}

// Dispatcher reacts to task events by enqueueing email delivery jobs.
// It implements Notifier. The enqueue happens synchronously with the
// triggering mutation; the delivery itself runs on the job queue.
type Dispatcher struct {
	queue  *jobs.Queue
	emails email.EmailService
}

func NewDispatcher(queue *jobs.Queue, emails email.EmailService) *Dispatcher {
	return &Dispatcher{queue: queue, emails: emails}
}

// NotifyTaskSaved enqueues a notification for a created or updated task.
// Owners without an email address are skipped silently.
func (d *Dispatcher) NotifyTaskSaved(ctx context.Context, event TaskEvent) {
	if !event.Owner.HasEmail() {
		return
	}

	to := event.Owner.Email.String
	kind := event.Kind
	data := taskEmailData(event.Owner, event.Task)

	d.queue.Enqueue(fmt.Sprintf("notify-task-%s", kind), func(jobCtx context.Context) error {
		delivery := d.deliver(jobCtx, kind, to, data)
		log.Printf("[INFO] task %s notification: %s", kind, delivery)
		if !delivery.Sent {
			return fmt.Errorf("deliver notification: %s", delivery.Reason)
		}
		return nil
	})
}

func (d *Dispatcher) deliver(ctx context.Context, kind EventKind, to string, data *email.TaskEmailData) Delivery {
	var err error
	switch kind {
	case EventTaskCreated:
		err = d.emails.SendTaskCreated(ctx, to, data)
	default:
		err = d.emails.SendTaskUpdated(ctx, to, data)
	}

	if err != nil {
		return Delivery{Recipient: to, Sent: false, Reason: err.Error()}
	}
	return Delivery{Recipient: to, Sent: true}
}

// taskEmailData snapshots the fields the templates need.
func taskEmailData(owner *models.User, task *models.Task) *email.TaskEmailData {
	data := &email.TaskEmailData{
		FirstName:   owner.FirstName,
		LastName:    owner.LastName,
		PhoneNumber: owner.PhoneNumber,
		Title:       task.Title,
		Status:      task.Status,
		Priority:    task.Priority,
		Description: task.Description,
	}
	if task.DueDate.Valid {
		data.DueDate = task.DueDate.Time.Format("2006-01-02")
	}
	return data
}
