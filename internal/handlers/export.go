// internal/handlers/export.go
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"tasktrack/internal/middleware"
)

// ExportTasks queues a CSV export of the caller's tasks for delivery by
// email. The export itself runs on the job queue; the request returns
// as soon as the job is accepted.
func (h *Handlers) ExportTasks(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	accepted := h.queue.Enqueue("export-tasks", func(ctx context.Context) error {
		delivery := h.exports.ExportTasks(ctx, userID)
		if !delivery.Sent {
			return fmt.Errorf("export not delivered: %s", delivery.Reason)
		}
		return nil
	})
	if !accepted {
		h.respond(w, map[string]string{
			"detail": "Export queue is full, try again later.",
		}, http.StatusServiceUnavailable)
		return
	}

	h.respond(w, map[string]string{
		"message": "Export started. You will receive an email when it is ready.",
	}, http.StatusAccepted)
}
