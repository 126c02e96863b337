// Package handlers exposes the JSON API. Handlers decode and
// serialize; validation and ownership live in the services below them.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/jobs"
	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"
)

type Handlers struct {
	tasks      *service.TaskService
	categories *service.CategoryService
	users      *service.UserService
	exports    *service.ExportService
	tagRepo    *repository.TagRepository
	queue      *jobs.Queue
	pageSize   int
}

func New(
	tasks *service.TaskService,
	categories *service.CategoryService,
	users *service.UserService,
	exports *service.ExportService,
	tagRepo *repository.TagRepository,
	queue *jobs.Queue,
	pageSize int,
) *Handlers {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Handlers{
		tasks:      tasks,
		categories: categories,
		users:      users,
		exports:    exports,
		tagRepo:    tagRepo,
		queue:      queue,
		pageSize:   pageSize,
	}
}

func (h *Handlers) respond(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *Handlers) notFound(w http.ResponseWriter) {
	h.respond(w, map[string]string{"detail": "Not found."}, http.StatusNotFound)
}

func (h *Handlers) badRequest(w http.ResponseWriter, fields map[string][]string) {
	h.respond(w, fields, http.StatusBadRequest)
}

// serviceError maps a service failure to its HTTP shape: validation
// errors become a 400 field map, missing or unowned rows become 404,
// anything else is a logged 500.
func (h *Handlers) serviceError(w http.ResponseWriter, err error) {
	if verr, ok := service.AsValidationError(err); ok {
		h.badRequest(w, verr.Fields)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w)
		return
	}
	log.Printf("[ERROR] request failed: %v", err)
	h.respond(w, map[string]string{"detail": "Internal server error."}, http.StatusInternalServerError)
}

// paginated is the list envelope: total match count plus one page.
type paginated struct {
	Count   int         `json:"count"`
	Results interface{} `json:"results"`
}

type categoryResponse struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newCategoryResponse(c *models.Category, ownerPhone string) categoryResponse {
	return categoryResponse{
		ID:        c.ID.String(),
		Owner:     ownerPhone,
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type taskResponse struct {
	ID          string            `json:"id"`
	Owner       string            `json:"owner"`
	Category    *categoryResponse `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	DueDate     *string           `json:"due_date"`
	Tags        []string          `json:"tags"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func newTaskResponse(t *models.Task, ownerPhone string, category *models.Category) taskResponse {
	resp := taskResponse{
		ID:          t.ID.String(),
		Owner:       ownerPhone,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time.Format("2006-01-02")
		resp.DueDate = &due
	}
	if category != nil {
		c := newCategoryResponse(category, ownerPhone)
		resp.Category = &c
	}
	return resp
}

// parseDate parses a YYYY-MM-DD client date.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// pathID parses the {id} segment; a malformed ID behaves like a miss.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}
