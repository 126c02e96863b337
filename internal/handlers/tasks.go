// internal/handlers/tasks.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"tasktrack/internal/middleware"
	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/internal/service"
)

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     *string  `json:"due_date"`
	CategoryID  *string  `json:"category_id"`
	Tags        []string `json:"tags"`
}

// ListTasks returns one page of the caller's tasks with the filter,
// search and ordering parameters applied.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	q := r.URL.Query()

	filter := repository.TaskFilter{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Page:     1,
		PageSize: h.pageSize,
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("priority"); v != "" {
		filter.Priority = &v
	}
	if v := q.Get("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.badRequest(w, map[string][]string{"category": {"Invalid category."}})
			return
		}
		filter.Category = &id
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			h.notFound(w)
			return
		}
		filter.Page = page
	}

	tasks, count, err := h.tasks.List(r.Context(), ownerID, filter)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	categories, err := h.categoryIndex(r, ownerID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	phone := middleware.UserPhoneFromContext(r.Context())
	results := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		results = append(results, newTaskResponse(t, phone, categories[t.CategoryID.UUID]))
	}
	h.respond(w, paginated{Count: count, Results: results}, http.StatusOK)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}

	input := service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        req.Tags,
	}
	fields := map[string][]string{}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			fields["due_date"] = []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
		} else {
			input.DueDate = &due
		}
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			fields["category_id"] = []string{"Invalid category."}
		} else {
			input.CategoryID = &id
		}
	}
	if len(fields) > 0 {
		h.badRequest(w, fields)
		return
	}

	ownerID, _ := middleware.UserIDFromContext(r.Context())
	task, err := h.tasks.Create(r.Context(), ownerID, input)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondTask(w, r, task, http.StatusCreated)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	task, err := h.tasks.Get(r.Context(), ownerID, id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondTask(w, r, task, http.StatusOK)
}

// UpdateTask applies a partial update. The body is decoded field by
// field so that an absent key, an explicit null and a value are three
// distinct states for due_date, category_id and tags.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}

	input, fields := decodeTaskUpdate(raw)
	if len(fields) > 0 {
		h.badRequest(w, fields)
		return
	}

	ownerID, _ := middleware.UserIDFromContext(r.Context())
	task, err := h.tasks.Update(r.Context(), ownerID, id, input)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respondTask(w, r, task, http.StatusOK)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.tasks.Delete(r.Context(), ownerID, id); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	if _, err := h.tasks.Complete(r.Context(), ownerID, id); err != nil {
		h.serviceError(w, err)
		return
	}
	h.respond(w, map[string]string{"message": "Task marked as done"}, http.StatusOK)
}

func (h *Handlers) TaskStatistics(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	stats, err := h.tasks.Statistics(r.Context(), ownerID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.respond(w, stats, http.StatusOK)
}

// respondTask serializes a single task, resolving its category.
func (h *Handlers) respondTask(w http.ResponseWriter, r *http.Request, task *models.Task, status int) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	phone := middleware.UserPhoneFromContext(r.Context())

	var category *models.Category
	if task.CategoryID.Valid {
		c, err := h.categories.Get(r.Context(), ownerID, task.CategoryID.UUID)
		if err == nil {
			category = c
		}
	}
	h.respond(w, newTaskResponse(task, phone, category), status)
}

// categoryIndex loads the owner's categories keyed by ID for list
// serialization, saving a lookup per row.
func (h *Handlers) categoryIndex(r *http.Request, ownerID uuid.UUID) (map[uuid.UUID]*models.Category, error) {
	categories, err := h.categories.List(r.Context(), ownerID)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]*models.Category, len(categories))
	for i := range categories {
		index[categories[i].ID] = &categories[i]
	}
	return index, nil
}

// decodeTaskUpdate turns a raw JSON object into an update input,
// collecting field-level format errors.
func decodeTaskUpdate(raw map[string]json.RawMessage) (service.TaskUpdateInput, map[string][]string) {
	input := service.TaskUpdateInput{}
	fields := map[string][]string{}

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			fields["title"] = []string{"Not a valid string."}
		} else {
			input.Title = &title
		}
	}
	if v, ok := raw["description"]; ok {
		var description string
		if err := json.Unmarshal(v, &description); err != nil {
			fields["description"] = []string{"Not a valid string."}
		} else {
			input.Description = &description
		}
	}
	if v, ok := raw["status"]; ok {
		var status string
		if err := json.Unmarshal(v, &status); err != nil {
			fields["status"] = []string{"Not a valid string."}
		} else {
			input.Status = &status
		}
	}
	if v, ok := raw["priority"]; ok {
		var priority string
		if err := json.Unmarshal(v, &priority); err != nil {
			fields["priority"] = []string{"Not a valid string."}
		} else {
			input.Priority = &priority
		}
	}
	if v, ok := raw["due_date"]; ok {
		input.DueDateSet = true
		var value *string
		if err := json.Unmarshal(v, &value); err != nil {
			fields["due_date"] = []string{"Not a valid string."}
		} else if value != nil {
			due, err := parseDate(*value)
			if err != nil {
				fields["due_date"] = []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
			} else {
				input.DueDate = &due
			}
		}
	}
	if v, ok := raw["category_id"]; ok {
		input.CategorySet = true
		var value *string
		if err := json.Unmarshal(v, &value); err != nil {
			fields["category_id"] = []string{"Invalid category."}
		} else if value != nil {
			id, err := uuid.Parse(*value)
			if err != nil {
				fields["category_id"] = []string{"Invalid category."}
			} else {
				input.CategoryID = &id
			}
		}
	}
	if v, ok := raw["tags"]; ok {
		input.TagsSet = true
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			fields["tags"] = []string{"Expected a list of items."}
		} else {
			input.Tags = tags
		}
	}

	return input, fields
}
