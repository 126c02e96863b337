// internal/handlers/tags.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
)

type tagRequest struct {
	Name string `json:"name"`
}

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTagResponse(t *models.Tag) tagResponse {
	return tagResponse{ID: t.ID.String(), Name: t.Name}
}

// ListTags returns every tag name in use. Tags are shared across users
// and carry no task data, so there is no ownership filter here.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagRepo.List(r.Context())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	results := make([]tagResponse, 0, len(tags))
	for i := range tags {
		results = append(results, newTagResponse(&tags[i]))
	}
	h.respond(w, paginated{Count: len(results), Results: results}, http.StatusOK)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}
	if req.Name == "" {
		h.badRequest(w, map[string][]string{"name": {"This field is required."}})
		return
	}

	tag, err := h.tagRepo.Create(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.badRequest(w, map[string][]string{"name": {"tag with this name already exists."}})
			return
		}
		h.serviceError(w, err)
		return
	}
	h.respond(w, newTagResponse(tag), http.StatusCreated)
}
