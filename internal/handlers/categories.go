// internal/handlers/categories.go
package handlers

import (
	"encoding/json"
	"net/http"

	"tasktrack/internal/middleware"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	categories, err := h.categories.List(r.Context(), ownerID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	phone := middleware.UserPhoneFromContext(r.Context())
	results := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		results = append(results, newCategoryResponse(&categories[i], phone))
	}
	h.respond(w, paginated{Count: len(results), Results: results}, http.StatusOK)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}

	ownerID, _ := middleware.UserIDFromContext(r.Context())
	category, err := h.categories.Create(r.Context(), ownerID, req.Name)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	phone := middleware.UserPhoneFromContext(r.Context())
	h.respond(w, newCategoryResponse(category, phone), http.StatusCreated)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	category, err := h.categories.Get(r.Context(), ownerID, id)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	phone := middleware.UserPhoneFromContext(r.Context())
	h.respond(w, newCategoryResponse(category, phone), http.StatusOK)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}

	ownerID, _ := middleware.UserIDFromContext(r.Context())
	category, err := h.categories.Update(r.Context(), ownerID, id, req.Name)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	phone := middleware.UserPhoneFromContext(r.Context())
	h.respond(w, newCategoryResponse(category, phone), http.StatusOK)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w)
		return
	}
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	if err := h.categories.Delete(r.Context(), ownerID, id); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
