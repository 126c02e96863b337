// internal/handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tasktrack/internal/middleware"
	"tasktrack/internal/service"
)

type registerRequest struct {
	PhoneNumber          string `json:"phone_number"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type userResponse struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CreatedAt   string `json:"created_at"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		PhoneNumber:          req.PhoneNumber,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.respond(w, userResponse{
		ID:          user.ID.String(),
		PhoneNumber: user.PhoneNumber,
		Email:       user.Email.String,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, map[string][]string{"detail": {"Invalid request body."}})
		return
	}

	tokens, err := h.users.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.respond(w, map[string]string{
				"detail": "No active account found with the given credentials",
			}, http.StatusUnauthorized)
			return
		}
		h.serviceError(w, err)
		return
	}
	h.respond(w, tokens, http.StatusOK)
}

type profileResponse struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt string `json:"created_at"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	profile, user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.respond(w, profileResponse{
		ID:        profile.ID.String(),
		User:      user.PhoneNumber,
		Email:     user.Email.String,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       profile.Bio.String,
		AvatarURL: profile.AvatarURL.String,
		CreatedAt: profile.CreatedAt.Format(time.RFC3339),
	}, http.StatusOK)
}
