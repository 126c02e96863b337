// internal/handlers/router.go
package handlers

import (
	"net/http"

	"tasktrack/internal/middleware"
)

// Router builds the API mux. Everything except registration and login
// sits behind the auth middleware.
func (h *Handlers) Router(authMW *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register/{$}", h.Register)
	mux.HandleFunc("POST /api/auth/login/{$}", h.Login)

	protect := authMW.RequireAuth

	mux.HandleFunc("GET /api/tasks/{$}", protect(h.ListTasks))
	mux.HandleFunc("POST /api/tasks/{$}", protect(h.CreateTask))
	mux.HandleFunc("GET /api/tasks/statistics/{$}", protect(h.TaskStatistics))
	mux.HandleFunc("POST /api/export-tasks/{$}", protect(h.ExportTasks))
	mux.HandleFunc("GET /api/tasks/{id}/{$}", protect(h.GetTask))
	mux.HandleFunc("PATCH /api/tasks/{id}/{$}", protect(h.UpdateTask))
	mux.HandleFunc("PUT /api/tasks/{id}/{$}", protect(h.UpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}/{$}", protect(h.DeleteTask))
	mux.HandleFunc("POST /api/tasks/{id}/complete/{$}", protect(h.CompleteTask))

	mux.HandleFunc("GET /api/categories/{$}", protect(h.ListCategories))
	mux.HandleFunc("POST /api/categories/{$}", protect(h.CreateCategory))
	mux.HandleFunc("GET /api/categories/{id}/{$}", protect(h.GetCategory))
	mux.HandleFunc("PATCH /api/categories/{id}/{$}", protect(h.UpdateCategory))
	mux.HandleFunc("PUT /api/categories/{id}/{$}", protect(h.UpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}/{$}", protect(h.DeleteCategory))

	mux.HandleFunc("GET /api/tags/{$}", protect(h.ListTags))
	mux.HandleFunc("POST /api/tags/{$}", protect(h.CreateTag))

	mux.HandleFunc("GET /api/profile/{$}", protect(h.GetProfile))

	return middleware.Logging(mux)
}
