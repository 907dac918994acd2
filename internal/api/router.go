package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// Student surface
	r.Get("/", h.BrowseHandler)
	r.Get("/topics/{topicID}", h.TopicDetailHandler)

	// Teacher surface
	r.Get("/teacher", h.UploadFormHandler)
	r.Post("/teacher/upload", h.UploadSubmitHandler)

	r.Get("/health", h.HealthHandler)

	return r
}
