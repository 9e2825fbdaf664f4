// Package router wires handlers and middleware into the HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/clouddocs/server/internal/api/http/handler"
	"github.com/clouddocs/server/internal/api/http/middleware"
)

// New builds the router. Health is the only unauthenticated route;
// everything else passes the authenticate middleware first.
func New(
	files *handler.File,
	assist *handler.Assist,
	auth *middleware.Authenticate,
	logging *middleware.Logging,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(logging.Handle)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Handle)

		r.Post("/upload", files.Upload)
		r.Get("/files", files.List)
		r.Delete("/files/{fileID}", files.Delete)
		r.Get("/files/{fileID}/download", files.Download)
		r.Post("/files/{fileID}/share", files.Share)
		r.Put("/files/{fileID}/tags", files.UpdateTags)
		r.Put("/files/{fileID}/rename", files.Rename)

		r.Get("/suggest-tags", assist.SuggestTags)
		r.Get("/suggest-name", assist.SuggestName)
	})

	return r
}
