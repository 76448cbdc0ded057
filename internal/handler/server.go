// Package handler implements the HTTP layer of the notes API.
// Handlers decode JSON, call the service layer, and map domain errors to
// status codes. All handlers are methods on Server; they are split into
// resource-specific files but share the same struct and dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmorales/notes-api/internal/domain"
	"github.com/dmorales/notes-api/spec"
)

// NoteServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type NoteServicer interface {
	Create(ctx context.Context, note domain.Note) (domain.Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Note, error)
	List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error)
	Update(ctx context.Context, note domain.Note) (domain.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Archive(ctx context.Context, id uuid.UUID) error
	Unarchive(ctx context.Context, id uuid.UUID) error
	AddTag(ctx context.Context, noteID uuid.UUID, tagName string) (domain.Tag, error)
	RemoveTag(ctx context.Context, noteID, tagID uuid.UUID) error
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	notes NoteServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(notes NoteServicer) *Server {
	return &Server{notes: notes}
}

// Routes returns the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", s.listNotes(domain.FilterAll))
		r.Get("/active", s.listNotes(domain.FilterActive))
		r.Get("/archived", s.listNotes(domain.FilterArchived))
		r.Post("/", s.createNote)

		r.Get("/{id}", s.getNote)
		r.Put("/{id}", s.updateNote)
		r.Delete("/{id}", s.deleteNote)
		r.Put("/{id}/archive", s.archiveNote)
		r.Put("/{id}/unarchive", s.unarchiveNote)

		r.Post("/{id}/tags", s.addTagToNote)
		r.Delete("/{id}/tags/{tagID}", s.removeTagFromNote)
	})

	return r
}

// getOpenAPI serves the embedded OpenAPI document.
// Serving it from the binary means the spec and the running code are
// always in sync.
func (s *Server) getOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
