package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmorales/notes-api/internal/domain"
)

// noteRequest is the JSON payload accepted by POST /notes and PUT /notes/{id}.
// Create ignores everything except title, content, and isComplete; any tags
// field is discarded (tags are attached through the tag endpoint only).
// Update reads id for the path-match check, isDeleted as-is, and updatedAt
// as the optimistic concurrency token.
type noteRequest struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsDeleted  bool      `json:"isDeleted"`
	IsComplete bool      `json:"isComplete"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// tagRequest is the JSON payload accepted by POST /notes/{id}/tags.
type tagRequest struct {
	Name string `json:"name"`
}

// noteResponse is the JSON shape of a note returned to clients.
type noteResponse struct {
	ID         uuid.UUID     `json:"id"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	IsDeleted  bool          `json:"isDeleted"`
	IsComplete bool          `json:"isComplete"`
	Tags       []tagResponse `json:"tags"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// tagResponse is the JSON shape of a tag inside a note's tags array.
// A tag's own note list is never serialized.
type tagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// listNotes returns the handler for the three list endpoints; the filter is
// fixed per route (/notes, /notes/active, /notes/archived).
func (s *Server) listNotes(filter domain.NoteFilter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := s.notes.List(r.Context(), filter)
		if err != nil {
			writeServiceError(w, r, err, "")
			return
		}

		resp := make([]noteResponse, len(notes))
		for i, n := range notes {
			resp[i] = noteToResponse(n)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// getNote handles GET /notes/{id}.
func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	note, err := s.notes.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(note))
}

// createNote handles POST /notes. Responds 201 with the persisted note and a
// Location header pointing at it.
func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	note, err := s.notes.Create(r.Context(), domain.Note{
		Title:      req.Title,
		Content:    req.Content,
		IsComplete: req.IsComplete,
	})
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	w.Header().Set("Location", "/notes/"+note.ID.String())
	writeJSON(w, http.StatusCreated, noteToResponse(note))
}

// updateNote handles PUT /notes/{id}. The payload must carry the same id as
// the path. All scalar fields are replaced, including isDeleted — the update
// path does not guard the archive flag.
func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ID != id {
		writeBadRequest(w, "payload id does not match path id")
		return
	}

	_, err := s.notes.Update(r.Context(), domain.Note{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		IsDeleted:  req.IsDeleted,
		IsComplete: req.IsComplete,
		UpdatedAt:  req.UpdatedAt,
	})
	if err != nil {
		writeServiceError(w, r, err, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteNote handles DELETE /notes/{id} — physical removal, not archive.
func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := s.notes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// archiveNote handles PUT /notes/{id}/archive.
func (s *Server) archiveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := s.notes.Archive(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// unarchiveNote handles PUT /notes/{id}/unarchive.
func (s *Server) unarchiveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := s.notes.Unarchive(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addTagToNote handles POST /notes/{id}/tags.
func (s *Server) addTagToNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if _, err := s.notes.AddTag(r.Context(), id, req.Name); err != nil {
		writeServiceError(w, r, err, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// removeTagFromNote handles DELETE /notes/{id}/tags/{tagID}.
// A missing note and an unattached tag produce the same 404.
func (s *Server) removeTagFromNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	tagID, ok := parseID(w, r, "tagID")
	if !ok {
		return
	}

	if err := s.notes.RemoveTag(r.Context(), id, tagID); err != nil {
		writeServiceError(w, r, err, "tag not attached to note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseID extracts and parses a UUID path parameter. On failure it writes a
// 400 response and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeBadRequest(w, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// noteToResponse converts a domain.Note to its API response shape.
func noteToResponse(n domain.Note) noteResponse {
	tags := make([]tagResponse, len(n.Tags))
	for i, t := range n.Tags {
		tags[i] = tagResponse{ID: t.ID, Name: t.Name}
	}
	return noteResponse{
		ID:         n.ID,
		Title:      n.Title,
		Content:    n.Content,
		IsDeleted:  n.IsDeleted,
		IsComplete: n.IsComplete,
		Tags:       tags,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
