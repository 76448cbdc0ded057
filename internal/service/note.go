// Package service contains the business logic for the notes API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmorales/notes-api/internal/domain"
	"github.com/dmorales/notes-api/internal/repo"
)

// NoteService implements business logic for note lifecycle and tag operations.
// It holds both repos because attaching a tag requires verifying the note
// exists, resolving the tag by name, linking, and refreshing the note's
// updated_at — one logical unit against a given note.
type NoteService struct {
	notes repo.NoteRepo
	tags  repo.TagRepo
}

// NewNoteService constructs a NoteService backed by the provided repos.
func NewNoteService(notes repo.NoteRepo, tags repo.TagRepo) *NoteService {
	return &NoteService{notes: notes, tags: tags}
}

// Create validates and persists a new note.
// Any tags supplied on the input are discarded: a fresh note always starts
// tagless, and tags are attached only through AddTag.
// Returns domain.ErrValidation if input violates business rules.
func (s *NoteService) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	if err := validateNote(note); err != nil {
		return domain.Note{}, err
	}
	note.Tags = nil
	result, err := s.notes.Create(ctx, note)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single note with its tags.
// Returns domain.ErrNotFound if no note with that ID exists.
func (s *NoteService) GetByID(ctx context.Context, id uuid.UUID) (domain.Note, error) {
	result, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all notes matching the archive filter, each with tags.
// Always returns a non-nil slice so callers can safely range over it.
func (s *NoteService) List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	notes, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.NoteService.List: %w", err)
	}
	if notes == nil {
		return []domain.Note{}, nil
	}
	return notes, nil
}

// Update validates and overwrites the fields of an existing note, including
// is_deleted — the general update path deliberately does not guard the
// archive flag, mirroring the dedicated archive endpoints' effect.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if the
// note does not exist, and domain.ErrConflict if the note changed since the
// caller read it.
func (s *NoteService) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	if err := validateNote(note); err != nil {
		return domain.Note{}, err
	}
	result, err := s.notes.Update(ctx, note)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}
	return result, nil
}

// Delete physically removes a note and its tag associations.
// Returns domain.ErrNotFound if the note does not exist, including on a
// repeated delete of the same id.
func (s *NoteService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.NoteService.Delete: %w", err)
	}
	return nil
}

// Archive marks a note as archived. Archiving an already-archived note
// succeeds and leaves the flag unchanged, but still refreshes updated_at.
// Returns domain.ErrNotFound if the note does not exist.
func (s *NoteService) Archive(ctx context.Context, id uuid.UUID) error {
	if err := s.notes.SetArchived(ctx, id, true); err != nil {
		return fmt.Errorf("service.NoteService.Archive: %w", err)
	}
	return nil
}

// Unarchive restores a note to the active list.
// Returns domain.ErrNotFound if the note does not exist.
func (s *NoteService) Unarchive(ctx context.Context, id uuid.UUID) error {
	if err := s.notes.SetArchived(ctx, id, false); err != nil {
		return fmt.Errorf("service.NoteService.Unarchive: %w", err)
	}
	return nil
}

// AddTag resolves a tag by exact name — reusing the existing row when one
// exists, creating it otherwise — and links it to the note. Attaching a tag
// the note already carries is a no-op. The note's updated_at is refreshed
// either way.
// Returns domain.ErrNotFound if the note does not exist and
// domain.ErrValidation if the tag name is empty or too long.
func (s *NoteService) AddTag(ctx context.Context, noteID uuid.UUID, tagName string) (domain.Tag, error) {
	if strings.TrimSpace(tagName) == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(tagName) > domain.TagNameMaxLen {
		return domain.Tag{}, fmt.Errorf("%w: tag name must be at most %d characters", domain.ErrValidation, domain.TagNameMaxLen)
	}

	if _, err := s.notes.GetByID(ctx, noteID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.NoteService.AddTag: %w", err)
	}

	tag, err := s.tags.Upsert(ctx, tagName)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.NoteService.AddTag: %w", err)
	}
	if err := s.tags.AddToNote(ctx, noteID, tag.ID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.NoteService.AddTag: %w", err)
	}
	if err := s.notes.Touch(ctx, noteID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.NoteService.AddTag: %w", err)
	}
	return tag, nil
}

// RemoveTag unlinks a tag from a note and refreshes the note's updated_at.
// The tag row itself survives even when no other note references it.
// Returns domain.ErrNotFound when the note is absent or the tag is not
// currently attached to it — callers cannot distinguish the two.
func (s *NoteService) RemoveTag(ctx context.Context, noteID, tagID uuid.UUID) error {
	if err := s.tags.RemoveFromNote(ctx, noteID, tagID); err != nil {
		return fmt.Errorf("service.NoteService.RemoveTag: %w", err)
	}
	if err := s.notes.Touch(ctx, noteID); err != nil {
		return fmt.Errorf("service.NoteService.RemoveTag: %w", err)
	}
	return nil
}

// validateNote enforces business rules common to both Create and Update.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Title must be at most 255 characters, counted in runes.
func validateNote(note domain.Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(note.Title) > domain.TitleMaxLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, domain.TitleMaxLen)
	}
	return nil
}
