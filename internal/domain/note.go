// Package domain contains the core data types for the notes application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is the top-level aggregate: a short text note owning a set of tags.
// IsDeleted means "archived" — the row stays in the database and the note
// disappears from the active list only. Physical removal happens exclusively
// through delete.
type Note struct {
	ID         uuid.UUID
	Title      string
	Content    string
	IsDeleted  bool
	IsComplete bool
	Tags       []Tag
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NoteFilter selects which archive states a note listing includes.
type NoteFilter string

const (
	// FilterAll returns every note regardless of archive state.
	FilterAll NoteFilter = "all"
	// FilterActive returns notes with IsDeleted = false.
	FilterActive NoteFilter = "active"
	// FilterArchived returns notes with IsDeleted = true.
	FilterArchived NoteFilter = "archived"
)

// TitleMaxLen is the maximum note title length in characters.
const TitleMaxLen = 255
