package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a user-defined label that can be applied to notes.
// Tags are global — not owned by any note. Identity is determined by Name,
// which is unique with exact case-sensitive matching: "Work" and "work"
// are two distinct tags.
//
// The inverse note list of a tag is relationship bookkeeping in the join
// table only; it is never loaded onto this struct or serialized to clients.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// TagNameMaxLen is the maximum tag name length in characters.
const TagNameMaxLen = 100
