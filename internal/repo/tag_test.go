package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmorales/notes-api/internal/domain"
)

// ---- Upsert ----------------------------------------------------------------

func TestTagRepo_Upsert_Create(t *testing.T) {
	_, tags := newTestRepos(t)

	got, err := tags.Upsert(context.Background(), "home")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "home", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTagRepo_Upsert_IdempotentByName(t *testing.T) {
	_, tags := newTestRepos(t)
	ctx := context.Background()

	first, err := tags.Upsert(ctx, "work")
	require.NoError(t, err)

	second, err := tags.Upsert(ctx, "work")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same name must return same tag")

	all, err := tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "exactly one tag row for the name")
}

func TestTagRepo_Upsert_NameIsCaseSensitive(t *testing.T) {
	_, tags := newTestRepos(t)
	ctx := context.Background()

	lower, err := tags.Upsert(ctx, "work")
	require.NoError(t, err)
	upper, err := tags.Upsert(ctx, "Work")
	require.NoError(t, err)

	assert.NotEqual(t, lower.ID, upper.ID, "dedup compares exact strings")
}

// ---- AddToNote / RemoveFromNote --------------------------------------------

func TestTagRepo_AddToNote(t *testing.T) {
	notes, tags := newTestRepos(t)
	ctx := context.Background()
	note := mustCreateNote(t, notes)

	tag, err := tags.Upsert(ctx, "home")
	require.NoError(t, err)

	err = tags.AddToNote(ctx, note.ID, tag.ID)

	require.NoError(t, err)
	got, err := notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, tag.ID, got.Tags[0].ID)
}

func TestTagRepo_AddToNote_Idempotent(t *testing.T) {
	notes, tags := newTestRepos(t)
	ctx := context.Background()
	note := mustCreateNote(t, notes)

	tag, err := tags.Upsert(ctx, "home")
	require.NoError(t, err)

	require.NoError(t, tags.AddToNote(ctx, note.ID, tag.ID))
	// Adding the same tag twice must not error or duplicate the link.
	require.NoError(t, tags.AddToNote(ctx, note.ID, tag.ID))

	got, err := notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1, "no duplicate entry in the tag set")
}

func TestTagRepo_AddToNote_SharedAcrossNotes(t *testing.T) {
	notes, tags := newTestRepos(t)
	ctx := context.Background()

	a := mustCreateNote(t, notes)
	b := mustCreateNote(t, notes)
	tag, err := tags.Upsert(ctx, "work")
	require.NoError(t, err)

	require.NoError(t, tags.AddToNote(ctx, a.ID, tag.ID))
	require.NoError(t, tags.AddToNote(ctx, b.ID, tag.ID))

	all, err := tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "one tag row referenced by both notes")
}

func TestTagRepo_RemoveFromNote(t *testing.T) {
	notes, tags := newTestRepos(t)
	ctx := context.Background()
	note := mustCreateNote(t, notes)

	tag, err := tags.Upsert(ctx, "home")
	require.NoError(t, err)
	require.NoError(t, tags.AddToNote(ctx, note.ID, tag.ID))

	err = tags.RemoveFromNote(ctx, note.ID, tag.ID)

	require.NoError(t, err)
	got, err := notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	// Detaching never deletes the tag row itself.
	kept, err := tags.GetByID(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "home", kept.Name)
}

func TestTagRepo_RemoveFromNote_NotAttached(t *testing.T) {
	notes, tags := newTestRepos(t)
	ctx := context.Background()
	note := mustCreateNote(t, notes)

	tag, err := tags.Upsert(ctx, "home")
	require.NoError(t, err)

	err = tags.RemoveFromNote(ctx, note.ID, tag.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagRepo_RemoveFromNote_NoteMissing(t *testing.T) {
	_, tags := newTestRepos(t)
	ctx := context.Background()

	tag, err := tags.Upsert(ctx, "home")
	require.NoError(t, err)

	err = tags.RemoveFromNote(ctx, uuid.New(), tag.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagRepo_RemoveFromNote_OtherNoteUnaffected(t *testing.T) {
	notes, tags := newTestRepos(t)
	ctx := context.Background()

	a := mustCreateNote(t, notes)
	b := mustCreateNote(t, notes)
	tag, err := tags.Upsert(ctx, "work")
	require.NoError(t, err)
	require.NoError(t, tags.AddToNote(ctx, a.ID, tag.ID))
	require.NoError(t, tags.AddToNote(ctx, b.ID, tag.ID))

	require.NoError(t, tags.RemoveFromNote(ctx, a.ID, tag.ID))

	gotB, err := notes.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, gotB.Tags, 1)
	assert.Equal(t, tag.ID, gotB.Tags[0].ID)
}

// ---- GetByID / List --------------------------------------------------------

func TestTagRepo_GetByID_NotFound(t *testing.T) {
	_, tags := newTestRepos(t)

	_, err := tags.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagRepo_List_OrderedByName(t *testing.T) {
	_, tags := newTestRepos(t)
	ctx := context.Background()

	_, err := tags.Upsert(ctx, "work")
	require.NoError(t, err)
	_, err = tags.Upsert(ctx, "home")
	require.NoError(t, err)

	got, err := tags.List(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "home", got[0].Name)
	assert.Equal(t, "work", got[1].Name)
}
