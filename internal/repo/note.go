// Package repo contains all database access logic for the notes API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dmorales/notes-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// noteColumns is the scalar column list shared by every note query.
const noteColumns = `id, title, content, is_deleted, is_complete, created_at, updated_at`

// NoteRepo defines the persistence operations for Notes.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// GetByID and List always return notes with their full tag set populated,
// so callers never observe a partial view of a note.
type NoteRepo interface {
	// Create inserts a new note and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated). Tags on the
	// input are ignored — a fresh note always starts tagless.
	Create(ctx context.Context, note domain.Note) (domain.Note, error)

	// GetByID retrieves a single note with its tags by UUID primary key.
	// Returns domain.ErrNotFound if no note with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Note, error)

	// List returns all notes matching the archive filter, each with tags.
	List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error)

	// Update overwrites the scalar fields of an existing note and returns the
	// updated record (without tags). When note.UpdatedAt is non-zero it is
	// used as an optimistic concurrency token: a stale value yields
	// domain.ErrConflict, a missing row domain.ErrNotFound.
	Update(ctx context.Context, note domain.Note) (domain.Note, error)

	// Delete removes a note by ID; the join table rows cascade away with it.
	// Returns domain.ErrNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetArchived flips the is_deleted flag and refreshes updated_at.
	// Returns domain.ErrNotFound if the note does not exist.
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error

	// Touch refreshes updated_at without changing any other field.
	// Used after tag attach/detach, which mutate the join table only.
	// Returns domain.ErrNotFound if the note does not exist.
	Touch(ctx context.Context, id uuid.UUID) error
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

// Create inserts a new note row and returns the full persisted record.
func (r *pgNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		INSERT INTO notes (title, content, is_complete)
		VALUES (@title, @content, @is_complete)
		RETURNING ` + noteColumns

	args := pgx.NamedArgs{
		"title":       note.Title,
		"content":     note.Content,
		"is_complete": note.IsComplete,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}
	result.Tags = []domain.Tag{}
	return result, nil
}

// GetByID retrieves a note by primary key together with its full tag set.
func (r *pgNoteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Note, error) {
	const q = `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}

	tagsByNote, err := r.loadTags(ctx, []uuid.UUID{result.ID})
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}
	result.Tags = tagsByNote[result.ID]
	if result.Tags == nil {
		result.Tags = []domain.Tag{}
	}
	return result, nil
}

// List returns all notes matching the archive filter, most recent first.
// Tags for the whole result set are batch-loaded with a single join query.
func (r *pgNoteRepo) List(ctx context.Context, filter domain.NoteFilter) ([]domain.Note, error) {
	q := `
		SELECT ` + noteColumns + `
		FROM notes`
	switch filter {
	case domain.FilterActive:
		q += ` WHERE is_deleted = FALSE`
	case domain.FilterArchived:
		q += ` WHERE is_deleted = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	ids := []uuid.UUID{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.NoteRepo.List: scan: %w", err)
		}
		notes = append(notes, n)
		ids = append(ids, n.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: rows: %w", err)
	}

	if len(ids) == 0 {
		return notes, nil
	}
	tagsByNote, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: %w", err)
	}
	for i := range notes {
		notes[i].Tags = tagsByNote[notes[i].ID]
		if notes[i].Tags == nil {
			notes[i].Tags = []domain.Tag{}
		}
	}
	return notes, nil
}

// Update overwrites the scalar fields of a note and returns the updated record.
// A non-zero note.UpdatedAt acts as the optimistic concurrency token: the row
// is only written when the stored updated_at still equals it. On a miss the
// repo distinguishes a vanished row (ErrNotFound) from a changed one (ErrConflict).
func (r *pgNoteRepo) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	q := `
		UPDATE notes
		SET title       = @title,
		    content     = @content,
		    is_deleted  = @is_deleted,
		    is_complete = @is_complete,
		    updated_at  = now()
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":          note.ID,
		"title":       note.Title,
		"content":     note.Content,
		"is_deleted":  note.IsDeleted,
		"is_complete": note.IsComplete,
	}
	if !note.UpdatedAt.IsZero() {
		q += ` AND updated_at = @expected_updated_at`
		args["expected_updated_at"] = note.UpdatedAt
	}
	q += `
		RETURNING ` + noteColumns

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNote(row)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", err)
	}

	// Zero rows: either the row is gone or the concurrency check failed.
	exists, existsErr := r.exists(ctx, note.ID)
	if existsErr != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", existsErr)
	}
	if exists {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", domain.ErrConflict)
	}
	return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", domain.ErrNotFound)
}

// Delete removes a note by primary key. note_tags rows cascade.
func (r *pgNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// SetArchived flips the soft-delete flag and refreshes updated_at.
func (r *pgNoteRepo) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	const q = `
		UPDATE notes
		SET is_deleted = @is_deleted,
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "is_deleted": archived})
	if err != nil {
		return fmt.Errorf("repo.NoteRepo.SetArchived: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NoteRepo.SetArchived: %w", domain.ErrNotFound)
	}
	return nil
}

// Touch refreshes updated_at only.
func (r *pgNoteRepo) Touch(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE notes SET updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.NoteRepo.Touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NoteRepo.Touch: %w", domain.ErrNotFound)
	}
	return nil
}

// exists reports whether a note row with the given id is present.
func (r *pgNoteRepo) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM notes WHERE id = @id)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// loadTags returns the tags attached to each of the given notes, keyed by
// note id, in a single join query. Notes without tags have no map entry.
func (r *pgNoteRepo) loadTags(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	const q = `
		SELECT nt.note_id, t.id, t.name, t.created_at
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = ANY(@note_ids)
		ORDER BY t.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"note_ids": noteIDs})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Tag)
	for rows.Next() {
		var (
			noteID pgtype.UUID
			tagID  pgtype.UUID
			t      domain.Tag
		)
		if err := rows.Scan(&noteID, &tagID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		t.ID = uuid.UUID(tagID.Bytes)
		nid := uuid.UUID(noteID.Bytes)
		out[nid] = append(out[nid], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanNote to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanNote maps a single database row into a domain.Note (without tags).
func scanNote(s scanner) (domain.Note, error) {
	var (
		n  domain.Note
		id pgtype.UUID
	)
	err := s.Scan(&id, &n.Title, &n.Content, &n.IsDeleted, &n.IsComplete, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	return n, nil
}
