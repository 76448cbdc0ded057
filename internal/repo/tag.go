package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dmorales/notes-api/internal/domain"
)

// TagRepo defines the persistence operations for Tags and the note_tags
// join table. Tag rows are shared across notes and are never deleted by
// detaching them — an orphaned tag simply waits for its next use.
type TagRepo interface {
	// Upsert inserts a tag by name, or returns the existing tag if a tag
	// with the exact same name already exists. The unique constraint on
	// name makes this an atomic find-or-create: two concurrent calls with
	// the same unseen name resolve to a single row.
	Upsert(ctx context.Context, name string) (domain.Tag, error)

	// AddToNote links a tag to a note. Idempotent — no error if already linked.
	AddToNote(ctx context.Context, noteID, tagID uuid.UUID) error

	// RemoveFromNote unlinks a tag from a note.
	// Returns domain.ErrNotFound if no such link exists — which covers both
	// a missing note and a tag that was never attached to it.
	RemoveFromNote(ctx context.Context, noteID, tagID uuid.UUID) error

	// GetByID retrieves a single tag by its UUID primary key.
	// Returns domain.ErrNotFound if no tag with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error)

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]domain.Tag, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// Upsert inserts a tag or returns the existing row on name conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when
// the conflict handler skips the insert — without it, RETURNING returns
// nothing on DO NOTHING conflicts.
func (r *pgTagRepo) Upsert(ctx context.Context, name string) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Upsert: %w", err)
	}
	return result, nil
}

// AddToNote links a tag to a note. Idempotent via ON CONFLICT DO NOTHING —
// the join table's composite primary key rejects duplicates structurally.
func (r *pgTagRepo) AddToNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	const q = `
		INSERT INTO note_tags (note_id, tag_id)
		VALUES (@note_id, @tag_id)
		ON CONFLICT (note_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"note_id": noteID, "tag_id": tagID})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.AddToNote: %w", err)
	}
	return nil
}

// RemoveFromNote unlinks a tag from a note. The tag row itself is untouched.
func (r *pgTagRepo) RemoveFromNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	const q = `
		DELETE FROM note_tags
		WHERE note_id = @note_id
		  AND tag_id = @tag_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"note_id": noteID, "tag_id": tagID})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.RemoveFromNote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.RemoveFromNote: %w", domain.ErrNotFound)
	}
	return nil
}

// GetByID retrieves a tag by primary key.
func (r *pgTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	const q = `
		SELECT id, name, created_at
		FROM tags
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all tags ordered by name.
func (r *pgTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	const q = `
		SELECT id, name, created_at
		FROM tags
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo.List: scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: rows: %w", err)
	}
	return tags, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t  domain.Tag
		id pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
