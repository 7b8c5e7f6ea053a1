package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/shared"
)

const noteColumns = "id, track_id, title, artists, album, path, created_at"

// NoteRepository implements [models.Repository] for [models.Note].
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a NoteRepository with the given database connection
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note with a generated ID
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, note.TrackID(), note.Title(), note.Artists(), note.Album(), note.Path(), note.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	note.SetID(id)
	return nil
}

// Get retrieves a note by ID
func (r *NoteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

// GetByPath retrieves the note recorded for a vault path
func (r *NoteRepository) GetByPath(ctx context.Context, path string) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE path = ?`, path)
	return scanNote(row)
}

// Delete removes a note record. The vault file is left alone.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("note %s: %w", id, shared.ErrRecordNotFound)
	}
	return nil
}

// List returns notes newest first, filtered by track_id and/or album.
func (r *NoteRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Note, error) {
	where, args := whereClause(criteria, "track_id", "album")
	query := `SELECT ` + noteColumns + ` FROM notes` + where + ` ORDER BY created_at DESC, rowid DESC`

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return notes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		id, trackID, title, artists, album, path string
		createdAt                                time.Time
	)

	err := s.Scan(&id, &trackID, &title, &artists, &album, &path, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note: %w", shared.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	return models.RestoreNote(id, trackID, title, artists, album, path, createdAt), nil
}
