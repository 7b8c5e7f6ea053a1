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

const entryColumns = "id, playlist_id, track_id, snapshot_id, added_at"

// PlaylistEntryRepository implements [models.Repository] for [models.PlaylistEntry].
//
// The (playlist_id, track_id) pair is unique, so recording the same track twice fails.
type PlaylistEntryRepository struct {
	db *sql.DB
}

// NewPlaylistEntryRepository creates a PlaylistEntryRepository with the given database connection
func NewPlaylistEntryRepository(db *sql.DB) *PlaylistEntryRepository {
	return &PlaylistEntryRepository{db: db}
}

// Create inserts a ledger entry with a generated ID
func (r *PlaylistEntryRepository) Create(ctx context.Context, entry *models.PlaylistEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO playlist_tracks (`+entryColumns+`) VALUES (?, ?, ?, ?, ?)`,
		id, entry.PlaylistID(), entry.TrackID(), entry.SnapshotID(), entry.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist entry: %w", err)
	}

	entry.SetID(id)
	return nil
}

// Get retrieves a ledger entry by ID
func (r *PlaylistEntryRepository) Get(ctx context.Context, id string) (*models.PlaylistEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM playlist_tracks WHERE id = ?`, id)
	return scanEntry(row)
}

// Exists reports whether trackID was already added to playlistID.
func (r *PlaylistEntryRepository) Exists(ctx context.Context, playlistID, trackID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?)`,
		playlistID, trackID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check playlist entry: %w", err)
	}
	return exists, nil
}

// Delete removes a ledger entry
func (r *PlaylistEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist entry %s: %w", id, shared.ErrRecordNotFound)
	}
	return nil
}

// List returns entries in insertion order, filtered by playlist_id and/or track_id.
func (r *PlaylistEntryRepository) List(ctx context.Context, criteria map[string]any) ([]*models.PlaylistEntry, error) {
	where, args := whereClause(criteria, "playlist_id", "track_id")
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM playlist_tracks`+where+` ORDER BY added_at ASC, rowid ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.PlaylistEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

func scanEntry(s scanner) (*models.PlaylistEntry, error) {
	var (
		id, playlistID, trackID, snapshotID string
		addedAt                             time.Time
	)

	err := s.Scan(&id, &playlistID, &trackID, &snapshotID, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist entry: %w", shared.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist entry: %w", err)
	}
	return models.RestorePlaylistEntry(id, playlistID, trackID, snapshotID, addedAt), nil
}
