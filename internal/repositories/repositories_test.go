package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.MemoryDatabase(context.Background())
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNoteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		repo := NewNoteRepository(setupTestDB(t))
		note := models.NewNote("trk1", "Song", "Artist", "Album", "Songs/Song.md")

		if err := repo.Create(ctx, note); err != nil {
			t.Fatalf("failed to create note: %v", err)
		}
		if note.ID() == "" {
			t.Fatal("note ID should be set after creation")
		}

		got, err := repo.Get(ctx, note.ID())
		if err != nil {
			t.Fatalf("failed to get note: %v", err)
		}
		if got.Path() != "Songs/Song.md" || got.TrackID() != "trk1" || got.Artists() != "Artist" {
			t.Errorf("unexpected note %+v", got)
		}
	})

	t.Run("Create rejects invalid notes", func(t *testing.T) {
		repo := NewNoteRepository(setupTestDB(t))
		if err := repo.Create(ctx, models.NewNote("", "Song", "", "", "x.md")); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Create rejects duplicate paths", func(t *testing.T) {
		repo := NewNoteRepository(setupTestDB(t))
		if err := repo.Create(ctx, models.NewNote("a", "Song", "", "", "Songs/Song.md")); err != nil {
			t.Fatal(err)
		}
		if err := repo.Create(ctx, models.NewNote("b", "Song", "", "", "Songs/Song.md")); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	t.Run("GetByPath", func(t *testing.T) {
		repo := NewNoteRepository(setupTestDB(t))
		note := models.NewNote("trk1", "Song", "Artist", "Album", "Songs/Song.md")
		repo.Create(ctx, note)

		got, err := repo.GetByPath(ctx, "Songs/Song.md")
		if err != nil {
			t.Fatalf("GetByPath() error = %v", err)
		}
		if got.ID() != note.ID() {
			t.Errorf("expected %s, got %s", note.ID(), got.ID())
		}

		if _, err := repo.GetByPath(ctx, "missing.md"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("List filters and limits", func(t *testing.T) {
		repo := NewNoteRepository(setupTestDB(t))
		repo.Create(ctx, models.NewNote("a", "One", "", "X", "1.md"))
		repo.Create(ctx, models.NewNote("b", "Two", "", "Y", "2.md"))
		repo.Create(ctx, models.NewNote("a", "Three", "", "X", "3.md"))

		all, err := repo.List(ctx, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 notes, got %d", len(all))
		}

		byTrack, _ := repo.List(ctx, map[string]any{"track_id": "a"})
		if len(byTrack) != 2 {
			t.Errorf("expected 2 notes for track a, got %d", len(byTrack))
		}

		limited, _ := repo.List(ctx, map[string]any{"limit": 1})
		if len(limited) != 1 {
			t.Errorf("expected 1 note, got %d", len(limited))
		}

		ignored, _ := repo.List(ctx, map[string]any{"path; DROP TABLE notes": "x"})
		if len(ignored) != 3 {
			t.Errorf("unknown criteria should be ignored, got %d notes", len(ignored))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewNoteRepository(setupTestDB(t))
		note := models.NewNote("a", "One", "", "", "1.md")
		repo.Create(ctx, note)

		if err := repo.Delete(ctx, note.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(ctx, note.ID()); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound on second delete, got %v", err)
		}
	})
}

func TestPlaylistEntryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists tracks added entries", func(t *testing.T) {
		repo := NewPlaylistEntryRepository(setupTestDB(t))

		exists, err := repo.Exists(ctx, "pl", "trk")
		if err != nil || exists {
			t.Fatalf("Exists() = %v, %v; want false, nil", exists, err)
		}

		entry := models.NewPlaylistEntry("pl", "trk", "snap1")
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		exists, err = repo.Exists(ctx, "pl", "trk")
		if err != nil || !exists {
			t.Errorf("Exists() = %v, %v; want true, nil", exists, err)
		}

		got, err := repo.Get(ctx, entry.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.SnapshotID() != "snap1" {
			t.Errorf("expected snapshot snap1, got %s", got.SnapshotID())
		}
	})

	t.Run("Duplicate pair is rejected", func(t *testing.T) {
		repo := NewPlaylistEntryRepository(setupTestDB(t))
		repo.Create(ctx, models.NewPlaylistEntry("pl", "trk", ""))
		if err := repo.Create(ctx, models.NewPlaylistEntry("pl", "trk", "")); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	t.Run("List and Delete", func(t *testing.T) {
		repo := NewPlaylistEntryRepository(setupTestDB(t))
		first := models.NewPlaylistEntry("pl", "a", "")
		repo.Create(ctx, first)
		repo.Create(ctx, models.NewPlaylistEntry("pl", "b", ""))
		repo.Create(ctx, models.NewPlaylistEntry("other", "a", ""))

		entries, err := repo.List(ctx, map[string]any{"playlist_id": "pl"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 || entries[0].TrackID() != "a" {
			t.Errorf("unexpected entries %v", entries)
		}

		if err := repo.Delete(ctx, first.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(ctx, first.ID()); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(map[string]any{"b": "2", "a": "1", "c": "3", "empty": ""}, "a", "b", "empty")
	if where != " WHERE a = ? AND b = ?" {
		t.Errorf("unexpected clause %q", where)
	}
	if len(args) != 2 || args[0] != "1" {
		t.Errorf("unexpected args %v", args)
	}
}
