package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/repositories"
	"github.com/desertthunder/songnote/internal/services"
	"github.com/desertthunder/songnote/internal/shared"
	"github.com/desertthunder/songnote/internal/tasks"
)

// noteSummary is the JSON shape of a note result.
type noteSummary struct {
	Path          string `json:"path"`
	File          string `json:"file"`
	TrackID       string `json:"track_id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Existed       bool   `json:"existed"`
	Playlist      string `json:"playlist"`
	PlaylistError string `json:"playlist_error,omitempty"`
}

// noteRecord is the JSON shape of a history entry.
type noteRecord struct {
	ID        string    `json:"id"`
	TrackID   string    `json:"track_id"`
	Title     string    `json:"title"`
	Artists   string    `json:"artists"`
	Album     string    `json:"album"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// NoteCreate creates a note for the track argument, or opens the interactive prompt when none is given.
func (r *Runner) NoteCreate(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("track")
	skipPlaylist := cmd.Bool("no-playlist")

	if input == "" {
		return r.NotePrompt(ctx, skipPlaylist)
	}

	creator, err := r.creator(ctx, skipPlaylist)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	drained := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
		close(drained)
	}()

	result, err := creator.Run(ctx, input, progress)
	close(progress)
	<-drained
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(r.summarize(result), true)
	}
	return r.printNoteResult(result)
}

func (r *Runner) summarize(result *tasks.NoteResult) noteSummary {
	s := noteSummary{
		Path:     result.Path,
		TrackID:  result.Track.ID,
		Title:    result.Track.Name,
		Artist:   result.Track.ArtistLine(),
		Existed:  result.Existed,
		Playlist: result.Playlist.String(),
	}
	if r.vault != nil {
		s.File = r.vault.Abs(result.Path)
	}
	if result.PlaylistErr != nil {
		s.PlaylistError = result.PlaylistErr.Error()
	}
	return s
}

func (r *Runner) printNoteResult(result *tasks.NoteResult) error {
	if result.Existed {
		return r.writePlain("• Note already exists: %s\n", result.Path)
	}

	r.writePlain("✓ Created note: %s\n", result.Path)
	switch result.Playlist {
	case tasks.PlaylistAdded:
		r.writePlain("✓ Added to playlist\n")
	case tasks.PlaylistAlreadyAdded:
		r.writePlain("• Song already in playlist\n")
	case tasks.PlaylistNotAuthenticated:
		r.writePlain("⚠ Not authenticated with Spotify. Run 'songnote auth login' to add songs to the playlist.\n")
	case tasks.PlaylistFailed:
		r.writePlain("✗ Failed to add to playlist: %v\n", result.PlaylistErr)
	}
	return nil
}

// NoteList prints the note history, newest first.
func (r *Runner) NoteList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if input := cmd.String("track"); input != "" {
		id, ok := services.ExtractTrackID(input)
		if !ok {
			return fmt.Errorf("%w: %q is not a Spotify track link, URI or ID", shared.ErrInvalidInput, input)
		}
		criteria["track_id"] = id
	}

	notes, err := repositories.NewNoteRepository(db).List(ctx, criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		records := make([]noteRecord, len(notes))
		for i, n := range notes {
			records[i] = toRecord(n)
		}
		return r.writeJSON(records, true)
	}

	if len(notes) == 0 {
		return r.writePlain("No notes yet. Create one with 'songnote note create <link>'.\n")
	}

	r.writePlain("Found %d notes:\n\n", len(notes))
	for i, n := range notes {
		r.writePlain("%d. %s - %s\n", i+1, n.Artists(), n.Title())
		r.writePlain("   Path: %s\n", n.Path())
		r.writePlain("   Created: %s\n", n.CreatedAt().Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func toRecord(n *models.Note) noteRecord {
	return noteRecord{
		ID:        n.ID(),
		TrackID:   n.TrackID(),
		Title:     n.Title(),
		Artists:   n.Artists(),
		Album:     n.Album(),
		Path:      n.Path(),
		CreatedAt: n.CreatedAt(),
	}
}
