package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/repositories"
	"github.com/desertthunder/songnote/internal/services"
	"github.com/desertthunder/songnote/internal/shared"
)

// PlaylistAdd adds a track to a playlist without creating a note.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("track")
	if input == "" {
		return fmt.Errorf("%w: track link, URI or ID", shared.ErrMissingArgument)
	}
	trackID, ok := services.ExtractTrackID(input)
	if !ok {
		return fmt.Errorf("%w: %q is not a Spotify track link, URI or ID", shared.ErrInvalidInput, input)
	}

	playlistID := services.ExtractPlaylistID(cmd.String("playlist"))
	if playlistID == "" {
		playlistID = services.ExtractPlaylistID(r.config.Vault.PlaylistID)
	}
	if playlistID == "" {
		return fmt.Errorf("%w: pass --playlist or set vault.playlist_id", shared.ErrMissingArgument)
	}

	svc, err := r.spotify(ctx)
	if err != nil {
		return err
	}
	if !svc.IsAuthenticated() {
		return fmt.Errorf("%w: run 'songnote auth login' first", shared.ErrNotAuthenticated)
	}

	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	ledger := repositories.NewPlaylistEntryRepository(db)

	if !cmd.Bool("force") {
		added, err := ledger.Exists(ctx, playlistID, trackID)
		if err != nil {
			return err
		}
		if added {
			return r.writePlain("• Song already in playlist\n")
		}
	}

	snapshot, err := svc.AddToPlaylist(ctx, playlistID, "spotify:track:"+trackID)
	if err != nil {
		return err
	}
	r.logger.Info("added to playlist", "playlist", playlistID, "track", trackID, "snapshot", snapshot)

	if exists, _ := ledger.Exists(ctx, playlistID, trackID); !exists {
		if err := ledger.Create(ctx, models.NewPlaylistEntry(playlistID, trackID, snapshot)); err != nil {
			r.logger.Warn("track added but not recorded", "error", err)
		}
	}
	return r.writePlain("✓ Added to playlist\n")
}
