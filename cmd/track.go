package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songnote/internal/services"
	"github.com/desertthunder/songnote/internal/shared"
)

// TrackGet fetches a single track and prints its metadata.
func (r *Runner) TrackGet(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("track")
	if input == "" {
		return fmt.Errorf("%w: track link, URI or ID", shared.ErrMissingArgument)
	}
	id, ok := services.ExtractTrackID(input)
	if !ok {
		return fmt.Errorf("%w: %q is not a Spotify track link, URI or ID", shared.ErrInvalidInput, input)
	}

	svc, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	r.logger.Debugf("fetching track %v", id)
	track, err := svc.GetTrack(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", track.Name)
	r.writePlain("  Artist:   %s\n", track.ArtistLine())
	r.writePlain("  Album:    %s\n", track.Album.Name)
	if track.Album.ReleaseDate != "" {
		r.writePlain("  Released: %s\n", track.Album.ReleaseDate)
	}
	r.writePlain("  Duration: %s\n", shared.FormatDuration(track.DurationMS))
	if url := strings.TrimSpace(track.ExternalURLs.Spotify); url != "" {
		r.writePlain("  URL:      %s\n", url)
	}
	r.writePlain("  URI:      %s\n", track.SpotifyURI())
	return nil
}
