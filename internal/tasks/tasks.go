package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songnote/internal/formatter"
	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/services"
	"github.com/desertthunder/songnote/internal/shared"
	"github.com/desertthunder/songnote/internal/vault"
)

// PlaylistStatus describes what happened to the playlist step of a note.
type PlaylistStatus int

const (
	PlaylistNotConfigured PlaylistStatus = iota // No playlist id set
	PlaylistAdded                               // Track added and recorded
	PlaylistAlreadyAdded                        // Ledger already had the track
	PlaylistNotAuthenticated                    // No user token; step skipped
	PlaylistFailed                              // See NoteResult.PlaylistErr
)

func (s PlaylistStatus) String() string {
	switch s {
	case PlaylistNotConfigured:
		return "not configured"
	case PlaylistAdded:
		return "added"
	case PlaylistAlreadyAdded:
		return "already in playlist"
	case PlaylistNotAuthenticated:
		return "not authenticated"
	case PlaylistFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NoteResult is the outcome of a single note creation.
type NoteResult struct {
	Path        string        // Vault-relative note path
	Track       *models.Track // Fetched track
	Existed     bool          // Note was already present; nothing written
	Note        *models.Note  // History record (nil when Existed or no store)
	Playlist    PlaylistStatus
	PlaylistErr error
}

// NoteStore records created notes.
type NoteStore interface {
	Create(ctx context.Context, note *models.Note) error
}

// PlaylistLedger remembers which tracks were added to which playlist.
type PlaylistLedger interface {
	Exists(ctx context.Context, playlistID, trackID string) (bool, error)
	Create(ctx context.Context, entry *models.PlaylistEntry) error
}

// CreatorOpts configures a [NoteCreator]. Catalog and Vault are required.
type CreatorOpts struct {
	Catalog    services.Catalog
	Vault      vault.Vault
	Notes      NoteStore
	Ledger     PlaylistLedger
	Format     formatter.Options
	Folder     string
	Structure  string
	Casing     string
	PlaylistID string
	Logger     *log.Logger
}

// NoteCreator creates song notes from track links.
type NoteCreator struct {
	opts   CreatorOpts
	logger *log.Logger
}

// NewNoteCreator validates opts and returns a creator.
func NewNoteCreator(opts CreatorOpts) (*NoteCreator, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog", shared.ErrMissingArgument)
	}
	if opts.Vault == nil {
		return nil, fmt.Errorf("%w: vault", shared.ErrMissingArgument)
	}
	if _, err := formatter.FileName("x", "y", opts.Structure, opts.Casing); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &NoteCreator{opts: opts, logger: logger}, nil
}

// Create runs note creation without progress reporting.
func (c *NoteCreator) Create(ctx context.Context, input string) (*NoteResult, error) {
	return c.Run(ctx, input, nil)
}

// Run creates a note for the track named by input, reporting progress on the optional channel.
func (c *NoteCreator) Run(ctx context.Context, input string, progress chan<- ProgressUpdate) (*NoteResult, error) {
	sendProgress(progress, ProgressUpdate{Phase: ExtractID, Message: "Reading track link..."})

	id, ok := services.ExtractTrackID(input)
	if !ok {
		return nil, fmt.Errorf("%w: provide a Spotify track URL, URI, or ID", shared.ErrInvalidInput)
	}

	sendProgress(progress, fetchTrackUpdate(id))
	track, err := c.opts.Catalog.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := c.notePath(track)
	if err != nil {
		return nil, err
	}

	result := &NoteResult{Path: path, Track: track}

	exists, err := c.opts.Vault.Exists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		c.logger.Info("note already exists", "path", path)
		result.Existed = true
		return result, nil
	}

	sendProgress(progress, writeNoteUpdate(path, track))
	if err := c.opts.Vault.EnsureFolder(c.opts.Folder); err != nil {
		return nil, err
	}

	content, err := formatter.Note(track, c.opts.Format)
	if err != nil {
		return nil, err
	}
	if err := c.opts.Vault.Create(path, content); err != nil {
		return nil, err
	}
	c.logger.Info("created note", "path", path, "track", track.ID)

	if c.opts.Notes != nil {
		sendProgress(progress, recordNoteUpdate(path))
		note := models.NewNote(track.ID, track.Name, track.ArtistLine(), track.Album.Name, path)
		if err := c.opts.Notes.Create(ctx, note); err != nil {
			return result, fmt.Errorf("note written but history not recorded: %w", err)
		}
		result.Note = note
	}

	if c.opts.PlaylistID != "" {
		sendProgress(progress, addToPlaylistUpdate(c.opts.PlaylistID))
	}
	result.Playlist, result.PlaylistErr = c.addToPlaylist(ctx, track)
	return result, nil
}

func (c *NoteCreator) notePath(track *models.Track) (string, error) {
	name, err := formatter.FileName(track.Name, track.PrimaryArtist(), c.opts.Structure, c.opts.Casing)
	if err != nil {
		return "", err
	}
	if name == formatter.Untitled {
		name += "-" + track.ID
	}
	return vault.Join(c.opts.Folder, name+".md")
}

func (c *NoteCreator) addToPlaylist(ctx context.Context, track *models.Track) (PlaylistStatus, error) {
	playlistID := c.opts.PlaylistID
	if playlistID == "" {
		return PlaylistNotConfigured, nil
	}
	if !c.opts.Catalog.IsAuthenticated() {
		c.logger.Warn("not authenticated with Spotify; skipping playlist", "playlist", playlistID)
		return PlaylistNotAuthenticated, nil
	}

	if c.opts.Ledger != nil {
		added, err := c.opts.Ledger.Exists(ctx, playlistID, track.ID)
		if err != nil {
			return PlaylistFailed, err
		}
		if added {
			return PlaylistAlreadyAdded, nil
		}
	}

	snapshot, err := c.opts.Catalog.AddToPlaylist(ctx, playlistID, track.SpotifyURI())
	if err != nil {
		c.logger.Error("failed to add to playlist", "playlist", playlistID, "err", err)
		return PlaylistFailed, err
	}
	c.logger.Info("added to playlist", "playlist", playlistID, "snapshot", snapshot)

	if c.opts.Ledger != nil {
		if err := c.opts.Ledger.Create(ctx, models.NewPlaylistEntry(playlistID, track.ID, snapshot)); err != nil {
			return PlaylistFailed, fmt.Errorf("track added but not recorded: %w", err)
		}
	}
	return PlaylistAdded, nil
}
