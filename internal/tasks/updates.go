package tasks

import (
	"fmt"

	"github.com/desertthunder/songnote/internal/models"
)

// ProgressUpdate represents a progress event during note creation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase enumerates the steps of [NoteCreator.Run].
type Phase int

const (
	ExtractID Phase = iota
	FetchTrack
	WriteNote
	RecordNote
	AddToPlaylist
)

func (p Phase) String() string {
	switch p {
	case ExtractID:
		return "extract_id"
	case FetchTrack:
		return "fetch_track"
	case WriteNote:
		return "write_note"
	case RecordNote:
		return "record_note"
	case AddToPlaylist:
		return "add_to_playlist"
	default:
		return ""
	}
}

// sendProgress never blocks; updates are dropped when the channel is full.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchTrackUpdate(id string) ProgressUpdate {
	return ProgressUpdate{Phase: FetchTrack, Message: fmt.Sprintf("Fetching track %s from Spotify...", id), Data: id}
}

func writeNoteUpdate(path string, track *models.Track) ProgressUpdate {
	return ProgressUpdate{Phase: WriteNote, Message: fmt.Sprintf("Writing %q to %s", track.Name, path), Data: track}
}

func recordNoteUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: RecordNote, Message: "Recording note history", Data: path}
}

func addToPlaylistUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{Phase: AddToPlaylist, Message: fmt.Sprintf("Adding track to playlist %s...", playlistID), Data: playlistID}
}
