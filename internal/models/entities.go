package models

import (
	"errors"
	"time"
)

// Note is a vault note created for a catalog track.
type Note struct {
	id        string
	trackID   string
	title     string
	artists   string
	album     string
	path      string
	createdAt time.Time
}

// NewNote builds an unsaved [Note]; the repository assigns its ID.
func NewNote(trackID, title, artists, album, path string) *Note {
	return &Note{
		trackID:   trackID,
		title:     title,
		artists:   artists,
		album:     album,
		path:      path,
		createdAt: time.Now().UTC(),
	}
}

// RestoreNote rebuilds a [Note] from stored columns.
func RestoreNote(id, trackID, title, artists, album, path string, createdAt time.Time) *Note {
	return &Note{id: id, trackID: trackID, title: title, artists: artists, album: album, path: path, createdAt: createdAt}
}

func (n *Note) ID() string           { return n.id }
func (n *Note) SetID(id string)      { n.id = id }
func (n *Note) TrackID() string      { return n.trackID }
func (n *Note) Title() string        { return n.title }
func (n *Note) Artists() string      { return n.artists }
func (n *Note) Album() string        { return n.album }
func (n *Note) Path() string         { return n.path }
func (n *Note) CreatedAt() time.Time { return n.createdAt }

func (n *Note) Validate() error {
	switch {
	case n.trackID == "":
		return errors.New("note track id is required")
	case n.title == "":
		return errors.New("note title is required")
	case n.path == "":
		return errors.New("note path is required")
	}
	return nil
}

// PlaylistEntry records that a track was added to a playlist.
type PlaylistEntry struct {
	id         string
	playlistID string
	trackID    string
	snapshotID string
	addedAt    time.Time
}

// NewPlaylistEntry builds an unsaved [PlaylistEntry].
func NewPlaylistEntry(playlistID, trackID, snapshotID string) *PlaylistEntry {
	return &PlaylistEntry{playlistID: playlistID, trackID: trackID, snapshotID: snapshotID, addedAt: time.Now().UTC()}
}

// RestorePlaylistEntry rebuilds a [PlaylistEntry] from stored columns.
func RestorePlaylistEntry(id, playlistID, trackID, snapshotID string, addedAt time.Time) *PlaylistEntry {
	return &PlaylistEntry{id: id, playlistID: playlistID, trackID: trackID, snapshotID: snapshotID, addedAt: addedAt}
}

func (p *PlaylistEntry) ID() string           { return p.id }
func (p *PlaylistEntry) SetID(id string)      { p.id = id }
func (p *PlaylistEntry) PlaylistID() string   { return p.playlistID }
func (p *PlaylistEntry) TrackID() string      { return p.trackID }
func (p *PlaylistEntry) SnapshotID() string   { return p.snapshotID }
func (p *PlaylistEntry) CreatedAt() time.Time { return p.addedAt }

func (p *PlaylistEntry) Validate() error {
	if p.playlistID == "" || p.trackID == "" {
		return errors.New("playlist entry requires playlist and track ids")
	}
	return nil
}
