// Package repositories implements SQLite persistence for songnote's entities.
//
//   - [NoteRepository] : history of notes written to the vault, looked up by id, path or track
//   - [PlaylistEntryRepository] : ledger of tracks added to playlists, used to skip duplicates
//
// Both implement [models.Repository]. Lookups that match no row return an error wrapping [shared.ErrRecordNotFound].
package repositories
