// Package models defines the catalog records decoded from the Spotify Web API and the entities persisted by songnote.
//
// The package contains two categories of types:
//
// 1. Catalog records: decoded verbatim from Spotify JSON responses
//   - [Track] : a single track with its album, artists and external links
//   - [Album], [Artist], [Image], [ExternalURLs]
//
// 2. Persistent entities: rows managed by the repositories package
//   - [Note] : a note written to the vault for a track
//   - [PlaylistEntry] : a track this tool added to a playlist, used to avoid duplicates
//
// Persistent entities implement [Model]; [Repository] describes the data access each repository provides.
package models
