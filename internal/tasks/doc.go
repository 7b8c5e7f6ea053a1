// Package tasks orchestrates song note creation with progress reporting.
//
// # Note Creation
//
// [NoteCreator.Create] turns a Spotify track link, URI or bare ID into a markdown note:
//
//  1. Extracts the track ID (invalid input is [shared.ErrInvalidInput])
//  2. Fetches the track from the [services.Catalog]
//  3. Builds <output_folder>/<file name>.md from the configured structure and casing
//  4. Stops early when the note already exists
//  5. Writes frontmatter and the rendered template into the [vault.Vault]
//  6. Records the note in the history repository
//  7. Adds the track to the configured playlist when the user is authenticated,
//     skipping tracks the playlist ledger already holds
//
// Playlist failures never fail the note; they are reported on [NoteResult].
//
// # Progress Reporting
//
// [NoteCreator.Run] accepts an optional channel of [ProgressUpdate]. Sends use select with default so
// progress reporting never blocks creation.
package tasks
