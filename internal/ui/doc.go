// Package ui implements the interactive song note prompt using bubbletea's Elm architecture.
//
// The TUI has four views:
//  1. [InputView] : Paste a Spotify track link, URI or ID
//  2. [CreatingView] : Spinner plus progress updates from [tasks.NoteCreator.Run]
//  3. [ResultView] : Note path and playlist outcome
//  4. [HistoryView] : Recently created notes
//
// The [Model] implements the standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the note creator, so the UI keeps animating while requests run.
package ui
