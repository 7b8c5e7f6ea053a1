package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var _ tea.Msg = Msg{}

const (
	MsgProgressUpdate MsgKind = iota
	MsgNoteCreated
	MsgHistoryFetched
)

type noteCreated struct {
	result *tasks.NoteResult
	err    error
}

type historyFetched struct {
	notes []*models.Note
	err   error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// noteCreatedMsg is the constructor for [MsgNoteCreated]
func noteCreatedMsg(result *tasks.NoteResult, err error) Msg {
	return Msg{kind: MsgNoteCreated, data: noteCreated{result, err}}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(notes []*models.Note, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyFetched{notes, err}}
}
