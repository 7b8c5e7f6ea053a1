package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/songnote/internal/models"
)

var _ list.Item = noteItem{}

// noteItem wraps [models.Note] to implement [list.Item].
type noteItem struct {
	note *models.Note
}

func (i noteItem) FilterValue() string { return i.note.Title() + " " + i.note.Artists() }
func (i noteItem) Title() string       { return i.note.Title() }
func (i noteItem) Description() string {
	desc := i.note.Artists()
	if i.note.Album() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.note.Album())
	}
	return fmt.Sprintf("%s • %s", desc, i.note.CreatedAt().Format("2006-01-02"))
}
