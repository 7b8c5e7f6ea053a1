package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/songnote/internal/tasks"
)

const (
	spotifyGreen = lipgloss.Color("#1DB954")
	colorCreated = lipgloss.Color("#04B575")
	colorFailed  = lipgloss.Color("#FF5F5F")
	colorSkipped = lipgloss.Color("#FFA500")
	colorMuted   = lipgloss.Color("#626262")
)

var theme = newTheme()

// noteTheme holds the styles for each outcome the prompt reports.
type noteTheme struct {
	heading  lipgloss.Style
	spinner  lipgloss.Style
	created  lipgloss.Style
	existing lipgloss.Style
	failure  lipgloss.Style
	field    lipgloss.Style
}

func newTheme() noteTheme {
	return noteTheme{
		heading:  lipgloss.NewStyle().Foreground(spotifyGreen).Bold(true).MarginBottom(1),
		spinner:  lipgloss.NewStyle().Foreground(spotifyGreen),
		created:  lipgloss.NewStyle().Foreground(colorCreated).Bold(true),
		existing: lipgloss.NewStyle().Foreground(colorSkipped),
		failure:  lipgloss.NewStyle().Foreground(colorFailed).Bold(true),
		field:    lipgloss.NewStyle().Foreground(colorMuted).Width(10),
	}
}

// playlist renders a playlist outcome; failures carry their error.
func (t noteTheme) playlist(status tasks.PlaylistStatus, err error) string {
	switch status {
	case tasks.PlaylistAdded:
		return t.created.Render(status.String())
	case tasks.PlaylistFailed:
		return t.failure.Render(fmt.Sprintf("%s: %v", status, err))
	default:
		return t.existing.Render(status.String())
	}
}
