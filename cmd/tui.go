package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songnote/internal/repositories"
	"github.com/desertthunder/songnote/internal/shared"
	"github.com/desertthunder/songnote/internal/ui"
)

// NotePrompt launches the interactive prompt for pasting track links.
func (r *Runner) NotePrompt(ctx context.Context, skipPlaylist bool) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(os.TempDir(), "songnote", "tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	creator, err := r.creator(ctx, skipPlaylist)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, creator, repositories.NewNoteRepository(r.db))
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if result := model.Result(); result != nil {
		return r.printNoteResult(result)
	}
	return nil
}
