package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	CreatingView
	ResultView
	HistoryView
)

const historyLimit = 50

// Creator creates a note from a track link. [tasks.NoteCreator] implements it.
type Creator interface {
	Run(ctx context.Context, input string, progress chan<- tasks.ProgressUpdate) (*tasks.NoteResult, error)
}

// History lists previously created notes. repositories.NoteRepository implements it.
type History interface {
	List(ctx context.Context, criteria map[string]any) ([]*models.Note, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	creator      Creator
	history      History
	width        int
	height       int
	input        textinput.Model
	spinner      spinner.Model
	notes        list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.NoteResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. history may be nil, which disables the history view.
func NewModel(ctx context.Context, creator Creator, history History) *Model {
	input := textinput.New()
	input.Placeholder = "https://open.spotify.com/track/..."
	input.Prompt = "♪ "
	input.CharLimit = 256
	input.Width = 60
	input.Focus()

	return &Model{
		ctx:     ctx,
		view:    InputView,
		creator: creator,
		history: history,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.spinner)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the most recent note result, if any.
func (m *Model) Result() *tasks.NoteResult { return m.result }

// Err returns the most recent error, if any.
func (m *Model) Err() error { return m.err }

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == HistoryView {
			m.notes.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != CreatingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == InputView {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgNoteCreated:
		data := msg.data.(noteCreated)
		m.result, m.err = data.result, data.err
		m.progressChan, m.done = nil, nil
		m.view = ResultView
		return m, nil

	case MsgHistoryFetched:
		data := msg.data.(historyFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.notes))
		for i, n := range data.notes {
			items[i] = noteItem{note: n}
		}
		m.notes = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-6)
		m.notes.Title = "Recent song notes"
		m.view = HistoryView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		return m, m.startCreate(value)
	case key.Matches(msg, m.keys.history):
		return m, m.fetchHistory()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.again), key.Matches(msg, m.keys.back):
		return m, m.reset()
	case key.Matches(msg, m.keys.history):
		return m, m.fetchHistory()
	case msg.String() == "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.notes.FilterState() != list.Filtering && key.Matches(msg, m.keys.back) {
		return m, m.reset()
	}

	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m *Model) reset() tea.Cmd {
	m.view = InputView
	m.err = nil
	m.input.Reset()
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) startCreate(input string) tea.Cmd {
	m.view = CreatingView
	m.result, m.err = nil, nil
	m.progress = tasks.ProgressUpdate{Message: "Starting..."}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan Msg, 1)
	m.progressChan, m.done = progress, done

	go func() {
		result, err := m.creator.Run(m.ctx, input, progress)
		done <- noteCreatedMsg(result, err)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// waitForProgress delivers the next progress update, or the final result once creation returns.
func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case update := <-progress:
			return progressUpdateMsg(update)
		case msg := <-done:
			return msg
		}
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	return func() tea.Msg {
		notes, err := m.history.List(m.ctx, map[string]any{"limit": historyLimit})
		return historyFetchedMsg(notes, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case CreatingView:
		return m.renderCreating()
	case ResultView:
		return m.renderResult()
	case HistoryView:
		return fmt.Sprintf("%s\n\n%s", m.notes.View(), m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	default:
		return ""
	}
}

func (m *Model) renderInput() string {
	title := theme.heading.Render("Create song note")
	var errLine string
	if m.err != nil {
		errLine = "\n" + theme.failure.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	keys := []key.Binding{m.keys.submit, m.keys.quit}
	if m.history != nil {
		keys = []key.Binding{m.keys.submit, m.keys.history, m.keys.quit}
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", title, m.input.View(), errLine, m.help.ShortHelpView(keys))
}

func (m *Model) renderCreating() string {
	return fmt.Sprintf("%s\n\n%s %s\n", theme.heading.Render("Create song note"), m.spinner.View(), m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.again, m.keys.history, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", theme.failure.Render(fmt.Sprintf("✗ %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", theme.failure.Render("No result available"), helpView)
	}

	var b strings.Builder
	if m.result.Existed {
		b.WriteString(theme.existing.Render("• Note already exists"))
	} else {
		b.WriteString(theme.created.Render("✓ Created note"))
	}
	b.WriteString("\n\n")

	t := m.result.Track
	fmt.Fprintf(&b, "%s%s\n", theme.field.Render("Title"), t.Name)
	fmt.Fprintf(&b, "%s%s\n", theme.field.Render("Artist"), t.ArtistLine())
	fmt.Fprintf(&b, "%s%s\n", theme.field.Render("Path"), m.result.Path)

	if !m.result.Existed && m.result.Playlist != tasks.PlaylistNotConfigured {
		fmt.Fprintf(&b, "%s%s\n", theme.field.Render("Playlist"), theme.playlist(m.result.Playlist, m.result.PlaylistErr))
	}

	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}
