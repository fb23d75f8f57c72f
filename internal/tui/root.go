// Package tui is the terminal composer: a single-line input driving
// the suggestion engine, a transcript of sent messages, and the
// surrounding chrome. The engine owns all completion and history
// semantics; this package only wires terminal events into it.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkfold/inkfold/internal/composer"
	"github.com/inkfold/inkfold/internal/config"
	"github.com/inkfold/inkfold/internal/history"
)

const searchTimeout = 5 * time.Second

// BuiltinCommands is the static "/" command list.
func BuiltinCommands() []composer.Candidate {
	return []composer.Candidate{
		{ID: "cmd:help", Label: "help", Description: "show available commands", Kind: composer.KindCommand},
		{ID: "cmd:clear", Label: "clear", Description: "clear the transcript", Kind: composer.KindCommand},
		{ID: "cmd:quit", Label: "quit", Description: "exit inkfold", Kind: composer.KindCommand},
	}
}

// Options wires the model to its collaborators.
type Options struct {
	Config  *config.Config
	History *history.Manager
	Prompts []composer.Candidate
	Skills  []composer.Candidate
	Catalog *Catalog
	Search  composer.MemorySearch
	Logger  *slog.Logger
}

// Model is the bubbletea root.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	engine *composer.Engine
	input  *textinput.Model

	viewport   viewport.Model
	transcript []string

	width  int
	height int
	ready  bool
}

type memoryDebounceMsg struct {
	token uint64
}

type memoryResultMsg struct {
	token       uint64
	workspaceID string
	items       []composer.Candidate
	err         error
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Type a message, / for commands, @ for files, @@ for notes..."
	ti.Prompt = "❯ "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = 0
	ti.Width = 80
	ti.Focus()
	input := &ti

	prompts := opts.Prompts
	skills := opts.Skills
	var catalog *Catalog
	if opts.Catalog != nil {
		catalog = opts.Catalog
	} else {
		catalog = &Catalog{}
	}

	engine := composer.New(composer.Config{
		Buffer:         &inputBuffer{input: input},
		History:        opts.History,
		Commands:       composer.NewCommandSource(BuiltinCommands(), func() []composer.Candidate { return prompts }),
		Skills:         composer.NewSkillSource(func() []composer.Candidate { return skills }),
		Files:          composer.NewFileSource(catalog.Dirs, catalog.Files),
		MemorySearch:   opts.Search,
		MemoryPageSize: opts.Config.MemoryPageSize,
		Logger:         opts.Logger,
	})
	engine.SetWorkspace(opts.Config.Workspace)

	return Model{
		cfg:      opts.Config,
		logger:   opts.Logger,
		engine:   engine,
		input:    input,
		viewport: viewport.New(80, 10),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case memoryDebounceMsg:
		workspaceID, query, ok := m.engine.MemoryLookupDue(msg.token)
		if !ok {
			return m, nil
		}
		return m, m.searchNotesCmd(msg.token, workspaceID, query)

	case memoryResultMsg:
		if msg.err != nil {
			m.logger.Warn("note lookup failed", "error", msg.err)
		}
		m.engine.CompleteMemoryLookup(msg.token, msg.workspaceID, msg.items, msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.engine.HandleKey(keyEvent(msg)) {
		// The engine may have mutated the buffer itself, and a recalled
		// entry can leave a live trigger needing its debounce.
		if req := m.engine.TakeMemoryRequest(); req != nil {
			return m, debounceCmd(req)
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.send()
	case tea.KeyEsc, tea.KeyTab:
		// Unclaimed by the engine and meaningless to the input.
		return m, nil
	}

	var cmd tea.Cmd
	*m.input, cmd = m.input.Update(msg)
	if sync := m.syncEngine(); sync != nil {
		return m, tea.Batch(cmd, sync)
	}
	return m, cmd
}

// syncEngine feeds the buffer back to the engine after an edit. A
// returned request becomes a debounce tick carrying the request token.
func (m *Model) syncEngine() tea.Cmd {
	req := m.engine.HandleTextChange(m.input.Value(), m.input.Position())
	if req == nil {
		return nil
	}
	return debounceCmd(req)
}

func debounceCmd(req *composer.MemoryRequest) tea.Cmd {
	token := req.Token
	return tea.Tick(req.Delay, func(time.Time) tea.Msg {
		return memoryDebounceMsg{token: token}
	})
}

func (m Model) searchNotesCmd(token uint64, workspaceID, query string) tea.Cmd {
	search := m.engine.MemorySearcher()
	limit := m.engine.MemoryPageSize()
	return func() tea.Msg {
		if search == nil {
			return memoryResultMsg{token: token, workspaceID: workspaceID}
		}
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		items, _, err := search(ctx, workspaceID, query, limit, 0)
		return memoryResultMsg{token: token, workspaceID: workspaceID, items: items, err: err}
	}
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	var quit bool
	switch strings.TrimSpace(text) {
	case "/quit":
		quit = true
	case "/clear":
		m.transcript = nil
	case "/help":
		m.transcript = append(m.transcript, helpText())
	default:
		line := TranscriptUserStyle.Render("❯ ") + text
		if sel := m.engine.Selection(); len(sel) > 0 {
			line += SelectionStyle.Render(fmt.Sprintf("(%d notes attached)", len(sel)))
		}
		m.transcript = append(m.transcript, line)
	}

	m.engine.CommitSent(text)
	m.input.SetValue("")
	m.input.SetCursor(0)
	m.engine.HandleTextChange("", 0)
	m.refreshTranscript()

	if quit {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if popup := m.renderSuggestions(); popup != "" {
		b.WriteString(popup)
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderSuggestions() string {
	session := m.engine.Session()
	if !session.Active || len(session.Matches) == 0 {
		return ""
	}

	var content strings.Builder
	for i, c := range session.Matches {
		style := SuggestionItemStyle
		if i == session.HighlightIndex {
			style = SuggestionSelectedStyle
		}
		content.WriteString(style.Render(c.Label))
		if c.Description != "" {
			content.WriteString(SuggestionDescStyle.Render(" - " + c.Description))
		}
		content.WriteString("\n")
	}

	return SuggestionBoxStyle.
		Width(m.width - 4).
		Render(strings.TrimSuffix(content.String(), "\n"))
}

func (m Model) renderInput() string {
	view := m.input.View()

	// Ghost completion: the dim remainder of the suggested history
	// entry, drawn after the live input.
	value := m.input.Value()
	if ghost := m.engine.Ghost(); ghost != "" && len(ghost) > len(value) {
		view += GhostStyle.Render(ghost[len(value):] + "  ⇥ tab")
	}

	return InputBoxStyle.Width(m.width - 4).Render(view)
}

func (m Model) renderStatus() string {
	parts := []string{filepath.Base(m.cfg.Workspace)}
	if sel := m.engine.Selection(); len(sel) > 0 {
		parts = append(parts, fmt.Sprintf("%d notes", len(sel)))
	}
	if _, navigating := m.engine.Navigation(); navigating {
		parts = append(parts, "history")
	}
	return StatusStyle.Render(strings.Join(parts, " · "))
}

func helpText() string {
	return strings.TrimSpace(`
/help, /clear, /quit — built-in commands
@path — attach a workspace file     @@query — search workspace notes
$name — insert a skill tag          ↑/↓ — recall sent messages
tab — accept the dim completion
`)
}

// keyEvent maps a terminal key press to the engine's key model.
// Modified arrows (shift, alt, ctrl) keep their direction but are
// flagged so history navigation leaves them alone.
func keyEvent(msg tea.KeyMsg) composer.KeyEvent {
	ev := composer.KeyEvent{Key: composer.KeyOther, HasModifiers: msg.Alt}

	switch msg.Type {
	case tea.KeyUp:
		ev.Key = composer.KeyUp
	case tea.KeyDown:
		ev.Key = composer.KeyDown
	case tea.KeyShiftUp, tea.KeyCtrlUp, tea.KeyCtrlShiftUp:
		ev.Key = composer.KeyUp
		ev.HasModifiers = true
	case tea.KeyShiftDown, tea.KeyCtrlDown, tea.KeyCtrlShiftDown:
		ev.Key = composer.KeyDown
		ev.HasModifiers = true
	case tea.KeyEnter:
		ev.Key = composer.KeyEnter
	case tea.KeyTab:
		ev.Key = composer.KeyTab
	case tea.KeyShiftTab:
		ev.Key = composer.KeyTab
		ev.HasModifiers = true
	case tea.KeyEsc:
		ev.Key = composer.KeyEscape
	}

	return ev
}
