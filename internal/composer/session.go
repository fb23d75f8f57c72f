package composer

import (
	"log/slog"
	"strings"

	"github.com/inkfold/inkfold/internal/history"
)

// Buffer abstracts the text field the engine operates on. The engine
// reads it and requests atomic replacements; it never mutates text in
// place.
type Buffer interface {
	Text() string
	Cursor() int
	// Replace swaps the whole buffer and repositions the cursor as one
	// update.
	Replace(text string, cursor int)
	// Refocus returns input focus to the field after a mutation.
	Refocus()
}

// Key identifies the keys the engine dispatches on. Everything else is
// KeyOther and falls through to the caller's editing behavior.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyTab
	KeyEscape
)

// KeyEvent is the engine's view of a key press.
type KeyEvent struct {
	Key          Key
	HasModifiers bool
}

// Session is the open/closed autocomplete state. When Active is false
// the trigger and range fields are zero.
type Session struct {
	Active         bool
	Trigger        Trigger
	Start          int
	End            int
	Matches        []Candidate
	HighlightIndex int
}

// Query returns the query substring the session currently covers.
func (s Session) Query(text string) string {
	if !s.Active || s.Start > len(text) || s.End > len(text) || s.Start > s.End {
		return ""
	}
	return text[s.Start:s.End]
}

// Config wires an Engine to its collaborators.
type Config struct {
	Buffer  Buffer
	History *history.Manager

	// Commands, Skills and Files serve the "/", "$" and "@" triggers.
	// A nil source yields empty match lists for its trigger.
	Commands Source
	Skills   Source
	Files    Source

	// MemorySearch serves the "@@" trigger. A nil search behaves like a
	// lookup that always returns no items.
	MemorySearch   MemorySearch
	MemoryPageSize int

	Logger *slog.Logger
}

// Engine owns the composer's suggestion and navigation state. It is a
// single-writer machine: every method must be called from the host's
// event loop. The one cross-event hazard, stale memory lookups, is
// handled by token comparison in memory.go.
type Engine struct {
	buf      Buffer
	hist     *history.Manager
	nav      history.Navigator
	triggers []Trigger
	sources  map[Trigger]Source
	logger   *slog.Logger

	memorySearch   MemorySearch
	memoryPageSize int

	session Session

	workspaceID string
	selection   []Candidate

	memToken        uint64
	pendingMemQuery string

	// queuedReq is a lookup request produced while the engine mutated
	// its own buffer, held until the host collects it.
	queuedReq *MemoryRequest

	ghost string

	// lastLen is the buffer length at the previous text change, used to
	// attribute edits to the placeholder span.
	lastLen int

	placeholderActive bool
	placeholderStart  int
	placeholderEnd    int
}

func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MemoryPageSize <= 0 {
		cfg.MemoryPageSize = 10
	}
	return &Engine{
		buf:      cfg.Buffer,
		hist:     cfg.History,
		triggers: DefaultTriggers,
		sources: map[Trigger]Source{
			TriggerCommand: cfg.Commands,
			TriggerSkill:   cfg.Skills,
			TriggerFile:    cfg.Files,
		},
		memorySearch:   cfg.MemorySearch,
		memoryPageSize: cfg.MemoryPageSize,
		logger:         cfg.Logger,
	}
}

// Session returns a read-only snapshot for the rendering layer.
func (e *Engine) Session() Session { return e.session }

// Ghost returns the full history entry the ghost completion currently
// suggests, or "" when none.
func (e *Engine) Ghost() string { return e.ghost }

// Navigation exposes the history navigator's read-only state.
func (e *Engine) Navigation() (index int, navigating bool) { return e.nav.Index() }

// Workspace returns the active scope id.
func (e *Engine) Workspace() string { return e.workspaceID }

// MemorySearcher returns the configured memory search collaborator so
// the host can run due lookups off the event loop.
func (e *Engine) MemorySearcher() MemorySearch { return e.memorySearch }

// MemoryPageSize is the page size for memory lookups.
func (e *Engine) MemoryPageSize() int { return e.memoryPageSize }

// Selection returns the manual-memory selection in pick order.
func (e *Engine) Selection() []Candidate {
	out := make([]Candidate, len(e.selection))
	copy(out, e.selection)
	return out
}

// SetWorkspace switches the active scope. Per-scope state (history
// navigation, manual-memory selection, ghost completion, in-flight
// lookups) is reset synchronously; history for the new scope is loaded
// through the manager.
func (e *Engine) SetWorkspace(id string) {
	if id == e.workspaceID {
		return
	}
	e.workspaceID = id
	e.nav.Reset()
	e.selection = nil
	e.ghost = ""
	e.clearPlaceholder()
	e.closeSession()
	if e.hist != nil {
		e.hist.SetScope(id)
	}
}

// HandleKey dispatches a key press. Precedence is fixed: the open
// session first, then the history navigator, then ghost acceptance.
// Returns false when the caller's generic editing behavior should run.
func (e *Engine) HandleKey(ev KeyEvent) bool {
	if e.session.Active {
		return e.handleSessionKey(ev)
	}

	vertical := (ev.Key == KeyUp || ev.Key == KeyDown) && !ev.HasModifiers
	if e.nav.Navigating() && !vertical {
		// The user's own edit becomes the new buffer; the draft is
		// intentionally not restored.
		e.nav.Cancel()
	}

	if vertical {
		if handled := e.handleNavKey(ev.Key); handled {
			return true
		}
	}

	if ev.Key == KeyTab && !ev.HasModifiers && e.ghost != "" {
		e.AcceptGhost()
		return true
	}
	return false
}

func (e *Engine) handleSessionKey(ev KeyEvent) bool {
	switch ev.Key {
	case KeyUp:
		e.moveHighlight(-1)
		return true
	case KeyDown:
		e.moveHighlight(1)
		return true
	case KeyEscape:
		e.closeSession()
		return true
	case KeyTab, KeyEnter:
		if len(e.session.Matches) == 0 {
			return false
		}
		e.ApplyCandidate(e.session.Matches[e.session.HighlightIndex])
		return true
	default:
		return false
	}
}

func (e *Engine) handleNavKey(k Key) bool {
	entries := e.historyEntries()
	switch k {
	case KeyUp:
		if !e.nav.Navigating() && !effectivelyEmpty(e.buf.Text()) {
			return false
		}
		entry, ok := e.nav.Up(entries, e.buf.Text())
		if !ok {
			return false
		}
		e.applyNavEntry(entry)
		return true
	case KeyDown:
		entry, ok := e.nav.Down(entries)
		if !ok {
			return false
		}
		e.applyNavEntry(entry)
		return true
	}
	return false
}

// applyNavEntry replaces the buffer with a navigated entry (or the
// restored draft), cursor at end-of-text.
func (e *Engine) applyNavEntry(entry string) {
	e.replaceBuffer(entry, len(entry))
}

// AcceptGhost replaces the entire buffer with the suggested history
// entry. Replacing wholesale, rather than appending the suffix, keeps
// the model correct even if the visible buffer drifted.
func (e *Engine) AcceptGhost() bool {
	if e.ghost == "" {
		return false
	}
	entry := e.ghost
	e.ghost = ""
	e.replaceBuffer(entry, len(entry))
	return true
}

// HandleTextChange re-resolves the trigger state against the new buffer
// contents. The resolver's output is authoritative: it alone decides
// whether the session is open, regardless of which feature was active
// before. A non-nil return asks the host to schedule a debounced memory
// lookup.
func (e *Engine) HandleTextChange(text string, cursor int) *MemoryRequest {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	e.trackPlaceholderEdit(text, cursor)

	res, ok := Resolve(text, cursor, e.triggers)
	if !ok {
		if e.session.Active {
			e.closeSession()
		}
		e.ghost = e.ghostFor(text)
		return nil
	}

	// A trigger is live: the ghost overlay never coexists with the
	// suggestion popup.
	e.ghost = ""

	triggerChanged := !e.session.Active || e.session.Trigger != res.Trigger
	e.session.Active = true
	e.session.Trigger = res.Trigger
	e.session.Start = res.Start
	e.session.End = res.End
	query := text[res.Start:res.End]

	if res.Trigger == TriggerMemory {
		if triggerChanged {
			e.session.Matches = nil
			e.session.HighlightIndex = 0
		}
		if e.workspaceID == "" || e.memorySearch == nil {
			e.cancelMemoryRequest()
			e.setMatches(nil)
			return nil
		}
		return e.issueMemoryRequest(strings.TrimSpace(query))
	}

	src := e.sources[res.Trigger]
	var matches []Candidate
	if src != nil {
		matches = src.Candidates(query)
	}
	if triggerChanged {
		e.session.HighlightIndex = 0
	}
	e.setMatches(dedupeByID(matches))
	return nil
}

// CommitSent records a sent message: the trimmed text is appended to
// history (adjacent duplicates suppressed), and send-scoped state, the
// manual-memory selection, ghost completion and navigation, is cleared.
func (e *Engine) CommitSent(text string) {
	if e.hist != nil {
		e.hist.Commit(text)
	}
	e.nav.Reset()
	e.selection = nil
	e.ghost = ""
	e.clearPlaceholder()
	e.closeSession()
}

// refresh re-runs the text-change pipeline against the buffer, used
// after the engine itself mutated it. A recalled history entry or an
// accepted ghost can leave a live "@@" trigger, so a resulting lookup
// request is queued for the host to collect via TakeMemoryRequest.
func (e *Engine) refresh() {
	if req := e.HandleTextChange(e.buf.Text(), e.buf.Cursor()); req != nil {
		e.queuedReq = req
	}
}

// TakeMemoryRequest returns the lookup request produced by the last
// engine-initiated buffer mutation, or nil. The host polls this after
// every handled key so those lookups get debounced like typed ones.
func (e *Engine) TakeMemoryRequest() *MemoryRequest {
	req := e.queuedReq
	e.queuedReq = nil
	return req
}

// setMatches installs a new match list, resetting the highlight when
// the match count changes and clamping it otherwise.
func (e *Engine) setMatches(matches []Candidate) {
	if len(matches) != len(e.session.Matches) {
		e.session.HighlightIndex = 0
	}
	e.session.Matches = matches
	e.clampHighlight()
}

func (e *Engine) moveHighlight(delta int) {
	e.session.HighlightIndex += delta
	e.clampHighlight()
}

// clampHighlight keeps the highlight inside [0, len-1]; no wraparound.
func (e *Engine) clampHighlight() {
	if len(e.session.Matches) == 0 {
		e.session.HighlightIndex = 0
		return
	}
	if e.session.HighlightIndex < 0 {
		e.session.HighlightIndex = 0
	}
	if e.session.HighlightIndex > len(e.session.Matches)-1 {
		e.session.HighlightIndex = len(e.session.Matches) - 1
	}
}

// closeSession returns to the closed state and synchronously cancels
// any pending memory debounce so a fired-but-superseded result can
// never be applied.
func (e *Engine) closeSession() {
	e.session = Session{}
	e.cancelMemoryRequest()
}

func (e *Engine) historyEntries() []string {
	if e.hist == nil {
		return nil
	}
	return e.hist.Entries()
}

func (e *Engine) addSelection(c Candidate) {
	for _, sel := range e.selection {
		if sel.MemoryID == c.MemoryID {
			return
		}
	}
	e.selection = append(e.selection, c)
}

// effectivelyEmpty reports whether the buffer holds nothing the user
// would consider content: whitespace and zero-width marks are ignored.
// The zero-width set covers ZWSP, ZWNJ, ZWJ, the BOM and the word
// joiner, written escaped since they carry no visible glyph.
func effectivelyEmpty(text string) bool {
	for _, r := range text {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u2060':
			continue
		}
		if !isSpaceRune(r) {
			return false
		}
	}
	return true
}

func isSpaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\u00a0':
		return true
	default:
		return false
	}
}
