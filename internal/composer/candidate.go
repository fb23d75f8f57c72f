// Package composer implements the trigger-based autocomplete and
// text-mutation engine behind the message input: trigger resolution,
// candidate providers, the open/closed suggestion session, insertion
// range math, history navigation, and inline ghost completion.
//
// The engine owns no timers and performs no I/O of its own. All state
// transitions happen synchronously inside a key or text-change event;
// the only asynchronous collaborator is the memory search, which is
// driven through monotonic request tokens (see memory.go).
package composer

// Kind classifies a candidate by the provider that produced it.
type Kind string

const (
	KindCommand   Kind = "command"
	KindLiteral   Kind = "literal" // user-defined command or prompt template
	KindSkill     Kind = "skill"
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindMemory    Kind = "memory"
)

// Candidate is one selectable suggestion. ID must be unique within a
// single match list.
type Candidate struct {
	ID          string
	Label       string
	Description string

	// InsertText is the text spliced into the buffer on apply. When
	// empty, Label is used instead.
	InsertText string

	// CursorOffset places the cursor inside the inserted text (for
	// argument placeholders). Only meaningful when HasCursorOffset is
	// set; candidates without it leave the cursor after the insertion.
	CursorOffset    int
	HasCursorOffset bool

	Kind        Kind
	IsDirectory bool

	// MemoryID identifies the note behind a KindMemory candidate.
	MemoryID string
}

// insertText resolves the effective insertion text.
func (c Candidate) insertText() string {
	if c.InsertText != "" {
		return c.InsertText
	}
	return c.Label
}
