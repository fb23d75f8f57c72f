package composer

import (
	"strings"
	"unicode"
)

// ApplyCandidate commits the chosen candidate against the session's
// current trigger and range, producing one atomic buffer replacement
// followed by a refocus. All range math is clamped: live input means
// the session range can lag an adversarial edit by one event, and the
// worst allowed outcome is a no-op, never an out-of-bounds splice.
func (e *Engine) ApplyCandidate(c Candidate) {
	if !e.session.Active || e.buf == nil {
		return
	}
	text := e.buf.Text()
	trig := e.session.Trigger

	start := clampInt(e.session.Start, 0, len(text))
	end := clampInt(e.session.End, start, len(text))

	// For "@" and "@@" the marker precedes the range and is removed
	// with it; the "/" and "$" providers keep their marker in place.
	replaceStart := start
	switch trig {
	case TriggerFile, TriggerMemory:
		replaceStart = clampInt(start-len(string(trig)), 0, start)
	}

	if trig == TriggerMemory && c.Kind == KindMemory {
		// Memory picks leave no token behind: the trigger text is
		// deleted and the note joins the manual-memory selection.
		e.addSelection(c)
		e.closeSession()
		e.replaceBuffer(text[:replaceStart]+text[end:], replaceStart)
		return
	}

	insert := c.insertText()
	if trig == TriggerFile {
		// Guard against a doubled trigger sneaking into the insertion.
		insert = strings.TrimLeft(insert, "@")
	}

	inPlaceholder := e.inPlaceholder(replaceStart, end)
	addSpace := !c.HasCursorOffset &&
		!whitespaceFollows(text, end) &&
		!inPlaceholder

	final := insert
	if addSpace {
		final += " "
	}

	newText := text[:replaceStart] + final + text[end:]

	var cursor int
	switch {
	case c.HasCursorOffset:
		cursor = replaceStart + clampInt(c.CursorOffset, 0, len(insert))
		e.placeholderActive = true
		e.placeholderStart = replaceStart
		e.placeholderEnd = replaceStart + len(final)
	case whitespaceFollows(text, end):
		// Step over the pre-existing separator so the applied text can
		// never re-trigger its own suggestion source.
		cursor = replaceStart + len(final) + 1
	default:
		cursor = replaceStart + len(final)
	}
	if inPlaceholder && !c.HasCursorOffset {
		e.placeholderEnd += len(final) - (end - replaceStart)
		cursor = replaceStart + len(final)
	}
	cursor = clampInt(cursor, 0, len(newText))

	e.closeSession()
	e.replaceBuffer(newText, cursor)
}

// replaceBuffer performs an engine-initiated buffer mutation. Syncing
// lastLen first keeps trackPlaceholderEdit from treating the engine's
// own splice as a user edit.
func (e *Engine) replaceBuffer(text string, cursor int) {
	e.lastLen = len(text)
	e.buf.Replace(text, cursor)
	e.buf.Refocus()
	e.refresh()
}

// trackPlaceholderEdit keeps the remembered placeholder span aligned
// with user edits. Text typed or deleted inside the span grows or
// shrinks it; once the cursor leaves the span, it is dropped.
func (e *Engine) trackPlaceholderEdit(text string, cursor int) {
	delta := len(text) - e.lastLen
	e.lastLen = len(text)
	if !e.placeholderActive {
		return
	}
	if delta != 0 {
		// An insertion lands before the cursor, a deletion at it; either
		// way the edit began at cursor minus the inserted length.
		editPos := cursor
		if delta > 0 {
			editPos = cursor - delta
		}
		if editPos >= e.placeholderStart && editPos <= e.placeholderEnd {
			e.placeholderEnd += delta
		}
	}
	if e.placeholderEnd < e.placeholderStart ||
		cursor < e.placeholderStart || cursor > e.placeholderEnd {
		e.clearPlaceholder()
	}
}

func (e *Engine) inPlaceholder(start, end int) bool {
	return e.placeholderActive && start >= e.placeholderStart && end <= e.placeholderEnd
}

func (e *Engine) clearPlaceholder() {
	e.placeholderActive = false
	e.placeholderStart = 0
	e.placeholderEnd = 0
}

func whitespaceFollows(text string, pos int) bool {
	if pos < 0 || pos >= len(text) {
		return false
	}
	return unicode.IsSpace(rune(text[pos]))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
