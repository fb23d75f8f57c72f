package history

// Navigator cycles through a scope's entries while preserving the
// uncommitted draft captured when navigation began. The zero value is
// ready to use and not navigating. Navigation never mutates the entry
// list.
type Navigator struct {
	index      int
	navigating bool
	draft      string
}

// Navigating reports whether the user is currently mid-navigation.
func (n *Navigator) Navigating() bool { return n.navigating }

// Index returns the current position and whether navigation is active.
func (n *Navigator) Index() (int, bool) { return n.index, n.navigating }

// Draft returns the buffer contents captured when navigation started.
func (n *Navigator) Draft() string { return n.draft }

// Up moves one entry older, entering navigation at the newest entry
// when not yet navigating. buffer is captured as the draft on entry.
// At the oldest entry Up is a clamped no-op that still reports the
// current entry. ok is false when there is nothing to navigate to.
func (n *Navigator) Up(entries []string, buffer string) (string, bool) {
	if !n.navigating {
		if len(entries) == 0 {
			return "", false
		}
		n.navigating = true
		n.index = len(entries) - 1
		n.draft = buffer
		return entries[n.index], true
	}
	if n.index > 0 {
		n.index--
	}
	if n.index >= len(entries) {
		// Entries shrank underneath us (scope commit); clamp.
		n.index = len(entries) - 1
	}
	if n.index < 0 {
		return "", false
	}
	return entries[n.index], true
}

// Down moves one entry newer. At the newest entry it exits navigation
// and returns the preserved draft, exactly once. ok is false when not
// navigating.
func (n *Navigator) Down(entries []string) (string, bool) {
	if !n.navigating {
		return "", false
	}
	if n.index >= len(entries)-1 {
		draft := n.draft
		n.Reset()
		return draft, true
	}
	n.index++
	return entries[n.index], true
}

// Cancel exits navigation without restoring the draft; the buffer as
// the user edited it stands.
func (n *Navigator) Cancel() {
	n.navigating = false
	n.index = 0
	n.draft = ""
}

// Reset is Cancel under a different intent: scope switches and sends
// clear navigation state entirely.
func (n *Navigator) Reset() { n.Cancel() }
