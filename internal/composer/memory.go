package composer

import (
	"context"
	"time"
)

// memoryDebounce is how long query changes settle before a lookup is
// issued.
const memoryDebounce = 120 * time.Millisecond

// MemorySearch is the external lookup behind the "@@" trigger. It is
// assumed idempotent and safe to call repeatedly; failures degrade to
// an empty suggestion list.
type MemorySearch func(ctx context.Context, workspaceID, query string, limit, offset int) ([]Candidate, int, error)

// MemoryRequest asks the host to schedule a debounced lookup. After
// Delay has elapsed the host calls Engine.MemoryLookupDue with the
// token; a token that has since been superseded is a silent no-op.
type MemoryRequest struct {
	Token       uint64
	WorkspaceID string
	Query       string
	Delay       time.Duration
}

// issueMemoryRequest advances the token counter and records the pending
// query. Advancing the counter is also how stale timers and in-flight
// responses are invalidated: they carry the old token.
func (e *Engine) issueMemoryRequest(query string) *MemoryRequest {
	e.memToken++
	e.pendingMemQuery = query
	return &MemoryRequest{
		Token:       e.memToken,
		WorkspaceID: e.workspaceID,
		Query:       query,
		Delay:       memoryDebounce,
	}
}

// cancelMemoryRequest drops any pending debounce or in-flight lookup by
// bumping the token.
func (e *Engine) cancelMemoryRequest() {
	e.memToken++
	e.pendingMemQuery = ""
}

// MemoryLookupDue reports whether the debounce identified by token is
// still current and, if so, returns the workspace and query to search.
// The host performs the search and feeds the outcome back through
// CompleteMemoryLookup.
func (e *Engine) MemoryLookupDue(token uint64) (workspaceID, query string, ok bool) {
	if token != e.memToken {
		return "", "", false
	}
	if !e.session.Active || e.session.Trigger != TriggerMemory {
		return "", "", false
	}
	if e.workspaceID == "" {
		return "", "", false
	}
	return e.workspaceID, e.pendingMemQuery, true
}

// CompleteMemoryLookup applies the result of a finished lookup. Results
// for a superseded token, a changed workspace, or a session that has
// since closed are discarded; a failed lookup degrades the list to
// empty. Candidate IDs must stay unique within the match list, so
// duplicates from the backend are dropped here.
func (e *Engine) CompleteMemoryLookup(token uint64, workspaceID string, items []Candidate, err error) {
	if token != e.memToken || workspaceID != e.workspaceID {
		return
	}
	if !e.session.Active || e.session.Trigger != TriggerMemory {
		return
	}
	if err != nil {
		items = nil
	}
	e.setMatches(dedupeByID(items))
}

func dedupeByID(items []Candidate) []Candidate {
	if len(items) < 2 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, c := range items {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
