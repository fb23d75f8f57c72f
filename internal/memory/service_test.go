package memory

import (
	"path/filepath"
	"strings"
	"testing"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(NewNoteStore(db), NewWorkspaceStore(db), nil)
}

func TestStoreAndList(t *testing.T) {
	svc := setupService(t)

	t.Run("store assigns id and registers workspace", func(t *testing.T) {
		n, err := svc.Store(&StoreRequest{Workspace: "/tmp/proj", Content: "use WAL mode for sqlite"})
		if err != nil {
			t.Fatalf("store: %v", err)
		}
		if n.ID == "" || n.WorkspaceID == "" {
			t.Fatalf("note missing ids: %+v", n)
		}
		if n.WorkspaceID != WorkspaceID("/tmp/proj") {
			t.Fatalf("workspace id = %q", n.WorkspaceID)
		}
	})

	t.Run("empty content rejected", func(t *testing.T) {
		if _, err := svc.Store(&StoreRequest{Workspace: "/tmp/proj", Content: "   "}); err == nil {
			t.Fatal("expected error for empty content")
		}
	})

	t.Run("list is newest first and scoped", func(t *testing.T) {
		svc.Store(&StoreRequest{Workspace: "/tmp/other", Content: "note in another workspace"})

		resp, err := svc.List("/tmp/proj", 10, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if resp.Total != 1 || len(resp.Items) != 1 {
			t.Fatalf("resp = %+v, want the single /tmp/proj note", resp)
		}
	})
}

func TestSearch(t *testing.T) {
	svc := setupService(t)
	ws := "/tmp/search-proj"

	seed := []string{
		"deploy target runs on port 8080",
		"database migrations live in db/migrate",
		"the deploy script needs AWS_PROFILE set",
		"unrelated note about lunch options",
	}
	for _, c := range seed {
		if _, err := svc.Store(&StoreRequest{Workspace: ws, Content: c}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("matches rank above misses", func(t *testing.T) {
		resp, err := svc.Search(&SearchRequest{Workspace: ws, Query: "deploy"})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if resp.Total != 2 {
			t.Fatalf("total = %d, want 2", resp.Total)
		}
		for _, n := range resp.Items {
			if !strings.Contains(n.Content, "deploy") {
				t.Fatalf("non-matching note in results: %q", n.Content)
			}
		}
	})

	t.Run("prefix tokens match", func(t *testing.T) {
		resp, err := svc.Search(&SearchRequest{Workspace: ws, Query: "migrat"})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if resp.Total != 1 {
			t.Fatalf("total = %d, want 1 prefix match", resp.Total)
		}
	})

	t.Run("empty query lists recent notes", func(t *testing.T) {
		resp, err := svc.Search(&SearchRequest{Workspace: ws, Query: "  "})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if resp.Total != len(seed) {
			t.Fatalf("total = %d, want %d", resp.Total, len(seed))
		}
	})

	t.Run("punctuation cannot break the match expression", func(t *testing.T) {
		if _, err := svc.Search(&SearchRequest{Workspace: ws, Query: `"();--`}); err != nil {
			t.Fatalf("quoted query errored: %v", err)
		}
	})

	t.Run("paging honors limit and offset", func(t *testing.T) {
		resp, err := svc.Search(&SearchRequest{Workspace: ws, Query: "deploy", Limit: 1})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(resp.Items) != 1 || resp.Total != 2 {
			t.Fatalf("page = %d items total %d, want 1 of 2", len(resp.Items), resp.Total)
		}
		second, err := svc.Search(&SearchRequest{Workspace: ws, Query: "deploy", Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(second.Items) != 1 || second.Items[0].ID == resp.Items[0].ID {
			t.Fatalf("offset page repeats the first result")
		}
	})
}

func TestSearchLikeFallback(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := NewNoteStore(db)
	svc := NewService(store, NewWorkspaceStore(db), nil)

	ws := "/tmp/like-proj"
	seed := []string{
		"release is 50% done",
		"fifty percent of nothing",
		"snake_case naming for columns",
	}
	for _, c := range seed {
		if _, err := svc.Store(&StoreRequest{Workspace: ws, Content: c}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	wsID := WorkspaceID(ws)

	t.Run("tokens are required substrings", func(t *testing.T) {
		results, total, err := store.searchLike(wsID, "fifty nothing", 10)
		if err != nil {
			t.Fatalf("searchLike: %v", err)
		}
		if total != 1 || len(results) != 1 {
			t.Fatalf("total = %d (%d rows), want the one note with both tokens", total, len(results))
		}
	})

	t.Run("percent is literal, not a wildcard", func(t *testing.T) {
		_, total, err := store.searchLike(wsID, "%", 10)
		if err != nil {
			t.Fatalf("searchLike: %v", err)
		}
		if total != 1 {
			t.Fatalf("total = %d, want only the note containing a literal %%", total)
		}
	})

	t.Run("underscore is literal, not a wildcard", func(t *testing.T) {
		_, total, err := store.searchLike(wsID, "_", 10)
		if err != nil {
			t.Fatalf("searchLike: %v", err)
		}
		if total != 1 {
			t.Fatalf("total = %d, want only the snake_case note", total)
		}
	})

	t.Run("no match returns empty", func(t *testing.T) {
		results, total, err := store.searchLike(wsID, "zzz", 10)
		if err != nil {
			t.Fatalf("searchLike: %v", err)
		}
		if total != 0 || len(results) != 0 {
			t.Fatalf("got %d/%d, want none", len(results), total)
		}
	})
}

func TestDelete(t *testing.T) {
	svc := setupService(t)
	n, err := svc.Store(&StoreRequest{Workspace: "/tmp/proj", Content: "temporary"})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := svc.Delete(n.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(n.ID); err == nil {
		t.Fatal("second delete should report not found")
	}

	// The FTS index follows the delete: the note is unfindable.
	resp, err := svc.Search(&SearchRequest{Workspace: "/tmp/proj", Query: "temporary"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("deleted note still indexed: %+v", resp)
	}
}

func TestRerank(t *testing.T) {
	results := []FTSResult{
		{Note: Note{ID: "1", Content: "completely different text"}, Score: 3},
		{Note: Note{ID: "2", Content: "deploy the service"}, Score: 2},
		{Note: Note{ID: "3", Content: "deplorable weather"}, Score: 1},
	}
	ranked := rerank("deploy", results)
	if len(ranked) != 3 {
		t.Fatalf("rerank dropped notes: %d", len(ranked))
	}
	if ranked[0].ID != "2" {
		t.Fatalf("best fuzzy match = %q, want the exact substring note", ranked[0].ID)
	}
}
