package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkfold/inkfold/internal/memory"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	db, err := memory.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := memory.NewService(memory.NewNoteStore(db), memory.NewWorkspaceStore(db), logger)
	srv := httptest.NewServer(NewRouter(db, svc, apiKey, logger))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, bearer string) *http.Response {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestNoteRoutes(t *testing.T) {
	srv := newTestServer(t, "")

	t.Run("store then search round trip", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/notes", map[string]any{
			"workspace": "/tmp/proj",
			"content":   "remember to rotate the api token",
			"tags":      []string{"ops"},
		}, "")
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("store status = %d", resp.StatusCode)
		}
		var note memory.Note
		if err := json.NewDecoder(resp.Body).Decode(&note); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if note.ID == "" {
			t.Fatal("note id not assigned")
		}

		resp = doJSON(t, http.MethodPost, srv.URL+"/notes/search", map[string]any{
			"workspace": "/tmp/proj",
			"query":     "rotate",
		}, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("search status = %d", resp.StatusCode)
		}
		var page memory.SearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != note.ID {
			t.Fatalf("search page = %+v", page)
		}
	})

	t.Run("store without content rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/notes", map[string]any{
			"workspace": "/tmp/proj",
		}, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("delete unknown note is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/notes/nope", nil, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("health reports note count", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if id := resp.Header.Get("X-Request-ID"); id == "" {
			t.Error("missing request id header")
		}
	})
}

func TestRequestIDLogged(t *testing.T) {
	db, err := memory.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := memory.NewService(memory.NewNoteStore(db), memory.NewWorkspaceStore(db), logger)
	srv := httptest.NewServer(NewRouter(db, svc, "", logger))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	id := resp.Header.Get("X-Request-ID")
	if id == "" {
		t.Fatal("missing request id header")
	}
	if !strings.Contains(logs.String(), "request_id="+id) {
		t.Fatalf("request log not correlated with %q:\n%s", id, logs.String())
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(t, "secret")

	t.Run("health stays open", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
	})

	t.Run("notes require the key", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/notes?workspace=/tmp/proj", nil, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}

		resp = doJSON(t, http.MethodGet, srv.URL+"/notes?workspace=/tmp/proj", nil, "secret")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200 with key", resp.StatusCode)
		}
	})
}
