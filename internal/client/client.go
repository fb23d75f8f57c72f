// Package client is the composer-side HTTP client for the note
// service. It adapts the service's search endpoint to the engine's
// MemorySearch contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inkfold/inkfold/internal/composer"
	"github.com/inkfold/inkfold/internal/memory"
)

const defaultTimeout = 5 * time.Second

// MemoryClient talks to a running `inkfold serve` instance.
type MemoryClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMemoryClient creates a client for the given base URL. The API key
// may be empty when the server runs without auth.
func NewMemoryClient(baseURL, apiKey string) *MemoryClient {
	return &MemoryClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Search implements the engine's memory search: notes become memory
// candidates. Errors are returned for the engine to degrade on; the
// engine shows an empty list rather than surfacing them.
func (c *MemoryClient) Search(ctx context.Context, workspaceID, query string, limit, offset int) ([]composer.Candidate, int, error) {
	req := memory.SearchRequest{
		Workspace: workspaceID,
		Query:     query,
		Limit:     limit,
		Offset:    offset,
	}

	var resp memory.SearchResponse
	if err := c.post(ctx, "/notes/search", req, &resp); err != nil {
		return nil, 0, err
	}

	items := make([]composer.Candidate, 0, len(resp.Items))
	for _, n := range resp.Items {
		items = append(items, noteCandidate(n))
	}
	return items, resp.Total, nil
}

// StoreNote persists a note for a workspace.
func (c *MemoryClient) StoreNote(ctx context.Context, workspace, content string, tags []string) (*memory.Note, error) {
	req := memory.StoreRequest{Workspace: workspace, Content: content, Tags: tags}
	var note memory.Note
	if err := c.post(ctx, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Health reports whether the server is reachable and serving.
func (c *MemoryClient) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *MemoryClient) post(ctx context.Context, path string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// noteCandidate shapes a note for the suggestion popup: the first line
// as the label, trimmed, with the note text itself as the inserted
// content should the engine ever need it.
func noteCandidate(n memory.Note) composer.Candidate {
	label := n.Content
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	label = strings.TrimSpace(label)
	const maxLabel = 80
	if len(label) > maxLabel {
		label = label[:maxLabel-3] + "..."
	}
	desc := ""
	if len(n.Tags) > 0 {
		desc = "#" + strings.Join(n.Tags, " #")
	}
	return composer.Candidate{
		ID:          "memory:" + n.ID,
		Label:       label,
		Description: desc,
		InsertText:  n.Content,
		Kind:        composer.KindMemory,
		MemoryID:    n.ID,
	}
}
