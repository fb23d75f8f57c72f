package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogFromFiles(t *testing.T) {
	c := catalogFromFiles([]string{
		"cmd/app/main.go",
		"internal/server/server.go",
		"README.md",
	})

	if got := c.Files(""); len(got) != 3 {
		t.Fatalf("files = %v", got)
	}
	dirs := c.Dirs("")
	want := map[string]bool{"cmd": true, "cmd/app": true, "internal": true, "internal/server": true}
	if len(dirs) != len(want) {
		t.Fatalf("dirs = %v", dirs)
	}
	for _, d := range dirs {
		if !want[d] {
			t.Fatalf("unexpected dir %q", d)
		}
	}
}

func TestCatalogFilter(t *testing.T) {
	c := catalogFromFiles([]string{"src/Main.go", "docs/notes.md"})

	if got := c.Files("main"); len(got) != 1 || got[0] != "src/Main.go" {
		t.Fatalf("case-insensitive filter = %v", got)
	}
	if got := c.Files("zzz"); len(got) != 0 {
		t.Fatalf("filter should exclude misses: %v", got)
	}
	if got := c.Dirs("doc"); len(got) != 1 || got[0] != "docs" {
		t.Fatalf("dir filter = %v", got)
	}
}

func TestWalkCatalog(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "pkg"), 0o755)
	os.MkdirAll(filepath.Join(root, ".git"), 0o755)
	os.MkdirAll(filepath.Join(root, "node_modules", "x"), 0o755)
	os.WriteFile(filepath.Join(root, "pkg", "a.go"), nil, 0o644)
	os.WriteFile(filepath.Join(root, ".git", "HEAD"), nil, 0o644)
	os.WriteFile(filepath.Join(root, "node_modules", "x", "index.js"), nil, 0o644)

	c := walkCatalog(root)
	if got := c.Files(""); len(got) != 1 || got[0] != filepath.Join("pkg", "a.go") {
		t.Fatalf("files = %v, vendor and VCS trees must be skipped", got)
	}
	if got := c.Dirs(""); len(got) != 1 || got[0] != "pkg" {
		t.Fatalf("dirs = %v", got)
	}
}
