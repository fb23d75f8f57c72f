package tui

import (
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// maxCatalogEntries bounds the walk fallback so a huge tree cannot
// stall startup.
const maxCatalogEntries = 5000

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
}

// Catalog is the workspace path index behind the "@" trigger, loaded
// once at startup.
type Catalog struct {
	dirs  []string
	files []string
}

// LoadCatalog indexes the workspace. Inside a git checkout the tracked
// file list is authoritative; elsewhere a bounded directory walk is
// used.
func LoadCatalog(root string) *Catalog {
	if files := gitFiles(root); files != nil {
		return catalogFromFiles(files)
	}
	return walkCatalog(root)
}

// Dirs returns directories matching the query, for the suggestion
// popup's pre-filtered contract.
func (c *Catalog) Dirs(query string) []string { return filterPaths(c.dirs, query) }

// Files returns files matching the query.
func (c *Catalog) Files(query string) []string { return filterPaths(c.files, query) }

func filterPaths(paths []string, query string) []string {
	if query == "" {
		return paths
	}
	q := strings.ToLower(query)
	var out []string
	for _, p := range paths {
		if strings.Contains(strings.ToLower(p), q) {
			out = append(out, p)
		}
	}
	return out
}

func gitFiles(root string) []string {
	cmd := exec.Command("git", "ls-files")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	files := lines[:0]
	for _, l := range lines {
		if l != "" {
			files = append(files, l)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return files
}

func catalogFromFiles(files []string) *Catalog {
	dirSet := map[string]bool{}
	for _, f := range files {
		for d := filepath.Dir(f); d != "." && d != "/"; d = filepath.Dir(d) {
			dirSet[d] = true
		}
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	sort.Strings(files)
	return &Catalog{dirs: dirs, files: files}
}

func walkCatalog(root string) *Catalog {
	c := &Catalog{}
	count := 0
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if count >= maxCatalogEntries {
			return filepath.SkipAll
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			c.dirs = append(c.dirs, rel)
		} else {
			c.files = append(c.files, rel)
		}
		count++
		return nil
	})
	sort.Strings(c.dirs)
	sort.Strings(c.files)
	return c
}
