// Package skills loads the skill and prompt catalogs the composer's
// "$" and "/" triggers complete against. Catalogs are scanned once at
// startup; a broken entry is skipped, never fatal.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inkfold/inkfold/internal/composer"
)

// Meta holds parsed metadata from a SKILL.md or prompt frontmatter.
type Meta struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	ArgumentHint string `yaml:"argument-hint"`
	Path         string `yaml:"-"` // absolute path to the source file
}

// ScanSkills walks each directory in dirs looking for */SKILL.md files
// and parses their YAML frontmatter for name and description.
func ScanSkills(dirs []string) ([]Meta, error) {
	var skills []Meta

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Skip directories that don't exist
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read skill dir %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			skillPath := filepath.Join(dir, entry.Name(), "SKILL.md")
			data, err := os.ReadFile(skillPath)
			if err != nil {
				// No SKILL.md in this subdirectory, skip
				continue
			}

			meta, err := parseFrontmatter(data)
			if err != nil {
				continue
			}

			if meta.Name == "" {
				// Use directory name as fallback
				meta.Name = entry.Name()
			}
			meta.Path = skillPath

			if meta.Description == "" {
				continue
			}

			skills = append(skills, meta)
		}
	}

	return skills, nil
}

// ScanPrompts reads prompts/*.md files in each dir. Prompt frontmatter
// may carry an argument-hint, which turns into an insert template.
func ScanPrompts(dirs []string) ([]Meta, error) {
	var prompts []Meta

	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
		if err != nil {
			return nil, fmt.Errorf("glob prompt dir %s: %w", dir, err)
		}

		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			meta, err := parseFrontmatter(data)
			if err != nil {
				continue
			}
			if meta.Name == "" {
				meta.Name = strings.TrimSuffix(filepath.Base(path), ".md")
			}
			if meta.Description == "" {
				continue
			}
			meta.Path = path
			prompts = append(prompts, meta)
		}
	}

	return prompts, nil
}

// SkillCandidates shapes scanned skills for the "$" trigger.
func SkillCandidates(skills []Meta) []composer.Candidate {
	out := make([]composer.Candidate, 0, len(skills))
	for _, s := range skills {
		out = append(out, composer.Candidate{
			ID:          "skill:" + s.Name,
			Label:       s.Name,
			Description: s.Description,
			Kind:        composer.KindSkill,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// PromptCandidates shapes prompts as user-defined commands for the "/"
// trigger. A prompt with an argument hint inserts "name \"\"" with the
// cursor between the quotes so the argument can be typed in place.
func PromptCandidates(prompts []Meta) []composer.Candidate {
	out := make([]composer.Candidate, 0, len(prompts))
	for _, p := range prompts {
		c := composer.Candidate{
			ID:          "prompt:" + p.Name,
			Label:       p.Name,
			Description: p.Description,
			Kind:        composer.KindLiteral,
		}
		if p.ArgumentHint != "" {
			tmpl := p.Name + ` ""`
			c.InsertText = tmpl
			c.CursorOffset = len(tmpl) - 1
			c.HasCursorOffset = true
			c.Description = p.Description + " (" + p.ArgumentHint + ")"
		}
		out = append(out, c)
	}
	return out
}

// parseFrontmatter extracts YAML frontmatter delimited by --- markers.
func parseFrontmatter(data []byte) (Meta, error) {
	content := string(data)

	// Must start with ---
	if !strings.HasPrefix(strings.TrimSpace(content), "---") {
		return Meta{}, fmt.Errorf("no frontmatter found")
	}

	// Find the closing ---
	trimmed := strings.TrimSpace(content)
	rest := trimmed[3:] // skip opening ---
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return Meta{}, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlBlock := rest[:idx]

	var meta Meta
	if err := yaml.Unmarshal([]byte(yamlBlock), &meta); err != nil {
		return Meta{}, fmt.Errorf("parse yaml: %w", err)
	}

	// Clean up multiline description (yaml > folded scalar may have trailing newline)
	meta.Description = strings.TrimSpace(meta.Description)

	return meta, nil
}
