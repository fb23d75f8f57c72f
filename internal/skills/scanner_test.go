package skills

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Meta
		wantErr bool
	}{
		{
			name: "simple frontmatter",
			input: `---
name: test-skill
description: A test skill description
---

# Test Skill
`,
			want: Meta{
				Name:        "test-skill",
				Description: "A test skill description",
			},
		},
		{
			name: "folded scalar description",
			input: `---
name: summarize
description: >
  Condense a long discussion into a short list of decisions and open
  questions. Use when the user says "summarize".
---

# Summarize
`,
			want: Meta{
				Name:        "summarize",
				Description: `Condense a long discussion into a short list of decisions and open questions. Use when the user says "summarize".`,
			},
		},
		{
			name: "argument hint",
			input: `---
name: review
description: Review a file for style problems.
argument-hint: path to the file
---
`,
			want: Meta{
				Name:         "review",
				Description:  "Review a file for style problems.",
				ArgumentHint: "path to the file",
			},
		},
		{
			name: "with extra fields",
			input: `---
name: browser-use
description: Automates browser interactions for web testing.
allowed-tools: Bash(browser-use:*)
---
`,
			want: Meta{
				Name:        "browser-use",
				Description: "Automates browser interactions for web testing.",
			},
		},
		{
			name:    "no frontmatter",
			input:   "# Just a markdown file\n\nNo frontmatter here.",
			wantErr: true,
		},
		{
			name:    "no closing delimiter",
			input:   "---\nname: broken\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFrontmatter([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want.Name {
				t.Errorf("name = %q, want %q", got.Name, tt.want.Name)
			}
			if got.Description != tt.want.Description {
				t.Errorf("description = %q, want %q", got.Description, tt.want.Description)
			}
			if got.ArgumentHint != tt.want.ArgumentHint {
				t.Errorf("argument hint = %q, want %q", got.ArgumentHint, tt.want.ArgumentHint)
			}
		})
	}
}

func TestScanSkills(t *testing.T) {
	dir := t.TempDir()

	writeSkill(t, dir, "skill-one", `---
name: skill-one
description: First test skill
---
`)
	writeSkill(t, dir, "skill-two", `---
name: skill-two
description: Second test skill
---
`)

	// A directory without SKILL.md is skipped.
	noSkillDir := filepath.Join(dir, "not-a-skill")
	os.MkdirAll(noSkillDir, 0o755)
	os.WriteFile(filepath.Join(noSkillDir, "README.md"), []byte("not a skill"), 0o644)

	// A skill with no description is skipped.
	writeSkill(t, dir, "empty-desc", `---
name: empty-desc
description:
---
`)

	skills, err := ScanSkills([]string{dir})
	if err != nil {
		t.Fatalf("ScanSkills error: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(skills))
	}
	for _, s := range skills {
		if s.Path == "" {
			t.Errorf("skill %q has empty path", s.Name)
		}
	}
}

func TestScanSkillsNonexistentDir(t *testing.T) {
	skills, err := ScanSkills([]string{"/nonexistent/path"})
	if err != nil {
		t.Fatalf("expected no error for nonexistent dir, got: %v", err)
	}
	if len(skills) != 0 {
		t.Fatalf("expected 0 skills, got %d", len(skills))
	}
}

func TestScanSkillsFallbackName(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "my-skill", `---
description: A skill with no name field
---
`)

	skills, err := ScanSkills([]string{dir})
	if err != nil {
		t.Fatalf("ScanSkills error: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Name != "my-skill" {
		t.Errorf("expected fallback name 'my-skill', got %q", skills[0].Name)
	}
}

func TestScanPrompts(t *testing.T) {
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "review.md"), []byte(`---
name: review
description: Review a file.
argument-hint: file path
---
`), 0o644)
	os.WriteFile(filepath.Join(dir, "unnamed.md"), []byte(`---
description: Falls back to its file name.
---
`), 0o644)
	os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter"), 0o644)

	prompts, err := ScanPrompts([]string{dir})
	if err != nil {
		t.Fatalf("ScanPrompts error: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}

	byName := map[string]Meta{}
	for _, p := range prompts {
		byName[p.Name] = p
	}
	if byName["review"].ArgumentHint != "file path" {
		t.Errorf("review hint = %q", byName["review"].ArgumentHint)
	}
	if _, ok := byName["unnamed"]; !ok {
		t.Error("missing fallback-named prompt")
	}
}

func TestPromptCandidates(t *testing.T) {
	cands := PromptCandidates([]Meta{
		{Name: "review", Description: "Review a file.", ArgumentHint: "file path"},
		{Name: "clear", Description: "Clear the transcript."},
	})
	if len(cands) != 2 {
		t.Fatalf("got %d candidates", len(cands))
	}

	review := cands[0]
	if review.InsertText != `review ""` {
		t.Errorf("insert text = %q", review.InsertText)
	}
	if !review.HasCursorOffset || review.CursorOffset != len(review.InsertText)-1 {
		t.Errorf("cursor offset = %d (%v), want inside the quotes",
			review.CursorOffset, review.HasCursorOffset)
	}

	clear := cands[1]
	if clear.HasCursorOffset || clear.InsertText != "" {
		t.Errorf("hintless prompt should insert its label: %+v", clear)
	}
}

func writeSkill(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
