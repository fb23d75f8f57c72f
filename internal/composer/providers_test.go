package composer

import "testing"

func TestCommandSource(t *testing.T) {
	builtins := []Candidate{
		{ID: "cmd:model", Label: "model", Description: "switch the active model", Kind: KindCommand},
		{ID: "cmd:clear", Label: "clear", Description: "clear the transcript", Kind: KindCommand},
		{ID: "cmd:help", Label: "help", Description: "list commands", Kind: KindCommand},
	}
	literals := func() []Candidate {
		return []Candidate{
			{ID: "lit:zz-deploy", Label: "zz-deploy", Kind: KindLiteral},
			{ID: "lit:aa-review", Label: "aa-review", Kind: KindLiteral},
		}
	}
	src := NewCommandSource(builtins, literals)

	t.Run("literals first unsorted, builtins sorted", func(t *testing.T) {
		got := src.Candidates("")
		want := []string{"zz-deploy", "aa-review", "clear", "help", "model"}
		if len(got) != len(want) {
			t.Fatalf("got %d candidates, want %d", len(got), len(want))
		}
		for i, label := range want {
			if got[i].Label != label {
				t.Fatalf("candidate %d = %q, want %q", i, got[i].Label, label)
			}
		}
	})

	t.Run("substring matches label", func(t *testing.T) {
		got := src.Candidates("ode")
		if countKind(got, KindCommand) != 1 {
			t.Fatalf("expected 1 builtin match, got %d", countKind(got, KindCommand))
		}
	})

	t.Run("substring matches description case-insensitively", func(t *testing.T) {
		got := src.Candidates("TRANSCRIPT")
		if countKind(got, KindCommand) != 1 {
			t.Fatalf("expected description match, got %d", countKind(got, KindCommand))
		}
	})
}

func TestSkillSource(t *testing.T) {
	src := NewSkillSource(func() []Candidate {
		return []Candidate{
			{ID: "skill:review", Label: "review", Description: "code review checklist", Kind: KindSkill},
			{ID: "skill:tests", Label: "tests", Description: "write table tests", Kind: KindSkill},
		}
	})

	if got := src.Candidates("rev"); len(got) != 1 || got[0].Label != "review" {
		t.Fatalf("query rev: got %+v", got)
	}
	if got := src.Candidates(""); len(got) != 2 {
		t.Fatalf("empty query: got %d, want 2", len(got))
	}
}

func TestFileSource(t *testing.T) {
	dirs := []string{"internal", "cmd"}
	var files []string
	for i := 0; i < 40; i++ {
		files = append(files, "file"+string(rune('a'+i%26))+".go")
	}
	src := NewFileSource(
		func(query string) []string { return dirs },
		func(query string) []string { return files },
	)

	t.Run("directories lead with trailing slash", func(t *testing.T) {
		got := src.Candidates("x")
		if !got[0].IsDirectory || got[0].Label != "internal/" {
			t.Fatalf("first candidate = %+v, want directory internal/", got[0])
		}
		if got[1].Label != "cmd/" {
			t.Fatalf("second candidate = %q, want cmd/", got[1].Label)
		}
	})

	t.Run("empty query truncates", func(t *testing.T) {
		got := src.Candidates("")
		if len(got) != maxEmptyQueryFiles {
			t.Fatalf("got %d candidates, want %d", len(got), maxEmptyQueryFiles)
		}
	})

	t.Run("non-empty query not truncated", func(t *testing.T) {
		got := src.Candidates("file")
		if len(got) != len(dirs)+len(files) {
			t.Fatalf("got %d candidates, want %d", len(got), len(dirs)+len(files))
		}
	})
}

func countKind(items []Candidate, kind Kind) int {
	n := 0
	for _, c := range items {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
