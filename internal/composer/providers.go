package composer

import (
	"sort"
	"strings"
)

// maxEmptyQueryFiles bounds the file list shown before the user has
// typed any query text.
const maxEmptyQueryFiles = 25

// Source produces the ranked candidate list for a query. Sources are
// synchronous; the memory provider is driven separately through request
// tokens.
type Source interface {
	Candidates(query string) []Candidate
}

// matchesQuery is the shared filter: case-insensitive substring match
// against label and description.
func matchesQuery(c Candidate, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Label), q) {
		return true
	}
	return strings.Contains(strings.ToLower(c.Description), q)
}

// CommandSource suggests slash commands: a static built-in list plus
// user-defined command/prompt templates. Literal (user-defined) items
// are always included first in their given order; built-ins are
// filtered and sorted alphabetically after them.
type CommandSource struct {
	builtins []Candidate
	literals func() []Candidate
}

// NewCommandSource builds a command source. literals may be nil.
func NewCommandSource(builtins []Candidate, literals func() []Candidate) *CommandSource {
	return &CommandSource{builtins: builtins, literals: literals}
}

func (s *CommandSource) Candidates(query string) []Candidate {
	var out []Candidate
	if s.literals != nil {
		out = append(out, s.literals()...)
	}

	matched := make([]Candidate, 0, len(s.builtins))
	for _, c := range s.builtins {
		if matchesQuery(c, query) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Label < matched[j].Label
	})
	return append(out, matched...)
}

// SkillSource suggests skill tags for the "$" trigger.
type SkillSource struct {
	skills func() []Candidate
}

func NewSkillSource(skills func() []Candidate) *SkillSource {
	return &SkillSource{skills: skills}
}

func (s *SkillSource) Candidates(query string) []Candidate {
	if s.skills == nil {
		return nil
	}
	var out []Candidate
	for _, c := range s.skills() {
		if matchesQuery(c, query) {
			out = append(out, c)
		}
	}
	return out
}

// FileSource suggests workspace paths for the "@" trigger. Directories
// come first, rendered with a trailing slash. The backing lists are
// assumed already loaded and, for non-empty queries, pre-filtered by
// the caller; only the empty-query case is truncated here.
type FileSource struct {
	dirs  func(query string) []string
	files func(query string) []string
}

func NewFileSource(dirs, files func(query string) []string) *FileSource {
	return &FileSource{dirs: dirs, files: files}
}

func (s *FileSource) Candidates(query string) []Candidate {
	var out []Candidate
	if s.dirs != nil {
		for _, d := range s.dirs(query) {
			d = strings.TrimSuffix(d, "/")
			if d == "" {
				continue
			}
			out = append(out, Candidate{
				ID:          "dir:" + d,
				Label:       d + "/",
				InsertText:  d + "/",
				Kind:        KindDirectory,
				IsDirectory: true,
			})
		}
	}
	if s.files != nil {
		for _, f := range s.files(query) {
			if f == "" {
				continue
			}
			out = append(out, Candidate{
				ID:         "file:" + f,
				Label:      f,
				InsertText: f,
				Kind:       KindFile,
			})
		}
	}
	if query == "" && len(out) > maxEmptyQueryFiles {
		out = out[:maxEmptyQueryFiles]
	}
	return out
}
