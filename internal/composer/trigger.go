package composer

import "unicode"

// Trigger is a marker string that opens a suggestion list.
type Trigger string

const (
	TriggerCommand Trigger = "/"
	TriggerSkill   Trigger = "$"
	TriggerFile    Trigger = "@"
	TriggerMemory  Trigger = "@@"
)

// DefaultTriggers lists the supported triggers, longest marker first so
// that "@@" is considered before "@".
var DefaultTriggers = []Trigger{TriggerMemory, TriggerFile, TriggerCommand, TriggerSkill}

// Resolution identifies an active trigger and the query range that
// follows it. [Start,End) covers the query only; the marker itself sits
// immediately before Start.
type Resolution struct {
	Trigger Trigger
	Start   int
	End     int
}

// Resolve decides which trigger, if any, is active at the given cursor.
// It is a pure function: no state is carried between calls, and
// resolving the same buffer twice yields the same range.
//
// For each trigger only the closest preceding occurrence of its marker
// is considered. An occurrence is valid when no whitespace appears
// between the marker and the cursor and the character before the marker
// is the buffer start or a separator (whitespace, quote, or opening
// bracket). Among valid occurrences the longest marker wins; ties go to
// the one closest to the cursor.
func Resolve(text string, cursor int, triggers []Trigger) (Resolution, bool) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}

	var best Resolution
	found := false
	for _, trig := range triggers {
		marker := string(trig)
		idx := closestOccurrence(text, cursor, marker)
		if idx < 0 {
			continue
		}
		if !validOccurrence(text, cursor, idx, marker) {
			continue
		}
		res := Resolution{Trigger: trig, Start: idx + len(marker), End: cursor}
		if !found {
			best, found = res, true
			continue
		}
		if len(marker) > len(string(best.Trigger)) {
			best = res
			continue
		}
		if len(marker) == len(string(best.Trigger)) && res.Start > best.Start {
			best = res
		}
	}
	return best, found
}

// closestOccurrence finds the nearest occurrence of marker that ends at
// or before the cursor, scanning backward.
func closestOccurrence(text string, cursor int, marker string) int {
	for i := cursor - len(marker); i >= 0; i-- {
		if text[i:i+len(marker)] == marker {
			return i
		}
	}
	return -1
}

func validOccurrence(text string, cursor, idx int, marker string) bool {
	for _, r := range text[idx+len(marker) : cursor] {
		if unicode.IsSpace(r) {
			return false
		}
	}
	if idx == 0 {
		return true
	}
	return isTriggerBoundary(text[idx-1])
}

// isTriggerBoundary reports whether a trigger marker may directly
// follow this byte. Restricting the set keeps emails and mid-word
// slashes from opening suggestion lists.
func isTriggerBoundary(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\'', '"', '`', '(', '[', '{':
		return true
	default:
		return false
	}
}
