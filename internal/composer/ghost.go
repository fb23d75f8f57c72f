package composer

import "strings"

// ghostFor computes the inline ghost suggestion for the buffer: the
// most recently committed history entry whose lower-cased form starts
// with the lower-cased buffer and is strictly longer. An empty buffer
// never produces a suggestion.
func (e *Engine) ghostFor(text string) string {
	if text == "" {
		return ""
	}
	entries := e.historyEntries()
	needle := strings.ToLower(text)
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if len(entry) <= len(text) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(entry), needle) {
			return entry
		}
	}
	return ""
}
