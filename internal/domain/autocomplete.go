package domain

import "strings"

// Autocomplete expands partially typed text into a tag path.
//
// A substitution for text wins outright. Otherwise, scanning tags in path
// order: a tag whose name equals text is returned at once; failing that the
// shallowest tag whose name starts with text; failing that the shallowest
// tag whose path contains text; failing that text itself. Ties between
// equally shallow candidates go to the smallest path.
func (db *Database) Autocomplete(text string) string {
	if after, ok := db.substitutions[text]; ok {
		return after
	}
	if text == "" {
		return text
	}

	var starts, contains *tagNode
	for _, n := range db.liveNodes() {
		switch {
		case n.name == text:
			return n.path
		case strings.HasPrefix(n.name, text):
			if starts == nil || PathDepth(n.path) < PathDepth(starts.path) {
				starts = n
			}
		case strings.Contains(n.path, text):
			if contains == nil || PathDepth(n.path) < PathDepth(contains.path) {
				contains = n
			}
		}
	}

	switch {
	case starts != nil:
		return starts.path
	case contains != nil:
		return contains.path
	default:
		return text
	}
}
