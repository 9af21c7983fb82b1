package badges

import "strings"

// MaxNicknameLength is the platform's display-name limit, in characters.
const MaxNicknameLength = 32

// Strip removes any run of known badge glyphs (each separated by a single
// space) from both ends of a display name, leaving the human-chosen base
// name. Manually reordered badges still strip cleanly because removal is by
// enumeration membership, not by pattern position.
func Strip(name string) string {
	glyphs := knownGlyphs()
	name = strings.TrimSpace(name)

	for {
		stripped := false
		for _, glyph := range glyphs {
			if rest, found := strings.CutPrefix(name, glyph); found && (rest == "" || strings.HasPrefix(rest, " ")) {
				name = strings.TrimPrefix(rest, " ")
				stripped = true
			}
			if rest, found := strings.CutSuffix(name, glyph); found && (rest == "" || strings.HasSuffix(rest, " ")) {
				name = strings.TrimSuffix(rest, " ")
				stripped = true
			}
		}
		if !stripped {
			return name
		}
	}
}

// Compose derives the canonical decorated display name: the applicable
// glyphs in canonical order, a space each, then the stripped base name. The
// result is truncated to the platform limit by cutting the base name's
// tail; glyphs are never dropped.
func Compose(currentDisplayName string, badges []Badge) string {
	base := Strip(currentDisplayName)

	active := make(map[Badge]bool, len(badges))
	for _, b := range badges {
		active[b] = true
	}

	var glyphs []string
	for _, b := range CanonicalOrder {
		if active[b] {
			glyphs = append(glyphs, b.Glyph())
		}
	}
	if len(glyphs) == 0 {
		return truncate(base, MaxNicknameLength)
	}

	prefix := strings.Join(glyphs, " ")
	room := MaxNicknameLength - len([]rune(prefix)) - 1
	if room < 0 {
		room = 0
	}
	base = truncate(base, room)
	if base == "" {
		return prefix
	}
	return prefix + " " + base
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
