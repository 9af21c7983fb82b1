// Package badges derives marker-role state and nickname decoration from
// standings.
package badges

// Badge is the closed set of nickname markers. The declaration order is the
// canonical composition order: status marker first, then the dimension
// leaders in fixed dimension order.
type Badge int

const (
	BadgeNewbie Badge = iota
	BadgeGraduated
	BadgeTextLeader
	BadgeVoiceLeader
)

// CanonicalOrder fixes how active badges are prefixed onto a nickname.
var CanonicalOrder = []Badge{BadgeNewbie, BadgeGraduated, BadgeTextLeader, BadgeVoiceLeader}

func (b Badge) Glyph() string {
	switch b {
	case BadgeNewbie:
		return "🌱"
	case BadgeGraduated:
		return "🌟"
	case BadgeTextLeader:
		return "🖋️"
	case BadgeVoiceLeader:
		return "🎤"
	default:
		return ""
	}
}

func (b Badge) String() string {
	switch b {
	case BadgeNewbie:
		return "newbie"
	case BadgeGraduated:
		return "graduated"
	case BadgeTextLeader:
		return "text-leader"
	case BadgeVoiceLeader:
		return "voice-leader"
	default:
		return "unknown"
	}
}

// knownGlyphs is every glyph the stripper may remove from a display name.
func knownGlyphs() []string {
	glyphs := make([]string, 0, len(CanonicalOrder))
	for _, b := range CanonicalOrder {
		glyphs = append(glyphs, b.Glyph())
	}
	return glyphs
}
