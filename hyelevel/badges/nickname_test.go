package badges

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripRemovesLeadingGlyphs(t *testing.T) {
	assert.Equal(t, "ella", Strip("🌱 ella"))
	assert.Equal(t, "ella", Strip("🌟 🖋️ ella"))
	assert.Equal(t, "ella", Strip("ella"))
}

func TestStripRemovesTrailingGlyphs(t *testing.T) {
	assert.Equal(t, "ella", Strip("ella 🎤"))
	assert.Equal(t, "ella", Strip("🌱 ella 🖋️ 🎤"))
}

func TestStripHandlesManuallyReorderedBadges(t *testing.T) {
	// Badges pasted back in a non-canonical order still strip cleanly.
	assert.Equal(t, "ella", Strip("🎤 🌱 ella"))
	assert.Equal(t, "ella", Strip("🖋️ 🌟 ella 🌱"))
}

func TestStripLeavesInnerGlyphsAlone(t *testing.T) {
	// A glyph inside the human-chosen name is part of the name.
	assert.Equal(t, "el🌱la", Strip("🌟 el🌱la"))
}

func TestStripGlyphOnlyName(t *testing.T) {
	assert.Equal(t, "", Strip("🌱"))
	assert.Equal(t, "", Strip("🌱 🎤"))
}

func TestComposeCanonicalOrder(t *testing.T) {
	// Input order must not matter; composition order is canonical.
	got := Compose("ella", []Badge{BadgeVoiceLeader, BadgeNewbie, BadgeTextLeader})
	assert.Equal(t, "🌱 🖋️ 🎤 ella", got)
}

func TestComposeIdempotent(t *testing.T) {
	badgeSets := [][]Badge{
		nil,
		{BadgeNewbie},
		{BadgeGraduated, BadgeTextLeader},
		{BadgeNewbie, BadgeTextLeader, BadgeVoiceLeader},
	}
	names := []string{"ella", "🌱 ella", "🎤 someone 🌟", strings.Repeat("x", 40)}

	for _, badges := range badgeSets {
		for _, name := range names {
			once := Compose(name, badges)
			twice := Compose(once, badges)
			assert.Equal(t, once, twice, "compose must be idempotent for %q / %v", name, badges)
		}
	}
}

func TestComposeStripRoundTrip(t *testing.T) {
	for _, base := range []string{"ella", "Jean-Luc", "a b c"} {
		composed := Compose(base, []Badge{BadgeGraduated, BadgeVoiceLeader})
		assert.Equal(t, base, Strip(composed))
	}
}

func TestComposeTruncatesBaseNotBadges(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := Compose(long, []Badge{BadgeNewbie, BadgeTextLeader})

	assert.LessOrEqual(t, len([]rune(got)), MaxNicknameLength)
	assert.True(t, strings.HasPrefix(got, BadgeNewbie.Glyph()+" "+BadgeTextLeader.Glyph()+" "),
		"glyphs must survive truncation")
}

func TestComposeNoBadges(t *testing.T) {
	assert.Equal(t, "ella", Compose("🌱 ella", nil))
}
