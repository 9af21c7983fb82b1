package leveling

import (
	"testing"

	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standingsStore(t *testing.T, entries map[string][3]int64) *Store {
	t.Helper()
	store := newTestStore(&fakeLedgerRepo{}, &fakeMetaRepo{})
	for memberID, xp := range entries {
		store.UpdateLedger("g", memberID, func(l *models.XPLedger) {
			l.TotalXP, l.TextXP, l.VoiceXP = xp[0], xp[1], xp[2]
		})
	}
	return store
}

func TestTopByDimension(t *testing.T) {
	store := standingsStore(t, map[string][3]int64{
		"a": {80, 50, 30},
		"b": {60, 30, 30},
	})

	top, found := store.TopByDimension("g", DimensionText)
	require.True(t, found)
	assert.Equal(t, "a", top.MemberID)
	assert.EqualValues(t, 50, top.Value)
}

func TestTopByDimensionNoLeaderOnAllZero(t *testing.T) {
	// Entries exist but nobody has voice XP: inactivity earns no leader.
	store := standingsStore(t, map[string][3]int64{
		"a": {50, 50, 0},
		"b": {30, 30, 0},
	})

	_, found := store.TopByDimension("g", DimensionVoice)
	assert.False(t, found)
}

func TestTopByDimensionTieBreaksByMemberID(t *testing.T) {
	store := standingsStore(t, map[string][3]int64{
		"222": {40, 40, 0},
		"111": {40, 40, 0},
	})

	for i := 0; i < 10; i++ {
		top, found := store.TopByDimension("g", DimensionText)
		require.True(t, found)
		assert.Equal(t, "111", top.MemberID, "tie-break must be deterministic across scans")
	}
}

func TestTopOrderingAndLimit(t *testing.T) {
	store := standingsStore(t, map[string][3]int64{
		"a": {10, 0, 0},
		"b": {30, 0, 0},
		"c": {20, 0, 0},
		"d": {0, 0, 0},
	})

	standings := store.Top("g", DimensionTotal, 2)
	require.Len(t, standings, 2)
	assert.Equal(t, "b", standings[0].MemberID)
	assert.Equal(t, "c", standings[1].MemberID)
}

func TestTopExcludesZeroValues(t *testing.T) {
	store := standingsStore(t, map[string][3]int64{
		"a": {10, 10, 0},
		"b": {5, 0, 5},
	})

	standings := store.Top("g", DimensionText, 10)
	require.Len(t, standings, 1)
	assert.Equal(t, "a", standings[0].MemberID)
}
