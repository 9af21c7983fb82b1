package leveling

import (
	"testing"

	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/stretchr/testify/assert"
)

func newTestAccumulator() (*Accumulator, *Store) {
	store := newTestStore(&fakeLedgerRepo{}, &fakeMetaRepo{})
	return NewAccumulator(store, NewCurve(100, 1.25)), store
}

func TestApplyDeltaAwardsDimension(t *testing.T) {
	acc, store := newTestAccumulator()

	result := acc.ApplyDelta("g", "a", DimensionText, 15)
	assert.EqualValues(t, 0, result.BeforeTotal)
	assert.EqualValues(t, 15, result.AfterTotal)
	assert.False(t, result.LeveledUp)

	entry := store.Ledger("g", "a")
	assert.EqualValues(t, 15, entry.TextXP)
	assert.EqualValues(t, 0, entry.VoiceXP)
}

func TestApplyDeltaLevelCross(t *testing.T) {
	acc, _ := newTestAccumulator()

	// 99 total, then +15 text: crosses the level-1 threshold of 100.
	acc.ApplyDelta("g", "a", DimensionNone, 99)
	result := acc.ApplyDelta("g", "a", DimensionText, 15)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, 1, result.NewLevel)
	assert.EqualValues(t, 114, result.AfterTotal)
}

func TestApplyDeltaLeveledUpMatchesCurve(t *testing.T) {
	acc, _ := newTestAccumulator()
	curve := acc.Curve()

	total := int64(0)
	for _, delta := range []int64{40, 40, 40, 40, 40, 300, 5} {
		result := acc.ApplyDelta("g", "a", DimensionText, delta)
		wantLeveled := curve.LevelForXP(total+delta) > curve.LevelForXP(total)
		assert.Equal(t, wantLeveled, result.LeveledUp, "delta %d at total %d", delta, total)
		total += delta
	}
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	acc, store := newTestAccumulator()

	// Deltas sum to zero but dip negative in between; counters clamp at 0
	// instead of going negative.
	for _, delta := range []int64{-50, 30, -30, 50} {
		acc.ApplyDelta("g", "a", DimensionText, delta)
	}

	entry := store.Ledger("g", "a")
	assert.EqualValues(t, 80, entry.TotalXP, "clamped floor absorbs the leading negative delta")
	assert.GreaterOrEqual(t, entry.TotalXP, int64(0))
	assert.GreaterOrEqual(t, entry.TextXP, int64(0))
}

func TestApplyDeltaIndependentClamping(t *testing.T) {
	acc, store := newTestAccumulator()

	// Build unequal total and dimension counters, then drive a negative
	// delta through: each counter clamps on its own, so they drift. That
	// drift is accepted behavior, not corrected.
	acc.ApplyDelta("g", "a", DimensionNone, 100)
	acc.ApplyDelta("g", "a", DimensionText, 20)
	acc.ApplyDelta("g", "a", DimensionText, -60)

	entry := store.Ledger("g", "a")
	assert.EqualValues(t, 60, entry.TotalXP)
	assert.EqualValues(t, 0, entry.TextXP)
	assert.NotEqual(t, entry.TotalXP, entry.TextXP+entry.VoiceXP)
}

func TestApplyDeltaMarksLedgerDirty(t *testing.T) {
	store := newTestStore(&fakeLedgerRepo{}, &fakeMetaRepo{})
	acc := NewAccumulator(store, DefaultCurve())

	acc.ApplyDelta("g", "a", DimensionVoice, 10)

	var entries []models.XPLedger
	store.ForEachLedger("g", func(entry models.XPLedger) { entries = append(entries, entry) })
	assert.Len(t, entries, 1)
	assert.EqualValues(t, 10, entries[0].VoiceXP)
}
