package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveThresholds(t *testing.T) {
	curve := NewCurve(100, 1.25)

	assert.EqualValues(t, 0, curve.ThresholdForLevel(0))
	assert.EqualValues(t, 100, curve.ThresholdForLevel(1))

	for level := 1; level <= 50; level++ {
		assert.Greater(t, curve.ThresholdForLevel(level), curve.ThresholdForLevel(level-1),
			"threshold must strictly grow at level %d", level)
	}
}

func TestCurveLinearFallback(t *testing.T) {
	curve := NewCurve(100, 1)

	assert.EqualValues(t, 0, curve.ThresholdForLevel(0))
	assert.EqualValues(t, 300, curve.ThresholdForLevel(3))
	assert.Equal(t, 2, curve.LevelForXP(299))
	assert.Equal(t, 3, curve.LevelForXP(300))
}

func TestLevelForXPBoundaries(t *testing.T) {
	curve := NewCurve(100, 1.25)

	assert.Equal(t, 0, curve.LevelForXP(0))
	assert.Equal(t, 0, curve.LevelForXP(-5))

	// The two functions must agree exactly at every boundary, regardless of
	// the floating-point estimate inside LevelForXP.
	for level := 1; level <= 40; level++ {
		threshold := curve.ThresholdForLevel(level)
		assert.GreaterOrEqual(t, curve.LevelForXP(threshold), level,
			"xp == threshold(%d) must reach the level", level)
		assert.Less(t, curve.LevelForXP(threshold-1), level,
			"xp == threshold(%d)-1 must not reach the level", level)
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	curve := NewCurve(100, 1.25)

	previous := 0
	for xp := int64(0); xp <= 20000; xp += 7 {
		level := curve.LevelForXP(xp)
		require.GreaterOrEqual(t, level, previous, "level regressed at xp=%d", xp)
		previous = level
	}
}

func TestXPToNextLevel(t *testing.T) {
	curve := NewCurve(100, 1.25)

	assert.EqualValues(t, 100, curve.XPToNextLevel(0))
	assert.EqualValues(t, 1, curve.XPToNextLevel(99))

	// Exactly at a boundary the remaining amount targets the level after it.
	atBoundary := curve.ThresholdForLevel(1)
	assert.EqualValues(t, curve.ThresholdForLevel(2)-atBoundary, curve.XPToNextLevel(atBoundary))
}
