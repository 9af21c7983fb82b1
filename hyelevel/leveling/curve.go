package leveling

import "math"

// Curve maps cumulative XP to levels. The cumulative requirement grows
// geometrically: ThresholdForLevel(L) = ceil(Base * (Growth^L - 1) / (Growth - 1)).
// Growth == 1 degenerates to a linear Base * L.
type Curve struct {
	Base   int64
	Growth float64
}

func NewCurve(base int64, growth float64) Curve {
	return Curve{Base: base, Growth: growth}
}

func DefaultCurve() Curve {
	return Curve{Base: 100, Growth: 1.25}
}

// ThresholdForLevel returns the minimum cumulative XP required to reach
// level. Strictly increasing in level; level 0 requires nothing.
func (c Curve) ThresholdForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	if c.Growth == 1 {
		return c.Base * int64(level)
	}
	raw := float64(c.Base) * (math.Pow(c.Growth, float64(level)) - 1) / (c.Growth - 1)
	return int64(math.Ceil(raw))
}

// LevelForXP returns the highest level whose threshold is at most xp. The
// logarithmic estimate can be off by one at the exact boundary, so it is
// corrected against the integer thresholds before returning.
func (c Curve) LevelForXP(xp int64) int {
	if xp <= 0 {
		return 0
	}

	var level int
	if c.Growth == 1 {
		level = int(xp / c.Base)
	} else {
		level = int(math.Log(float64(xp)*(c.Growth-1)/float64(c.Base)+1) / math.Log(c.Growth))
	}
	if level < 0 {
		level = 0
	}

	for c.ThresholdForLevel(level+1) <= xp {
		level++
	}
	for level > 0 && c.ThresholdForLevel(level) > xp {
		level--
	}
	return level
}

// XPToNextLevel returns how much more XP is needed to reach the next level.
func (c Curve) XPToNextLevel(xp int64) int64 {
	next := c.ThresholdForLevel(c.LevelForXP(xp) + 1)
	if remaining := next - xp; remaining > 0 {
		return remaining
	}
	return 0
}
