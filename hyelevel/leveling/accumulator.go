package leveling

import "github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"

// DeltaResult reports the outcome of one XP mutation.
type DeltaResult struct {
	BeforeTotal int64
	AfterTotal  int64
	LeveledUp   bool
	NewLevel    int
}

// Accumulator applies XP deltas to the ledger store and reports level
// crossings. Announcing a level-up is the caller's job.
type Accumulator struct {
	store *Store
	curve Curve
}

func NewAccumulator(store *Store, curve Curve) *Accumulator {
	return &Accumulator{store: store, curve: curve}
}

func (a *Accumulator) Curve() Curve {
	return a.curve
}

// ApplyDelta adds amount to the member's running total and, when a concrete
// dimension is given, to that dimension's counter. The total and the
// dimension counter are clamped to zero independently; under repeated
// negative deltas they can drift apart, which is tolerated rather than
// silently recomputed.
func (a *Accumulator) ApplyDelta(guildID, memberID string, dim Dimension, amount int64) DeltaResult {
	var before int64
	entry := a.store.UpdateLedger(guildID, memberID, func(l *models.XPLedger) {
		before = l.TotalXP
		l.TotalXP = clamp(l.TotalXP + amount)
		switch dim {
		case DimensionText:
			l.TextXP = clamp(l.TextXP + amount)
		case DimensionVoice:
			l.VoiceXP = clamp(l.VoiceXP + amount)
		}
	})

	levelBefore := a.curve.LevelForXP(before)
	levelAfter := a.curve.LevelForXP(entry.TotalXP)
	return DeltaResult{
		BeforeTotal: before,
		AfterTotal:  entry.TotalXP,
		LeveledUp:   levelAfter > levelBefore,
		NewLevel:    levelAfter,
	}
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
