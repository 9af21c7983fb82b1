package presence

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

// LiveStateFunc looks up a member's live voice state at tick time.
type LiveStateFunc func(guildID, memberID snowflake.ID) platform.VoiceStatus

// LevelUpFunc is invoked when a tick award crosses a level boundary.
type LevelUpFunc func(guildID, memberID snowflake.ID, level int)

// Ticker awards voice XP on a fixed interval to every tracked-present member
// who is actually connected and neither self-muted nor self-deafened. This
// is a polling design: voice XP is about duration, not join/leave edges.
type Ticker struct {
	tracker     *Tracker
	accumulator *leveling.Accumulator
	live        LiveStateFunc
	xpPerTick   int64
	onLevelUp   LevelUpFunc
}

func NewTicker(tracker *Tracker, accumulator *leveling.Accumulator, live LiveStateFunc, xpPerTick int64, onLevelUp LevelUpFunc) *Ticker {
	return &Ticker{
		tracker:     tracker,
		accumulator: accumulator,
		live:        live,
		xpPerTick:   xpPerTick,
		onLevelUp:   onLevelUp,
	}
}

// Tick samples every tracked guild once and returns how many members were
// awarded XP.
func (t *Ticker) Tick() int {
	awarded := 0
	for _, guildID := range t.tracker.Guilds() {
		for _, memberID := range t.tracker.Present(guildID) {
			status := t.live(guildID, memberID)
			if !status.Connected || status.SelfMute || status.SelfDeaf {
				continue
			}

			result := t.accumulator.ApplyDelta(guildID.String(), memberID.String(), leveling.DimensionVoice, t.xpPerTick)
			awarded++
			if result.LeveledUp && t.onLevelUp != nil {
				t.onLevelUp(guildID, memberID, result.NewLevel)
			}
		}
	}
	return awarded
}
