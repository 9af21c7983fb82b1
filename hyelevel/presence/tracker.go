// Package presence tracks which members are live in voice channels and
// samples them for voice XP.
package presence

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Tracker is the per-guild set of members currently in any voice channel.
// It exists only so the minute tick doesn't have to scan entire guilds; the
// mute/deafen check happens against live state at tick time, not here. The
// set is process-local and starts empty after a restart.
type Tracker struct {
	mu      sync.RWMutex
	byGuild map[snowflake.ID]map[snowflake.ID]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{byGuild: make(map[snowflake.ID]map[snowflake.ID]struct{})}
}

// Update applies one voice-state change. A nil channel means the member left
// voice entirely; anything else (join or move between channels) marks them
// present. Both transitions are idempotent.
func (t *Tracker) Update(guildID, memberID snowflake.ID, channelID *snowflake.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if channelID == nil {
		if members, found := t.byGuild[guildID]; found {
			delete(members, memberID)
			if len(members) == 0 {
				delete(t.byGuild, guildID)
			}
		}
		return
	}

	members, found := t.byGuild[guildID]
	if !found {
		members = make(map[snowflake.ID]struct{})
		t.byGuild[guildID] = members
	}
	members[memberID] = struct{}{}
}

// Present returns the members currently marked present in the guild.
func (t *Tracker) Present(guildID snowflake.ID) []snowflake.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	members := make([]snowflake.ID, 0, len(t.byGuild[guildID]))
	for id := range t.byGuild[guildID] {
		members = append(members, id)
	}
	return members
}

// Guilds returns every guild with at least one tracked-present member.
func (t *Tracker) Guilds() []snowflake.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	guilds := make([]snowflake.ID, 0, len(t.byGuild))
	for id := range t.byGuild {
		guilds = append(guilds, id)
	}
	return guilds
}
