package presence

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func channel(id snowflake.ID) *snowflake.ID { return &id }

func TestTrackerJoinMoveLeave(t *testing.T) {
	tracker := NewTracker()
	guild := snowflake.ID(100)
	member := snowflake.ID(1)

	tracker.Update(guild, member, channel(500))
	assert.Equal(t, []snowflake.ID{member}, tracker.Present(guild))

	// Moving between channels keeps the member present.
	tracker.Update(guild, member, channel(501))
	assert.Equal(t, []snowflake.ID{member}, tracker.Present(guild))

	tracker.Update(guild, member, nil)
	assert.Empty(t, tracker.Present(guild))
	assert.Empty(t, tracker.Guilds())
}

func TestTrackerIdempotentTransitions(t *testing.T) {
	tracker := NewTracker()
	guild := snowflake.ID(100)
	member := snowflake.ID(1)

	tracker.Update(guild, member, channel(500))
	tracker.Update(guild, member, channel(500))
	assert.Len(t, tracker.Present(guild), 1)

	tracker.Update(guild, member, nil)
	tracker.Update(guild, member, nil)
	assert.Empty(t, tracker.Present(guild))
}

func TestTrackerGuildsAreIndependent(t *testing.T) {
	tracker := NewTracker()

	tracker.Update(100, 1, channel(500))
	tracker.Update(200, 2, channel(600))

	assert.Len(t, tracker.Guilds(), 2)
	assert.Equal(t, []snowflake.ID{1}, tracker.Present(100))
	assert.Equal(t, []snowflake.ID{2}, tracker.Present(200))

	tracker.Update(100, 1, nil)
	assert.Equal(t, []snowflake.ID{200}, tracker.Guilds())
}
