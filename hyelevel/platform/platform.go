package platform

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// ChannelKind selects one of the named guild channels the bot posts to.
type ChannelKind int

const (
	ChannelLog ChannelKind = iota
	ChannelAnnouncements
	ChannelArrivals
)

func (k ChannelKind) String() string {
	switch k {
	case ChannelLog:
		return "log"
	case ChannelAnnouncements:
		return "announcements"
	case ChannelArrivals:
		return "arrivals"
	default:
		return "unknown"
	}
}

// VoiceStatus is a member's live voice-channel state.
type VoiceStatus struct {
	Connected bool
	SelfMute  bool
	SelfDeaf  bool
}

// MemberState is the externally observable state nickname derivation reads:
// the current display name and the member's role set. Role state is read
// fresh every time; the platform, not this process, owns it.
type MemberState struct {
	DisplayName string
	RoleIDs     []snowflake.ID
}

// Client is the best-effort surface onto the chat platform. Every call that
// can fail returns a plain ok flag: failures are logged and swallowed, and
// the next scheduled sweep converges state again. No call here is fatal.
type Client interface {
	// EnsureRole resolves a marker role by exact name, creating it when the
	// guild has none.
	EnsureRole(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, bool)
	// RoleHolders lists every member currently holding the role.
	RoleHolders(ctx context.Context, guildID, roleID snowflake.ID) ([]snowflake.ID, bool)
	GrantRole(ctx context.Context, guildID, memberID, roleID snowflake.ID) bool
	RevokeRole(ctx context.Context, guildID, memberID, roleID snowflake.ID) bool
	Member(ctx context.Context, guildID, memberID snowflake.ID) (MemberState, bool)
	// Rename sets the member's guild nickname.
	Rename(ctx context.Context, guildID, memberID snowflake.ID, nick string) bool
	// Send posts an embed to one of the named channels, resolved by exact
	// channel name.
	Send(ctx context.Context, guildID snowflake.ID, kind ChannelKind, embed discord.Embed) bool
	// VoiceStatus reads the member's live voice state from the gateway cache.
	VoiceStatus(guildID, memberID snowflake.ID) VoiceStatus
	// Guilds lists every guild the bot currently knows.
	Guilds() []snowflake.ID
}
