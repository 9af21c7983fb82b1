package platform

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

const membersPageSize = 1000

// DiscordClient implements Client over a disgo bot client. Role and channel
// name resolutions are cached after first lookup; holder sets and member
// state are always read live.
type DiscordClient struct {
	client   bot.Client
	channels ChannelNames

	mu         sync.Mutex
	roleIDs    map[string]snowflake.ID // "<guildID>:<name>"
	channelIDs map[string]snowflake.ID
}

// ChannelNames are the exact names of the guild channels the bot posts to.
type ChannelNames struct {
	Log           string
	Announcements string
	Arrivals      string
}

func NewDiscordClient(client bot.Client, channels ChannelNames) *DiscordClient {
	return &DiscordClient{
		client:     client,
		channels:   channels,
		roleIDs:    make(map[string]snowflake.ID),
		channelIDs: make(map[string]snowflake.ID),
	}
}

// ok logs a failed external call and reports whether it succeeded. Transient
// and permission failures look identical here and get the same treatment:
// drop the call, let the next sweep converge.
func ok(op string, err error) bool {
	if err != nil {
		slog.Warn("External call failed",
			slog.String("type", "error"),
			slog.String("op", op),
			slog.Any("error", err))
		return false
	}
	return true
}

func (c *DiscordClient) EnsureRole(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, bool) {
	cacheKey := guildID.String() + ":" + name

	c.mu.Lock()
	if id, found := c.roleIDs[cacheKey]; found {
		c.mu.Unlock()
		return id, true
	}
	c.mu.Unlock()

	roles, err := c.client.Rest().GetRoles(guildID, rest.WithCtx(ctx))
	if !ok("get_roles", err) {
		return 0, false
	}
	for _, role := range roles {
		if role.Name == name {
			c.cacheRole(cacheKey, role.ID)
			return role.ID, true
		}
	}

	created, err := c.client.Rest().CreateRole(guildID, discord.RoleCreate{
		Name:        name,
		Mentionable: false,
	}, rest.WithCtx(ctx))
	if !ok("create_role", err) {
		return 0, false
	}

	// Push the fresh marker above the default position so it shows up in the
	// member list; failure here is cosmetic.
	_, err = c.client.Rest().UpdateRolePositions(guildID, []discord.RolePositionUpdate{
		{ID: created.ID, Position: intPtr(1)},
	}, rest.WithCtx(ctx))
	ok("reposition_role", err)

	c.cacheRole(cacheKey, created.ID)
	return created.ID, true
}

func (c *DiscordClient) cacheRole(key string, id snowflake.ID) {
	c.mu.Lock()
	c.roleIDs[key] = id
	c.mu.Unlock()
}

func (c *DiscordClient) RoleHolders(ctx context.Context, guildID, roleID snowflake.ID) ([]snowflake.ID, bool) {
	var holders []snowflake.ID
	var after snowflake.ID

	for {
		members, err := c.client.Rest().GetMembers(guildID, membersPageSize, after, rest.WithCtx(ctx))
		if !ok("get_members", err) {
			return nil, false
		}
		for _, member := range members {
			for _, id := range member.RoleIDs {
				if id == roleID {
					holders = append(holders, member.User.ID)
					break
				}
			}
		}
		if len(members) < membersPageSize {
			return holders, true
		}
		after = members[len(members)-1].User.ID
	}
}

func (c *DiscordClient) GrantRole(ctx context.Context, guildID, memberID, roleID snowflake.ID) bool {
	return ok("grant_role", c.client.Rest().AddMemberRole(guildID, memberID, roleID, rest.WithCtx(ctx)))
}

func (c *DiscordClient) RevokeRole(ctx context.Context, guildID, memberID, roleID snowflake.ID) bool {
	return ok("revoke_role", c.client.Rest().RemoveMemberRole(guildID, memberID, roleID, rest.WithCtx(ctx)))
}

func (c *DiscordClient) Member(ctx context.Context, guildID, memberID snowflake.ID) (MemberState, bool) {
	member, err := c.client.Rest().GetMember(guildID, memberID, rest.WithCtx(ctx))
	if !ok("get_member", err) {
		return MemberState{}, false
	}

	name := member.User.Username
	if member.Nick != nil && *member.Nick != "" {
		name = *member.Nick
	}
	return MemberState{DisplayName: name, RoleIDs: member.RoleIDs}, true
}

func (c *DiscordClient) Rename(ctx context.Context, guildID, memberID snowflake.ID, nick string) bool {
	_, err := c.client.Rest().UpdateMember(guildID, memberID, discord.MemberUpdate{
		Nick: &nick,
	}, rest.WithCtx(ctx))
	return ok("rename", err)
}

func (c *DiscordClient) Send(ctx context.Context, guildID snowflake.ID, kind ChannelKind, embed discord.Embed) bool {
	channelID, found := c.resolveChannel(ctx, guildID, kind)
	if !found {
		return false
	}
	_, err := c.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	}, rest.WithCtx(ctx))
	return ok("send_message", err)
}

func (c *DiscordClient) resolveChannel(ctx context.Context, guildID snowflake.ID, kind ChannelKind) (snowflake.ID, bool) {
	name := c.channelName(kind)
	if name == "" {
		return 0, false
	}

	cacheKey := guildID.String() + ":" + name
	c.mu.Lock()
	if id, found := c.channelIDs[cacheKey]; found {
		c.mu.Unlock()
		return id, true
	}
	c.mu.Unlock()

	channels, err := c.client.Rest().GetGuildChannels(guildID, rest.WithCtx(ctx))
	if !ok("get_channels", err) {
		return 0, false
	}
	for _, channel := range channels {
		if channel.Name() == name {
			c.mu.Lock()
			c.channelIDs[cacheKey] = channel.ID()
			c.mu.Unlock()
			return channel.ID(), true
		}
	}

	slog.Warn("Named channel not found in guild",
		slog.String("type", "error"),
		slog.String("channel", name),
		slog.String("guild_id", guildID.String()))
	return 0, false
}

func (c *DiscordClient) channelName(kind ChannelKind) string {
	switch kind {
	case ChannelLog:
		return c.channels.Log
	case ChannelAnnouncements:
		return c.channels.Announcements
	case ChannelArrivals:
		return c.channels.Arrivals
	default:
		return ""
	}
}

func (c *DiscordClient) VoiceStatus(guildID, memberID snowflake.ID) VoiceStatus {
	state, found := c.client.Caches().VoiceState(guildID, memberID)
	if !found || state.ChannelID == nil {
		return VoiceStatus{}
	}
	return VoiceStatus{
		Connected: true,
		SelfMute:  state.SelfMute,
		SelfDeaf:  state.SelfDeaf,
	}
}

func (c *DiscordClient) Guilds() []snowflake.ID {
	var guilds []snowflake.ID
	c.client.Caches().GuildsForEach(func(guild discord.Guild) {
		guilds = append(guilds, guild.ID)
	})
	return guilds
}

// ReportError posts a best-effort diagnostic to the log channel of every
// known guild. Used for faults that would otherwise be invisible; the
// process keeps running either way.
func ReportError(ctx context.Context, c Client, err error) {
	embed := discord.Embed{
		Title:       "Unhandled error",
		Description: err.Error(),
		Color:       0xED4245,
	}
	for _, guildID := range c.Guilds() {
		c.Send(ctx, guildID, ChannelLog, embed)
	}
}

func intPtr(v int) *int {
	return &v
}
