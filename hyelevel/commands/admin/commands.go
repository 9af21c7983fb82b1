package admin

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Commands = []discord.ApplicationCommandCreate{
	GiveXP,
	ResetXP,
	RecalcBadges,
	TempRole,
}

// requireManageGuild gates the admin surface. Failures are private replies,
// never propagated errors.
func requireManageGuild(e *handler.CommandEvent) bool {
	member := e.Member()
	return member != nil && member.Permissions.Has(discord.PermissionManageGuild)
}

func replyError(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Flags: discord.MessageFlagEphemeral,
		Embeds: []discord.Embed{{
			Description: "🚫 " + message,
			Color:       0xED4245,
		}},
	})
}

func replySuccess(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Flags: discord.MessageFlagEphemeral,
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       0x57F287,
		}},
	})
}
