package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	SuccessColor = 0x57F287
	ErrorColor   = 0xED4245
	InfoColor    = 0x5865F2
)

// ReplyError answers the invoker privately; command failures are never
// propagated as errors.
func ReplyError(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Flags: discord.MessageFlagEphemeral,
		Embeds: []discord.Embed{{
			Description: "🚫 " + message,
			Color:       ErrorColor,
		}},
	})
}

// ReplySuccess answers the invoker privately with a confirmation.
func ReplySuccess(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Flags: discord.MessageFlagEphemeral,
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       SuccessColor,
		}},
	})
}
