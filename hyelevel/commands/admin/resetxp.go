package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
)

var ResetXP = discord.SlashCommandCreate{
	Name:        "resetxp",
	Description: "🛠️ Reset ALL XP counters in this server (irreversible)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "confirm",
			Description: "Must be true — this cannot be undone",
			Required:    true,
		},
	},
}

func ResetXPHandler(b *hyelevel.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireManageGuild(e) {
			return replyError(e, "You need the Manage Server permission to use this.")
		}
		if e.GuildID() == nil {
			return replyError(e, "This command only works in a server.")
		}
		if !e.SlashCommandInteractionData().Bool("confirm") {
			return replyError(e, "Pass `confirm: true` to wipe all XP. This cannot be undone.")
		}

		guildID := *e.GuildID()
		count := b.Store.ResetGuild(guildID.String())

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		b.Reconciler.StripAll(ctx, guildID)
		if err := b.Store.Flush(ctx); err != nil {
			return replyError(e, "XP was reset in memory but could not be persisted yet; it will retry shortly.")
		}

		return replySuccess(e, fmt.Sprintf("Reset XP for %d members and stripped all leader badges.", count))
	}
}
