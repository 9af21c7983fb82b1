package admin

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
)

var RecalcBadges = discord.SlashCommandCreate{
	Name:        "recalcbadges",
	Description: "🛠️ Recompute the activity-leader badges right now",
}

func RecalcBadgesHandler(b *hyelevel.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireManageGuild(e) {
			return replyError(e, "You need the Manage Server permission to use this.")
		}
		if e.GuildID() == nil {
			return replyError(e, "This command only works in a server.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		b.Reconciler.Reconcile(ctx, *e.GuildID())

		return replySuccess(e, "Leader badges recomputed.")
	}
}
