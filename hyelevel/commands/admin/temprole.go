package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/temprole"
)

var TempRole = discord.SlashCommandCreate{
	Name:        "temprole",
	Description: "🛠️ Grant a role that auto-revokes after a duration",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to grant the role to",
			Required:    true,
		},
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "The role to grant",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How long to keep it, e.g. 30s, 10m, 2h (minimum 10s)",
			Required:    true,
		},
	},
}

func TempRoleHandler(b *hyelevel.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireManageGuild(e) {
			return replyError(e, "You need the Manage Server permission to use this.")
		}
		if e.GuildID() == nil {
			return replyError(e, "This command only works in a server.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		role := data.Role("role")

		duration, err := time.ParseDuration(data.String("duration"))
		if err != nil {
			return replyError(e, "Invalid duration. Use something like `30s`, `10m` or `2h`.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.TempRoles.Grant(ctx, *e.GuildID(), target.ID, role.ID, duration); err != nil {
			if errors.Is(err, temprole.ErrDurationTooShort) {
				return replyError(e, "Duration must be at least 10 seconds.")
			}
			return replyError(e, "Could not grant the role. Check the bot's role position.")
		}

		return replySuccess(e, fmt.Sprintf("Granted %s to %s for %s. It will be removed automatically (unless the bot restarts first).",
			role.Name, target.Username, duration))
	}
}
