package admin

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/handlers"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
)

var GiveXP = discord.SlashCommandCreate{
	Name:        "givexp",
	Description: "🛠️ Grant (or remove) XP for testing",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to adjust",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "XP delta (negative removes XP, counters never go below zero)",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "dimension",
			Description: "Counter to apply the delta to alongside the total",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Text", Value: "text"},
				{Name: "Voice", Value: "voice"},
				{Name: "Total only", Value: "none"},
			},
		},
	},
}

func GiveXPHandler(b *hyelevel.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireManageGuild(e) {
			return replyError(e, "You need the Manage Server permission to use this.")
		}
		if e.GuildID() == nil {
			return replyError(e, "This command only works in a server.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		amount := int64(data.Int("amount"))

		dim := leveling.DimensionNone
		switch value, _ := data.OptString("dimension"); value {
		case "text":
			dim = leveling.DimensionText
		case "voice":
			dim = leveling.DimensionVoice
		}

		result := b.Accumulator.ApplyDelta(e.GuildID().String(), target.ID.String(), dim, amount)
		if result.LeveledUp {
			handlers.AnnounceLevelUp(b, *e.GuildID(), target.ID, result.NewLevel)
		}

		return replySuccess(e, fmt.Sprintf("Adjusted %s's XP by %d (%d → %d, level %d).",
			target.Username, amount, result.BeforeTotal, result.AfterTotal, result.NewLevel))
	}
}
