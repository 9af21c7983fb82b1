package commands

import (
	"fmt"
	"math"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
)

const (
	topListSize    = 10
	entriesPerPage = 5
)

var Top = discord.SlashCommandCreate{
	Name:        "top",
	Description: "🏆 Show the most active members",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "dimension",
			Description: "Which activity to rank by",
			Required:    false,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Total XP", Value: "total"},
				{Name: "Text XP", Value: "text"},
				{Name: "Voice XP", Value: "voice"},
			},
		},
	},
}

func TopHandler(b *hyelevel.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if e.GuildID() == nil {
			return ReplyError(e, "This command only works in a server.")
		}

		dim := leveling.DimensionTotal
		if value, ok := e.SlashCommandInteractionData().OptString("dimension"); ok {
			dim = leveling.ParseDimension(value)
		}

		standings := b.Store.Top(e.GuildID().String(), dim, topListSize)
		if len(standings) == 0 {
			return ReplyError(e, "Nobody has earned any XP here yet.")
		}

		curve := b.Accumulator.Curve()
		totalPages := int(math.Ceil(float64(len(standings)) / float64(entriesPerPage)))
		title := fmt.Sprintf("🏆 Top members — %s XP", dim)

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * entriesPerPage
				endIdx := min(startIdx+entriesPerPage, len(standings))

				var description strings.Builder
				for i, standing := range standings[startIdx:endIdx] {
					rank := startIdx + i
					ledger := b.Store.Ledger(e.GuildID().String(), standing.MemberID)
					description.WriteString(fmt.Sprintf("%s <@%s> — **%d XP** (level %d)\n",
						rankMarker(rank),
						standing.MemberID,
						standing.Value,
						curve.LevelForXP(ledger.TotalXP),
					))
				}

				embed.
					SetTitle(title).
					SetDescription(description.String()).
					SetColor(0x2B2D31).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func rankMarker(rank int) string {
	switch rank {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("`#%d`", rank+1)
	}
}
