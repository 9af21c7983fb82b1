package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
)

var Rank = discord.SlashCommandCreate{
	Name:        "rank",
	Description: "📊 View your (or someone else's) level and XP",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to look up (defaults to you)",
			Required:    false,
		},
	},
}

func RankHandler(b *hyelevel.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if e.GuildID() == nil {
			return ReplyError(e, "This command only works in a server.")
		}

		target := e.User()
		if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = user
		}

		ledger := b.Store.Ledger(e.GuildID().String(), target.ID.String())
		curve := b.Accumulator.Curve()
		level := curve.LevelForXP(ledger.TotalXP)
		remaining := curve.XPToNextLevel(ledger.TotalXP)

		floor := curve.ThresholdForLevel(level)
		ceil := curve.ThresholdForLevel(level + 1)
		bar := progressBar(ledger.TotalXP-floor, ceil-floor)

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;36mLevel:\x1b[0m %d\n"+
			"\x1b[0;37m%s\x1b[0m\n"+
			"\n"+
			"\x1b[1;35mTotal XP:\x1b[0m %d\n"+
			"\x1b[1;35mText XP:\x1b[0m  %d\n"+
			"\x1b[1;35mVoice XP:\x1b[0m %d\n"+
			"\n"+
			"\x1b[1;33m%d XP to level %d\x1b[0m\n"+
			"```",
			level,
			bar,
			ledger.TotalXP,
			ledger.TextXP,
			ledger.VoiceXP,
			remaining,
			level+1,
		)

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("📊 Rank — %s", target.Username),
				Description: description,
				Color:       InfoColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}

func progressBar(progress, span int64) string {
	const barLength = 10

	ratio := 0.0
	if span > 0 {
		ratio = float64(progress) / float64(span)
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(barLength))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barLength; i++ {
		if i < filled {
			bar.WriteString("■")
		} else {
			bar.WriteString("□")
		}
	}
	bar.WriteString(fmt.Sprintf("] %.1f%%", ratio*100))

	return bar.String()
}
