// Package handlers wires gateway events into the leveling engine.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

const levelUpColor = 0x5865F2

// AnnounceLevelUp posts a level-up notice to the guild's announcement
// channel. Both XP producers report level crossings through here.
func AnnounceLevelUp(b *hyelevel.Bot, guildID, memberID snowflake.ID, level int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	b.Platform.Send(ctx, guildID, platform.ChannelAnnouncements, discord.Embed{
		Title:       "⬆️ Level up!",
		Description: fmt.Sprintf("<@%s> reached **level %d**!", memberID, level),
		Color:       levelUpColor,
	})
}

// MessageListener awards rate-limited text XP for qualifying messages.
func MessageListener(b *hyelevel.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.GuildID == nil {
			return
		}
		author := e.Message.Author
		if author.Bot || author.System {
			return
		}

		guildID := *e.GuildID
		if !b.Cooldown.Allow(guildID.String(), author.ID.String(), time.Now()) {
			return
		}

		result := b.Accumulator.ApplyDelta(guildID.String(), author.ID.String(), leveling.DimensionText, b.Cfg.Leveling.MessageXP)
		if result.LeveledUp {
			AnnounceLevelUp(b, guildID, author.ID, result.NewLevel)
		}
	})
}

// VoiceListener keeps the presence tracker in sync with voice-state changes.
// A nil destination channel means the member left voice entirely.
func VoiceListener(b *hyelevel.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildVoiceStateUpdate) {
		if e.Member.User.Bot {
			return
		}
		b.Tracker.Update(e.VoiceState.GuildID, e.VoiceState.UserID, e.VoiceState.ChannelID)
	})
}

// MemberJoinListener starts onboarding for new human members.
func MemberJoinListener(b *hyelevel.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberJoin) {
		if e.Member.User.Bot {
			return
		}

		displayName := e.Member.User.Username
		if e.Member.Nick != nil && *e.Member.Nick != "" {
			displayName = *e.Member.Nick
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b.Promoter.HandleJoin(ctx, e.GuildID, e.Member.User.ID, displayName)
	})
}

// MemberLeaveListener only logs; ledger entries and metadata outlive
// membership so returning members keep their standing.
func MemberLeaveListener(b *hyelevel.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberLeave) {
		slog.Info("Member left guild",
			slog.String("guild_id", e.GuildID.String()),
			slog.String("member_id", e.User.ID.String()))
	})
}
