package hyelevel

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/activity"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/badges"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/onboarding"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/presence"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/temprole"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB          *database.DB
	Store       *leveling.Store
	Accumulator *leveling.Accumulator
	Platform    platform.Client
	Cooldown    *activity.Cooldown
	Tracker     *presence.Tracker
	Ticker      *presence.Ticker
	Reconciler  *badges.Reconciler
	Promoter    *onboarding.Promoter
	TempRoles   *temprole.Manager
}

// RoleNames maps the configured marker-role names into the badge layer.
func (b *Bot) RoleNames() badges.RoleNames {
	return badges.RoleNames{
		Newbie:      b.Cfg.Roles.Newbie,
		Graduated:   b.Cfg.Roles.Graduated,
		TextLeader:  b.Cfg.Roles.TextLeader,
		VoiceLeader: b.Cfg.Roles.VoiceLeader,
	}
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentGuildVoiceStates,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(
			cache.FlagGuilds,
			cache.FlagVoiceStates,
		)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("HyeLevel bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("the leaderboard"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
