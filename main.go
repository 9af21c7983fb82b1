package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/activity"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/badges"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/commands"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/commands/admin"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/repositories"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/handlers"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/logger"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/onboarding"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/presence"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/temprole"
)

var (
	version = "dev"
	commit  = "unknown"
)

const (
	voiceTickInterval = time.Minute
	reconcileInterval = time.Hour
	promotionInterval = time.Hour
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := hyelevel.LoadConfig(*path)
	if err != nil {
		slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	slog.Info("Starting HyeLevel bot",
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Database:     cfg.DB.Database,
		PoolSize:     cfg.DB.PoolSize,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxLifetime:  cfg.DB.MaxLifetime,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}

	slog.Info("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := hyelevel.New(*cfg, version, commit)
	b.DB = db

	// Leveling engine. The store is the single shared ledger; everything else
	// reads and writes through it.
	curve := leveling.NewCurve(cfg.Leveling.CurveBase, cfg.Leveling.CurveGrowth)
	b.Store = leveling.NewStore(
		repositories.NewLedgerRepository(db.BunDB()),
		repositories.NewMemberMetaRepository(db.BunDB()),
		cfg.Leveling.FlushDebounce(),
	)
	b.Store.Load(ctx)
	b.Accumulator = leveling.NewAccumulator(b.Store, curve)
	b.Cooldown = activity.NewCooldown(cfg.Leveling.MessageCooldown())
	b.Tracker = presence.NewTracker()

	h := handler.New()
	h.Command("/rank", handlers.WrapWithLogging(b, "rank", commands.RankHandler(b)))
	h.Command("/top", handlers.WrapWithLogging(b, "top", commands.TopHandler(b)))
	h.Command("/givexp", handlers.WrapWithLogging(b, "givexp", admin.GiveXPHandler(b)))
	h.Command("/resetxp", handlers.WrapWithLogging(b, "resetxp", admin.ResetXPHandler(b)))
	h.Command("/recalcbadges", handlers.WrapWithLogging(b, "recalcbadges", admin.RecalcBadgesHandler(b)))
	h.Command("/temprole", handlers.WrapWithLogging(b, "temprole", admin.TempRoleHandler(b)))

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageListener(b),
		handlers.VoiceListener(b),
		handlers.MemberJoinListener(b),
		handlers.MemberLeaveListener(b),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)))
		os.Exit(-1)
	}

	// Everything past gateway setup talks to Discord best-effort only.
	b.Platform = platform.NewDiscordClient(b.Client, platform.ChannelNames{
		Log:           cfg.Channels.Log,
		Announcements: cfg.Channels.Announcements,
		Arrivals:      cfg.Channels.Arrivals,
	})
	b.Reconciler = badges.NewReconciler(b.Store, b.Platform, b.RoleNames())
	b.Promoter = onboarding.NewPromoter(b.Store, b.Platform, b.Reconciler, b.RoleNames(), cfg.Onboarding.Period())
	b.TempRoles = temprole.NewManager(b.Platform)
	b.Ticker = presence.NewTicker(b.Tracker, b.Accumulator, b.Platform.VoiceStatus, cfg.Leveling.VoiceXPPerMinute,
		func(guildID, memberID snowflake.ID, level int) {
			handlers.AnnounceLevelUp(b, guildID, memberID, level)
		})

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := b.Store.Flush(shutdownCtx); err != nil {
			slog.Warn("Final ledger flush failed", slog.Any("error", err))
		}
		b.Client.Close(shutdownCtx)
	}()

	if *shouldSyncCommands {
		logger.LogSystem("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go runSweeps(sweepCtx, b)

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down bot...")
}

// runSweeps drives the periodic jobs. Interval timers, not fixed-rate
// schedulers: a slow run delays the next firing, runs never overlap
// themselves.
func runSweeps(ctx context.Context, b *hyelevel.Bot) {
	voiceTicker := time.NewTicker(voiceTickInterval)
	reconcileTicker := time.NewTicker(reconcileInterval)
	promotionTicker := time.NewTicker(promotionInterval)
	defer voiceTicker.Stop()
	defer reconcileTicker.Stop()
	defer promotionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-voiceTicker.C:
			protect(b, "voice-tick", func() {
				b.Ticker.Tick()
			})

		case <-reconcileTicker.C:
			protect(b, "badge-reconcile", func() {
				start := time.Now()
				sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
				defer cancel()
				for _, guildID := range b.Platform.Guilds() {
					b.Reconciler.Reconcile(sweepCtx, guildID)
				}
				logger.LogSweep("badge-reconcile", time.Since(start), nil)
			})

		case <-promotionTicker.C:
			protect(b, "onboarding-promotion", func() {
				start := time.Now()
				sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
				defer cancel()
				promoted := b.Promoter.Sweep(sweepCtx)
				logger.LogSweep("onboarding-promotion", time.Since(start), nil)
				if promoted > 0 {
					slog.Info("Promotion sweep graduated members",
						slog.String("type", "sweep"),
						slog.Int("promoted", promoted))
				}
			})
		}
	}
}

// protect runs one background job and converts a panic into a reported
// fault. The sweep loop and the process keep running.
func protect(b *hyelevel.Bot, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s: %v", name, r)
			logger.LogError("Background job panicked", err,
				slog.String("stack", string(debug.Stack())))

			reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			platform.ReportError(reportCtx, b.Platform, err)
		}
	}()
	fn()
}
