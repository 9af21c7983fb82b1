package hyelevel

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log        LogConfig        `toml:"log"`
	Bot        BotConfig        `toml:"bot"`
	DB         DBConfig         `toml:"db"`
	Leveling   LevelingConfig   `toml:"leveling"`
	Channels   ChannelConfig    `toml:"channels"`
	Roles      RoleConfig       `toml:"roles"`
	Onboarding OnboardingConfig `toml:"onboarding"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type LevelingConfig struct {
	CurveBase   int64   `toml:"curve_base"`
	CurveGrowth float64 `toml:"curve_growth"`

	MessageXP           int64 `toml:"message_xp"`
	MessageCooldownSecs int   `toml:"message_cooldown_secs"`
	VoiceXPPerMinute    int64 `toml:"voice_xp_per_minute"`

	FlushDebounceSecs int `toml:"flush_debounce_secs"`
}

// ChannelConfig names the guild channels the bot posts to. All lookups are
// by exact channel name.
type ChannelConfig struct {
	Log           string `toml:"log"`
	Announcements string `toml:"announcements"`
	Arrivals      string `toml:"arrivals"`
}

// RoleConfig names the marker roles. Missing roles are created on first use.
type RoleConfig struct {
	Newbie      string `toml:"newbie"`
	Graduated   string `toml:"graduated"`
	TextLeader  string `toml:"text_leader"`
	VoiceLeader string `toml:"voice_leader"`
}

type OnboardingConfig struct {
	PeriodHours int `toml:"period_hours"`
}

func (c *Config) applyDefaults() {
	if c.Leveling.CurveBase <= 0 {
		c.Leveling.CurveBase = 100
	}
	if c.Leveling.CurveGrowth <= 0 {
		c.Leveling.CurveGrowth = 1.25
	}
	if c.Leveling.MessageXP <= 0 {
		c.Leveling.MessageXP = 15
	}
	if c.Leveling.MessageCooldownSecs <= 0 {
		c.Leveling.MessageCooldownSecs = 60
	}
	if c.Leveling.VoiceXPPerMinute <= 0 {
		c.Leveling.VoiceXPPerMinute = 10
	}
	if c.Leveling.FlushDebounceSecs <= 0 {
		c.Leveling.FlushDebounceSecs = 2
	}
	if c.Channels.Log == "" {
		c.Channels.Log = "bot-log"
	}
	if c.Channels.Announcements == "" {
		c.Channels.Announcements = "level-ups"
	}
	if c.Channels.Arrivals == "" {
		c.Channels.Arrivals = "welcome"
	}
	if c.Roles.Newbie == "" {
		c.Roles.Newbie = "Newbie"
	}
	if c.Roles.Graduated == "" {
		c.Roles.Graduated = "Member"
	}
	if c.Roles.TextLeader == "" {
		c.Roles.TextLeader = "Top Chatter"
	}
	if c.Roles.VoiceLeader == "" {
		c.Roles.VoiceLeader = "Top Voice"
	}
	if c.Onboarding.PeriodHours <= 0 {
		c.Onboarding.PeriodHours = 72
	}
}

func (c LevelingConfig) MessageCooldown() time.Duration {
	return time.Duration(c.MessageCooldownSecs) * time.Second
}

func (c LevelingConfig) FlushDebounce() time.Duration {
	return time.Duration(c.FlushDebounceSecs) * time.Second
}

func (c OnboardingConfig) Period() time.Duration {
	return time.Duration(c.PeriodHours) * time.Hour
}
