// Package onboarding handles new-member bookkeeping and the newbie
// graduation sweep.
package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/badges"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

const arrivalColor = 0x57F287

// Promoter assigns the newbie marker at join and graduates members once
// their onboarding period elapses. NewbieSince in the member metadata is
// the only due-check input.
type Promoter struct {
	store      *leveling.Store
	client     platform.Client
	reconciler *badges.Reconciler
	roles      badges.RoleNames
	period     time.Duration
}

func NewPromoter(store *leveling.Store, client platform.Client, reconciler *badges.Reconciler, roles badges.RoleNames, period time.Duration) *Promoter {
	return &Promoter{
		store:      store,
		client:     client,
		reconciler: reconciler,
		roles:      roles,
		period:     period,
	}
}

// HandleJoin records onboarding metadata for a freshly joined member, grants
// the newbie marker, decorates their nickname, and posts an arrival notice.
func (p *Promoter) HandleJoin(ctx context.Context, guildID, memberID snowflake.ID, displayName string) {
	now := time.Now()
	p.store.UpdateMeta(guildID.String(), memberID.String(), func(meta *models.MemberMeta) {
		meta.JoinedAt = now
		meta.NewbieSince = &now
		nick := displayName
		meta.OriginalNick = &nick
	})

	if roleID, found := p.client.EnsureRole(ctx, guildID, p.roles.Newbie); found {
		p.client.GrantRole(ctx, guildID, memberID, roleID)
	}
	p.reconciler.RefreshNickname(ctx, guildID, memberID)

	p.client.Send(ctx, guildID, platform.ChannelArrivals, discord.Embed{
		Title:       fmt.Sprintf("%s Welcome!", badges.BadgeNewbie.Glyph()),
		Description: fmt.Sprintf("<@%s> just joined us. Say hi!", memberID),
		Color:       arrivalColor,
	})
}

// Sweep promotes every member whose onboarding period has elapsed: newbie
// marker out, graduated marker in, nickname re-derived, due-check cleared.
// Returns how many members were promoted.
func (p *Promoter) Sweep(ctx context.Context) int {
	now := time.Now()
	var due []models.MemberMeta
	p.store.ForEachMeta(func(meta models.MemberMeta) {
		if meta.NewbieSince != nil && now.Sub(*meta.NewbieSince) >= p.period {
			due = append(due, meta)
		}
	})

	promoted := 0
	for _, meta := range due {
		guildID, err := snowflake.Parse(meta.GuildID)
		if err != nil {
			continue
		}
		memberID, err := snowflake.Parse(meta.MemberID)
		if err != nil {
			continue
		}

		if newbieID, found := p.client.EnsureRole(ctx, guildID, p.roles.Newbie); found {
			p.client.RevokeRole(ctx, guildID, memberID, newbieID)
		}
		if gradID, found := p.client.EnsureRole(ctx, guildID, p.roles.Graduated); found {
			p.client.GrantRole(ctx, guildID, memberID, gradID)
		}

		p.store.UpdateMeta(meta.GuildID, meta.MemberID, func(m *models.MemberMeta) {
			m.NewbieSince = nil
		})
		p.reconciler.RefreshNickname(ctx, guildID, memberID)
		promoted++

		slog.Info("Member graduated from onboarding",
			slog.String("type", "sweep"),
			slog.String("guild_id", meta.GuildID),
			slog.String("member_id", meta.MemberID))
	}
	return promoted
}
