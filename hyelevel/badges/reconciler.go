package badges

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

const announceColor = 0xF1C40F

// RoleNames maps each badge to its marker-role name in the guild.
type RoleNames struct {
	Newbie      string
	Graduated   string
	TextLeader  string
	VoiceLeader string
}

func (r RoleNames) For(b Badge) string {
	switch b {
	case BadgeNewbie:
		return r.Newbie
	case BadgeGraduated:
		return r.Graduated
	case BadgeTextLeader:
		return r.TextLeader
	case BadgeVoiceLeader:
		return r.VoiceLeader
	default:
		return ""
	}
}

// leaderDimensions are the XP dimensions that carry a leader marker, in
// fixed order.
var leaderDimensions = []struct {
	dim   leveling.Dimension
	badge Badge
	label string
}{
	{leveling.DimensionText, BadgeTextLeader, "text"},
	{leveling.DimensionVoice, BadgeVoiceLeader, "voice"},
}

// Reconciler diffs computed standings against the externally observable
// marker-role state and applies the minimal grant/revoke set. External role
// state is re-read on every pass; our own last write is never trusted to
// still be current. Passes for the same guild are serialized by the mutex.
type Reconciler struct {
	mu     sync.Mutex
	store  *leveling.Store
	client platform.Client
	roles  RoleNames
}

func NewReconciler(store *leveling.Store, client platform.Client, roles RoleNames) *Reconciler {
	return &Reconciler{store: store, client: client, roles: roles}
}

type dimensionOutcome struct {
	leader    snowflake.ID
	hasLeader bool
	changed   bool
}

// Reconcile recomputes the leader for every tracked dimension and converges
// the guild's marker roles and nicknames onto the result. Announcements fire
// only when a leader identity actually changed; a member taking both crowns
// in the same pass gets one combined announcement.
func (r *Reconciler) Reconcile(ctx context.Context, guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	outcomes := make(map[Badge]dimensionOutcome, len(leaderDimensions))
	for _, tracked := range leaderDimensions {
		outcomes[tracked.badge] = r.reconcileDimension(ctx, guildID, tracked.dim, tracked.badge)
	}

	r.announce(ctx, guildID, outcomes)
}

func (r *Reconciler) reconcileDimension(ctx context.Context, guildID snowflake.ID, dim leveling.Dimension, badge Badge) dimensionOutcome {
	roleID, found := r.client.EnsureRole(ctx, guildID, r.roles.For(badge))
	if !found {
		return dimensionOutcome{}
	}

	holders, found := r.client.RoleHolders(ctx, guildID, roleID)
	if !found {
		// Holder state is unknown; touching roles now could double-grant.
		return dimensionOutcome{}
	}

	var leaderID snowflake.ID
	top, hasLeader := r.store.TopByDimension(guildID.String(), dim)
	if hasLeader {
		if id, err := snowflake.Parse(top.MemberID); err == nil {
			leaderID = id
		} else {
			hasLeader = false
		}
	}

	leaderAlreadyHolds := false
	for _, holder := range holders {
		if hasLeader && holder == leaderID {
			leaderAlreadyHolds = true
			continue
		}
		r.client.RevokeRole(ctx, guildID, holder, roleID)
		r.RefreshNickname(ctx, guildID, holder)
	}

	if hasLeader && !leaderAlreadyHolds {
		r.client.GrantRole(ctx, guildID, leaderID, roleID)
		r.RefreshNickname(ctx, guildID, leaderID)
	}

	changed := hasLeader && !leaderAlreadyHolds
	if changed {
		slog.Info("Dimension leader changed",
			slog.String("type", "sweep"),
			slog.String("dimension", dim.String()),
			slog.String("guild_id", guildID.String()),
			slog.String("member_id", leaderID.String()),
			slog.Int64("value", top.Value))
	}
	return dimensionOutcome{leader: leaderID, hasLeader: hasLeader, changed: changed}
}

func (r *Reconciler) announce(ctx context.Context, guildID snowflake.ID, outcomes map[Badge]dimensionOutcome) {
	text := outcomes[BadgeTextLeader]
	voice := outcomes[BadgeVoiceLeader]

	if text.changed && voice.changed && text.leader == voice.leader {
		r.client.Send(ctx, guildID, platform.ChannelAnnouncements, discord.Embed{
			Title:       "👑 Double crown!",
			Description: fmt.Sprintf("<@%s> now leads both text and voice activity!", text.leader),
			Color:       announceColor,
		})
		return
	}

	if text.changed {
		r.client.Send(ctx, guildID, platform.ChannelAnnouncements, discord.Embed{
			Title:       fmt.Sprintf("%s New text leader", BadgeTextLeader.Glyph()),
			Description: fmt.Sprintf("<@%s> is now the most active chatter!", text.leader),
			Color:       announceColor,
		})
	}
	if voice.changed {
		r.client.Send(ctx, guildID, platform.ChannelAnnouncements, discord.Embed{
			Title:       fmt.Sprintf("%s New voice leader", BadgeVoiceLeader.Glyph()),
			Description: fmt.Sprintf("<@%s> is now the most active voice member!", voice.leader),
			Color:       announceColor,
		})
	}
}

// StripAll revokes every dimension-leader marker from every holder and
// re-derives their nicknames, regardless of computed standings. Used by the
// administrative XP reset to guarantee a clean slate.
func (r *Reconciler) StripAll(ctx context.Context, guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tracked := range leaderDimensions {
		roleID, found := r.client.EnsureRole(ctx, guildID, r.roles.For(tracked.badge))
		if !found {
			continue
		}
		holders, found := r.client.RoleHolders(ctx, guildID, roleID)
		if !found {
			continue
		}
		for _, holder := range holders {
			r.client.RevokeRole(ctx, guildID, holder, roleID)
			r.RefreshNickname(ctx, guildID, holder)
		}
	}
}

// RefreshNickname re-derives a member's decorated display name from their
// current role state and applies it only when it differs.
func (r *Reconciler) RefreshNickname(ctx context.Context, guildID, memberID snowflake.ID) {
	state, found := r.client.Member(ctx, guildID, memberID)
	if !found {
		return
	}

	roleIDs := make(map[snowflake.ID]struct{}, len(state.RoleIDs))
	for _, id := range state.RoleIDs {
		roleIDs[id] = struct{}{}
	}

	var active []Badge
	for _, badge := range CanonicalOrder {
		markerID, ok := r.client.EnsureRole(ctx, guildID, r.roles.For(badge))
		if !ok {
			continue
		}
		if _, holds := roleIDs[markerID]; holds {
			active = append(active, badge)
		}
	}

	base := Strip(state.DisplayName)
	if base == "" {
		// A glyph-only display name has lost its base; fall back to the
		// name recorded at join.
		if meta, found := r.store.Meta(guildID.String(), memberID.String()); found && meta.OriginalNick != nil {
			base = Strip(*meta.OriginalNick)
		}
	}

	composed := Compose(base, active)
	if composed == state.DisplayName {
		return
	}
	r.client.Rename(ctx, guildID, memberID, composed)
}
