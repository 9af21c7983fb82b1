package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/badges"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedgerRepo struct{}

func (stubLedgerRepo) GetAll(context.Context) ([]*models.XPLedger, error)  { return nil, nil }
func (stubLedgerRepo) UpsertAll(context.Context, []*models.XPLedger) error { return nil }

type stubMetaRepo struct{}

func (stubMetaRepo) GetAll(context.Context) ([]*models.MemberMeta, error)  { return nil, nil }
func (stubMetaRepo) UpsertAll(context.Context, []*models.MemberMeta) error { return nil }

var testRoles = badges.RoleNames{
	Newbie:      "Newbie",
	Graduated:   "Member",
	TextLeader:  "Top Chatter",
	VoiceLeader: "Top Voice",
}

const testGuild = snowflake.ID(100)

type promoterFixture struct {
	store *leveling.Store
	fake  *platformtest.Fake
}

func newPromoter(t *testing.T, period time.Duration) (*Promoter, *promoterFixture) {
	t.Helper()
	store := leveling.NewStore(stubLedgerRepo{}, stubMetaRepo{}, 0)
	fake := platformtest.New()
	reconciler := badges.NewReconciler(store, fake, testRoles)
	return NewPromoter(store, fake, reconciler, testRoles, period),
		&promoterFixture{store: store, fake: fake}
}

func (f *promoterFixture) roleID(t *testing.T, name string) snowflake.ID {
	t.Helper()
	id, found := f.fake.EnsureRole(context.Background(), testGuild, name)
	require.True(t, found)
	return id
}

func TestHandleJoinBookkeeping(t *testing.T) {
	promoter, f := newPromoter(t, 72*time.Hour)
	member := snowflake.ID(1)
	f.fake.SetDisplayName(member, "alice")

	promoter.HandleJoin(context.Background(), testGuild, member, "alice")

	meta, found := f.store.Meta(testGuild.String(), member.String())
	require.True(t, found)
	require.NotNil(t, meta.NewbieSince)
	assert.WithinDuration(t, time.Now(), *meta.NewbieSince, time.Minute)
	assert.Equal(t, meta.JoinedAt, *meta.NewbieSince)
	require.NotNil(t, meta.OriginalNick)
	assert.Equal(t, "alice", *meta.OriginalNick)

	assert.True(t, f.fake.HoldsRole(member, f.roleID(t, testRoles.Newbie)))

	state, _ := f.fake.Member(context.Background(), testGuild, member)
	assert.Equal(t, badges.BadgeNewbie.Glyph()+" alice", state.DisplayName)

	require.Len(t, f.fake.Sent, 1)
	assert.Equal(t, platform.ChannelArrivals, f.fake.Sent[0].Kind)
	assert.Contains(t, f.fake.Sent[0].Embed.Description, member.String())
}

func TestSweepPromotesOnlyDueMembers(t *testing.T) {
	promoter, f := newPromoter(t, 72*time.Hour)
	ctx := context.Background()

	overdue := 80 * time.Hour
	recent := time.Hour
	for member, age := range map[snowflake.ID]time.Duration{1: overdue, 2: recent} {
		since := time.Now().Add(-age)
		f.store.UpdateMeta(testGuild.String(), member.String(), func(m *models.MemberMeta) {
			m.JoinedAt = since
			m.NewbieSince = &since
		})
	}
	f.fake.SetDisplayName(1, "alice")
	f.fake.SetDisplayName(2, "bob")
	newbieID := f.roleID(t, testRoles.Newbie)
	f.fake.GrantRole(ctx, testGuild, 1, newbieID)
	f.fake.GrantRole(ctx, testGuild, 2, newbieID)

	assert.Equal(t, 1, promoter.Sweep(ctx))

	gradID := f.roleID(t, testRoles.Graduated)
	assert.False(t, f.fake.HoldsRole(1, newbieID))
	assert.True(t, f.fake.HoldsRole(1, gradID))
	assert.True(t, f.fake.HoldsRole(2, newbieID), "member inside the onboarding period keeps the newbie marker")
	assert.False(t, f.fake.HoldsRole(2, gradID))

	meta, _ := f.store.Meta(testGuild.String(), "1")
	assert.Nil(t, meta.NewbieSince, "promotion clears the due-check input")

	state, _ := f.fake.Member(ctx, testGuild, 1)
	assert.Equal(t, badges.BadgeGraduated.Glyph()+" alice", state.DisplayName)
}

func TestSweepIsIdempotent(t *testing.T) {
	promoter, f := newPromoter(t, 72*time.Hour)
	ctx := context.Background()

	since := time.Now().Add(-80 * time.Hour)
	f.store.UpdateMeta(testGuild.String(), "1", func(m *models.MemberMeta) {
		m.JoinedAt = since
		m.NewbieSince = &since
	})
	f.fake.SetDisplayName(1, "alice")
	f.fake.GrantRole(ctx, testGuild, 1, f.roleID(t, testRoles.Newbie))

	assert.Equal(t, 1, promoter.Sweep(ctx))
	assert.Zero(t, promoter.Sweep(ctx), "a promoted member is never swept twice")
}
