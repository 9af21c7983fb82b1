package badges

import (
	"context"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/leveling"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLedgerRepo struct{}

func (noopLedgerRepo) GetAll(context.Context) ([]*models.XPLedger, error)  { return nil, nil }
func (noopLedgerRepo) UpsertAll(context.Context, []*models.XPLedger) error { return nil }

type noopMetaRepo struct{}

func (noopMetaRepo) GetAll(context.Context) ([]*models.MemberMeta, error)  { return nil, nil }
func (noopMetaRepo) UpsertAll(context.Context, []*models.MemberMeta) error { return nil }

var testRoles = RoleNames{
	Newbie:      "Newbie",
	Graduated:   "Member",
	TextLeader:  "Top Chatter",
	VoiceLeader: "Top Voice",
}

const testGuild = snowflake.ID(100)

var (
	memberA = snowflake.ID(1)
	memberB = snowflake.ID(2)
)

type reconcilerFixture struct {
	store *leveling.Store
	fake  *platformtest.Fake
	rec   *Reconciler
}

func newFixture(t *testing.T) *reconcilerFixture {
	t.Helper()
	store := leveling.NewStore(noopLedgerRepo{}, noopMetaRepo{}, 0)
	fake := platformtest.New()
	fake.SetDisplayName(memberA, "alice")
	fake.SetDisplayName(memberB, "bob")
	return &reconcilerFixture{
		store: store,
		fake:  fake,
		rec:   NewReconciler(store, fake, testRoles),
	}
}

func (f *reconcilerFixture) setXP(memberID snowflake.ID, text, voice int64) {
	f.store.UpdateLedger(testGuild.String(), memberID.String(), func(l *models.XPLedger) {
		l.TextXP = text
		l.VoiceXP = voice
		l.TotalXP = text + voice
	})
}

func (f *reconcilerFixture) textRoleID(t *testing.T) snowflake.ID {
	t.Helper()
	id, found := f.fake.EnsureRole(context.Background(), testGuild, testRoles.TextLeader)
	require.True(t, found)
	return id
}

func TestReconcileGrantsFirstLeader(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0)
	f.setXP(memberB, 30, 0)

	f.rec.Reconcile(context.Background(), testGuild)

	assert.True(t, f.fake.HoldsRole(memberA, f.textRoleID(t)))
	assert.False(t, f.fake.HoldsRole(memberB, f.textRoleID(t)))

	require.Len(t, f.fake.Sent, 1, "exactly one announcement for the new leader")
	assert.Equal(t, platform.ChannelAnnouncements, f.fake.Sent[0].Kind)
	assert.Contains(t, f.fake.Sent[0].Embed.Description, memberA.String())
}

func TestReconcileIdempotentUnderNoChange(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0)

	f.rec.Reconcile(context.Background(), testGuild)
	mutationsAfterFirst := f.fake.Mutations()
	sendsAfterFirst := len(f.fake.Sent)

	f.rec.Reconcile(context.Background(), testGuild)

	assert.Equal(t, mutationsAfterFirst, f.fake.Mutations(), "unchanged standings must cause no role mutations")
	assert.Len(t, f.fake.Sent, sendsAfterFirst, "unchanged standings must cause no announcement")
}

func TestReconcileHandsOverLeadership(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0)
	f.rec.Reconcile(context.Background(), testGuild)

	f.setXP(memberB, 80, 0)
	f.rec.Reconcile(context.Background(), testGuild)

	roleID := f.textRoleID(t)
	assert.False(t, f.fake.HoldsRole(memberA, roleID), "old holder must be revoked")
	assert.True(t, f.fake.HoldsRole(memberB, roleID))
}

func TestReconcileNoLeaderForZeroCounters(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0) // text activity only

	f.rec.Reconcile(context.Background(), testGuild)

	voiceID, found := f.fake.EnsureRole(context.Background(), testGuild, testRoles.VoiceLeader)
	require.True(t, found)
	assert.False(t, f.fake.HoldsRole(memberA, voiceID), "no voice XP means no voice badge")
}

func TestReconcileCombinedAnnouncement(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 40)

	f.rec.Reconcile(context.Background(), testGuild)

	require.Len(t, f.fake.Sent, 1, "double crown collapses into one announcement")
	assert.Contains(t, f.fake.Sent[0].Embed.Title, "Double crown")
}

func TestReconcileDecoratesLeaderNickname(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0)

	f.rec.Reconcile(context.Background(), testGuild)

	state, found := f.fake.Member(context.Background(), testGuild, memberA)
	require.True(t, found)
	assert.Equal(t, BadgeTextLeader.Glyph()+" alice", state.DisplayName)
}

func TestReconcileSurvivesPlatformOutage(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0)
	f.fake.Fail = true

	// The pass degrades to a no-op; nothing panics, nothing propagates.
	f.rec.Reconcile(context.Background(), testGuild)
	assert.Empty(t, f.fake.Sent)

	// Next pass converges once the platform is reachable again.
	f.fake.Fail = false
	f.rec.Reconcile(context.Background(), testGuild)
	assert.True(t, f.fake.HoldsRole(memberA, f.textRoleID(t)))
}

func TestRefreshNicknameRecoversGlyphOnlyName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The base name was lost; only the badge glyph remains on the platform.
	f.fake.SetDisplayName(memberA, BadgeNewbie.Glyph())
	newbieID, found := f.fake.EnsureRole(ctx, testGuild, testRoles.Newbie)
	require.True(t, found)
	f.fake.GrantRole(ctx, testGuild, memberA, newbieID)

	orig := "alice"
	f.store.UpdateMeta(testGuild.String(), memberA.String(), func(m *models.MemberMeta) {
		m.OriginalNick = &orig
	})

	f.rec.RefreshNickname(ctx, testGuild, memberA)

	state, found := f.fake.Member(ctx, testGuild, memberA)
	require.True(t, found)
	assert.Equal(t, BadgeNewbie.Glyph()+" alice", state.DisplayName,
		"name recorded at join restores the stripped-empty base")
}

func TestStripAllRemovesEveryMarker(t *testing.T) {
	f := newFixture(t)
	f.setXP(memberA, 50, 0)
	f.setXP(memberB, 0, 30)
	f.rec.Reconcile(context.Background(), testGuild)

	f.store.ResetGuild(testGuild.String())
	f.rec.StripAll(context.Background(), testGuild)

	textID := f.textRoleID(t)
	voiceID, _ := f.fake.EnsureRole(context.Background(), testGuild, testRoles.VoiceLeader)
	assert.False(t, f.fake.HoldsRole(memberA, textID))
	assert.False(t, f.fake.HoldsRole(memberB, voiceID))

	stateA, _ := f.fake.Member(context.Background(), testGuild, memberA)
	assert.Equal(t, "alice", stateA.DisplayName, "badge glyphs must be stripped after reset")
}
