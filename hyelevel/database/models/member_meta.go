package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MemberMeta is onboarding bookkeeping for one guild member. NewbieSince is
// set at join and cleared once the onboarding promotion fires; it is the
// sole input to the promotion sweep's due-check.
type MemberMeta struct {
	bun.BaseModel `bun:"table:member_metas,alias:mm"`

	GuildID      string     `bun:"guild_id,pk"`
	MemberID     string     `bun:"member_id,pk"`
	JoinedAt     time.Time  `bun:"joined_at,notnull"`
	NewbieSince  *time.Time `bun:"newbie_since"`
	OriginalNick *string    `bun:"original_nick"`
}

// Key returns the canonical "<guildID>:<memberID>" key.
func (m *MemberMeta) Key() string {
	return m.GuildID + ":" + m.MemberID
}
