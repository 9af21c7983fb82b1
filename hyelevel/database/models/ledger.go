package models

import "github.com/uptrace/bun"

// XPLedger is one member's XP counters within one guild. TotalXP is stored,
// not derived; older rows may predate the per-dimension counters, in which
// case TextXP and VoiceXP are zero and get backfilled lazily.
type XPLedger struct {
	bun.BaseModel `bun:"table:xp_ledgers,alias:xl"`

	GuildID  string `bun:"guild_id,pk"`
	MemberID string `bun:"member_id,pk"`
	TotalXP  int64  `bun:"total_xp,notnull,default:0"`
	TextXP   int64  `bun:"text_xp,notnull,default:0"`
	VoiceXP  int64  `bun:"voice_xp,notnull,default:0"`
}

// Key returns the canonical "<guildID>:<memberID>" ledger key.
func (l *XPLedger) Key() string {
	return l.GuildID + ":" + l.MemberID
}
