package leveling

import (
	"sort"

	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
)

// Standing is one member's position in a guild ranking.
type Standing struct {
	MemberID string
	Value    int64
}

// TopByDimension returns the guild's leading member for one dimension. A
// zero-valued maximum means no leader: inactivity earns no badge. Ties are
// broken by member ID ascending so repeated scans agree with each other.
func (s *Store) TopByDimension(guildID string, dim Dimension) (Standing, bool) {
	var top Standing
	s.ForEachLedger(guildID, func(entry models.XPLedger) {
		value := dimensionValue(entry, dim)
		if value > top.Value || (value == top.Value && value > 0 && entry.MemberID < top.MemberID) {
			top = Standing{MemberID: entry.MemberID, Value: value}
		}
	})
	if top.Value <= 0 {
		return Standing{}, false
	}
	return top, true
}

// Top returns up to limit members ranked by the given dimension, zero
// values excluded, member ID as the tie-break.
func (s *Store) Top(guildID string, dim Dimension, limit int) []Standing {
	var standings []Standing
	s.ForEachLedger(guildID, func(entry models.XPLedger) {
		if value := dimensionValue(entry, dim); value > 0 {
			standings = append(standings, Standing{MemberID: entry.MemberID, Value: value})
		}
	})

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Value != standings[j].Value {
			return standings[i].Value > standings[j].Value
		}
		return standings[i].MemberID < standings[j].MemberID
	})

	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}
	return standings
}

func dimensionValue(entry models.XPLedger, dim Dimension) int64 {
	switch dim {
	case DimensionText:
		return entry.TextXP
	case DimensionVoice:
		return entry.VoiceXP
	default:
		return entry.TotalXP
	}
}
