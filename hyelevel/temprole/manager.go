// Package temprole grants roles that revoke themselves after a duration.
package temprole

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

// MinDuration guards against near-instant grants that would just flicker.
const MinDuration = 10 * time.Second

var ErrDurationTooShort = errors.New("duration must be at least 10 seconds")

// Manager hands out time-boxed role grants. Expiry timers are in-memory
// only: a restart before expiry leaves the role granted permanently, which
// is the accepted trade-off for this admin convenience.
type Manager struct {
	client platform.Client
	timers sync.Map // "<guild>:<member>:<role>" -> *time.Timer
}

func NewManager(client platform.Client) *Manager {
	return &Manager{client: client}
}

// Grant gives the member the role and schedules its revocation. A repeated
// grant for the same member and role resets the clock.
func (m *Manager) Grant(ctx context.Context, guildID, memberID, roleID snowflake.ID, duration time.Duration) error {
	if duration < MinDuration {
		return ErrDurationTooShort
	}

	if !m.client.GrantRole(ctx, guildID, memberID, roleID) {
		return errors.New("failed to grant role")
	}

	key := guildID.String() + ":" + memberID.String() + ":" + roleID.String()
	timer := time.AfterFunc(duration, func() {
		m.timers.Delete(key)

		revokeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		m.client.RevokeRole(revokeCtx, guildID, memberID, roleID)

		slog.Info("Temporary role expired",
			slog.String("guild_id", guildID.String()),
			slog.String("member_id", memberID.String()),
			slog.String("role_id", roleID.String()))
	})

	if previous, loaded := m.timers.Swap(key, timer); loaded {
		previous.(*time.Timer).Stop()
	}
	return nil
}

// Active reports how many grants are currently waiting to expire.
func (m *Manager) Active() int {
	count := 0
	m.timers.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
