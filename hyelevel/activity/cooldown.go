// Package activity gates XP-earning events coming in from the platform.
package activity

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const defaultCooldownEntries = 10000

// Cooldown is the per-(guild,member) message-rate gate. A message inside the
// window is discarded outright: no XP, no state change. Timestamps live in a
// bounded LRU and are never persisted; a restart forgives at most one extra
// award per member.
type Cooldown struct {
	window   time.Duration
	accepted *lru.Cache
}

func NewCooldown(window time.Duration) *Cooldown {
	cache, _ := lru.New(defaultCooldownEntries)
	return &Cooldown{window: window, accepted: cache}
}

// Allow reports whether the member's message qualifies for an award and, if
// so, records it as the newest accepted message.
func (c *Cooldown) Allow(guildID, memberID string, now time.Time) bool {
	key := guildID + ":" + memberID
	if last, found := c.accepted.Get(key); found {
		if now.Sub(last.(time.Time)) < c.window {
			return false
		}
	}
	c.accepted.Add(key, now)
	return true
}
