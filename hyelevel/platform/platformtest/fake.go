// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"context"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/platform"
)

// SentMessage records one embed posted through Send.
type SentMessage struct {
	GuildID snowflake.ID
	Kind    platform.ChannelKind
	Embed   discord.Embed
}

// Fake is an in-memory platform.Client. Role and member state behave like
// the real platform's: grants show up in holder and member reads
// immediately. Set Fail to make every call report failure without mutating
// anything.
type Fake struct {
	mu sync.Mutex

	Fail bool

	nextRoleID snowflake.ID
	roles      map[string]snowflake.ID                      // "<guild>:<name>"
	holders    map[snowflake.ID]map[snowflake.ID]struct{}   // role -> members
	names      map[snowflake.ID]string                      // member -> display name
	voice      map[snowflake.ID]platform.VoiceStatus        // member -> live state
	guilds     []snowflake.ID

	Sent    []SentMessage
	Renames []string
	Grants  int
	Revokes int
}

func New() *Fake {
	return &Fake{
		nextRoleID: 1000,
		roles:      make(map[string]snowflake.ID),
		holders:    make(map[snowflake.ID]map[snowflake.ID]struct{}),
		names:      make(map[snowflake.ID]string),
		voice:      make(map[snowflake.ID]platform.VoiceStatus),
	}
}

func (f *Fake) SetDisplayName(memberID snowflake.ID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names[memberID] = name
}

func (f *Fake) SetVoice(memberID snowflake.ID, status platform.VoiceStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voice[memberID] = status
}

func (f *Fake) SetGuilds(guilds ...snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guilds = guilds
}

// HoldsRole reports whether the member currently has the role.
func (f *Fake) HoldsRole(memberID, roleID snowflake.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, holds := f.holders[roleID][memberID]
	return holds
}

// Mutations reports how many grant/revoke calls have been made.
func (f *Fake) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Grants + f.Revokes
}

func (f *Fake) EnsureRole(_ context.Context, guildID snowflake.ID, name string) (snowflake.ID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return 0, false
	}

	key := guildID.String() + ":" + name
	if id, found := f.roles[key]; found {
		return id, true
	}
	f.nextRoleID++
	f.roles[key] = f.nextRoleID
	f.holders[f.nextRoleID] = make(map[snowflake.ID]struct{})
	return f.nextRoleID, true
}

func (f *Fake) RoleHolders(_ context.Context, _ snowflake.ID, roleID snowflake.ID) ([]snowflake.ID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return nil, false
	}

	holders := make([]snowflake.ID, 0, len(f.holders[roleID]))
	for id := range f.holders[roleID] {
		holders = append(holders, id)
	}
	return holders, true
}

func (f *Fake) GrantRole(_ context.Context, _ snowflake.ID, memberID, roleID snowflake.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}

	if f.holders[roleID] == nil {
		f.holders[roleID] = make(map[snowflake.ID]struct{})
	}
	f.holders[roleID][memberID] = struct{}{}
	f.Grants++
	return true
}

func (f *Fake) RevokeRole(_ context.Context, _ snowflake.ID, memberID, roleID snowflake.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}

	delete(f.holders[roleID], memberID)
	f.Revokes++
	return true
}

func (f *Fake) Member(_ context.Context, _ snowflake.ID, memberID snowflake.ID) (platform.MemberState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return platform.MemberState{}, false
	}

	name, found := f.names[memberID]
	if !found {
		return platform.MemberState{}, false
	}

	var roleIDs []snowflake.ID
	for roleID, members := range f.holders {
		if _, holds := members[memberID]; holds {
			roleIDs = append(roleIDs, roleID)
		}
	}
	return platform.MemberState{DisplayName: name, RoleIDs: roleIDs}, true
}

func (f *Fake) Rename(_ context.Context, _ snowflake.ID, memberID snowflake.ID, nick string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}

	f.names[memberID] = nick
	f.Renames = append(f.Renames, memberID.String()+"="+nick)
	return true
}

func (f *Fake) Send(_ context.Context, guildID snowflake.ID, kind platform.ChannelKind, embed discord.Embed) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return false
	}

	f.Sent = append(f.Sent, SentMessage{GuildID: guildID, Kind: kind, Embed: embed})
	return true
}

func (f *Fake) VoiceStatus(_, memberID snowflake.ID) platform.VoiceStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voice[memberID]
}

func (f *Fake) Guilds() []snowflake.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]snowflake.ID(nil), f.guilds...)
}
