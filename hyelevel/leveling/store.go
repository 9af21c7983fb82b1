package leveling

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/models"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/database/repositories"
)

// Key builds the canonical "<guildID>:<memberID>" map key. The colon-joined
// form doubles as the guild prefix for scans.
func Key(guildID, memberID string) string {
	return guildID + ":" + memberID
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (guildID, memberID string) {
	guildID, memberID, _ = strings.Cut(key, ":")
	return guildID, memberID
}

// Store holds all ledger entries and member metadata in memory and writes
// them back to the repositories on a trailing-edge debounce. Mutations go
// through Update* so dirty tracking stays correct. A crash inside the
// debounce window loses at most the last batch of updates.
type Store struct {
	mu sync.RWMutex

	ledgers map[string]*models.XPLedger
	metas   map[string]*models.MemberMeta

	dirtyLedgers map[string]struct{}
	dirtyMetas   map[string]struct{}

	ledgerRepo repositories.LedgerRepository
	metaRepo   repositories.MemberMetaRepository

	debounce   time.Duration
	flushTimer *time.Timer
}

func NewStore(ledgerRepo repositories.LedgerRepository, metaRepo repositories.MemberMetaRepository, debounce time.Duration) *Store {
	return &Store{
		ledgers:      make(map[string]*models.XPLedger),
		metas:        make(map[string]*models.MemberMeta),
		dirtyLedgers: make(map[string]struct{}),
		dirtyMetas:   make(map[string]struct{}),
		ledgerRepo:   ledgerRepo,
		metaRepo:     metaRepo,
		debounce:     debounce,
	}
}

// Load populates the store from the repositories. Missing or unreadable
// state degrades to an empty store rather than failing startup.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledgers, err := s.ledgerRepo.GetAll(ctx)
	if err != nil {
		slog.Warn("Failed to load XP ledgers, starting empty",
			slog.String("type", "db"),
			slog.Any("error", err))
		ledgers = nil
	}
	for _, l := range ledgers {
		s.ledgers[l.Key()] = l
	}

	metas, err := s.metaRepo.GetAll(ctx)
	if err != nil {
		slog.Warn("Failed to load member metadata, starting empty",
			slog.String("type", "db"),
			slog.Any("error", err))
		metas = nil
	}
	for _, m := range metas {
		s.metas[m.Key()] = m
	}

	slog.Info("Ledger store loaded",
		slog.String("type", "db"),
		slog.Int("ledgers", len(s.ledgers)),
		slog.Int("members", len(s.metas)))
}

// Ledger returns a snapshot of the member's ledger entry, creating an empty
// one lazily on first read.
func (s *Store) Ledger(guildID, memberID string) models.XPLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ledgerLocked(guildID, memberID)
}

// UpdateLedger applies fn to the member's ledger entry under the store lock
// and schedules a durability flush.
func (s *Store) UpdateLedger(guildID, memberID string, fn func(*models.XPLedger)) models.XPLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.ledgerLocked(guildID, memberID)
	fn(entry)
	s.dirtyLedgers[entry.Key()] = struct{}{}
	s.armFlushLocked()
	return *entry
}

func (s *Store) ledgerLocked(guildID, memberID string) *models.XPLedger {
	key := Key(guildID, memberID)
	entry, ok := s.ledgers[key]
	if !ok {
		entry = &models.XPLedger{GuildID: guildID, MemberID: memberID}
		s.ledgers[key] = entry
	}
	return entry
}

// Meta returns the member's metadata, if any.
func (s *Store) Meta(guildID, memberID string) (models.MemberMeta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.metas[Key(guildID, memberID)]
	if !ok {
		return models.MemberMeta{}, false
	}
	return *meta, true
}

// UpdateMeta applies fn to the member's metadata, creating it when missing,
// and schedules a durability flush.
func (s *Store) UpdateMeta(guildID, memberID string, fn func(*models.MemberMeta)) models.MemberMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(guildID, memberID)
	meta, ok := s.metas[key]
	if !ok {
		meta = &models.MemberMeta{GuildID: guildID, MemberID: memberID}
		s.metas[key] = meta
	}
	fn(meta)
	s.dirtyMetas[key] = struct{}{}
	s.armFlushLocked()
	return *meta
}

// ForEachLedger visits a snapshot of every ledger entry in the guild.
func (s *Store) ForEachLedger(guildID string, fn func(models.XPLedger)) {
	s.mu.RLock()
	snapshot := make([]models.XPLedger, 0, len(s.ledgers))
	prefix := guildID + ":"
	for key, entry := range s.ledgers {
		if strings.HasPrefix(key, prefix) {
			snapshot = append(snapshot, *entry)
		}
	}
	s.mu.RUnlock()

	for _, entry := range snapshot {
		fn(entry)
	}
}

// ForEachMeta visits a snapshot of every member's metadata across guilds.
func (s *Store) ForEachMeta(fn func(models.MemberMeta)) {
	s.mu.RLock()
	snapshot := make([]models.MemberMeta, 0, len(s.metas))
	for _, meta := range s.metas {
		snapshot = append(snapshot, *meta)
	}
	s.mu.RUnlock()

	for _, meta := range snapshot {
		fn(meta)
	}
}

// ResetGuild zeroes every XP counter in the guild in place. Entries are
// never deleted.
func (s *Store) ResetGuild(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := guildID + ":"
	count := 0
	for key, entry := range s.ledgers {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry.TotalXP = 0
		entry.TextXP = 0
		entry.VoiceXP = 0
		s.dirtyLedgers[key] = struct{}{}
		count++
	}
	if count > 0 {
		s.armFlushLocked()
	}
	return count
}

// armFlushLocked (re)arms the trailing-edge flush timer. Called with s.mu held.
func (s *Store) armFlushLocked() {
	if s.debounce <= 0 {
		return
	}
	if s.flushTimer != nil {
		s.flushTimer.Reset(s.debounce)
		return
	}
	s.flushTimer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Flush(ctx); err != nil {
			slog.Warn("Debounced ledger flush failed",
				slog.String("type", "db"),
				slog.Any("error", err))
		}
	})
}

// Flush writes all dirty entries out synchronously. Safe to call at any
// time; on failure the entries stay dirty for the next attempt.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.flushTimer != nil {
		s.flushTimer.Stop()
		s.flushTimer = nil
	}

	ledgers := make([]*models.XPLedger, 0, len(s.dirtyLedgers))
	for key := range s.dirtyLedgers {
		if entry, ok := s.ledgers[key]; ok {
			clone := *entry
			ledgers = append(ledgers, &clone)
		}
	}
	metas := make([]*models.MemberMeta, 0, len(s.dirtyMetas))
	for key := range s.dirtyMetas {
		if meta, ok := s.metas[key]; ok {
			clone := *meta
			metas = append(metas, &clone)
		}
	}
	dirtyLedgers, dirtyMetas := s.dirtyLedgers, s.dirtyMetas
	s.dirtyLedgers = make(map[string]struct{})
	s.dirtyMetas = make(map[string]struct{})
	s.mu.Unlock()

	if len(ledgers) == 0 && len(metas) == 0 {
		return nil
	}

	var firstErr error
	if err := s.ledgerRepo.UpsertAll(ctx, ledgers); err != nil {
		firstErr = err
		s.remarkDirty(dirtyLedgers, nil)
	}
	if err := s.metaRepo.UpsertAll(ctx, metas); err != nil {
		if firstErr == nil {
			firstErr = err
		}
		s.remarkDirty(nil, dirtyMetas)
	}
	return firstErr
}

// remarkDirty restores dirty marks after a failed flush and re-arms the
// debounce timer, so the retry does not wait for the next mutation.
func (s *Store) remarkDirty(ledgers, metas map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range ledgers {
		s.dirtyLedgers[key] = struct{}{}
	}
	for key := range metas {
		s.dirtyMetas[key] = struct{}{}
	}
	if len(s.dirtyLedgers) > 0 || len(s.dirtyMetas) > 0 {
		s.armFlushLocked()
	}
}
