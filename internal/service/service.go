// Package service is the caller-facing surface of the conversation store.
// It routes operations between the primary SQLite tier and the flat
// fallback slot, migrates fallback data forward, repairs stale session
// summaries, and enforces the capacity policy of the degraded tier.
package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ilikebug/ChatVortex/internal/config"
	"github.com/ilikebug/ChatVortex/internal/domain"
	"github.com/ilikebug/ChatVortex/internal/store"
)

// Mode is the active storage tier.
type Mode int

const (
	ModeUninitialized Mode = iota
	ModePrimary
	ModeFallback
)

func (m Mode) String() string {
	switch m {
	case ModePrimary:
		return "primary"
	case ModeFallback:
		return "fallback"
	default:
		return "uninitialized"
	}
}

// Primary is the indexed transactional tier consumed by the service.
// *store.SQLite satisfies it; tests substitute failing fakes.
type Primary interface {
	SaveSession(sess *domain.Session) error
	AllSummaries() ([]domain.SessionSummary, error)
	GetSession(id string) (*domain.Session, error)
	MessagesPage(sessionID string, limit int, before time.Time) ([]domain.Message, error)
	DeleteSession(id string) error
	CountTotals() (sessions, messages int, err error)
	Close() error
}

// Service owns tier selection and everything above the two adapters.
// The fallback slot is a whole-corpus snapshot, so mutating operations on
// it are serialized by mu; the primary tier needs no such serialization
// (the caller guarantees single-writer-per-session).
type Service struct {
	primary  Primary // nil while in fallback mode
	snapshot *store.Snapshot
	prefs    config.Preferences
	log      *config.Logger

	mu   sync.Mutex
	mode Mode
}

// OpenPrimary is the primary-tier factory used by Init. Swappable in tests
// to simulate an unopenable engine.
type OpenPrimary func() (Primary, error)

// New builds an uninitialized Service over the given fallback slot.
func New(slot store.Slot, prefs config.Preferences, log *config.Logger) *Service {
	return &Service{
		snapshot: store.NewSnapshot(slot),
		prefs:    prefs,
		log:      log,
	}
}

// Init attempts to open the primary tier and returns the resulting mode.
// On success any fallback-tier corpus left by a prior run is migrated
// forward. On failure the service enters fallback mode, where the capacity
// policy governs writes.
func (s *Service) Init(open OpenPrimary) (Mode, error) {
	primary, err := open()
	if err != nil {
		s.log.Printf("service: primary unavailable, using fallback tier: %v", err)
		s.mode = ModeFallback
		return s.mode, nil
	}
	s.primary = primary
	s.mode = ModePrimary

	if err := s.MigrateIfNeeded(); err != nil {
		// Both tiers keep their pre-migration content; upserts are
		// idempotent, so the next startup simply tries again.
		s.log.Printf("service: migration failed, will retry next startup: %v", err)
	}
	return s.mode, nil
}

// Mode returns the active tier.
func (s *Service) Mode() Mode {
	return s.mode
}

// Close closes the primary tier if it is open.
func (s *Service) Close() error {
	if s.primary != nil {
		return s.primary.Close()
	}
	return nil
}

// MigrateIfNeeded moves the entire fallback corpus into the primary tier
// and clears the slot. Safe to call redundantly: primary writes are upserts
// keyed by id, so re-running after an interruption neither duplicates nor
// corrupts data, and an empty slot makes it a no-op.
func (s *Service) MigrateIfNeeded() error {
	if s.mode != ModePrimary {
		return nil
	}
	sessions, err := s.snapshot.LoadAll()
	if err != nil {
		return fmt.Errorf("load fallback corpus: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}
	for i := range sessions {
		if err := s.primary.SaveSession(&sessions[i]); err != nil {
			return fmt.Errorf("migrate session %s: %w", sessions[i].ID, err)
		}
	}
	if err := s.snapshot.Clear(); err != nil {
		return fmt.Errorf("clear fallback slot: %w", err)
	}
	s.log.Printf("service: migrated %d sessions from fallback slot", len(sessions))
	return nil
}

// SaveSession durably stores the session and all its messages. While the
// primary tier is active a failed primary write is retried once against the
// fallback slot; the mode stays primary for subsequent operations, and the
// next startup's migration re-absorbs the stray.
func (s *Service) SaveSession(sess *domain.Session) error {
	if sess.ID == "" {
		sess.ID = domain.NewUUID()
	}
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = now
	}
	for i := range sess.Messages {
		if sess.Messages[i].ID == "" {
			sess.Messages[i].ID = domain.NewUUID()
		}
		sess.Messages[i].SessionID = sess.ID
	}
	sess.Normalize()

	if s.mode == ModePrimary {
		err := s.primary.SaveSession(sess)
		if err == nil {
			return nil
		}
		s.log.Printf("service: primary save failed for %s, degrading this write: %v", sess.ID, err)
	}
	return s.fallbackUpsert(sess)
}

// LoadSummaries returns every session's metadata, most recently updated
// first. Summaries whose cached fields are stale are repaired and persisted
// before being returned.
func (s *Service) LoadSummaries() ([]domain.SessionSummary, error) {
	if s.mode == ModePrimary {
		sums, err := s.primary.AllSummaries()
		if err == nil {
			return s.repairStale(sums), nil
		}
		s.log.Printf("service: primary summary read failed, degrading this read: %v", err)
	}

	sessions, err := s.snapshot.LoadAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	sums := make([]domain.SessionSummary, len(sessions))
	for i := range sessions {
		sums[i] = sessions[i].Summary()
	}
	return sums, nil
}

// LoadSession returns the full session with messages ascending by
// timestamp, or store.ErrNotFound.
func (s *Service) LoadSession(id string) (*domain.Session, error) {
	if s.mode == ModePrimary {
		sess, err := s.primary.GetSession(id)
		if err == nil {
			// Full message list is in hand; divergent cached fields are
			// repaired and persisted before the session is returned.
			if sess.MessageCount != len(sess.Messages) || domain.StaleSummary(sess.Summary()) {
				sess.Normalize()
				if perr := s.primary.SaveSession(sess); perr != nil {
					s.log.Printf("service: summary repair save failed for %s: %v", id, perr)
				} else {
					s.log.Printf("service: repaired stale summary for %s (count=%d)", id, sess.MessageCount)
				}
			}
			return sess, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		s.log.Printf("service: primary load failed for %s, degrading this read: %v", id, err)
	}
	return s.fallbackGet(id)
}

// LoadMessagesPage returns up to limit messages older than before (most
// recent first). A zero before means "from the newest".
func (s *Service) LoadMessagesPage(id string, limit int, before time.Time) ([]domain.Message, error) {
	if s.mode == ModePrimary {
		msgs, err := s.primary.MessagesPage(id, limit, before)
		if err == nil {
			return msgs, nil
		}
		s.log.Printf("service: primary page read failed for %s, degrading this read: %v", id, err)
	}

	sess, err := s.fallbackGet(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Message
	for i := len(sess.Messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := sess.Messages[i]
		if !before.IsZero() && !m.Timestamp.Before(before) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// DeleteSession removes the session and all its messages from the active
// tier, and scrubs any copy in the fallback slot so a later migration
// cannot resurrect it.
func (s *Service) DeleteSession(id string) error {
	if s.mode == ModePrimary {
		if err := s.primary.DeleteSession(id); err != nil {
			s.log.Printf("service: primary delete failed for %s, degrading this write: %v", id, err)
		}
	}
	return s.fallbackDelete(id)
}

// Stats computes corpus-wide counters on demand. The size figure is a
// heuristic: message count times the configured average bytes per message.
func (s *Service) Stats() (domain.StorageStats, error) {
	if s.mode == ModePrimary {
		stats, err := s.primaryStats()
		if err == nil {
			return stats, nil
		}
		s.log.Printf("service: primary stats failed, degrading this read: %v", err)
	}

	sessions, err := s.snapshot.LoadAll()
	if err != nil {
		return domain.StorageStats{}, err
	}
	var stats domain.StorageStats
	stats.TotalSessions = len(sessions)
	for i := range sessions {
		stats.TotalMessages += len(sessions[i].Messages)
		observeRange(&stats, sessions[i].CreatedAt, sessions[i].UpdatedAt)
	}
	stats.EstimatedSizeBytes = int64(stats.TotalMessages) * int64(s.prefs.AvgMessageBytes)
	return stats, nil
}

func (s *Service) primaryStats() (domain.StorageStats, error) {
	var stats domain.StorageStats
	sessions, messages, err := s.primary.CountTotals()
	if err != nil {
		return stats, err
	}
	stats.TotalSessions = sessions
	stats.TotalMessages = messages
	stats.EstimatedSizeBytes = int64(messages) * int64(s.prefs.AvgMessageBytes)

	// One summary scan for the timestamp range; messages are not scanned.
	sums, err := s.primary.AllSummaries()
	if err != nil {
		return stats, err
	}
	for _, sum := range sums {
		observeRange(&stats, sum.CreatedAt, sum.UpdatedAt)
	}
	return stats, nil
}

func observeRange(stats *domain.StorageStats, created, updated time.Time) {
	if stats.OldestSessionAt.IsZero() || created.Before(stats.OldestSessionAt) {
		stats.OldestSessionAt = created
	}
	if updated.After(stats.NewestSessionAt) {
		stats.NewestSessionAt = updated
	}
}

// repairStale fixes summaries whose cached fields diverged from the message
// collection, persisting each repair before returning it.
func (s *Service) repairStale(sums []domain.SessionSummary) []domain.SessionSummary {
	for i, sum := range sums {
		if !domain.StaleSummary(sum) {
			continue
		}
		sess, err := s.primary.GetSession(sum.ID)
		if err != nil {
			continue
		}
		sess.Normalize()
		if err := s.primary.SaveSession(sess); err != nil {
			s.log.Printf("service: summary repair save failed for %s: %v", sum.ID, err)
			continue
		}
		s.log.Printf("service: repaired stale summary for %s (count=%d)", sum.ID, sess.MessageCount)
		sums[i] = sess.Summary()
	}
	return sums
}

// ---------------------------------------------------------------------------
// Fallback tier: whole-corpus snapshot operations
// ---------------------------------------------------------------------------

func (s *Service) fallbackGet(id string) (*domain.Session, error) {
	sessions, err := s.snapshot.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Service) fallbackUpsert(sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.snapshot.LoadAll()
	if err != nil {
		return err
	}
	replaced := false
	for i := range sessions {
		if sessions[i].ID == sess.ID {
			sessions[i] = *sess
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, *sess)
	}
	return s.saveAllWithTruncation(sessions)
}

func (s *Service) fallbackDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.snapshot.LoadAll()
	if err != nil {
		return err
	}
	kept := sessions[:0]
	for i := range sessions {
		if sessions[i].ID != id {
			kept = append(kept, sessions[i])
		}
	}
	if len(kept) == len(sessions) {
		return nil
	}
	return s.saveAllWithTruncation(kept)
}

// saveAllWithTruncation is the capacity monitor: a quota-rejected write
// truncates the corpus to the most recently updated sessions and retries
// once. A second rejection surfaces as ErrExhausted; the in-memory state is
// not rolled back, so the caller keeps operating statelessly until capacity
// frees up.
func (s *Service) saveAllWithTruncation(sessions []domain.Session) error {
	err := s.snapshot.SaveAll(sessions)
	if err == nil || !store.IsQuota(err) {
		return err
	}

	retention := s.prefs.FallbackRetention
	if retention <= 0 {
		retention = config.DefaultPreferences().FallbackRetention
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	if len(sessions) > retention {
		for _, dropped := range sessions[retention:] {
			s.log.Printf("service: capacity truncation dropping session %s (updated %s)",
				dropped.ID, dropped.UpdatedAt.Format(time.RFC3339))
		}
		sessions = sessions[:retention]
	}

	if err := s.snapshot.SaveAll(sessions); err != nil {
		if store.IsQuota(err) {
			return fmt.Errorf("%w: %w", store.ErrExhausted, err)
		}
		return err
	}
	return nil
}
