package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/infra/storage"
)

// MemoryStorage backs the repositories with in-process maps. Used in dev
// mode (no database configured) and throughout the tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]*domain.WaitlistEntry
	cards   map[string]*domain.ReportCard
	logs    []*domain.NotificationLog
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]*domain.WaitlistEntry),
		cards:   make(map[string]*domain.ReportCard),
	}
}

// SeedWaitlistEntry inserts an entry, replacing any previous one with the
// same id.
func (s *MemoryStorage) SeedWaitlistEntry(entry *domain.WaitlistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries[entry.ID] = &cp
}

// SeedReportCard inserts a report card.
func (s *MemoryStorage) SeedReportCard(rc *domain.ReportCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rc
	s.cards[rc.ID] = &cp
}

// Logs returns a snapshot of recorded delivery attempts.
func (s *MemoryStorage) Logs() []*domain.NotificationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.NotificationLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// -----------------------------------------------------------------------------
// Waitlist Repository
// -----------------------------------------------------------------------------

type WaitlistRepo struct {
	store *MemoryStorage
}

func NewWaitlistRepo(store *MemoryStorage) *WaitlistRepo {
	return &WaitlistRepo{store: store}
}

func (r *WaitlistRepo) GetByID(ctx context.Context, id string) (*domain.WaitlistEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	entry, ok := r.store.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *WaitlistRepo) FindActive(
	ctx context.Context,
	serviceID string,
	limit int,
) ([]*domain.WaitlistEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*domain.WaitlistEntry
	for _, e := range r.store.entries {
		if e.ServiceID == serviceID && e.Status == domain.WaitlistActive {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *WaitlistRepo) MarkNotified(
	ctx context.Context,
	id string,
	notifiedAt, offerExpiresAt time.Time,
) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry, ok := r.store.entries[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	if entry.Status != domain.WaitlistActive {
		return false, nil
	}
	entry.Status = domain.WaitlistNotified
	entry.NotifiedAt = &notifiedAt
	entry.OfferExpiresAt = &offerExpiresAt
	return true, nil
}

func (r *WaitlistRepo) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entry, ok := r.store.entries[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	if entry.Status != domain.WaitlistNotified {
		return false, nil
	}
	entry.Status = domain.WaitlistExpiredOffer
	return true, nil
}

func (r *WaitlistRepo) FindExpiredOffers(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.WaitlistEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*domain.WaitlistEntry
	for _, e := range r.store.entries {
		if e.Status == domain.WaitlistNotified && e.OfferExpiresAt != nil &&
			!e.OfferExpiresAt.After(now) {
			cp := *e
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OfferExpiresAt.Before(*matched[j].OfferExpiresAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// -----------------------------------------------------------------------------
// Report Card Repository
// -----------------------------------------------------------------------------

type ReportCardRepo struct {
	store *MemoryStorage
}

func NewReportCardRepo(store *MemoryStorage) *ReportCardRepo {
	return &ReportCardRepo{store: store}
}

func (r *ReportCardRepo) GetByID(ctx context.Context, id string) (*domain.ReportCard, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rc, ok := r.store.cards[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rc
	return &cp, nil
}

func (r *ReportCardRepo) MarkSent(ctx context.Context, id string, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rc, ok := r.store.cards[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	if rc.SentAt != nil {
		return false, nil
	}
	rc.SentAt = &at
	return true, nil
}

// -----------------------------------------------------------------------------
// Notification Log Repository
// -----------------------------------------------------------------------------

type NotificationLogRepo struct {
	store *MemoryStorage
}

func NewNotificationLogRepo(store *MemoryStorage) *NotificationLogRepo {
	return &NotificationLogRepo{store: store}
}

func (r *NotificationLogRepo) Record(ctx context.Context, entry *domain.NotificationLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *entry
	r.store.logs = append(r.store.logs, &cp)
	return nil
}
