package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
)

var (
	// ErrNotFound is returned when a record doesn't exist
	ErrNotFound = errors.New("record not found")
)

// WaitlistRepository handles waitlist entry storage operations.
// All writes are single-row updates guarded by a status precondition, so
// concurrent duplicate triggers cannot double-offer a slot.
type WaitlistRepository interface {
	// GetByID retrieves an entry by id
	GetByID(ctx context.Context, id string) (*domain.WaitlistEntry, error)

	// FindActive retrieves active entries for a service ordered by
	// created_at ascending (oldest request first), limited to limit
	FindActive(ctx context.Context, serviceID string, limit int) ([]*domain.WaitlistEntry, error)

	// MarkNotified transitions active -> notified, stamping notified_at
	// and offer_expires_at. Returns whether the update applied (the entry
	// was still active).
	MarkNotified(ctx context.Context, id string, notifiedAt, offerExpiresAt time.Time) (bool, error)

	// MarkExpired transitions notified -> expired_offer. Returns whether
	// the update applied (the entry was still notified).
	MarkExpired(ctx context.Context, id string, at time.Time) (bool, error)

	// FindExpiredOffers retrieves notified entries whose offer window has
	// passed, oldest deadline first
	FindExpiredOffers(ctx context.Context, now time.Time, limit int) ([]*domain.WaitlistEntry, error)
}

// ReportCardRepository handles report card storage operations
type ReportCardRepository interface {
	// GetByID retrieves a report card by id
	GetByID(ctx context.Context, id string) (*domain.ReportCard, error)

	// MarkSent sets sent_at only if it is currently null. Returns whether
	// the update applied.
	MarkSent(ctx context.Context, id string, at time.Time) (bool, error)
}

// NotificationLogRepository records delivery attempts
type NotificationLogRepository interface {
	// Record persists one delivery attempt
	Record(ctx context.Context, entry *domain.NotificationLog) error
}
