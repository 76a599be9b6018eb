package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/infra/storage"
)

// WaitlistRepo implements storage.WaitlistRepository using PostgreSQL.
type WaitlistRepo struct {
	db *DB
}

// NewWaitlistRepo creates a new PostgreSQL waitlist repository.
func NewWaitlistRepo(db *DB) *WaitlistRepo {
	return &WaitlistRepo{db: db}
}

type waitlistRow struct {
	ID             string         `db:"id"`
	CustomerID     string         `db:"customer_id"`
	Phone          sql.NullString `db:"phone"`
	PetName        string         `db:"pet_name"`
	ServiceID      string         `db:"service_id"`
	PreferredDate  time.Time      `db:"preferred_date"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	NotifiedAt     sql.NullTime   `db:"notified_at"`
	OfferExpiresAt sql.NullTime   `db:"offer_expires_at"`
}

func (r waitlistRow) toDomain() *domain.WaitlistEntry {
	entry := &domain.WaitlistEntry{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		Phone:         r.Phone.String,
		PetName:       r.PetName,
		ServiceID:     r.ServiceID,
		PreferredDate: r.PreferredDate,
		Status:        domain.WaitlistStatus(r.Status),
		CreatedAt:     r.CreatedAt,
	}
	if r.NotifiedAt.Valid {
		t := r.NotifiedAt.Time
		entry.NotifiedAt = &t
	}
	if r.OfferExpiresAt.Valid {
		t := r.OfferExpiresAt.Time
		entry.OfferExpiresAt = &t
	}
	return entry
}

// GetByID retrieves an entry by id.
func (r *WaitlistRepo) GetByID(ctx context.Context, id string) (*domain.WaitlistEntry, error) {
	query := `
		SELECT id, customer_id, phone, pet_name, service_id, preferred_date, status, created_at, notified_at, offer_expires_at
		FROM waitlist_entries
		WHERE id = $1
	`

	var row waitlistRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get waitlist entry: %w", err)
	}
	return row.toDomain(), nil
}

// FindActive returns active entries for a service, oldest request first.
// The created_at ordering is the FIFO fairness guarantee.
func (r *WaitlistRepo) FindActive(
	ctx context.Context,
	serviceID string,
	limit int,
) ([]*domain.WaitlistEntry, error) {
	query := `
		SELECT id, customer_id, phone, pet_name, service_id, preferred_date, status, created_at, notified_at, offer_expires_at
		FROM waitlist_entries
		WHERE service_id = $1 AND status = 'active'
		ORDER BY created_at ASC
		LIMIT $2
	`

	var rows []waitlistRow
	err := r.db.SelectContext(ctx, &rows, query, serviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find active waitlist entries: %w", err)
	}

	entries := make([]*domain.WaitlistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

// MarkNotified transitions active -> notified. The status predicate makes
// the write a no-op when a concurrent caller already claimed the entry.
func (r *WaitlistRepo) MarkNotified(
	ctx context.Context,
	id string,
	notifiedAt, offerExpiresAt time.Time,
) (bool, error) {
	query := `
		UPDATE waitlist_entries
		SET status = 'notified', notified_at = $2, offer_expires_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	res, err := r.db.ExecContext(ctx, query, id, notifiedAt, offerExpiresAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark entry notified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// MarkExpired transitions notified -> expired_offer.
func (r *WaitlistRepo) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE waitlist_entries
		SET status = 'expired_offer', updated_at = $2
		WHERE id = $1 AND status = 'notified'
	`

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark entry expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// FindExpiredOffers returns notified entries whose claim window has
// passed, oldest deadline first.
func (r *WaitlistRepo) FindExpiredOffers(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*domain.WaitlistEntry, error) {
	query := `
		SELECT id, customer_id, phone, pet_name, service_id, preferred_date, status, created_at, notified_at, offer_expires_at
		FROM waitlist_entries
		WHERE status = 'notified' AND offer_expires_at <= $1
		ORDER BY offer_expires_at ASC
		LIMIT $2
	`

	var rows []waitlistRow
	err := r.db.SelectContext(ctx, &rows, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired offers: %w", err)
	}

	entries := make([]*domain.WaitlistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}
