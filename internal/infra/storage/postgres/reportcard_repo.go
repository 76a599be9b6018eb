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

// ReportCardRepo implements storage.ReportCardRepository using PostgreSQL.
type ReportCardRepo struct {
	db *DB
}

// NewReportCardRepo creates a new PostgreSQL report card repository.
func NewReportCardRepo(db *DB) *ReportCardRepo {
	return &ReportCardRepo{db: db}
}

// GetByID retrieves a report card by id.
func (r *ReportCardRepo) GetByID(ctx context.Context, id string) (*domain.ReportCard, error) {
	query := `
		SELECT id, appointment_id, customer_id, pet_name, is_draft, do_not_send, sent_at, created_at
		FROM report_cards
		WHERE id = $1
	`

	var row struct {
		ID            string       `db:"id"`
		AppointmentID string       `db:"appointment_id"`
		CustomerID    string       `db:"customer_id"`
		PetName       string       `db:"pet_name"`
		IsDraft       bool         `db:"is_draft"`
		DoNotSend     bool         `db:"do_not_send"`
		SentAt        sql.NullTime `db:"sent_at"`
		CreatedAt     time.Time    `db:"created_at"`
	}

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report card: %w", err)
	}

	rc := &domain.ReportCard{
		ID:            row.ID,
		AppointmentID: row.AppointmentID,
		CustomerID:    row.CustomerID,
		PetName:       row.PetName,
		IsDraft:       row.IsDraft,
		DoNotSend:     row.DoNotSend,
		CreatedAt:     row.CreatedAt,
	}
	if row.SentAt.Valid {
		t := row.SentAt.Time
		rc.SentAt = &t
	}
	return rc, nil
}

// MarkSent stamps sent_at only while it is still null. The null predicate
// is what keeps a retry racing a fresh trigger from writing twice.
func (r *ReportCardRepo) MarkSent(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE report_cards
		SET sent_at = $2
		WHERE id = $1 AND sent_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark report card sent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
