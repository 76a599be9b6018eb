package postgres

import (
	"context"
	"fmt"

	"github.com/pawsuite/notify/internal/core/domain"
)

// NotificationLogRepo implements storage.NotificationLogRepository using
// PostgreSQL.
type NotificationLogRepo struct {
	db *DB
}

// NewNotificationLogRepo creates a new PostgreSQL notification log repository.
func NewNotificationLogRepo(db *DB) *NotificationLogRepo {
	return &NotificationLogRepo{db: db}
}

// Record persists one delivery attempt.
func (r *NotificationLogRepo) Record(ctx context.Context, entry *domain.NotificationLog) error {
	query := `
		INSERT INTO notification_log (id, event, channel, recipient, user_id, success, message_id, error_msg, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		string(entry.Event),
		string(entry.Channel),
		entry.Recipient,
		entry.UserID,
		entry.Success,
		entry.MessageID,
		entry.Error,
		entry.RetryCount,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return nil
}
