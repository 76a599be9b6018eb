package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsuite/notify/internal/infra/storage"
)

var reportCardColumns = []string{
	"id", "appointment_id", "customer_id", "pet_name",
	"is_draft", "do_not_send", "sent_at", "created_at",
}

func TestReportCardRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportCardRepo(db)
	created := time.Date(2025, 12, 19, 16, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(reportCardColumns).
		AddRow("rc-1", "appt-1", "c-1", "Biscuit", false, false, nil, created)

	mock.ExpectQuery("SELECT id, appointment_id, customer_id, pet_name, is_draft, do_not_send, sent_at, created_at").
		WithArgs("rc-1").
		WillReturnRows(rows)

	rc, err := repo.GetByID(context.Background(), "rc-1")
	require.NoError(t, err)
	assert.Equal(t, "rc-1", rc.ID)
	assert.False(t, rc.IsDraft)
	assert.Nil(t, rc.SentAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCardRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportCardRepo(db)

	mock.ExpectQuery("SELECT id, appointment_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCardRepo_MarkSent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportCardRepo(db)
	ctx := context.Background()
	at := time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC)

	t.Run("Applied", func(t *testing.T) {
		mock.ExpectExec("UPDATE report_cards").
			WithArgs("rc-1", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := repo.MarkSent(ctx, "rc-1", at)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("AlreadyStamped", func(t *testing.T) {
		mock.ExpectExec("UPDATE report_cards").
			WithArgs("rc-1", at).
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := repo.MarkSent(ctx, "rc-1", at)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
