package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/university-timetable/internal/model"
)

// NotificationReadRepo manages read receipts. A receipt is one row per
// (notification, user) pair guarded by a unique key; rows are never
// updated or deleted, so read_at keeps the instant of the first mark.
type NotificationReadRepo struct {
	db *sql.DB
}

// NewNotificationReadRepo constructs a NotificationReadRepo with the given
// DB handle.
func NewNotificationReadRepo(db *sql.DB) *NotificationReadRepo {
	return &NotificationReadRepo{db: db}
}

// MarkRead records that the user has read the notification and returns
// the receipt plus whether this call created it. INSERT IGNORE makes the
// operation idempotent under the unique key: replays and concurrent
// devices collapse onto the first receipt, whose read_at never moves.
func (r *NotificationReadRepo) MarkRead(ctx context.Context, notificationID, userID uint64) (*model.NotificationRead, bool, error) {
	const qInsert = `INSERT IGNORE INTO notification_reads (notification_id, user_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, notificationID, userID)
	if err != nil {
		return nil, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	created := affected > 0

	const qSelect = `SELECT id, notification_id, user_id, read_at
               FROM notification_reads
               WHERE notification_id = ? AND user_id = ?`
	var receipt model.NotificationRead
	err = r.db.QueryRowContext(ctx, qSelect, notificationID, userID).
		Scan(&receipt.ID, &receipt.NotificationID, &receipt.UserID, &receipt.ReadAt)
	if err != nil {
		return nil, false, err
	}
	return &receipt, created, nil
}

// CountUnread returns how many of the given visible notifications the
// user has not read: the size of the visible set minus the receipts the
// user holds within it. Receipts for notifications outside the set never
// distort the count.
func (r *NotificationReadRepo) CountUnread(ctx context.Context, userID uint64, visibleIDs []uint64) (int, error) {
	if len(visibleIDs) == 0 {
		return 0, nil
	}
	q := `SELECT COUNT(*) FROM notification_reads
               WHERE user_id = ? AND notification_id IN (` + placeholders(len(visibleIDs)) + `)`
	args := append([]any{userID}, idArgs(visibleIDs)...)
	var read int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&read); err != nil {
		return 0, err
	}
	return len(visibleIDs) - read, nil
}
