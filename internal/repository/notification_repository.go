package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrNotificationNotFound indicates that a notification was not located,
// or that it exists outside the caller's visibility scope.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepo manages persistence for schedule-change notifications.
// Rows are append-only: nothing updates or deletes them, and the lesson
// reference is nulled by the schema when the lesson goes away.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo constructs a NotificationRepo with the given DB handle.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateTx inserts the notification inside the caller's transaction and
// reads the row back so ID and CreatedAt are populated. The notifier is
// the only writer; it runs on the same transaction as the lesson mutation
// that triggered the record.
func (r *NotificationRepo) CreateTx(ctx context.Context, tx *sql.Tx, n *model.Notification) error {
	const qInsert = `INSERT INTO notifications
               (lesson_id, course_code, course_title, lesson_date, lesson_time, group_names, message_type, message_text, is_sent)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		n.LessonID, n.CourseCode, n.CourseTitle, n.LessonDate, n.LessonTime,
		n.GroupNames, n.MessageType, n.MessageText, n.IsSent)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)

	const qSelect = `SELECT created_at FROM notifications WHERE id = ?`
	return tx.QueryRowContext(ctx, qSelect, n.ID).Scan(&n.CreatedAt)
}

// notificationColumns selects the full row plus a per-caller is_read flag
// derived from the read-receipt table.
const notificationColumns = `
SELECT n.id, n.lesson_id, n.course_code, n.course_title, n.lesson_date, n.lesson_time,
       n.group_names, n.message_type, n.message_text, n.is_sent, n.created_at,
       EXISTS (SELECT 1 FROM notification_reads nr WHERE nr.notification_id = n.id AND nr.user_id = ?)
FROM notifications n`

// ListVisible returns the notifications inside the caller's visibility
// scope, newest first, each carrying the caller's read state. An empty
// scope yields an empty slice without touching the DB.
func (r *NotificationRepo) ListVisible(ctx context.Context, vis model.Visibility, userID uint64) ([]*model.Notification, error) {
	if vis.Scope == model.ScopeNone {
		return nil, nil
	}
	where, args := notificationScopeClause(vis)
	q := notificationColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += ` ORDER BY n.created_at DESC, n.id DESC`
	rows, err := r.db.QueryContext(ctx, q, append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVisibleByID reads one notification provided it falls inside the
// caller's visibility scope. Rows outside the scope answer
// ErrNotificationNotFound, the same as missing rows.
func (r *NotificationRepo) GetVisibleByID(ctx context.Context, id uint64, vis model.Visibility, userID uint64) (*model.Notification, error) {
	if vis.Scope == model.ScopeNone {
		return nil, ErrNotificationNotFound
	}
	where, args := notificationScopeClause(vis)
	where = append([]string{"n.id = ?"}, where...)
	args = append([]any{id}, args...)
	q := notificationColumns + ` WHERE ` + strings.Join(where, " AND ")
	rows, err := r.db.QueryContext(ctx, q, append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotificationNotFound
	}
	return scanNotification(rows)
}

// ListVisibleIDs returns just the ids inside the caller's visibility
// scope. The unread counter diffs this set against the caller's receipts.
func (r *NotificationRepo) ListVisibleIDs(ctx context.Context, vis model.Visibility) ([]uint64, error) {
	if vis.Scope == model.ScopeNone {
		return nil, nil
	}
	where, args := notificationScopeClause(vis)
	q := `SELECT n.id FROM notifications n`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// notificationScopeClause translates a visibility value into WHERE
// fragments. Lecturers match through the live lesson reference, so their
// notifications disappear once the lesson is deleted; students match the
// group-names snapshot with FIND_IN_SET, so theirs survive the deletion
// (cancellation notices included).
func notificationScopeClause(vis model.Visibility) ([]string, []any) {
	switch vis.Scope {
	case model.ScopeLecturer:
		return []string{"n.lesson_id IS NOT NULL",
				"EXISTS (SELECT 1 FROM lessons l WHERE l.id = n.lesson_id AND l.lecturer_id = ?)"},
			[]any{vis.LecturerID}
	case model.ScopeGroup:
		// group_names is stored as "A, B"; normalize the separator for
		// FIND_IN_SET's comma-list matching.
		return []string{"FIND_IN_SET(?, REPLACE(n.group_names, ', ', ',')) > 0"},
			[]any{vis.GroupName}
	}
	return nil, nil
}

func scanNotification(rows *sql.Rows) (*model.Notification, error) {
	var (
		n        model.Notification
		lessonID sql.NullInt64
	)
	err := rows.Scan(
		&n.ID, &lessonID, &n.CourseCode, &n.CourseTitle, &n.LessonDate, &n.LessonTime,
		&n.GroupNames, &n.MessageType, &n.MessageText, &n.IsSent, &n.CreatedAt,
		&n.IsRead,
	)
	if err != nil {
		return nil, err
	}
	if lessonID.Valid {
		id := uint64(lessonID.Int64)
		n.LessonID = &id
	}
	return &n, nil
}
