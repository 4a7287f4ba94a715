package notify

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/repository"
)

// ErrIncompleteSnapshot reports a snapshot whose display fields are missing
// (for example an empty course code behind a real course id).  That state
// means the joined read feeding the snapshot went wrong; recording a
// notification from it would persist an unreadable message, so the whole
// mutation is rolled back instead.
var ErrIncompleteSnapshot = errors.New("notification snapshot is missing lesson display fields")

// Notifier records lesson-change notifications.  All writes run on the
// caller's transaction: a notification only exists if its triggering
// mutation commits, and a committed mutation never lacks its notification.
type Notifier struct {
	notifications *repository.NotificationRepo
}

// NewNotifier wires the notifier to the notification repository.
func NewNotifier(n *repository.NotificationRepo) *Notifier {
	return &Notifier{notifications: n}
}

// RecordCreateTx persists the ANNOUNCEMENT for a newly created lesson.
func (n *Notifier) RecordCreateTx(ctx context.Context, tx *sql.Tx, snap Snapshot) (*model.Notification, error) {
	return n.record(ctx, tx, snap, model.MessageAnnouncement, RenderCreated(snap))
}

// RecordUpdateTx diffs the pre-write snapshot against the post-write state
// and persists a ROOM_CHANGE or RESCHEDULE notification.  When nothing
// changed it returns (nil, nil) and persists nothing.
func (n *Notifier) RecordUpdateTx(ctx context.Context, tx *sql.Tx, old, curr Snapshot) (*model.Notification, error) {
	msgType, fragments := Diff(old, curr)
	if msgType == "" {
		return nil, nil
	}
	return n.record(ctx, tx, curr, msgType, RenderUpdated(curr, msgType, fragments))
}

// RecordDeleteTx persists the CANCELLATION for a lesson about to be
// removed.  It must run strictly before the DELETE so the foreign key
// reference is still valid at insert time; the schema nulls it when the
// lesson row goes away.
func (n *Notifier) RecordDeleteTx(ctx context.Context, tx *sql.Tx, snap Snapshot) (*model.Notification, error) {
	return n.record(ctx, tx, snap, model.MessageCancellation, RenderCancelled(snap))
}

func (n *Notifier) record(ctx context.Context, tx *sql.Tx, snap Snapshot, msgType, text string) (*model.Notification, error) {
	if snap.CourseCode == "" || snap.Date == "" {
		return nil, ErrIncompleteSnapshot
	}
	lessonID := snap.LessonID
	notif := &model.Notification{
		LessonID:    &lessonID,
		CourseCode:  snap.CourseCode,
		CourseTitle: snap.CourseTitle,
		LessonDate:  snap.Date,
		LessonTime:  snap.StartsAt,
		GroupNames:  snap.GroupList(),
		MessageType: msgType,
		MessageText: text,
		IsSent:      false,
	}
	if err := n.notifications.CreateTx(ctx, tx, notif); err != nil {
		return nil, err
	}
	return notif, nil
}
