package model

import "time"

// Notification message types stored in notifications.message_type.
const (
	MessageAnnouncement = "ANNOUNCEMENT"
	MessageReschedule   = "RESCHEDULE"
	MessageRoomChange   = "ROOM_CHANGE"
	MessageCancellation = "CANCELLATION"
)

// Notification is an immutable, append-only record of a schedule change.
// Besides an optional reference to the originating lesson it carries a
// denormalized copy of the lesson-identifying fields taken at event time,
// so the record stays readable after the lesson row is deleted (the
// reference is nulled by the schema, never cascaded).
//
// Fields:
//  ID          – primary key identifier.
//  LessonID    – originating lesson; nil once that lesson is deleted.
//  CourseCode  – snapshot of the course code at event time.
//  CourseTitle – snapshot of the course title at event time.
//  LessonDate  – snapshot of the lesson date ("2006-01-02").
//  LessonTime  – snapshot of the lesson start time ("15:04:05").
//  GroupNames  – snapshot of the assigned group names as a display string
//                (e.g. "SE401, BC210").
//  MessageType – ANNOUNCEMENT, RESCHEDULE, ROOM_CHANGE or CANCELLATION.
//  MessageText – rendered human-readable message.
//  IsSent      – push-dispatch flag; always false in this service, flipped
//                only by an external delivery layer.
//  CreatedAt   – creation timestamp, immutable once set.
type Notification struct {
	ID          uint64    // notifications.id
	LessonID    *uint64   // notifications.lesson_id (nullable)
	CourseCode  string    // notifications.course_code
	CourseTitle string    // notifications.course_title
	LessonDate  string    // notifications.lesson_date
	LessonTime  string    // notifications.lesson_time
	GroupNames  string    // notifications.group_names
	MessageType string    // notifications.message_type
	MessageText string    // notifications.message_text
	IsSent      bool      // notifications.is_sent
	CreatedAt   time.Time // notifications.created_at
	IsRead      bool      // derived per caller: notification_reads presence
}

// NotificationRead is a read receipt: one row per (notification, user)
// pair, enforced by a unique key so concurrent devices of the same user
// cannot create duplicates.  Receipts are never deleted and their read_at
// never changes after the first write.
//
// Fields:
//  ID             – primary key identifier.
//  NotificationID – acknowledged notification.
//  UserID         – acknowledging user.
//  ReadAt         – when the notification was first marked read.
type NotificationRead struct {
	ID             uint64    // notification_reads.id
	NotificationID uint64    // notification_reads.notification_id
	UserID         uint64    // notification_reads.user_id
	ReadAt         time.Time // notification_reads.read_at
}
