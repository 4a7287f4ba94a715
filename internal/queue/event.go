// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationCreatedEvent is published after a lesson mutation commits
// together with its notification record. It carries enough of the
// denormalized snapshot for downstream consumers to log, fan out to push
// delivery, or trigger analytics without querying the primary database.
type NotificationCreatedEvent struct {
	NotificationID uint64 `json:"notification_id"`
	LessonID       uint64 `json:"lesson_id"`
	MessageType    string `json:"message_type"`
	MessageText    string `json:"message_text"`
	CourseCode     string `json:"course_code"`
	CourseTitle    string `json:"course_title"`
	LessonDate     string `json:"lesson_date"`
	LessonTime     string `json:"lesson_time"`
	GroupNames     string `json:"group_names"`
	CreatedAt      string `json:"created_at"`
}
