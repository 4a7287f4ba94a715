package model

import "time"

// Lesson kinds stored in lessons.lesson_type.
const (
	LessonLecture  = "LECTURE"
	LessonTutorial = "TUTORIAL"
	LessonLab      = "LAB"
)

// ValidLessonType reports whether s is one of the accepted lesson kinds.
func ValidLessonType(s string) bool {
	switch s {
	case LessonLecture, LessonTutorial, LessonLab:
		return true
	}
	return false
}

// Lesson is a single scheduled class: one course taught by one lecturer in
// one room to one or more groups, on a single date with an explicit time
// window.  The lesson id is stable across updates, which is what makes
// before/after diffing of "the same lesson" possible.
//
// Dates and clock times are kept in their DB string forms ("2006-01-02" for
// lesson_date, "15:04:05" for starts_at/ends_at, both UTC) and parsed only
// where arithmetic is needed.
//
// Fields:
//  ID         – primary key identifier.
//  CourseID   – course being taught.
//  LecturerID – lecturer giving the lesson (exactly one).
//  RoomID     – room the lesson occupies (exactly one).
//  LessonType – LECTURE, TUTORIAL or LAB.
//  Date       – calendar date ("2006-01-02").
//  StartsAt   – start of the window ("15:04:05").
//  EndsAt     – end of the window ("15:04:05"), strictly after StartsAt.
//  GroupIDs   – assigned cohorts (set semantics, never empty).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Lesson struct {
	ID         uint64    // lessons.id
	CourseID   uint64    // lessons.course_id
	LecturerID uint64    // lessons.lecturer_id
	RoomID     uint64    // lessons.room_id
	LessonType string    // lessons.lesson_type
	Date       string    // lessons.lesson_date
	StartsAt   string    // lessons.starts_at
	EndsAt     string    // lessons.ends_at
	GroupIDs   []uint64  // lesson_groups.group_id
	CreatedAt  time.Time // lessons.created_at
	UpdatedAt  time.Time // lessons.updated_at
}

// LessonDetail is a Lesson joined with the display fields of its course,
// lecturer and room, plus the resolved group names.  List and detail reads
// return this shape; it is also the raw material for notification
// snapshots.
type LessonDetail struct {
	Lesson
	CourseCode   string   // courses.course_code
	CourseTitle  string   // courses.title
	LecturerName string   // lecturers.full_name
	RoomBuilding string   // rooms.building
	RoomHall     string   // rooms.hall
	RoomCapacity int      // rooms.capacity
	GroupNames   []string // student_groups.name, aligned with GroupIDs
}

// RoomLabel renders "building - hall" for messages and payloads.
func (d LessonDetail) RoomLabel() string {
	return d.RoomBuilding + " - " + d.RoomHall
}
