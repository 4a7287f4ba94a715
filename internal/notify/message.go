package notify

import (
	"fmt"
	"strings"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/schedule"
)

// Diff compares two snapshots of the same lesson field-by-field and
// returns the classification plus one human-readable fragment per changed
// field, in a fixed order (course, lecturer, room, lesson type, date,
// start, end, groups).  An empty message type means nothing changed and no
// notification should be recorded.  When the room is the only difference
// the change is a ROOM_CHANGE; any other combination is a RESCHEDULE.
func Diff(old, curr Snapshot) (msgType string, fragments []string) {
	roomChanged := old.RoomID != curr.RoomID
	otherChanged := false

	if old.CourseID != curr.CourseID {
		fragments = append(fragments, fmt.Sprintf("Course changed to %s (%s)", curr.CourseCode, curr.CourseTitle))
		otherChanged = true
	}
	if old.LecturerID != curr.LecturerID {
		fragments = append(fragments, fmt.Sprintf("Lecturer changed to %s", curr.LecturerName))
		otherChanged = true
	}
	if roomChanged {
		fragments = append(fragments, fmt.Sprintf("Room changed to %s", curr.RoomLabel()))
	}
	if old.LessonType != curr.LessonType {
		fragments = append(fragments, fmt.Sprintf("Lesson type changed to %s", curr.LessonType))
		otherChanged = true
	}
	if old.Date != curr.Date {
		fragments = append(fragments, fmt.Sprintf("Date changed to %s", curr.Date))
		otherChanged = true
	}
	if old.StartsAt != curr.StartsAt {
		fragments = append(fragments, fmt.Sprintf("Start time changed to %s", schedule.ClockHHMM(curr.StartsAt)))
		otherChanged = true
	}
	if old.EndsAt != curr.EndsAt {
		fragments = append(fragments, fmt.Sprintf("End time changed to %s", schedule.ClockHHMM(curr.EndsAt)))
		otherChanged = true
	}
	if !old.sameGroups(curr) {
		fragments = append(fragments, fmt.Sprintf("Groups changed to %s", curr.GroupList()))
		otherChanged = true
	}

	switch {
	case len(fragments) == 0:
		return "", nil
	case roomChanged && !otherChanged:
		return model.MessageRoomChange, fragments
	default:
		return model.MessageReschedule, fragments
	}
}

// baseMessage is the shared prefix of every notification text:
// "Lesson SE101 (Intro to Programming) on 2024-01-10 has been ".
func baseMessage(s Snapshot) string {
	return fmt.Sprintf("Lesson %s (%s) on %s has been ", s.CourseCode, s.CourseTitle, s.Date)
}

// RenderCreated builds the ANNOUNCEMENT text.  It names the subject,
// groups, date, window and room so the message stands on its own.
func RenderCreated(s Snapshot) string {
	return baseMessage(s) + fmt.Sprintf("SCHEDULED. Groups: %s. Time: %s. Room: %s.",
		s.GroupList(), s.Window(), s.RoomLabel())
}

// RenderCancelled builds the CANCELLATION text from the final state of the
// lesson, captured before the row is removed.
func RenderCancelled(s Snapshot) string {
	return baseMessage(s) + fmt.Sprintf("CANCELLED. Groups: %s. Time: %s.", s.GroupList(), s.Window())
}

// RenderUpdated builds the ROOM_CHANGE or RESCHEDULE text from the
// post-update state and the fragments produced by Diff.  Reschedules append
// the new window so recipients see the effective time without parsing the
// fragment list.
func RenderUpdated(curr Snapshot, msgType string, fragments []string) string {
	changes := strings.Join(fragments, ", ")
	if msgType == model.MessageRoomChange {
		return baseMessage(curr) + fmt.Sprintf("moved. Changes: %s.", changes)
	}
	return baseMessage(curr) + fmt.Sprintf("RESCHEDULED. Changes: %s. New time: %s.", changes, curr.Window())
}
