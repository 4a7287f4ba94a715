// Package schedule implements the lesson conflict validator: a pure
// function over a proposed lesson and the other lessons of the same date.
// Callers load the candidate set (and the room with its enrolled-student
// total) inside the same transaction that performs the write, so that the
// check-then-act sequence stays atomic; this package itself performs no I/O.
package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/university-timetable/internal/model"
)

// Duration bounds for a single lesson, in minutes.
const (
	MinLessonMinutes = 30
	MaxLessonMinutes = 240
)

// Violation is a single field-tagged validation failure.  Field names match
// the API payload fields so clients can attach messages to inputs.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found for one proposed lesson.
// All checks run before it is returned, so a caller sees the complete set
// of problems at once rather than one per attempt.
type ValidationError struct {
	Violations []Violation
}

// Error joins the violations into a single line, mostly for logs.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "lesson validation failed: " + strings.Join(msgs, "; ")
}

// ByField groups the violation messages by field tag, the shape the API
// returns as {"errors": {field: [messages]}}.
func (e *ValidationError) ByField() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

// Check validates a proposed lesson against the other lessons of the same
// date.  sameDay must already exclude the proposed lesson's own stored row
// when this is an update (rows matching proposed.ID are skipped defensively
// as well).  totalStudents is the summed student count of the proposed
// groups; room supplies the capacity.
//
// The time-validity check gates everything else: duration, capacity and
// overlap are meaningless for an inverted interval.  Past that gate every
// remaining check runs and all violations come back together.  When several
// existing lessons collide on the same dimension the reported one is the
// first under the (date, start time, id) ordering, which keeps messages
// deterministic.
//
// Returns nil when the lesson is acceptable, otherwise a *ValidationError.
func Check(proposed *model.Lesson, room *model.Room, totalStudents int, sameDay []model.LessonDetail) error {
	start, errS := ParseClock(proposed.StartsAt)
	end, errE := ParseClock(proposed.EndsAt)
	if errS != nil || errE != nil || start >= end {
		return &ValidationError{Violations: []Violation{{
			Field:   "ending_time",
			Message: "Lesson ending time must be after starting time.",
		}}}
	}

	var out []Violation

	durMin := (end - start) / 60
	if durMin < MinLessonMinutes {
		out = append(out, Violation{
			Field:   "ending_time",
			Message: "Lesson must be at least 30 minutes long.",
		})
	}
	if durMin > MaxLessonMinutes {
		out = append(out, Violation{
			Field:   "ending_time",
			Message: "Lesson cannot exceed 4 hours.",
		})
	}

	if len(proposed.GroupIDs) > 0 && totalStudents > room.Capacity {
		out = append(out, Violation{
			Field: "room",
			Message: fmt.Sprintf("Room capacity (%d) exceeded. Total students from selected groups: %d",
				room.Capacity, totalStudents),
		})
	}

	others := make([]model.LessonDetail, 0, len(sameDay))
	for _, o := range sameDay {
		if proposed.ID != 0 && o.ID == proposed.ID {
			continue
		}
		others = append(others, o)
	}
	sort.Slice(others, func(i, j int) bool {
		if others[i].Date != others[j].Date {
			return others[i].Date < others[j].Date
		}
		if others[i].StartsAt != others[j].StartsAt {
			return others[i].StartsAt < others[j].StartsAt
		}
		return others[i].ID < others[j].ID
	})

	proposedGroups := make(map[uint64]bool, len(proposed.GroupIDs))
	for _, g := range proposed.GroupIDs {
		proposedGroups[g] = true
	}

	if c := firstOverlap(others, start, end, func(o *model.LessonDetail) bool {
		return o.RoomID == proposed.RoomID
	}); c != nil {
		out = append(out, Violation{
			Field:   "room",
			Message: "This room is already occupied during this time slot." + conflictSuffix(c),
		})
	}

	if c := firstOverlap(others, start, end, func(o *model.LessonDetail) bool {
		return o.LecturerID == proposed.LecturerID
	}); c != nil {
		out = append(out, Violation{
			Field:   "lecturer",
			Message: "This lecturer is already busy during this time slot." + conflictSuffix(c),
		})
	}

	if c := firstOverlap(others, start, end, func(o *model.LessonDetail) bool {
		for _, g := range o.GroupIDs {
			if proposedGroups[g] {
				return true
			}
		}
		return false
	}); c != nil {
		out = append(out, Violation{
			Field:   "groups",
			Message: "One or more of the selected groups already has a lesson during this time slot." + conflictSuffix(c),
		})
	}

	if len(out) == 0 {
		return nil
	}
	return &ValidationError{Violations: out}
}

// firstOverlap returns the first candidate (in the caller's ordering) that
// matches the dimension predicate and overlaps [start, end) under half-open
// semantics: other.start < end AND other.end > start.  Touching endpoints
// do not overlap.
func firstOverlap(others []model.LessonDetail, start, end int, match func(*model.LessonDetail) bool) *model.LessonDetail {
	for i := range others {
		o := &others[i]
		if !match(o) {
			continue
		}
		oStart, err := ParseClock(o.StartsAt)
		if err != nil {
			continue
		}
		oEnd, err := ParseClock(o.EndsAt)
		if err != nil {
			continue
		}
		if oStart < end && oEnd > start {
			return o
		}
	}
	return nil
}

// conflictSuffix names the colliding lesson and its window, e.g.
// " Conflicts with SE101 (09:00 - 10:30)."
func conflictSuffix(o *model.LessonDetail) string {
	return fmt.Sprintf(" Conflicts with %s (%s - %s).",
		o.CourseCode, ClockHHMM(o.StartsAt), ClockHHMM(o.EndsAt))
}
