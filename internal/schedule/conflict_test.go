package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/schedule"
)

func lesson(id uint64, roomID, lecturerID uint64, groups []uint64, start, end string) *model.Lesson {
	return &model.Lesson{
		ID:         id,
		CourseID:   1,
		LecturerID: lecturerID,
		RoomID:     roomID,
		LessonType: model.LessonLecture,
		Date:       "2024-01-10",
		StartsAt:   start,
		EndsAt:     end,
		GroupIDs:   groups,
	}
}

func existing(id uint64, roomID, lecturerID uint64, groups []uint64, start, end, code string) model.LessonDetail {
	return model.LessonDetail{
		Lesson: model.Lesson{
			ID:         id,
			LecturerID: lecturerID,
			RoomID:     roomID,
			Date:       "2024-01-10",
			StartsAt:   start,
			EndsAt:     end,
			GroupIDs:   groups,
		},
		CourseCode: code,
	}
}

func violations(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var vErr *schedule.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.ByField()
}

func Test_Check_TimeValidityGatesEverything(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 30}

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "end_before_start", start: "10:00:00", end: "09:00:00"},
		{name: "end_equals_start", start: "10:00:00", end: "10:00:00"},
		{name: "malformed_start", start: "banana", end: "10:00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// The same-day set and student total would violate capacity and
			// overlap too, but an invalid interval must be the only report.
			sameDay := []model.LessonDetail{
				existing(7, 1, 1, []uint64{1}, "09:00:00", "11:00:00", "SE101"),
			}
			err := schedule.Check(lesson(0, 1, 1, []uint64{1}, tc.start, tc.end), room, 99, sameDay)

			byField := violations(t, err)
			require.Len(t, byField, 1)
			require.Len(t, byField["ending_time"], 1)
			assert.Equal(t, "Lesson ending time must be after starting time.", byField["ending_time"][0])
		})
	}
}

func Test_Check_DurationBounds(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 30}

	tests := []struct {
		name    string
		start   string
		end     string
		message string // empty means accepted
	}{
		{name: "too_short", start: "09:00:00", end: "09:29:00", message: "Lesson must be at least 30 minutes long."},
		{name: "exactly_30_minutes", start: "09:00:00", end: "09:30:00"},
		{name: "exactly_4_hours", start: "09:00:00", end: "13:00:00"},
		{name: "over_4_hours", start: "09:00:00", end: "13:01:00", message: "Lesson cannot exceed 4 hours."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := schedule.Check(lesson(0, 1, 1, []uint64{1}, tc.start, tc.end), room, 10, nil)
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			byField := violations(t, err)
			require.Len(t, byField["ending_time"], 1)
			assert.Equal(t, tc.message, byField["ending_time"][0])
		})
	}
}

func Test_Check_RoomCapacity(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 30}

	err := schedule.Check(lesson(0, 1, 1, []uint64{1, 2}, "09:00:00", "10:30:00"), room, 45, nil)

	byField := violations(t, err)
	require.Len(t, byField["room"], 1)
	assert.Equal(t, "Room capacity (30) exceeded. Total students from selected groups: 45", byField["room"][0])

	// At capacity is fine.
	assert.NoError(t, schedule.Check(lesson(0, 1, 1, []uint64{1, 2}, "09:00:00", "10:30:00"), room, 30, nil))
}

func Test_Check_RoomOverlap(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 30}
	// Booking A from the worked example: room 1, 09:00-10:30.
	sameDay := []model.LessonDetail{
		existing(1, 1, 1, []uint64{1}, "09:00:00", "10:30:00", "SE101"),
	}

	t.Run("overlapping_window_rejected", func(t *testing.T) {
		err := schedule.Check(lesson(0, 1, 2, []uint64{2}, "10:00:00", "11:00:00"), room, 10, sameDay)
		byField := violations(t, err)
		require.Len(t, byField["room"], 1)
		assert.Equal(t,
			"This room is already occupied during this time slot. Conflicts with SE101 (09:00 - 10:30).",
			byField["room"][0])
	})

	t.Run("touching_endpoints_accepted", func(t *testing.T) {
		err := schedule.Check(lesson(0, 1, 2, []uint64{2}, "10:30:00", "11:30:00"), room, 10, sameDay)
		assert.NoError(t, err)
	})

	t.Run("other_room_accepted", func(t *testing.T) {
		err := schedule.Check(lesson(0, 2, 2, []uint64{2}, "10:00:00", "11:00:00"), &model.Room{ID: 2, Capacity: 30}, 10, sameDay)
		assert.NoError(t, err)
	})
}

func Test_Check_LecturerOverlap(t *testing.T) {
	room := &model.Room{ID: 2, Capacity: 30}
	sameDay := []model.LessonDetail{
		existing(1, 1, 5, []uint64{1}, "09:00:00", "10:30:00", "SE101"),
	}

	err := schedule.Check(lesson(0, 2, 5, []uint64{2}, "10:00:00", "11:00:00"), room, 10, sameDay)

	byField := violations(t, err)
	require.Len(t, byField["lecturer"], 1)
	assert.Equal(t,
		"This lecturer is already busy during this time slot. Conflicts with SE101 (09:00 - 10:30).",
		byField["lecturer"][0])
	assert.Empty(t, byField["room"])
}

func Test_Check_GroupOverlap(t *testing.T) {
	room := &model.Room{ID: 2, Capacity: 30}
	sameDay := []model.LessonDetail{
		existing(1, 1, 1, []uint64{3, 4}, "09:00:00", "10:30:00", "SE101"),
	}

	t.Run("intersecting_group_set_rejected", func(t *testing.T) {
		err := schedule.Check(lesson(0, 2, 2, []uint64{4, 9}, "10:00:00", "11:00:00"), room, 10, sameDay)
		byField := violations(t, err)
		require.Len(t, byField["groups"], 1)
		assert.Equal(t,
			"One or more of the selected groups already has a lesson during this time slot. Conflicts with SE101 (09:00 - 10:30).",
			byField["groups"][0])
	})

	t.Run("disjoint_group_sets_accepted", func(t *testing.T) {
		err := schedule.Check(lesson(0, 2, 2, []uint64{9}, "10:00:00", "11:00:00"), room, 10, sameDay)
		assert.NoError(t, err)
	})
}

func Test_Check_ExcludesOwnRow(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 30}
	// The stored state of lesson 42 is still in the candidate set; shifting
	// its own window by five minutes must not conflict with itself.
	sameDay := []model.LessonDetail{
		existing(42, 1, 1, []uint64{1}, "09:00:00", "10:30:00", "SE101"),
	}

	err := schedule.Check(lesson(42, 1, 1, []uint64{1}, "09:05:00", "10:35:00"), room, 10, sameDay)

	assert.NoError(t, err)
}

func Test_Check_AggregatesAllViolations(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 20}
	sameDay := []model.LessonDetail{
		existing(1, 1, 5, []uint64{3}, "09:00:00", "10:30:00", "SE101"),
	}

	// Overlaps on room, lecturer and groups at once, and overfills the room.
	err := schedule.Check(lesson(0, 1, 5, []uint64{3}, "09:30:00", "10:30:00"), room, 45, sameDay)

	byField := violations(t, err)
	assert.Len(t, byField["room"], 2) // capacity + occupancy
	assert.Len(t, byField["lecturer"], 1)
	assert.Len(t, byField["groups"], 1)
}

func Test_Check_DeterministicConflictPick(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 30}
	// Two room conflicts, fed out of order; the earlier window must be the
	// one named in the message.
	sameDay := []model.LessonDetail{
		existing(9, 1, 2, []uint64{2}, "10:00:00", "11:00:00", "MA210"),
		existing(3, 1, 3, []uint64{3}, "09:00:00", "10:30:00", "SE101"),
	}

	err := schedule.Check(lesson(0, 1, 7, []uint64{7}, "09:30:00", "11:30:00"), room, 10, sameDay)

	byField := violations(t, err)
	require.Len(t, byField["room"], 1)
	assert.Contains(t, byField["room"][0], "Conflicts with SE101 (09:00 - 10:30).")
}
