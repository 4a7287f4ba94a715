package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/notify"
)

// snap builds a fully populated snapshot and applies the given mutations,
// so each case spells out only the fields it changes.
func snap(mut ...func(*notify.Snapshot)) notify.Snapshot {
	s := notify.Snapshot{
		LessonID:     7,
		CourseID:     3,
		CourseCode:   "SE101",
		CourseTitle:  "Intro to Programming",
		LecturerID:   11,
		LecturerName: "Dr. Ada Lovelace",
		RoomID:       2,
		RoomBuilding: "Block B",
		RoomHall:     "101",
		LessonType:   model.LessonLecture,
		Date:         "2024-01-10",
		StartsAt:     "09:00:00",
		EndsAt:       "10:30:00",
		GroupIDs:     []uint64{1, 2},
		GroupNames:   []string{"SE401", "BC210"},
	}
	for _, m := range mut {
		m(&s)
	}
	return s
}

func Test_Diff_NoChange(t *testing.T) {
	cases := []struct {
		name string
		curr notify.Snapshot
	}{
		{
			name: "identical_snapshots",
			curr: snap(),
		},
		{
			name: "groups_reordered_same_set",
			curr: snap(func(s *notify.Snapshot) {
				s.GroupIDs = []uint64{2, 1}
				s.GroupNames = []string{"BC210", "SE401"}
			}),
		},
		{
			name: "duplicate_group_ids_same_set",
			curr: snap(func(s *notify.Snapshot) {
				s.GroupIDs = []uint64{1, 2, 2}
			}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msgType, fragments := notify.Diff(snap(), tc.curr)

			assert.Empty(t, msgType)
			assert.Empty(t, fragments)
		})
	}
}

func Test_Diff_RoomOnlyIsRoomChange(t *testing.T) {
	curr := snap(func(s *notify.Snapshot) {
		s.RoomID = 5
		s.RoomBuilding = "Block C"
		s.RoomHall = "204"
	})

	msgType, fragments := notify.Diff(snap(), curr)

	assert.Equal(t, model.MessageRoomChange, msgType)
	assert.Equal(t, []string{"Room changed to Block C - 204"}, fragments)
}

func Test_Diff_AnyOtherChangeIsReschedule(t *testing.T) {
	cases := []struct {
		name          string
		curr          notify.Snapshot
		wantFragments []string
	}{
		{
			name: "date_only",
			curr: snap(func(s *notify.Snapshot) { s.Date = "2024-01-11" }),
			wantFragments: []string{
				"Date changed to 2024-01-11",
			},
		},
		{
			name: "start_and_end_time",
			curr: snap(func(s *notify.Snapshot) {
				s.StartsAt = "13:00:00"
				s.EndsAt = "14:30:00"
			}),
			wantFragments: []string{
				"Start time changed to 13:00",
				"End time changed to 14:30",
			},
		},
		{
			name: "room_plus_time_is_not_a_room_change",
			curr: snap(func(s *notify.Snapshot) {
				s.RoomID = 5
				s.RoomBuilding = "Block C"
				s.RoomHall = "204"
				s.StartsAt = "10:00:00"
			}),
			wantFragments: []string{
				"Room changed to Block C - 204",
				"Start time changed to 10:00",
			},
		},
		{
			name: "groups_only",
			curr: snap(func(s *notify.Snapshot) {
				s.GroupIDs = []uint64{1, 3}
				s.GroupNames = []string{"SE401", "SE402"}
			}),
			wantFragments: []string{
				"Groups changed to SE401, SE402",
			},
		},
		{
			name: "lesson_type_only",
			curr: snap(func(s *notify.Snapshot) { s.LessonType = model.LessonLab }),
			wantFragments: []string{
				"Lesson type changed to LAB",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msgType, fragments := notify.Diff(snap(), tc.curr)

			assert.Equal(t, model.MessageReschedule, msgType)
			assert.Equal(t, tc.wantFragments, fragments)
		})
	}
}

func Test_Diff_FragmentsKeepFieldOrder(t *testing.T) {
	curr := snap(func(s *notify.Snapshot) {
		s.CourseID = 4
		s.CourseCode = "SE200"
		s.CourseTitle = "Data Structures"
		s.LecturerID = 12
		s.LecturerName = "Dr. Grace Hopper"
		s.RoomID = 5
		s.RoomBuilding = "Block C"
		s.RoomHall = "204"
		s.LessonType = model.LessonTutorial
		s.Date = "2024-01-12"
		s.StartsAt = "11:00:00"
		s.EndsAt = "12:00:00"
		s.GroupIDs = []uint64{3}
		s.GroupNames = []string{"SE402"}
	})

	msgType, fragments := notify.Diff(snap(), curr)

	require.Equal(t, model.MessageReschedule, msgType)
	assert.Equal(t, []string{
		"Course changed to SE200 (Data Structures)",
		"Lecturer changed to Dr. Grace Hopper",
		"Room changed to Block C - 204",
		"Lesson type changed to TUTORIAL",
		"Date changed to 2024-01-12",
		"Start time changed to 11:00",
		"End time changed to 12:00",
		"Groups changed to SE402",
	}, fragments)
}

func Test_RenderCreated(t *testing.T) {
	got := notify.RenderCreated(snap())

	assert.Equal(t,
		"Lesson SE101 (Intro to Programming) on 2024-01-10 has been SCHEDULED. "+
			"Groups: BC210, SE401. Time: 09:00 - 10:30. Room: Block B - 101.",
		got)
}

func Test_RenderCancelled(t *testing.T) {
	got := notify.RenderCancelled(snap())

	assert.Equal(t,
		"Lesson SE101 (Intro to Programming) on 2024-01-10 has been CANCELLED. "+
			"Groups: BC210, SE401. Time: 09:00 - 10:30.",
		got)
}

func Test_RenderUpdated(t *testing.T) {
	t.Run("room_change_reads_as_moved", func(t *testing.T) {
		curr := snap(func(s *notify.Snapshot) {
			s.RoomID = 5
			s.RoomBuilding = "Block C"
			s.RoomHall = "204"
		})
		msgType, fragments := notify.Diff(snap(), curr)
		require.Equal(t, model.MessageRoomChange, msgType)

		got := notify.RenderUpdated(curr, msgType, fragments)

		assert.Equal(t,
			"Lesson SE101 (Intro to Programming) on 2024-01-10 has been moved. "+
				"Changes: Room changed to Block C - 204.",
			got)
	})

	t.Run("reschedule_appends_new_window", func(t *testing.T) {
		curr := snap(func(s *notify.Snapshot) {
			s.StartsAt = "13:00:00"
			s.EndsAt = "14:30:00"
		})
		msgType, fragments := notify.Diff(snap(), curr)
		require.Equal(t, model.MessageReschedule, msgType)

		got := notify.RenderUpdated(curr, msgType, fragments)

		assert.Equal(t,
			"Lesson SE101 (Intro to Programming) on 2024-01-10 has been RESCHEDULED. "+
				"Changes: Start time changed to 13:00, End time changed to 14:30. New time: 13:00 - 14:30.",
			got)
	})
}

func Test_SnapshotFromDetail_CopiesSlices(t *testing.T) {
	detail := &model.LessonDetail{
		Lesson: model.Lesson{
			ID:         7,
			CourseID:   3,
			LecturerID: 11,
			RoomID:     2,
			LessonType: model.LessonLecture,
			Date:       "2024-01-10",
			StartsAt:   "09:00:00",
			EndsAt:     "10:30:00",
			GroupIDs:   []uint64{1, 2},
		},
		CourseCode:   "SE101",
		CourseTitle:  "Intro to Programming",
		LecturerName: "Dr. Ada Lovelace",
		RoomBuilding: "Block B",
		RoomHall:     "101",
		RoomCapacity: 40,
		GroupNames:   []string{"SE401", "BC210"},
	}

	got := notify.SnapshotFromDetail(detail)

	detail.GroupIDs[0] = 99
	detail.GroupNames[0] = "mutated"

	assert.Equal(t, []uint64{1, 2}, got.GroupIDs)
	assert.Equal(t, []string{"SE401", "BC210"}, got.GroupNames)
	assert.Equal(t, "Block B - 101", got.RoomLabel())
	assert.Equal(t, "09:00 - 10:30", got.Window())
	assert.Equal(t, "BC210, SE401", got.GroupList())
}
