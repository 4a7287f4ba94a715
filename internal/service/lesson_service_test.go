package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/schedule"
)

func validInput() LessonInput {
	return LessonInput{
		CourseID:   3,
		LecturerID: 11,
		RoomID:     2,
		GroupIDs:   []uint64{2, 1},
		LessonType: "lecture",
		Date:       "2024-01-10",
		StartsAt:   "09:00",
		EndsAt:     "10:30",
	}
}

func storedDetail() *model.LessonDetail {
	return &model.LessonDetail{
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
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var vErr *schedule.ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.ByField()
}

func Test_normalizeInput_CanonicalizesValidInput(t *testing.T) {
	lesson, err := normalizeInput(validInput())
	require.NoError(t, err)

	assert.Equal(t, uint64(3), lesson.CourseID)
	assert.Equal(t, uint64(11), lesson.LecturerID)
	assert.Equal(t, uint64(2), lesson.RoomID)
	assert.Equal(t, model.LessonLecture, lesson.LessonType, "lesson type is upper-cased")
	assert.Equal(t, "2024-01-10", lesson.Date)
	assert.Equal(t, "09:00:00", lesson.StartsAt, "clock values are stored as HH:MM:SS")
	assert.Equal(t, "10:30:00", lesson.EndsAt)
	assert.Equal(t, []uint64{1, 2}, lesson.GroupIDs, "groups are sorted")
}

func Test_normalizeInput_GroupSetSemantics(t *testing.T) {
	in := validInput()
	in.GroupIDs = []uint64{2, 0, 1, 2, 1}

	lesson, err := normalizeInput(in)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, lesson.GroupIDs, "zeroes and duplicates are dropped")
}

func Test_normalizeInput_AggregatesAllViolations(t *testing.T) {
	errs := fieldErrors(t, mustErr(normalizeInput(LessonInput{
		LessonType: "SEMINAR",
		Date:       "10.01.2024",
		StartsAt:   "9am",
		EndsAt:     "later",
	})))

	for _, field := range []string{
		"course", "lecturer", "room", "groups",
		"lesson_type", "date", "starting_time", "ending_time",
	} {
		assert.Contains(t, errs, field)
	}
	assert.Len(t, errs, 8, "every problem is reported in one pass")
}

func Test_normalizeInput_FieldMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LessonInput)
		field   string
		message string
	}{
		{
			name:    "missing_course",
			mutate:  func(in *LessonInput) { in.CourseID = 0 },
			field:   "course",
			message: "Course is required.",
		},
		{
			name:    "missing_lecturer",
			mutate:  func(in *LessonInput) { in.LecturerID = 0 },
			field:   "lecturer",
			message: "Lecturer is required.",
		},
		{
			name:    "missing_room",
			mutate:  func(in *LessonInput) { in.RoomID = 0 },
			field:   "room",
			message: "Room is required.",
		},
		{
			name:    "no_groups",
			mutate:  func(in *LessonInput) { in.GroupIDs = []uint64{0} },
			field:   "groups",
			message: "At least one group must be assigned.",
		},
		{
			name:    "bad_type",
			mutate:  func(in *LessonInput) { in.LessonType = "WORKSHOP" },
			field:   "lesson_type",
			message: "Lesson type must be LECTURE, TUTORIAL or LAB.",
		},
		{
			name:    "bad_date",
			mutate:  func(in *LessonInput) { in.Date = "2024-13-45" },
			field:   "date",
			message: "Date must be a valid YYYY-MM-DD date.",
		},
		{
			name:    "bad_start",
			mutate:  func(in *LessonInput) { in.StartsAt = "25:00" },
			field:   "starting_time",
			message: "Starting time must be a valid HH:MM time.",
		},
		{
			name:    "bad_end",
			mutate:  func(in *LessonInput) { in.EndsAt = "" },
			field:   "ending_time",
			message: "Ending time must be a valid HH:MM time.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			errs := fieldErrors(t, mustErr(normalizeInput(in)))
			require.Contains(t, errs, tc.field)
			assert.Equal(t, []string{tc.message}, errs[tc.field])
			assert.Len(t, errs, 1)
		})
	}
}

func mustErr(_ *model.Lesson, err error) error { return err }

func Test_applyPatch_OmittedFieldsKeepStoredValues(t *testing.T) {
	stored := storedDetail()

	in := applyPatch(stored, LessonPatch{})

	assert.Equal(t, stored.CourseID, in.CourseID)
	assert.Equal(t, stored.LecturerID, in.LecturerID)
	assert.Equal(t, stored.RoomID, in.RoomID)
	assert.Equal(t, stored.GroupIDs, in.GroupIDs)
	assert.Equal(t, stored.LessonType, in.LessonType)
	assert.Equal(t, stored.Date, in.Date)
	assert.Equal(t, stored.StartsAt, in.StartsAt)
	assert.Equal(t, stored.EndsAt, in.EndsAt)
}

func Test_applyPatch_OverridesOnlyProvidedFields(t *testing.T) {
	stored := storedDetail()
	room := uint64(9)
	start := "11:00"

	in := applyPatch(stored, LessonPatch{RoomID: &room, StartsAt: &start})

	assert.Equal(t, uint64(9), in.RoomID)
	assert.Equal(t, "11:00", in.StartsAt)
	assert.Equal(t, stored.CourseID, in.CourseID)
	assert.Equal(t, stored.EndsAt, in.EndsAt)
}

func Test_applyPatch_ReplacesGroupsWholesale(t *testing.T) {
	stored := storedDetail()
	groups := []uint64{5}

	in := applyPatch(stored, LessonPatch{GroupIDs: &groups})

	assert.Equal(t, []uint64{5}, in.GroupIDs)
	assert.Equal(t, []uint64{1, 2}, stored.GroupIDs, "stored detail is not mutated")
}

func Test_applyPatch_CopiesGroupSlices(t *testing.T) {
	stored := storedDetail()

	in := applyPatch(stored, LessonPatch{})
	in.GroupIDs[0] = 99

	assert.Equal(t, []uint64{1, 2}, stored.GroupIDs)
}

func Test_sameLesson(t *testing.T) {
	base := &storedDetail().Lesson

	clone := func(mut func(*model.Lesson)) *model.Lesson {
		l := *base
		l.GroupIDs = append([]uint64(nil), base.GroupIDs...)
		mut(&l)
		return &l
	}

	tests := []struct {
		name   string
		merged *model.Lesson
		want   bool
	}{
		{name: "identical", merged: clone(func(l *model.Lesson) {}), want: true},
		{
			name:   "group_order_is_irrelevant",
			merged: clone(func(l *model.Lesson) { l.GroupIDs = []uint64{2, 1} }),
			want:   true,
		},
		{
			name:   "room_changed",
			merged: clone(func(l *model.Lesson) { l.RoomID = 4 }),
			want:   false,
		},
		{
			name:   "window_changed",
			merged: clone(func(l *model.Lesson) { l.EndsAt = "11:00:00" }),
			want:   false,
		},
		{
			name:   "group_added",
			merged: clone(func(l *model.Lesson) { l.GroupIDs = []uint64{1, 2, 3} }),
			want:   false,
		},
		{
			name:   "group_removed",
			merged: clone(func(l *model.Lesson) { l.GroupIDs = []uint64{1} }),
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sameLesson(base, tc.merged))
		})
	}
}

func Test_dedupeIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{name: "nil", in: nil, want: []uint64{}},
		{name: "drops_zero", in: []uint64{0, 3, 0}, want: []uint64{3}},
		{name: "drops_duplicates", in: []uint64{3, 1, 3, 1}, want: []uint64{1, 3}},
		{name: "sorts", in: []uint64{9, 4, 7}, want: []uint64{4, 7, 9}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dedupeIDs(tc.in))
		})
	}
}
