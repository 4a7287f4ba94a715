package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-timetable/internal/schedule"
)

func Test_ParseClock_AcceptsBothForms(t *testing.T) {
	short, err := schedule.ParseClock("09:30")
	require.NoError(t, err)
	long, err := schedule.ParseClock("09:30:00")
	require.NoError(t, err)

	assert.Equal(t, 9*3600+30*60, short)
	assert.Equal(t, short, long)
}

func Test_ParseClock_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "9:3", "25:00", "12:61", "noon", "09-30"} {
		_, err := schedule.ParseClock(in)
		assert.Error(t, err, "input %q", in)
	}
}

func Test_NormalizeClock(t *testing.T) {
	got, err := schedule.NormalizeClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", got, "single-digit hours are canonicalized")

	got, err = schedule.NormalizeClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", got)

	got, err = schedule.NormalizeClock("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", got)

	_, err = schedule.NormalizeClock("24:00")
	assert.Error(t, err)
}

func Test_ClockHHMM(t *testing.T) {
	assert.Equal(t, "09:05", schedule.ClockHHMM("09:05:00"))
	assert.Equal(t, "14:30", schedule.ClockHHMM("14:30"))
	assert.Equal(t, "bogus", schedule.ClockHHMM("bogus"), "malformed input passes through")
}

func Test_NormalizeDate(t *testing.T) {
	got, err := schedule.NormalizeDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", got)

	for _, in := range []string{"", "10.01.2024", "2024-13-01", "2024-02-30"} {
		_, err := schedule.NormalizeDate(in)
		assert.Error(t, err, "input %q", in)
	}
}
