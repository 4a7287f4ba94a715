// Package notify implements the change-tracking notifier.  Every lesson
// mutation records exactly one notification (updates that change nothing
// record none) built from immutable snapshots of the lesson state, so the
// record stays meaningful after the lesson itself is deleted.  Snapshots
// are passed in explicitly by the write path; this package keeps no state
// between calls.
package notify

import (
	"sort"
	"strings"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/schedule"
)

// Snapshot is a copy of a lesson's field values plus the display data
// needed to render messages, taken at a specific instant.  For updates one
// snapshot is captured strictly before the write and one after; for
// creates and deletes a single snapshot of the current state suffices.
type Snapshot struct {
	LessonID     uint64
	CourseID     uint64
	CourseCode   string
	CourseTitle  string
	LecturerID   uint64
	LecturerName string
	RoomID       uint64
	RoomBuilding string
	RoomHall     string
	LessonType   string
	Date         string // "2006-01-02"
	StartsAt     string // "15:04:05"
	EndsAt       string // "15:04:05"
	GroupIDs     []uint64
	GroupNames   []string
}

// SnapshotFromDetail copies a joined lesson read into a Snapshot.  Slices
// are duplicated so later mutations of the source cannot bleed into a
// captured snapshot.
func SnapshotFromDetail(d *model.LessonDetail) Snapshot {
	s := Snapshot{
		LessonID:     d.ID,
		CourseID:     d.CourseID,
		CourseCode:   d.CourseCode,
		CourseTitle:  d.CourseTitle,
		LecturerID:   d.LecturerID,
		LecturerName: d.LecturerName,
		RoomID:       d.RoomID,
		RoomBuilding: d.RoomBuilding,
		RoomHall:     d.RoomHall,
		LessonType:   d.LessonType,
		Date:         d.Date,
		StartsAt:     d.StartsAt,
		EndsAt:       d.EndsAt,
		GroupIDs:     append([]uint64(nil), d.GroupIDs...),
		GroupNames:   append([]string(nil), d.GroupNames...),
	}
	return s
}

// RoomLabel renders "building - hall".
func (s Snapshot) RoomLabel() string {
	return s.RoomBuilding + " - " + s.RoomHall
}

// GroupList renders the group names as the display string persisted on the
// notification, e.g. "SE401, BC210".  Names are sorted so the same group
// set always renders identically regardless of assignment order.
func (s Snapshot) GroupList() string {
	names := append([]string(nil), s.GroupNames...)
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Window renders the time window as "09:00 - 10:30".
func (s Snapshot) Window() string {
	return schedule.ClockHHMM(s.StartsAt) + " - " + schedule.ClockHHMM(s.EndsAt)
}

// sameGroups compares the group assignments as sets: order and duplicates
// are irrelevant.
func (s Snapshot) sameGroups(other Snapshot) bool {
	a := make(map[uint64]bool, len(s.GroupIDs))
	for _, id := range s.GroupIDs {
		a[id] = true
	}
	b := make(map[uint64]bool, len(other.GroupIDs))
	for _, id := range other.GroupIDs {
		b[id] = true
	}
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
