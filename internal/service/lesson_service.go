// Package service orchestrates lesson writes. Each mutation runs as one
// transaction spanning authorization, resource locking, conflict
// validation, the write itself and its notification record; the broker
// publish happens strictly after commit and never affects the outcome.
package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/university-timetable/internal/model"
	"github.com/iliyamo/university-timetable/internal/notify"
	"github.com/iliyamo/university-timetable/internal/queue"
	"github.com/iliyamo/university-timetable/internal/repository"
	"github.com/iliyamo/university-timetable/internal/schedule"
)

// LessonService coordinates the repositories and the notifier for lesson
// creates, updates and deletes.
type LessonService struct {
	lessons   *repository.LessonRepo
	rooms     *repository.RoomRepo
	courses   *repository.CourseRepo
	groups    *repository.GroupRepo
	lecturers *repository.LecturerRepo
	notifier  *notify.Notifier
}

// NewLessonService wires the service to its repositories and the notifier.
func NewLessonService(
	lessons *repository.LessonRepo,
	rooms *repository.RoomRepo,
	courses *repository.CourseRepo,
	groups *repository.GroupRepo,
	lecturers *repository.LecturerRepo,
	notifier *notify.Notifier,
) *LessonService {
	return &LessonService{
		lessons:   lessons,
		rooms:     rooms,
		courses:   courses,
		groups:    groups,
		lecturers: lecturers,
		notifier:  notifier,
	}
}

// LessonInput is the full set of writable lesson fields as they arrive
// from the API, prior to normalization.
type LessonInput struct {
	CourseID   uint64
	LecturerID uint64
	RoomID     uint64
	GroupIDs   []uint64
	LessonType string
	Date       string
	StartsAt   string
	EndsAt     string
}

// LessonPatch is a partial update: nil fields keep their stored values.
// GroupIDs, when present, replaces the assignment set wholesale.
type LessonPatch struct {
	CourseID   *uint64
	LecturerID *uint64
	RoomID     *uint64
	GroupIDs   *[]uint64
	LessonType *string
	Date       *string
	StartsAt   *string
	EndsAt     *string
}

// Create validates and schedules a new lesson, records its ANNOUNCEMENT
// notification in the same transaction, and publishes the broker event
// after commit. Validation failures come back as *schedule.ValidationError
// with every violation at once.
func (s *LessonService) Create(ctx context.Context, actor model.Actor, in LessonInput) (*model.LessonDetail, error) {
	lesson, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageLesson(lesson.LecturerID) {
		return nil, repository.ErrForbidden
	}

	tx, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, total, sameDay, err := s.lockAndLoad(ctx, tx, lesson, 0)
	if err != nil {
		return nil, err
	}
	if err := schedule.Check(lesson, room, total, sameDay); err != nil {
		return nil, err
	}
	if err := s.lessons.CreateTx(ctx, tx, lesson); err != nil {
		return nil, err
	}
	detail, err := s.lessons.GetDetailTx(ctx, tx, lesson.ID)
	if err != nil {
		return nil, err
	}
	notif, err := s.notifier.RecordCreateTx(ctx, tx, notify.SnapshotFromDetail(detail))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.publish(notif, detail.ID)
	return detail, nil
}

// Update applies a partial update to a lesson. The stored row is locked
// and snapshotted before any value changes; the snapshot diff decides
// whether a ROOM_CHANGE or RESCHEDULE notification is recorded. An update
// that changes nothing writes nothing and records nothing.
func (s *LessonService) Update(ctx context.Context, actor model.Actor, id uint64, patch LessonPatch) (*model.LessonDetail, error) {
	tx, err := s.beginWrite(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stored, err := s.lessons.GetDetailForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageLesson(stored.LecturerID) {
		return nil, repository.ErrForbidden
	}

	lesson, err := normalizeInput(applyPatch(stored, patch))
	if err != nil {
		return nil, err
	}
	lesson.ID = id
	// Handing the lesson to another lecturer stays admin-only.
	if !actor.CanManageLesson(lesson.LecturerID) {
		return nil, repository.ErrForbidden
	}
	if sameLesson(&stored.Lesson, lesson) {
		return stored, nil
	}

	// The pre-change state, captured strictly before the write.
	old := notify.SnapshotFromDetail(stored)

	room, total, sameDay, err := s.lockAndLoad(ctx, tx, lesson, id)
	if err != nil {
		return nil, err
	}
	if err := schedule.Check(lesson, room, total, sameDay); err != nil {
		return nil, err
	}
	if err := s.lessons.UpdateTx(ctx, tx, lesson); err != nil {
		return nil, err
	}
	detail, err := s.lessons.GetDetailTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	notif, err := s.notifier.RecordUpdateTx(ctx, tx, old, notify.SnapshotFromDetail(detail))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	if notif != nil {
		s.publish(notif, detail.ID)
	}
	return detail, nil
}

// Delete removes a lesson. The CANCELLATION notification is recorded
// before the DELETE, while the lesson row still exists for the foreign
// key; the schema then nulls the reference as part of the same delete.
func (s *LessonService) Delete(ctx context.Context, actor model.Actor, id uint64) error {
	tx, err := s.beginWrite(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stored, err := s.lessons.GetDetailForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if !actor.CanManageLesson(stored.LecturerID) {
		return repository.ErrForbidden
	}

	notif, err := s.notifier.RecordDeleteTx(ctx, tx, notify.SnapshotFromDetail(stored))
	if err != nil {
		return err
	}
	if err := s.lessons.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	s.publish(notif, id)
	return nil
}

// beginWrite opens the write transaction at READ COMMITTED. The resource
// row locks serialize same-resource writers; READ COMMITTED makes the
// candidate read that follows the locks see the winner's committed rows
// rather than a snapshot taken before the lock wait.
func (s *LessonService) beginWrite(ctx context.Context) (*sql.Tx, error) {
	return s.lessons.DB().BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// lockAndLoad verifies the referenced course, locks the room, lecturer and
// group rows (in that fixed order, groups ascending by id) and then loads
// the student total and the same-date candidate set for validation.
// excludeID drops the lesson's own stored row from the candidates on
// updates; zero means a create.
func (s *LessonService) lockAndLoad(ctx context.Context, tx *sql.Tx, lesson *model.Lesson, excludeID uint64) (*model.Room, int, []model.LessonDetail, error) {
	if _, err := s.courses.GetByIDTx(ctx, tx, lesson.CourseID); err != nil {
		return nil, 0, nil, err
	}
	room, err := s.rooms.GetForUpdateTx(ctx, tx, lesson.RoomID)
	if err != nil {
		return nil, 0, nil, err
	}
	if _, err := s.lecturers.GetForUpdateTx(ctx, tx, lesson.LecturerID); err != nil {
		return nil, 0, nil, err
	}
	if _, err := s.groups.LockByIDsTx(ctx, tx, lesson.GroupIDs); err != nil {
		return nil, 0, nil, err
	}
	total, err := s.groups.CountStudentsTx(ctx, tx, lesson.GroupIDs)
	if err != nil {
		return nil, 0, nil, err
	}
	sameDay, err := s.lessons.ListOnDateTx(ctx, tx, lesson.Date)
	if err != nil {
		return nil, 0, nil, err
	}
	if excludeID != 0 {
		kept := sameDay[:0]
		for _, d := range sameDay {
			if d.ID != excludeID {
				kept = append(kept, d)
			}
		}
		sameDay = kept
	}
	return room, total, sameDay, nil
}

// publish hands the committed notification to the broker without blocking
// the request. A failed publish only logs; the DB record is the source of
// truth and the consumer can replay from it.
func (s *LessonService) publish(n *model.Notification, lessonID uint64) {
	ev := queue.NotificationCreatedEvent{
		NotificationID: n.ID,
		LessonID:       lessonID,
		MessageType:    n.MessageType,
		MessageText:    n.MessageText,
		CourseCode:     n.CourseCode,
		CourseTitle:    n.CourseTitle,
		LessonDate:     n.LessonDate,
		LessonTime:     n.LessonTime,
		GroupNames:     n.GroupNames,
		CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() { _ = PublishNotificationCreated(context.Background(), ev) }()
}

// normalizeInput turns raw input into a storable lesson. Field problems
// are aggregated into one *schedule.ValidationError so the caller sees
// every input error at once, the same shape the conflict checks use.
func normalizeInput(in LessonInput) (*model.Lesson, error) {
	var violations []schedule.Violation
	add := func(field, msg string) {
		violations = append(violations, schedule.Violation{Field: field, Message: msg})
	}

	if in.CourseID == 0 {
		add("course", "Course is required.")
	}
	if in.LecturerID == 0 {
		add("lecturer", "Lecturer is required.")
	}
	if in.RoomID == 0 {
		add("room", "Room is required.")
	}

	groupIDs := dedupeIDs(in.GroupIDs)
	if len(groupIDs) == 0 {
		add("groups", "At least one group must be assigned.")
	}

	lessonType := strings.ToUpper(strings.TrimSpace(in.LessonType))
	if !model.ValidLessonType(lessonType) {
		add("lesson_type", "Lesson type must be LECTURE, TUTORIAL or LAB.")
	}

	date, err := schedule.NormalizeDate(in.Date)
	if err != nil {
		add("date", "Date must be a valid YYYY-MM-DD date.")
	}
	startsAt, err := schedule.NormalizeClock(in.StartsAt)
	if err != nil {
		add("starting_time", "Starting time must be a valid HH:MM time.")
	}
	endsAt, err := schedule.NormalizeClock(in.EndsAt)
	if err != nil {
		add("ending_time", "Ending time must be a valid HH:MM time.")
	}

	if len(violations) > 0 {
		return nil, &schedule.ValidationError{Violations: violations}
	}
	return &model.Lesson{
		CourseID:   in.CourseID,
		LecturerID: in.LecturerID,
		RoomID:     in.RoomID,
		LessonType: lessonType,
		Date:       date,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		GroupIDs:   groupIDs,
	}, nil
}

// applyPatch merges a partial update over the stored lesson and returns
// the effective input. Omitted fields keep their stored values.
func applyPatch(stored *model.LessonDetail, p LessonPatch) LessonInput {
	in := LessonInput{
		CourseID:   stored.CourseID,
		LecturerID: stored.LecturerID,
		RoomID:     stored.RoomID,
		GroupIDs:   append([]uint64(nil), stored.GroupIDs...),
		LessonType: stored.LessonType,
		Date:       stored.Date,
		StartsAt:   stored.StartsAt,
		EndsAt:     stored.EndsAt,
	}
	if p.CourseID != nil {
		in.CourseID = *p.CourseID
	}
	if p.LecturerID != nil {
		in.LecturerID = *p.LecturerID
	}
	if p.RoomID != nil {
		in.RoomID = *p.RoomID
	}
	if p.GroupIDs != nil {
		in.GroupIDs = append([]uint64(nil), (*p.GroupIDs)...)
	}
	if p.LessonType != nil {
		in.LessonType = *p.LessonType
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
	if p.StartsAt != nil {
		in.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		in.EndsAt = *p.EndsAt
	}
	return in
}

// sameLesson reports whether the merged values equal the stored ones,
// groups compared as sets. A no-op update skips the write entirely: no
// rows change, no notification is recorded and updated_at stays put.
func sameLesson(stored *model.Lesson, merged *model.Lesson) bool {
	if stored.CourseID != merged.CourseID ||
		stored.LecturerID != merged.LecturerID ||
		stored.RoomID != merged.RoomID ||
		stored.LessonType != merged.LessonType ||
		stored.Date != merged.Date ||
		stored.StartsAt != merged.StartsAt ||
		stored.EndsAt != merged.EndsAt {
		return false
	}
	return sameIDSet(stored.GroupIDs, merged.GroupIDs)
}

func sameIDSet(a, b []uint64) bool {
	set := make(map[uint64]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	if len(set) != len(b) {
		return false
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

// dedupeIDs drops zeroes and duplicates and returns a sorted copy, giving
// group assignments set semantics with a deterministic insert order.
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
