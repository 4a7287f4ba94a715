package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrLessonNotFound indicates that a lesson was not located in the DB. It
// also answers reads that fall outside the caller's visibility scope, so
// out-of-scope rows are indistinguishable from missing ones.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonRepo manages persistence for lessons and their group assignments.
type LessonRepo struct {
	db *sql.DB
}

// NewLessonRepo constructs a LessonRepo with the given DB handle.
func NewLessonRepo(db *sql.DB) *LessonRepo {
	return &LessonRepo{db: db}
}

// DB exposes the underlying handle so the lesson service can open the
// write transaction that spans validation, mutation and notification.
func (r *LessonRepo) DB() *sql.DB {
	return r.db
}

// selectDetail is the joined projection shared by every lesson read. Date
// and clock columns are formatted in SQL so they scan into the string
// forms the domain works with; group ids and names are aggregated in a
// stable name order so the two lists stay aligned.
const selectDetail = `
SELECT l.id, l.course_id, l.lecturer_id, l.room_id, l.lesson_type,
       DATE_FORMAT(l.lesson_date, '%Y-%m-%d'),
       TIME_FORMAT(l.starts_at, '%H:%i:%s'),
       TIME_FORMAT(l.ends_at, '%H:%i:%s'),
       l.created_at, l.updated_at,
       c.course_code, c.title,
       lec.full_name,
       r.building, r.hall, r.capacity,
       GROUP_CONCAT(g.id ORDER BY g.name SEPARATOR ','),
       GROUP_CONCAT(g.name ORDER BY g.name SEPARATOR ',')
FROM lessons l
JOIN courses c ON c.id = l.course_id
JOIN lecturers lec ON lec.id = l.lecturer_id
JOIN rooms r ON r.id = l.room_id
JOIN lesson_groups lg ON lg.lesson_id = l.id
JOIN student_groups g ON g.id = lg.group_id`

// CreateTx inserts the lesson row and its group assignments inside the
// caller's transaction and assigns the generated ID back to the struct.
func (r *LessonRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	const q = `INSERT INTO lessons (course_id, lecturer_id, room_id, lesson_type, lesson_date, starts_at, ends_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		l.CourseID, l.LecturerID, l.RoomID, l.LessonType, l.Date, l.StartsAt, l.EndsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return r.insertGroupsTx(ctx, tx, l.ID, l.GroupIDs)
}

// UpdateTx rewrites the lesson row and replaces its group assignments
// inside the caller's transaction. The service only calls it after the
// merged values were found to differ from the stored ones.
func (r *LessonRepo) UpdateTx(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	const q = `UPDATE lessons
               SET course_id = ?, lecturer_id = ?, room_id = ?, lesson_type = ?,
                   lesson_date = ?, starts_at = ?, ends_at = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := tx.ExecContext(ctx, q,
		l.CourseID, l.LecturerID, l.RoomID, l.LessonType, l.Date, l.StartsAt, l.EndsAt, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLessonNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_groups WHERE lesson_id = ?`, l.ID); err != nil {
		return err
	}
	return r.insertGroupsTx(ctx, tx, l.ID, l.GroupIDs)
}

// DeleteTx removes the lesson and its group assignments inside the
// caller's transaction. The cancellation notification must already be
// recorded when this runs; the notifications FK nulls its lesson
// reference as part of this delete.
func (r *LessonRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_groups WHERE lesson_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepo) insertGroupsTx(ctx context.Context, tx *sql.Tx, lessonID uint64, groupIDs []uint64) error {
	if len(groupIDs) == 0 {
		return nil
	}
	q := `INSERT INTO lesson_groups (lesson_id, group_id) VALUES ` +
		strings.TrimSuffix(strings.Repeat("(?, ?), ", len(groupIDs)), ", ")
	args := make([]any, 0, len(groupIDs)*2)
	for _, gid := range groupIDs {
		args = append(args, lessonID, gid)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// GetDetailTx reads the joined detail of one lesson on the caller's
// transaction. It returns ErrLessonNotFound if the lesson doesn't exist.
func (r *LessonRepo) GetDetailTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.LessonDetail, error) {
	q := selectDetail + ` WHERE l.id = ? GROUP BY l.id`
	rows, err := tx.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	details, err := collectLessonDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrLessonNotFound
	}
	return &details[0], nil
}

// GetDetailForUpdateTx locks the lesson row with SELECT ... FOR UPDATE and
// then reads its joined detail. Update and delete lock the row first so
// the captured pre-change snapshot cannot be invalidated by a concurrent
// writer between capture and mutation.
func (r *LessonRepo) GetDetailForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.LessonDetail, error) {
	var locked uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM lessons WHERE id = ? FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return r.GetDetailTx(ctx, tx, id)
}

// ListOnDateTx reads every lesson scheduled on the given date, on the
// caller's transaction. The conflict validator consumes this as its
// candidate set after the resource rows have been locked.
func (r *LessonRepo) ListOnDateTx(ctx context.Context, tx *sql.Tx, date string) ([]model.LessonDetail, error) {
	q := selectDetail + ` WHERE l.lesson_date = ? GROUP BY l.id ORDER BY l.starts_at, l.id`
	rows, err := tx.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	return collectLessonDetails(rows)
}

// ListVisible returns the lessons inside the caller's visibility scope,
// optionally restricted to a single date, ordered chronologically. An
// empty scope yields an empty slice without touching the DB.
func (r *LessonRepo) ListVisible(ctx context.Context, vis model.Visibility, date string) ([]model.LessonDetail, error) {
	if vis.Scope == model.ScopeNone {
		return nil, nil
	}
	where, args := lessonScopeClause(vis)
	if date != "" {
		where = append(where, "l.lesson_date = ?")
		args = append(args, date)
	}
	q := selectDetail
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += ` GROUP BY l.id ORDER BY l.lesson_date, l.starts_at, l.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectLessonDetails(rows)
}

// GetVisibleDetail reads one lesson provided it falls inside the caller's
// visibility scope. Rows outside the scope answer ErrLessonNotFound, the
// same as missing rows.
func (r *LessonRepo) GetVisibleDetail(ctx context.Context, id uint64, vis model.Visibility) (*model.LessonDetail, error) {
	if vis.Scope == model.ScopeNone {
		return nil, ErrLessonNotFound
	}
	where, args := lessonScopeClause(vis)
	where = append([]string{"l.id = ?"}, where...)
	args = append([]any{id}, args...)
	q := selectDetail + ` WHERE ` + strings.Join(where, " AND ") + ` GROUP BY l.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	details, err := collectLessonDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrLessonNotFound
	}
	return &details[0], nil
}

// lessonScopeClause translates a visibility value into WHERE fragments.
// The group variant matches through an EXISTS subquery rather than the
// joined lesson_groups alias, so filtering never drops the other groups
// from the aggregated columns.
func lessonScopeClause(vis model.Visibility) ([]string, []any) {
	switch vis.Scope {
	case model.ScopeLecturer:
		return []string{"l.lecturer_id = ?"}, []any{vis.LecturerID}
	case model.ScopeGroup:
		return []string{"EXISTS (SELECT 1 FROM lesson_groups x WHERE x.lesson_id = l.id AND x.group_id = ?)"},
			[]any{vis.GroupID}
	}
	return nil, nil
}

func collectLessonDetails(rows *sql.Rows) ([]model.LessonDetail, error) {
	defer rows.Close()

	var out []model.LessonDetail
	for rows.Next() {
		var (
			d          model.LessonDetail
			groupIDs   string
			groupNames string
		)
		err := rows.Scan(
			&d.ID, &d.CourseID, &d.LecturerID, &d.RoomID, &d.LessonType,
			&d.Date, &d.StartsAt, &d.EndsAt,
			&d.CreatedAt, &d.UpdatedAt,
			&d.CourseCode, &d.CourseTitle,
			&d.LecturerName,
			&d.RoomBuilding, &d.RoomHall, &d.RoomCapacity,
			&groupIDs, &groupNames,
		)
		if err != nil {
			return nil, err
		}
		ids, err := splitIDs(groupIDs)
		if err != nil {
			return nil, err
		}
		d.GroupIDs = ids
		d.GroupNames = strings.Split(groupNames, ",")
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func splitIDs(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
