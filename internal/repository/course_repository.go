package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrCourseNotFound indicates that a course was not located in the DB.
var ErrCourseNotFound = errors.New("course not found")

// ErrCourseExists indicates the course code is already taken.
var ErrCourseExists = errors.New("course already exists")

// CourseRepo manages persistence for courses.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo constructs a CourseRepo with the given DB handle.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create inserts a new course and assigns the generated ID back to the
// struct, then reads the row back so timestamps are populated.
func (r *CourseRepo) Create(ctx context.Context, course *model.Course) error {
	const qInsert = `INSERT INTO courses (course_code, title, credits) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, course.CourseCode, course.Title, course.Credits)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCourseExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	course.ID = uint64(id)

	const qSelect = `SELECT id, course_code, title, credits, created_at, updated_at FROM courses WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, course.ID).
		Scan(&course.ID, &course.CourseCode, &course.Title, &course.Credits, &course.CreatedAt, &course.UpdatedAt)
}

// GetByID retrieves a course by its ID. It returns ErrCourseNotFound if
// there is no matching row.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	const q = `SELECT id, course_code, title, credits, created_at, updated_at FROM courses WHERE id = ?`
	return scanCourse(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx is GetByID on the caller's transaction. Lesson writes use it
// to verify the referenced course before inserting.
func (r *CourseRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Course, error) {
	const q = `SELECT id, course_code, title, credits, created_at, updated_at FROM courses WHERE id = ?`
	return scanCourse(tx.QueryRowContext(ctx, q, id))
}

func scanCourse(row *sql.Row) (*model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.CourseCode, &c.Title, &c.Credits, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all courses ordered by course code.
func (r *CourseRepo) List(ctx context.Context) ([]*model.Course, error) {
	const q = `SELECT id, course_code, title, credits, created_at, updated_at FROM courses ORDER BY course_code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c := new(model.Course)
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.Title, &c.Credits, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes course code, title and credits. It only performs the
// UPDATE when at least one field differs; otherwise it returns ErrNoChange.
// When the row doesn't exist it returns ErrCourseNotFound.
func (r *CourseRepo) Update(ctx context.Context, course *model.Course) error {
	const q = `UPDATE courses
               SET course_code = ?, title = ?, credits = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?
                 AND (course_code <> ? OR title <> ? OR credits <> ?)`
	res, err := r.db.ExecContext(ctx, q,
		course.CourseCode, course.Title, course.Credits,
		course.ID,
		course.CourseCode, course.Title, course.Credits,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCourseExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Distinguish "not found" from "no change".
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM courses WHERE id = ? LIMIT 1`, course.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourseNotFound
		}
		return err
	}
	return ErrNoChange
}

// Delete removes a course provided no lessons reference it. Scheduled
// lessons block the deletion with ErrConflict; a missing row answers
// ErrCourseNotFound.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var lessons int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons WHERE course_id = ?`, id).Scan(&lessons); err != nil {
		return err
	}
	if lessons > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}
