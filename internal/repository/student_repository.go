package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrStudentNotFound indicates that a student profile was not located.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepo manages persistence for student profiles.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{db: db}
}

// CreateTx inserts the student profile inside the caller's transaction,
// alongside the user row it belongs to.
func (r *StudentRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Student) error {
	const q = `INSERT INTO students (user_id, full_name, group_id) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.UserID, s.FullName, s.GroupID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByUserID resolves the student profile behind a user account,
// including the group name the visibility scope needs. It returns
// ErrStudentNotFound when the account has no profile row.
func (r *StudentRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Student, error) {
	const q = `SELECT s.id, s.user_id, s.full_name, u.email, s.group_id, g.name, s.created_at, s.updated_at
               FROM students s
               JOIN users u ON u.id = s.user_id
               JOIN student_groups g ON g.id = s.group_id
               WHERE s.user_id = ?`
	var st model.Student
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&st.ID, &st.UserID, &st.FullName, &st.Email, &st.GroupID, &st.GroupName, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &st, nil
}

// List returns all students ordered by name, with account email and group
// name joined in for the directory endpoint.
func (r *StudentRepo) List(ctx context.Context) ([]*model.Student, error) {
	const q = `SELECT s.id, s.user_id, s.full_name, u.email, s.group_id, g.name, s.created_at, s.updated_at
               FROM students s
               JOIN users u ON u.id = s.user_id
               JOIN student_groups g ON g.id = s.group_id
               ORDER BY s.full_name, s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Student
	for rows.Next() {
		st := new(model.Student)
		if err := rows.Scan(&st.ID, &st.UserID, &st.FullName, &st.Email, &st.GroupID, &st.GroupName, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
