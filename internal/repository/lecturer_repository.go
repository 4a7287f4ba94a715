package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrLecturerNotFound indicates that a lecturer profile was not located.
var ErrLecturerNotFound = errors.New("lecturer not found")

// LecturerRepo manages persistence for lecturer profiles.
type LecturerRepo struct {
	db *sql.DB
}

// NewLecturerRepo constructs a LecturerRepo with the given DB handle.
func NewLecturerRepo(db *sql.DB) *LecturerRepo {
	return &LecturerRepo{db: db}
}

// CreateTx inserts the lecturer profile inside the caller's transaction.
// Registration creates the user row and the profile row atomically, so a
// half-registered lecturer can never exist.
func (r *LecturerRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *model.Lecturer) error {
	const q = `INSERT INTO lecturers (user_id, full_name) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, l.UserID, l.FullName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByUserID resolves the lecturer profile behind a user account. It
// returns ErrLecturerNotFound when the account has no profile row.
func (r *LecturerRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Lecturer, error) {
	const q = `SELECT l.id, l.user_id, l.full_name, u.email, l.created_at, l.updated_at
               FROM lecturers l
               JOIN users u ON u.id = l.user_id
               WHERE l.user_id = ?`
	return scanLecturer(r.db.QueryRowContext(ctx, q, userID))
}

// GetByID retrieves a lecturer by profile ID.
func (r *LecturerRepo) GetByID(ctx context.Context, id uint64) (*model.Lecturer, error) {
	const q = `SELECT l.id, l.user_id, l.full_name, u.email, l.created_at, l.updated_at
               FROM lecturers l
               JOIN users u ON u.id = l.user_id
               WHERE l.id = ?`
	return scanLecturer(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx reads the lecturer inside the caller's transaction with
// SELECT ... FOR UPDATE. Lesson writes lock the lecturer row so two
// requests claiming the same lecturer's time serialize on it.
func (r *LecturerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Lecturer, error) {
	const q = `SELECT id, user_id, full_name, created_at, updated_at FROM lecturers WHERE id = ? FOR UPDATE`
	var l model.Lecturer
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&l.ID, &l.UserID, &l.FullName, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLecturerNotFound
		}
		return nil, err
	}
	return &l, nil
}

func scanLecturer(row *sql.Row) (*model.Lecturer, error) {
	var l model.Lecturer
	err := row.Scan(&l.ID, &l.UserID, &l.FullName, &l.Email, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLecturerNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all lecturers ordered by name, with account emails joined
// in for the staff directory endpoint.
func (r *LecturerRepo) List(ctx context.Context) ([]*model.Lecturer, error) {
	const q = `SELECT l.id, l.user_id, l.full_name, u.email, l.created_at, l.updated_at
               FROM lecturers l
               JOIN users u ON u.id = l.user_id
               ORDER BY l.full_name, l.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Lecturer
	for rows.Next() {
		l := new(model.Lecturer)
		if err := rows.Scan(&l.ID, &l.UserID, &l.FullName, &l.Email, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
