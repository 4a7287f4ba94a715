package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrGroupNotFound indicates that a student group was not located in the DB.
var ErrGroupNotFound = errors.New("group not found")

// ErrGroupExists indicates the group name is already taken.
var ErrGroupExists = errors.New("group already exists")

// GroupRepo manages persistence for student groups.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo constructs a GroupRepo with the given DB handle.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// Create inserts a new group and assigns the generated ID back to the
// struct, then reads the row back so timestamps are populated. A fresh
// group has no students, so StudentCount stays zero.
func (r *GroupRepo) Create(ctx context.Context, g *model.Group) error {
	const qInsert = `INSERT INTO student_groups (name, intake) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, g.Name, g.Intake)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrGroupExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)

	const qSelect = `SELECT id, name, intake, created_at, updated_at FROM student_groups WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, g.ID).
		Scan(&g.ID, &g.Name, &g.Intake, &g.CreatedAt, &g.UpdatedAt)
}

// GetByID retrieves a group by its ID, including its current student
// count. It returns ErrGroupNotFound if there is no matching row.
func (r *GroupRepo) GetByID(ctx context.Context, id uint64) (*model.Group, error) {
	const q = `SELECT g.id, g.name, g.intake, COUNT(s.id), g.created_at, g.updated_at
               FROM student_groups g
               LEFT JOIN students s ON s.group_id = g.id
               WHERE g.id = ?
               GROUP BY g.id`
	var g model.Group
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&g.ID, &g.Name, &g.Intake, &g.StudentCount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns all groups ordered by name, each with its student count.
func (r *GroupRepo) List(ctx context.Context) ([]*model.Group, error) {
	const q = `SELECT g.id, g.name, g.intake, COUNT(s.id), g.created_at, g.updated_at
               FROM student_groups g
               LEFT JOIN students s ON s.group_id = g.id
               GROUP BY g.id
               ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		g := new(model.Group)
		if err := rows.Scan(&g.ID, &g.Name, &g.Intake, &g.StudentCount, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LockByIDsTx reads the given groups inside the caller's transaction with
// SELECT ... FOR UPDATE, ordered by id so concurrent lockers acquire rows
// in the same order. If any id is missing it returns ErrGroupNotFound.
func (r *GroupRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]*model.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT id, name, intake FROM student_groups WHERE id IN (` +
		placeholders(len(ids)) + `) ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		g := new(model.Group)
		if err := rows.Scan(&g.ID, &g.Name, &g.Intake); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != len(ids) {
		return nil, ErrGroupNotFound
	}
	return out, nil
}

// CountStudentsTx sums the students enrolled in the given groups, on the
// caller's transaction. The result feeds the room-capacity check.
func (r *GroupRepo) CountStudentsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `SELECT COUNT(*) FROM students WHERE group_id IN (` + placeholders(len(ids)) + `)`
	var n int
	if err := tx.QueryRowContext(ctx, q, idArgs(ids)...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update writes name and intake. It only performs the UPDATE when at
// least one field differs; otherwise it returns ErrNoChange. When the row
// doesn't exist it returns ErrGroupNotFound.
func (r *GroupRepo) Update(ctx context.Context, g *model.Group) error {
	const q = `UPDATE student_groups
               SET name = ?, intake = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?
                 AND (name <> ? OR intake <> ?)`
	res, err := r.db.ExecContext(ctx, q, g.Name, g.Intake, g.ID, g.Name, g.Intake)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrGroupExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Distinguish "not found" from "no change".
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM student_groups WHERE id = ? LIMIT 1`, g.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGroupNotFound
		}
		return err
	}
	return ErrNoChange
}

// Delete removes a group provided no students belong to it and no lessons
// are assigned to it. Either dependency blocks the deletion with
// ErrConflict; a missing row answers ErrGroupNotFound.
func (r *GroupRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	var students int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM students WHERE group_id = ?`, id).Scan(&students); err != nil {
		return err
	}
	var lessons int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lesson_groups WHERE group_id = ?`, id).Scan(&lessons); err != nil {
		return err
	}
	if students > 0 || lessons > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM student_groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// placeholders renders "?, ?, ?" for n parameters of an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// idArgs widens ids into the []any QueryContext expects.
func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
