// Package repository contains data access logic for the scheduling domain.
// This file covers rooms. A room is one of the three exclusively-owned
// resources a lesson claims (room, lecturer, groups) and the only one that
// carries a capacity, so its row doubles as the capacity source during
// conflict validation.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/university-timetable/internal/model"
)

// ErrRoomNotFound indicates that a room was not located in the DB.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomExists indicates the (building, hall) pair is already taken.
var ErrRoomExists = errors.New("room already exists")

// RoomRepo manages persistence for rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room and assigns the generated ID back to the
// struct. Timestamps are populated by a follow-up SELECT so callers
// receive a fully populated record.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (building, hall, capacity) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, room.Building, room.Hall, room.Capacity)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = `SELECT id, building, hall, capacity, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Building, &room.Hall, &room.Capacity, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID retrieves a room by its ID. It returns ErrRoomNotFound if there
// is no matching row.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, building, hall, capacity, created_at, updated_at FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.Building, &room.Hall, &room.Capacity, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetForUpdateTx reads the room inside the caller's transaction with
// SELECT ... FOR UPDATE. Lesson writes lock the room row first so two
// requests claiming the same room serialize on it; the read also supplies
// the capacity for validation.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT id, building, hall, capacity, created_at, updated_at FROM rooms WHERE id = ? FOR UPDATE`
	var room model.Room
	err := tx.QueryRowContext(ctx, q, id).
		Scan(&room.ID, &room.Building, &room.Hall, &room.Capacity, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by building then hall. When no rooms
// exist it returns an empty slice and nil error.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT id, building, hall, capacity, created_at, updated_at FROM rooms ORDER BY building, hall`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		room := new(model.Room)
		if err := rows.Scan(&room.ID, &room.Building, &room.Hall, &room.Capacity, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes building, hall and capacity. It only performs the UPDATE
// when at least one field differs; otherwise it returns ErrNoChange. When
// the row doesn't exist it returns ErrRoomNotFound.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms
               SET building = ?, hall = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?
                 AND (building <> ? OR hall <> ? OR capacity <> ?)`
	res, err := r.db.ExecContext(ctx, q,
		room.Building, room.Hall, room.Capacity,
		room.ID,
		room.Building, room.Hall, room.Capacity,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Distinguish "not found" from "no change".
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ? LIMIT 1`, room.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	return ErrNoChange
}

// Delete removes a room provided no lessons reference it. Scheduled
// lessons block the deletion with ErrConflict; a missing row answers
// ErrRoomNotFound. The check and the delete run in one transaction.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons WHERE room_id = ?`, id).Scan(&lessons); err != nil {
		return err
	}
	if lessons > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
