package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// RoomRepository reads room records.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, number, block, is_lab, room_type, min_capacity, max_capacity, tech_level, created_at`

// ListAll returns every room ordered by block then number.
func (r *RoomRepository) ListAll(ctx context.Context) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY block ASC, number ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID loads one room.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return &room, nil
}
