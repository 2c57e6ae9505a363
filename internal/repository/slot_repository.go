package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// SlotRepository persists the slot catalog.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository constructs the repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// ListOrdered returns every slot ordered by (type, start time).
func (r *SlotRepository) ListOrdered(ctx context.Context) ([]models.Slot, error) {
	const query = `SELECT id, name, slot_type, start_time, end_time, created_at
FROM slots
ORDER BY slot_type ASC, start_time ASC`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ListByType returns slots of one slot type ordered by start time.
func (r *SlotRepository) ListByType(ctx context.Context, slotType models.SlotType) ([]models.Slot, error) {
	const query = `SELECT id, name, slot_type, start_time, end_time, created_at
FROM slots
WHERE slot_type = $1
ORDER BY start_time ASC`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, slotType); err != nil {
		return nil, fmt.Errorf("list slots by type: %w", err)
	}
	return slots, nil
}

// FindByID loads one slot.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.Slot, error) {
	const query = `SELECT id, name, slot_type, start_time, end_time, created_at FROM slots WHERE id = $1`
	var slot models.Slot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return &slot, nil
}

// ExistsByTypeAndName checks catalog uniqueness of (type, name).
func (r *SlotRepository) ExistsByTypeAndName(ctx context.Context, slotType models.SlotType, name string) (bool, error) {
	const query = `SELECT 1 FROM slots WHERE slot_type = $1 AND name = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, slotType, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slot uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new slot.
func (r *SlotRepository) Create(ctx context.Context, slot *models.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO slots (id, name, slot_type, start_time, end_time, created_at)
		VALUES (:id, :name, :slot_type, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}
