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

// GenerationConfigRepository persists generation configs and their run state.
type GenerationConfigRepository struct {
	db *sqlx.DB
}

// NewGenerationConfigRepository constructs the repository.
func NewGenerationConfigRepository(db *sqlx.DB) *GenerationConfigRepository {
	return &GenerationConfigRepository{db: db}
}

func (r *GenerationConfigRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const generationConfigColumns = `id, name, max_teacher_slots_per_day, enable_lunch_breaks, enable_lab_consecutive,
       min_course_instances, division_assignment, solver_timeout_seconds, is_generated, status,
       started_at, completed_at, log, created_at, updated_at`

// Create inserts a fresh config in not_started state.
func (r *GenerationConfigRepository) Create(ctx context.Context, config *models.GenerationConfig) error {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
	}
	config.UpdatedAt = now
	if config.Status == "" {
		config.Status = models.GenerationStatusNotStarted
	}
	const query = `
INSERT INTO generation_configs (id, name, max_teacher_slots_per_day, enable_lunch_breaks, enable_lab_consecutive,
       min_course_instances, division_assignment, solver_timeout_seconds, is_generated, status,
       started_at, completed_at, log, created_at, updated_at)
VALUES (:id, :name, :max_teacher_slots_per_day, :enable_lunch_breaks, :enable_lab_consecutive,
       :min_course_instances, :division_assignment, :solver_timeout_seconds, :is_generated, :status,
       :started_at, :completed_at, :log, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, config); err != nil {
		return fmt.Errorf("create generation config: %w", err)
	}
	return nil
}

// FindByID loads one config.
func (r *GenerationConfigRepository) FindByID(ctx context.Context, id string) (*models.GenerationConfig, error) {
	query := `SELECT ` + generationConfigColumns + ` FROM generation_configs WHERE id = $1`
	var config models.GenerationConfig
	if err := r.db.GetContext(ctx, &config, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find generation config: %w", err)
	}
	return &config, nil
}

// List returns all configs newest first.
func (r *GenerationConfigRepository) List(ctx context.Context) ([]models.GenerationConfig, error) {
	query := `SELECT ` + generationConfigColumns + ` FROM generation_configs ORDER BY created_at DESC`
	var configs []models.GenerationConfig
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list generation configs: %w", err)
	}
	return configs, nil
}

// MarkRunning transitions a config into running only from a runnable state.
// Returns sql.ErrNoRows when the guard loses the race or the state forbids it.
func (r *GenerationConfigRepository) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	const query = `
UPDATE generation_configs
SET status = $1, started_at = $2, completed_at = NULL, updated_at = $2
WHERE id = $3 AND status IN ($4, $5)`
	result, err := r.db.ExecContext(ctx, query,
		models.GenerationStatusRunning, startedAt.UTC(), id,
		models.GenerationStatusNotStarted, models.GenerationStatusFailed)
	if err != nil {
		return fmt.Errorf("mark generation running: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check generation transition rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkCompleted records a successful run, tx-aware so the flag flips in the
// same transaction as the rebuilt timetable.
func (r *GenerationConfigRepository) MarkCompleted(ctx context.Context, exec sqlx.ExtContext, id string, completedAt time.Time, log string) error {
	const query = `
UPDATE generation_configs
SET status = $1, is_generated = TRUE, completed_at = $2, log = $3, updated_at = $2
WHERE id = $4`
	if _, err := r.exec(exec).ExecContext(ctx, query, models.GenerationStatusCompleted, completedAt.UTC(), log, id); err != nil {
		return fmt.Errorf("mark generation completed: %w", err)
	}
	return nil
}

// MarkFailed records a failed run with its log.
func (r *GenerationConfigRepository) MarkFailed(ctx context.Context, id string, completedAt time.Time, log string) error {
	const query = `
UPDATE generation_configs
SET status = $1, completed_at = $2, log = $3, updated_at = $2
WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, models.GenerationStatusFailed, completedAt.UTC(), log, id); err != nil {
		return fmt.Errorf("mark generation failed: %w", err)
	}
	return nil
}
