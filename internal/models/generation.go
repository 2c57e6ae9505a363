package models

import "time"

// GenerationStatus is the run state of a generation config.
type GenerationStatus string

const (
	GenerationStatusNotStarted GenerationStatus = "not_started"
	GenerationStatusRunning    GenerationStatus = "running"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// GenerationConfig is the immutable-once-run parameter set for one automated
// scheduling attempt. A completed config never regenerates; a failed one is
// retried by creating a fresh config.
type GenerationConfig struct {
	ID                    string           `db:"id" json:"id"`
	Name                  string           `db:"name" json:"name"`
	MaxTeacherSlotsPerDay int              `db:"max_teacher_slots_per_day" json:"max_teacher_slots_per_day"`
	EnableLunchBreaks     bool             `db:"enable_lunch_breaks" json:"enable_lunch_breaks"`
	EnableLabConsecutive  bool             `db:"enable_lab_consecutive" json:"enable_lab_consecutive"`
	MinCourseInstances    int              `db:"min_course_instances" json:"min_course_instances"`
	DivisionAssignment    SlotType         `db:"division_assignment" json:"division_assignment"`
	SolverTimeoutSeconds  int              `db:"solver_timeout_seconds" json:"solver_timeout_seconds"`
	IsGenerated           bool             `db:"is_generated" json:"is_generated"`
	Status                GenerationStatus `db:"status" json:"status"`
	StartedAt             *time.Time       `db:"started_at" json:"started_at,omitempty"`
	CompletedAt           *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	Log                   string           `db:"log" json:"log"`
	CreatedAt             time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time        `db:"updated_at" json:"updated_at"`
}

// SolverTimeout returns the configured wall-clock budget as a duration.
func (c GenerationConfig) SolverTimeout() time.Duration {
	return time.Duration(c.SolverTimeoutSeconds) * time.Second
}
