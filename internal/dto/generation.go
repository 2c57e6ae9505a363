package dto

import (
	"time"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

// CreateGenerationConfigRequest creates a new generation config in
// not_started state.
type CreateGenerationConfigRequest struct {
	Name                  string          `json:"name" validate:"required"`
	MaxTeacherSlotsPerDay int             `json:"maxTeacherSlotsPerDay" validate:"omitempty,min=0,max=10"`
	EnableLunchBreaks     bool            `json:"enableLunchBreaks"`
	EnableLabConsecutive  bool            `json:"enableLabConsecutive"`
	MinCourseInstances    int             `json:"minCourseInstances" validate:"required,min=1,max=10"`
	DivisionAssignment    models.SlotType `json:"divisionAssignment" validate:"omitempty,oneof=A B C"`
	SolverTimeoutSeconds  int             `json:"solverTimeoutSeconds" validate:"omitempty,min=1"`
}

// GenerationRunResponse reports the outcome of one generate call.
type GenerationRunResponse struct {
	ConfigID     string                  `json:"configId"`
	Status       models.GenerationStatus `json:"status"`
	SolverStatus string                  `json:"solverStatus"`
	EntryCount   int                     `json:"entryCount"`
	WallTime     string                  `json:"wallTime"`
	Log          string                  `json:"log"`
}

// GenerationStatusResponse summarises one config's run state.
type GenerationStatusResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Status      models.GenerationStatus `json:"status"`
	IsGenerated bool                    `json:"isGenerated"`
	StartedAt   *time.Time              `json:"startedAt,omitempty"`
	CompletedAt *time.Time              `json:"completedAt,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}
