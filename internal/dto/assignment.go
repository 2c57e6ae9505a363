package dto

import "github.com/noah-isme/university-timetable-api/internal/models"

// Slot operation actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// SlotOperationRequest is one manual-path operation against a teacher's slots.
type SlotOperationRequest struct {
	Action    string `json:"action" validate:"required,oneof=create update delete"`
	SlotID    string `json:"slotId" validate:"omitempty"`
	DayOfWeek *int   `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
}

// ManualAssignmentRequest carries the ordered operation list for one teacher.
type ManualAssignmentRequest struct {
	Operations []SlotOperationRequest `json:"operations" validate:"required,min=1,dive"`
}

// BatchAssignmentItem is one batch operation carrying its own teacher id.
type BatchAssignmentItem struct {
	TeacherID string `json:"teacherId" validate:"omitempty"`
	SlotID    string `json:"slotId" validate:"omitempty"`
	DayOfWeek *int   `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
	Action    string `json:"action" validate:"required,oneof=create update delete"`
}

// BatchAssignmentRequest is the batch-path payload.
type BatchAssignmentRequest struct {
	Items []BatchAssignmentItem `json:"items" validate:"required,min=1,dive"`
}

// OperationResult reports the outcome of one operation. Rule names the
// violated validation rule when the failure came from the rule engine.
type OperationResult struct {
	Index        int    `json:"index"`
	Action       string `json:"action"`
	TeacherID    string `json:"teacherId,omitempty"`
	SlotID       string `json:"slotId,omitempty"`
	DayOfWeek    *int   `json:"dayOfWeek,omitempty"`
	Success      bool   `json:"success"`
	AssignmentID string `json:"assignmentId,omitempty"`
	Rule         string `json:"rule,omitempty"`
	Error        string `json:"error,omitempty"`
}

// AssignmentOutcome aggregates per-operation results. StatusCode classifies
// the whole batch: 201 all succeeded, 400 none, 207 partial.
type AssignmentOutcome struct {
	Results      []OperationResult `json:"results"`
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
	StatusCode   int               `json:"-"`
}

// AssignmentStats aggregates a listing for dashboard consumers.
type AssignmentStats struct {
	TotalAssignments int                     `json:"totalAssignments"`
	DistinctTeachers int                     `json:"distinctTeachers"`
	PerSlotType      map[models.SlotType]int `json:"perSlotType"`
	PerDay           map[string]int          `json:"perDay"`
}

// AssignmentListResponse combines filtered rows with optional stats.
type AssignmentListResponse struct {
	Assignments []models.TeacherSlotAssignmentDetail `json:"assignments"`
	Stats       *AssignmentStats                     `json:"stats,omitempty"`
}
