package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
	"github.com/noah-isme/university-timetable-api/pkg/response"
)

// AssignmentApplier covers the manual assignment operations the handler needs.
type AssignmentApplier interface {
	ApplyOperations(ctx context.Context, teacherID string, req dto.ManualAssignmentRequest) (*dto.AssignmentOutcome, error)
	List(ctx context.Context, filter models.AssignmentFilter, includeStats bool) (*dto.AssignmentListResponse, error)
}

// BatchProcessor covers the batch assignment path.
type BatchProcessor interface {
	Process(ctx context.Context, req dto.BatchAssignmentRequest) (*dto.AssignmentOutcome, error)
}

// AssignmentHandler exposes the manual and batch slot-assignment endpoints.
type AssignmentHandler struct {
	assignments AssignmentApplier
	batch       BatchProcessor
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments AssignmentApplier, batch BatchProcessor) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, batch: batch}
}

// Apply godoc
// @Summary Apply slot operations for one teacher
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.ManualAssignmentRequest true "Operations"
// @Success 201 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Router /teachers/{id}/slot-operations [post]
func (h *AssignmentHandler) Apply(c *gin.Context) {
	var req dto.ManualAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.assignments.ApplyOperations(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, outcome.StatusCode, outcome, nil)
}

// Batch godoc
// @Summary Apply a mixed-teacher assignment batch
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.BatchAssignmentRequest true "Batch items"
// @Success 201 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Router /slot-assignments/batch [post]
func (h *AssignmentHandler) Batch(c *gin.Context) {
	var req dto.BatchAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.batch.Process(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, outcome.StatusCode, outcome, nil)
}

// List godoc
// @Summary List slot assignments
// @Tags Assignments
// @Produce json
// @Param teacherId query string false "Filter by teacher"
// @Param departmentId query string false "Filter by department"
// @Param dayOfWeek query int false "Filter by day (0=Monday)"
// @Param slotType query string false "Filter by slot type"
// @Param includeStats query bool false "Attach aggregate statistics"
// @Success 200 {object} response.Envelope
// @Router /slot-assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		TeacherID:    c.Query("teacherId"),
		DepartmentID: c.Query("departmentId"),
		SlotType:     models.SlotType(c.Query("slotType")),
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be an integer"))
			return
		}
		filter.DayOfWeek = &day
	}
	includeStats := c.Query("includeStats") == "true"

	resp, err := h.assignments.List(c.Request.Context(), filter, includeStats)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
