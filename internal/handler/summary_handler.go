package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-timetable-api/internal/service"
	"github.com/noah-isme/university-timetable-api/pkg/response"
)

// SummaryHandler exposes department reporting endpoints.
type SummaryHandler struct {
	summaries *service.SummaryService
}

// NewSummaryHandler constructs SummaryHandler.
func NewSummaryHandler(summaries *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// DepartmentSlotSummary godoc
// @Summary Department slot occupancy summary
// @Tags Departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/slot-summary [get]
func (h *SummaryHandler) DepartmentSlotSummary(c *gin.Context) {
	summary, err := h.summaries.DepartmentSlotSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// TeacherWorkload godoc
// @Summary Teacher weekly workload
// @Tags Departments
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/workload [get]
func (h *SummaryHandler) TeacherWorkload(c *gin.Context) {
	workload, err := h.summaries.TeacherWorkload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workload, nil)
}
