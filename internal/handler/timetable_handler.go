package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-timetable-api/internal/models"
	"github.com/noah-isme/university-timetable-api/internal/service"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
	"github.com/noah-isme/university-timetable-api/pkg/response"
)

// TimetableHandler exposes the resolved schedule endpoints.
type TimetableHandler struct {
	timetable *service.TimetableService
}

// NewTimetableHandler constructs TimetableHandler.
func NewTimetableHandler(timetable *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable}
}

func timetableFilterFromQuery(c *gin.Context) (models.TimetableFilter, error) {
	filter := models.TimetableFilter{
		TeacherID: c.Query("teacherId"),
		CourseID:  c.Query("courseId"),
		RoomID:    c.Query("roomId"),
		SlotID:    c.Query("slotId"),
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be an integer")
		}
		filter.DayOfWeek = &day
	}
	return filter, nil
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Param teacherId query string false "Filter by teacher"
// @Param courseId query string false "Filter by course"
// @Param roomId query string false "Filter by room"
// @Param dayOfWeek query int false "Filter by day (0=Monday)"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	filter, err := timetableFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.timetable.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Availability godoc
// @Summary Check whether a room cell is free
// @Tags Timetable
// @Produce json
// @Param roomId query string true "Room ID"
// @Param slotId query string true "Slot ID"
// @Param dayOfWeek query int true "Day of week (0=Monday)"
// @Success 200 {object} response.Envelope
// @Router /timetable/availability [get]
func (h *TimetableHandler) Availability(c *gin.Context) {
	day, err := strconv.Atoi(c.Query("dayOfWeek"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be an integer"))
		return
	}
	availability, err := h.timetable.CheckAvailability(c.Request.Context(), c.Query("roomId"), day, c.Query("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability, nil)
}

// Export godoc
// @Summary Export the timetable as CSV or PDF
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Param dayOfWeek query int false "Filter by day (0=Monday)"
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	filter, err := timetableFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := c.DefaultQuery("format", service.ExportFormatCSV)
	payload, contentType, err := h.timetable.Export(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("timetable-%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
