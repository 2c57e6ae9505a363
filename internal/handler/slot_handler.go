package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-timetable-api/internal/models"
	"github.com/noah-isme/university-timetable-api/internal/service"
	"github.com/noah-isme/university-timetable-api/pkg/response"
)

// SlotHandler exposes the slot catalog endpoints.
type SlotHandler struct {
	slots *service.SlotService
}

// NewSlotHandler constructs SlotHandler.
func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// List godoc
// @Summary List teaching slots
// @Tags Slots
// @Produce json
// @Param type query string false "Filter by slot type (A, B or C)"
// @Success 200 {object} response.Envelope
// @Router /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	if slotType := c.Query("type"); slotType != "" {
		slots, err := h.slots.ListByType(c.Request.Context(), models.SlotType(slotType))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, slots, nil)
		return
	}
	slots, err := h.slots.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Initialize godoc
// @Summary Seed the slot catalog
// @Tags Slots
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /slots/initialize [post]
func (h *SlotHandler) Initialize(c *gin.Context) {
	result, err := h.slots.Initialize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if result.Created == 0 {
		status = http.StatusOK
	}
	response.JSON(c, status, result, nil)
}
