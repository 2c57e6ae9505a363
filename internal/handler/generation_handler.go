package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/service"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
	"github.com/noah-isme/university-timetable-api/pkg/response"
)

// GenerationHandler exposes the timetable generation endpoints.
type GenerationHandler struct {
	generation *service.GenerationService
}

// NewGenerationHandler constructs GenerationHandler.
func NewGenerationHandler(generation *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// Create godoc
// @Summary Create a generation config
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.CreateGenerationConfigRequest true "Config payload"
// @Success 201 {object} response.Envelope
// @Router /generation-configs [post]
func (h *GenerationHandler) Create(c *gin.Context) {
	var req dto.CreateGenerationConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	config, err := h.generation.CreateConfig(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, config)
}

// List godoc
// @Summary List generation configs
// @Tags Generation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /generation-configs [get]
func (h *GenerationHandler) List(c *gin.Context) {
	configs, err := h.generation.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, configs, nil)
}

// Get godoc
// @Summary Get one generation config
// @Tags Generation
// @Produce json
// @Param id path string true "Config ID"
// @Success 200 {object} response.Envelope
// @Router /generation-configs/{id} [get]
func (h *GenerationHandler) Get(c *gin.Context) {
	config, err := h.generation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, config, nil)
}

// Generate godoc
// @Summary Run timetable generation for a config
// @Tags Generation
// @Produce json
// @Param id path string true "Config ID"
// @Success 200 {object} response.Envelope
// @Router /generation-configs/{id}/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	result, err := h.generation.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Log godoc
// @Summary Get one config's generation log
// @Tags Generation
// @Produce json
// @Param id path string true "Config ID"
// @Success 200 {object} response.Envelope
// @Router /generation-configs/{id}/log [get]
func (h *GenerationHandler) Log(c *gin.Context) {
	log, err := h.generation.Log(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"log": log}, nil)
}
