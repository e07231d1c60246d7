package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/batch-fee-api/internal/middleware"
	"github.com/noah-isme/batch-fee-api/internal/models"
	"github.com/noah-isme/batch-fee-api/internal/service"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
	"github.com/noah-isme/batch-fee-api/pkg/response"
)

type feeStructureService interface {
	List(ctx context.Context) ([]models.FeeStructure, bool, error)
	Get(ctx context.Context, id string) (*models.FeeStructure, error)
	Create(ctx context.Context, req service.CreateFeeStructureRequest) (*models.FeeStructure, error)
}

// FeeStructureHandler exposes fee structure registry endpoints.
type FeeStructureHandler struct {
	service feeStructureService
}

// NewFeeStructureHandler builds a new handler.
func NewFeeStructureHandler(service feeStructureService) *FeeStructureHandler {
	return &FeeStructureHandler{service: service}
}

// List godoc
// @Summary List fee structures
// @Tags FeeStructures
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fee-structures [get]
func (h *FeeStructureHandler) List(c *gin.Context) {
	items, hit, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get fee structure
// @Tags FeeStructures
// @Produce json
// @Param id path string true "Fee structure ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /fee-structures/{id} [get]
func (h *FeeStructureHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create fee structure
// @Tags FeeStructures
// @Accept json
// @Produce json
// @Param payload body service.CreateFeeStructureRequest true "Fee structure payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /fee-structures [post]
func (h *FeeStructureHandler) Create(c *gin.Context) {
	var req service.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee structure payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}
