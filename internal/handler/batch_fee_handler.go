package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/batch-fee-api/internal/calculator"
	"github.com/noah-isme/batch-fee-api/internal/dto"
	"github.com/noah-isme/batch-fee-api/internal/models"
	"github.com/noah-isme/batch-fee-api/internal/service"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
	"github.com/noah-isme/batch-fee-api/pkg/response"
)

type batchFeeService interface {
	Calculate(ctx context.Context, req dto.CalculateBatchFeeRequest) (*calculator.Result, error)
	Create(ctx context.Context, req dto.CalculateBatchFeeRequest) (*models.BatchFeeDetail, error)
	List(ctx context.Context) ([]models.BatchFeeDetail, error)
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// BatchFeeHandler exposes fee calculation and batch fee endpoints.
type BatchFeeHandler struct {
	service batchFeeService
}

// NewBatchFeeHandler builds a new handler.
func NewBatchFeeHandler(service batchFeeService) *BatchFeeHandler {
	return &BatchFeeHandler{service: service}
}

func bindCalculation(c *gin.Context) (dto.CalculateBatchFeeRequest, bool) {
	var req dto.CalculateBatchFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch fee payload"))
		return req, false
	}
	return req, true
}

// Calculate godoc
// @Summary Preview a batch fee calculation
// @Description Computes totals without saving. Course, medium and student range mismatches are reported but do not block.
// @Tags BatchFees
// @Accept json
// @Produce json
// @Param payload body dto.CalculateBatchFeeRequest true "Calculation inputs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batch-fees/calculate [post]
func (h *BatchFeeHandler) Calculate(c *gin.Context) {
	req, ok := bindCalculation(c)
	if !ok {
		return
	}
	result, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCalculationResponse(*result))
}

// Create godoc
// @Summary Calculate and save a batch fee
// @Tags BatchFees
// @Accept json
// @Produce json
// @Param payload body dto.CalculateBatchFeeRequest true "Calculation inputs"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /batch-fees [post]
func (h *BatchFeeHandler) Create(c *gin.Context) {
	req, ok := bindCalculation(c)
	if !ok {
		return
	}
	fee, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fee)
}

// List godoc
// @Summary List batch fees
// @Tags BatchFees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batch-fees [get]
func (h *BatchFeeHandler) List(c *gin.Context) {
	fees, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees)
}

// Export godoc
// @Summary Export batch fees
// @Tags BatchFees
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /batch-fees/export [get]
func (h *BatchFeeHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
