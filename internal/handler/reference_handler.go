package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/batch-fee-api/internal/dto"
	"github.com/noah-isme/batch-fee-api/pkg/response"
)

// ReferenceHandler serves static form options.
type ReferenceHandler struct {
	data dto.ReferenceData
}

// NewReferenceHandler builds a reference data handler.
func NewReferenceHandler(data dto.ReferenceData) *ReferenceHandler {
	return &ReferenceHandler{data: data}
}

// Get godoc
// @Summary Reference data for batch and fee structure forms
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference-data [get]
func (h *ReferenceHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.data)
}
