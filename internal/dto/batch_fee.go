package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/batch-fee-api/internal/calculator"
)

// DiscountInput is one student discount supplied by the client.
type DiscountInput struct {
	StudentName      string           `json:"studentName" validate:"required"`
	DiscountCategory string           `json:"discountCategory" validate:"required"`
	DiscountAmount   *decimal.Decimal `json:"discountAmount" validate:"required"`
}

// CalculateBatchFeeRequest selects a batch, a fee structure and the discounts to apply.
type CalculateBatchFeeRequest struct {
	BatchID          string          `json:"batchId" validate:"required"`
	FeeStructureID   string          `json:"feeStructureId" validate:"required"`
	StudentDiscounts []DiscountInput `json:"studentDiscounts" validate:"dive"`
}

// CalculationResponse is a fee calculation preview. Mismatches are informational.
type CalculationResponse struct {
	calculator.Result
	Mismatches []calculator.Mismatch `json:"mismatches"`
}

// NewCalculationResponse wraps a result with its mismatches.
func NewCalculationResponse(r calculator.Result) CalculationResponse {
	mismatches := r.Mismatches()
	if mismatches == nil {
		mismatches = []calculator.Mismatch{}
	}
	return CalculationResponse{Result: r, Mismatches: mismatches}
}
