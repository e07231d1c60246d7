package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchFee is the persisted outcome of applying a fee structure and a discount
// set to one batch. BatchName is a copy, not a reference.
type BatchFee struct {
	ID               string           `db:"id" json:"id"`
	BatchName        string           `db:"batch_name" json:"batchName"`
	FeeStructureID   string           `db:"fee_structure_id" json:"feeStructureId"`
	StudentDiscounts StudentDiscounts `db:"student_discounts" json:"studentDiscounts"`
	TotalMonthlyFee  decimal.Decimal  `db:"total_monthly_fee" json:"totalMonthlyFee"`
	TotalDiscount    decimal.Decimal  `db:"total_discount" json:"totalDiscount"`
	FinalFee         decimal.Decimal  `db:"final_fee" json:"finalFee"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
}

// BatchFeeDetail embeds the referenced fee structure when it still exists.
type BatchFeeDetail struct {
	BatchFee
	FeeStructure *FeeStructure `json:"feeStructure,omitempty"`
}
