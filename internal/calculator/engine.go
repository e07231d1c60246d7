// Package calculator computes batch fees from a batch, a fee structure and a set
// of student discounts, and drives interactive calculation sessions.
package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/batch-fee-api/internal/models"
)

// Result is the outcome of one fee calculation.
type Result struct {
	Batch                models.Batch             `json:"batch"`
	FeeStructure         models.FeeStructure      `json:"feeStructure"`
	MonthlyFeePerStudent decimal.Decimal          `json:"monthlyFeePerStudent"`
	TotalStudents        int                      `json:"totalStudents"`
	TotalMonthlyFee      decimal.Decimal          `json:"totalMonthlyFee"`
	TotalDiscount        decimal.Decimal          `json:"totalDiscount"`
	FinalFee             decimal.Decimal          `json:"finalFee"`
	Discounts            []models.StudentDiscount `json:"discounts"`
}

// Compute applies the fee structure and discounts to the batch.
//
// The batch total uses the per-student fee times the student count, while each
// discount's MonthlyFeeAfterDiscount is the per-student fee minus that discount.
// Negative figures are returned as is. Compute never checks that the batch fits
// the fee structure's course, medium or student range; see Mismatches.
func Compute(batch models.Batch, feeStructure models.FeeStructure, discounts []models.Discount) Result {
	monthlyFeePerStudent := feeStructure.MonthlyFee
	totalStudents := batch.NumberOfStudents
	totalMonthlyFee := monthlyFeePerStudent.Mul(decimal.NewFromInt(int64(totalStudents)))

	totalDiscount := decimal.Zero
	applied := make([]models.StudentDiscount, 0, len(discounts))
	for _, d := range discounts {
		totalDiscount = totalDiscount.Add(d.DiscountAmount)
		applied = append(applied, models.StudentDiscount{
			Discount:                d,
			MonthlyFeeAfterDiscount: feeStructure.MonthlyFee.Sub(d.DiscountAmount),
		})
	}

	return Result{
		Batch:                batch,
		FeeStructure:         feeStructure,
		MonthlyFeePerStudent: monthlyFeePerStudent,
		TotalStudents:        totalStudents,
		TotalMonthlyFee:      totalMonthlyFee,
		TotalDiscount:        totalDiscount,
		FinalFee:             totalMonthlyFee.Sub(totalDiscount),
		Discounts:            applied,
	}
}

// Mismatch describes a difference between a batch and the fee structure applied to it.
type Mismatch struct {
	Field        string `json:"field"`
	Batch        string `json:"batch"`
	FeeStructure string `json:"feeStructure"`
}

// Mismatches lists where the batch falls outside the fee structure's scope.
// They are informational only and never block a calculation.
func (r Result) Mismatches() []Mismatch {
	var out []Mismatch
	if !strings.EqualFold(strings.TrimSpace(r.Batch.Course), strings.TrimSpace(r.FeeStructure.Course)) {
		out = append(out, Mismatch{Field: "course", Batch: r.Batch.Course, FeeStructure: r.FeeStructure.Course})
	}
	if !strings.EqualFold(strings.TrimSpace(r.Batch.Medium), strings.TrimSpace(r.FeeStructure.Medium)) {
		out = append(out, Mismatch{Field: "medium", Batch: r.Batch.Medium, FeeStructure: r.FeeStructure.Medium})
	}
	n := r.Batch.NumberOfStudents
	if n < r.FeeStructure.MinStudents || n > r.FeeStructure.MaxStudents {
		out = append(out, Mismatch{
			Field:        "numberOfStudents",
			Batch:        fmt.Sprintf("%d", n),
			FeeStructure: fmt.Sprintf("%d-%d", r.FeeStructure.MinStudents, r.FeeStructure.MaxStudents),
		})
	}
	return out
}

// ToBatchFee maps a result into a record ready to persist. The discount list is
// copied so later changes to the result do not leak into the record.
func ToBatchFee(r Result) models.BatchFee {
	discounts := make(models.StudentDiscounts, len(r.Discounts))
	copy(discounts, r.Discounts)
	return models.BatchFee{
		BatchName:        r.Batch.BatchName,
		FeeStructureID:   r.FeeStructure.ID,
		StudentDiscounts: discounts,
		TotalMonthlyFee:  r.TotalMonthlyFee,
		TotalDiscount:    r.TotalDiscount,
		FinalFee:         r.FinalFee,
	}
}
