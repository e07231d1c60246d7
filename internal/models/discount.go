package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountCategory enumerates the accepted reasons for a student discount.
type DiscountCategory string

const (
	DiscountMeritScholarship     DiscountCategory = "Merit Scholarship"
	DiscountNeedBasedScholarship DiscountCategory = "Need-based Scholarship"
	DiscountEarlyBird            DiscountCategory = "Early Bird Discount"
	DiscountSibling              DiscountCategory = "Sibling Discount"
	DiscountReferral             DiscountCategory = "Referral Discount"
	DiscountLoyalty              DiscountCategory = "Loyalty Discount"
	DiscountSpecialCircumstances DiscountCategory = "Special Circumstances"
	DiscountOther                DiscountCategory = "Other"
)

// DiscountCategories lists every category in display order.
var DiscountCategories = []DiscountCategory{
	DiscountMeritScholarship,
	DiscountNeedBasedScholarship,
	DiscountEarlyBird,
	DiscountSibling,
	DiscountReferral,
	DiscountLoyalty,
	DiscountSpecialCircumstances,
	DiscountOther,
}

// Valid reports whether the category is one of the enumerated values.
func (c DiscountCategory) Valid() bool {
	for _, known := range DiscountCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Discount is a named reduction applied to one student's share.
type Discount struct {
	StudentName      string           `json:"studentName"`
	DiscountCategory DiscountCategory `json:"discountCategory"`
	DiscountAmount   decimal.Decimal  `json:"discountAmount"`
}

// StudentDiscount is a discount as stored on a batch fee, carrying the per-student
// fee left after the discount. The figure may be negative.
type StudentDiscount struct {
	Discount
	MonthlyFeeAfterDiscount decimal.Decimal `json:"monthlyFeeAfterDiscount"`
}

// StudentDiscounts is persisted as a JSONB snapshot.
type StudentDiscounts []StudentDiscount

// Value marshals the discounts to JSON for persistence.
func (d StudentDiscounts) Value() (driver.Value, error) {
	if d == nil {
		d = StudentDiscounts{}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal student discounts: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the discount list.
func (d *StudentDiscounts) Scan(value interface{}) error {
	if value == nil {
		*d = StudentDiscounts{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StudentDiscounts", value)
	}
	if len(data) == 0 {
		*d = StudentDiscounts{}
		return nil
	}
	var out StudentDiscounts
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal student discounts: %w", err)
	}
	if out == nil {
		out = StudentDiscounts{}
	}
	*d = out
	return nil
}
