package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStructure is a reusable fee template scoped by region, medium and course.
// MinStudents/MaxStudents describe the intended batch size but are not enforced.
type FeeStructure struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"feeStructureName"`
	MinStudents  int             `db:"min_students" json:"minStudents"`
	MaxStudents  int             `db:"max_students" json:"maxStudents"`
	Region       string          `db:"region" json:"region"`
	Medium       string          `db:"medium" json:"medium"`
	Course       string          `db:"course" json:"course"`
	MonthlyFee   decimal.Decimal `db:"monthly_fee" json:"monthlyFee"`
	TotalClasses int             `db:"total_classes" json:"totalClasses"`
	Remarks      string          `db:"remarks" json:"remarks"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}
