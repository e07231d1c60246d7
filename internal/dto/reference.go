package dto

import "github.com/noah-isme/batch-fee-api/internal/models"

// ReferenceData lists the values offered by batch and fee structure forms.
type ReferenceData struct {
	Courses            []string                  `json:"courses"`
	Mediums            []string                  `json:"mediums"`
	Regions            []string                  `json:"regions"`
	DiscountCategories []models.DiscountCategory `json:"discountCategories"`
}

// DefaultReferenceData returns the built-in form options.
func DefaultReferenceData() ReferenceData {
	return ReferenceData{
		Courses:            []string{"Math", "Science", "English", "Physics", "Chemistry"},
		Mediums:            []string{"English", "Hindi", "Malaysian", "Chinese"},
		Regions:            []string{"India", "USA", "UK", "Malaysia", "Singapore"},
		DiscountCategories: append([]models.DiscountCategory(nil), models.DiscountCategories...),
	}
}
