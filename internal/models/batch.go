package models

import "time"

// Batch represents a named group of students enrolled together.
type Batch struct {
	ID               string    `db:"id" json:"id"`
	BatchName        string    `db:"batch_name" json:"batchName"`
	NumberOfStudents int       `db:"number_of_students" json:"numberOfStudents"`
	ClassesPerMonth  int       `db:"classes_per_month" json:"classesPerMonth"`
	Course           string    `db:"course" json:"course"`
	Medium           string    `db:"medium" json:"medium"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}
