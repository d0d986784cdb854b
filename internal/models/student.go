package models

import "time"

// Student is a learner registered in a degree program. StudentID is the business key and ID the storage key.
type Student struct {
	ID            string    `db:"id" json:"id" bson:"_id"`
	StudentID     string    `db:"student_id" json:"studentId" bson:"studentId"`
	FirstName     string    `db:"first_name" json:"firstName" bson:"firstName"`
	LastName      string    `db:"last_name" json:"lastName" bson:"lastName"`
	Email         string    `db:"email" json:"email" bson:"email"`
	AcademicYear  int       `db:"academic_year" json:"academicYear" bson:"academicYear"`
	DegreeProgram string    `db:"degree_program" json:"degreeProgram" bson:"degreeProgram"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search        string
	DegreeProgram string
	AcademicYear  int
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
