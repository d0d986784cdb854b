package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PassingGrade is the inclusive lower bound for a completed course.
const PassingGrade = 60.0

// RosterEntry is the per-student record embedded in a course.
type RosterEntry struct {
	StudentID string   `json:"studentId" bson:"studentId"`
	FirstName string   `json:"firstName" bson:"firstName"`
	LastName  string   `json:"lastName" bson:"lastName"`
	Grade     *float64 `json:"grade" bson:"grade"`
	Completed bool     `json:"completed" bson:"completed"`
}

// SetGrade records grade and recomputes Completed. A nil grade clears both.
func (e *RosterEntry) SetGrade(grade *float64) {
	if grade == nil {
		e.Grade = nil
		e.Completed = false
		return
	}
	g := *grade
	e.Grade = &g
	e.Completed = g >= PassingGrade
}

// Roster is the embedded enrollment list of a course, stored as JSONB in SQL.
type Roster []RosterEntry

// Value implements driver.Valuer.
func (r Roster) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner.
func (r *Roster) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = Roster{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("roster: unsupported scan type %T", src)
	}
	var entries []RosterEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	*r = entries
	return nil
}

// Find returns the index of the entry for studentID or -1.
func (r Roster) Find(studentID string) int {
	for i, entry := range r {
		if entry.StudentID == studentID {
			return i
		}
	}
	return -1
}

// Course is an offering in a semester with its embedded roster. CourseCode is the business key.
type Course struct {
	ID               string    `db:"id" json:"id" bson:"_id"`
	CourseCode       string    `db:"course_code" json:"courseCode" bson:"courseCode"`
	CourseName       string    `db:"course_name" json:"courseName" bson:"courseName"`
	CreditPoints     int       `db:"credit_points" json:"creditPoints" bson:"creditPoints"`
	Semester         string    `db:"semester" json:"semester" bson:"semester"`
	LecturerName     string    `db:"lecturer_name" json:"lecturerName" bson:"lecturerName"`
	LecturerEmail    string    `db:"lecturer_email" json:"lecturerEmail" bson:"lecturerEmail"`
	DegreeProgram    string    `db:"degree_program" json:"degreeProgram" bson:"degreeProgram"`
	EnrolledStudents Roster    `db:"enrolled_students" json:"enrolledStudents" bson:"enrolledStudents"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// CourseFilter encapsulates allowed search parameters for listing courses.
type CourseFilter struct {
	Search        string
	Semester      string
	DegreeProgram string
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
