package models

import "time"

// Assignment is homework due for a course. CourseCode is not checked against existing courses.
type Assignment struct {
	ID          string    `db:"id" json:"id" bson:"_id"`
	Title       string    `db:"title" json:"title" bson:"title"`
	Description string    `db:"description" json:"description" bson:"description"`
	DueDate     Date      `db:"due_date" json:"dueDate" bson:"dueDate"`
	CourseCode  string    `db:"course_code" json:"courseCode" bson:"courseCode"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// Exam is a scheduled exam for a course.
type Exam struct {
	ID          string    `db:"id" json:"id" bson:"_id"`
	ExamName    string    `db:"exam_name" json:"examName" bson:"examName"`
	Description string    `db:"description" json:"description" bson:"description"`
	ExamDate    Date      `db:"exam_date" json:"examDate" bson:"examDate"`
	CourseCode  string    `db:"course_code" json:"courseCode" bson:"courseCode"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt" bson:"updatedAt"`
}

// CourseworkFilter lists assignments or exams, optionally for one course.
type CourseworkFilter struct {
	CourseCode string
	Page       int
	PageSize   int
	SortOrder  string
}
