package models

import "time"

// GradeRow is one graded course of a student.
type GradeRow struct {
	CourseCode   string  `json:"courseCode"`
	CourseName   string  `json:"courseName"`
	CreditPoints int     `json:"creditPoints"`
	Semester     string  `json:"semester"`
	Grade        float64 `json:"grade"`
	Completed    bool    `json:"completed"`
}

// Completion is the earned versus remaining credit split.
type Completion struct {
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// StudentProgress is the per-student dashboard projection.
type StudentProgress struct {
	StudentID       string     `json:"studentId"`
	FullName        string     `json:"fullName"`
	DegreeProgram   string     `json:"degreeProgram"`
	EarnedCredits   int        `json:"earnedCredits"`
	RequiredCredits int        `json:"requiredCredits"`
	Eligible        bool       `json:"eligible"`
	Grades          []GradeRow `json:"grades"`
	AverageGrade    float64    `json:"averageGrade"`
	HasGrades       bool       `json:"hasGrades"`
	Completion      Completion `json:"completion"`
}

// Calendar entry kinds in a student feed.
const (
	CalendarEvent      = "event"
	CalendarExam       = "exam"
	CalendarAssignment = "assignment"
)

// CalendarEntry is a dated item merged from events, exams and assignments.
type CalendarEntry struct {
	Kind       string `json:"kind"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       Date   `json:"date"`
	StartTime  string `json:"startTime,omitempty"`
	EndTime    string `json:"endTime,omitempty"`
	CourseCode string `json:"courseCode,omitempty"`
}

// StudentFeed is the home screen projection of a student.
type StudentFeed struct {
	StudentID   string          `json:"studentId"`
	Semester    string          `json:"semester"`
	Courses     []Course        `json:"courses"`
	Events      []Event         `json:"events"`
	Exams       []Exam          `json:"exams"`
	Assignments []Assignment    `json:"assignments"`
	Calendar    []CalendarEntry `json:"calendar"`
}

// WeeklyWorkload counts exams and assignments falling in a week of the current month.
type WeeklyWorkload struct {
	Week        int `json:"week"`
	Exams       int `json:"exams"`
	Assignments int `json:"assignments"`
}

// DegreeCount is the number of students in a degree program.
type DegreeCount struct {
	DegreeProgram string `json:"degreeProgram"`
	Students      int    `json:"students"`
}

// AdminSummary is the institution wide dashboard projection.
type AdminSummary struct {
	GeneratedAt       time.Time        `json:"generatedAt"`
	TotalStudents     int              `json:"totalStudents"`
	TotalCourses      int              `json:"totalCourses"`
	StudentsPerDegree []DegreeCount    `json:"studentsPerDegree"`
	Workload          []WeeklyWorkload `json:"workload"`
	UpcomingEvents    []Event          `json:"upcomingEvents"`
}
