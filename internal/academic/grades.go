package academic

import (
	"github.com/hilamalka1/onboard-api/internal/models"
)

// ProjectGrades returns one row per course in which studentID has a recorded grade, pass or fail.
func ProjectGrades(studentID string, courses []models.Course) []models.GradeRow {
	seen := make(map[string]struct{}, len(courses))
	rows := make([]models.GradeRow, 0)
	for _, course := range courses {
		key := courseKey(course)
		if _, ok := seen[key]; ok {
			continue
		}
		for _, entry := range course.EnrolledStudents {
			if entry.StudentID != studentID || entry.Grade == nil {
				continue
			}
			seen[key] = struct{}{}
			rows = append(rows, models.GradeRow{
				CourseCode:   course.CourseCode,
				CourseName:   course.CourseName,
				CreditPoints: course.CreditPoints,
				Semester:     course.Semester,
				Grade:        *entry.Grade,
				Completed:    *entry.Grade >= models.PassingGrade,
			})
			break
		}
	}
	return rows
}

// AverageGrade is the arithmetic mean of rows, or 0 when rows is empty.
func AverageGrade(rows []models.GradeRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, row := range rows {
		sum += row.Grade
	}
	return sum / float64(len(rows))
}

// Progress bundles credits, eligibility and grades of student. HasGrades separates
// "no grades yet" from a real average of 0.
func Progress(student models.Student, courses []models.Course) models.StudentProgress {
	earned := EarnedCredits(student.StudentID, courses)
	rows := ProjectGrades(student.StudentID, courses)
	return models.StudentProgress{
		StudentID:       student.StudentID,
		FullName:        student.FullName(),
		DegreeProgram:   student.DegreeProgram,
		EarnedCredits:   earned,
		RequiredCredits: RequiredCredits,
		Eligible:        IsEligible(earned),
		Grades:          rows,
		AverageGrade:    AverageGrade(rows),
		HasGrades:       len(rows) > 0,
		Completion:      CompletionOf(earned),
	}
}
