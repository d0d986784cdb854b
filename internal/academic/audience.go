package academic

import (
	"github.com/hilamalka1/onboard-api/internal/models"
)

// AppliesTo decides whether event concerns student. studentCourses are the courses the student is
// enrolled in. Unknown audience types never match.
func AppliesTo(event models.Event, student models.Student, studentCourses []models.Course) bool {
	switch event.AudienceType {
	case models.AudienceAll:
		return true
	case models.AudienceDegree:
		return event.AudienceValue.Text != "" && student.DegreeProgram == event.AudienceValue.Text
	case models.AudienceCourse:
		code := event.AudienceValue.Text
		if code == "" {
			return false
		}
		for _, course := range studentCourses {
			if course.CourseCode == code {
				return true
			}
		}
		return false
	case models.AudienceStudents:
		for _, id := range event.AudienceValue.Students {
			if id == student.StudentID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// FilterEvents keeps the events that apply to student, preserving order.
func FilterEvents(events []models.Event, student models.Student, studentCourses []models.Course) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, event := range events {
		if AppliesTo(event, student, studentCourses) {
			out = append(out, event)
		}
	}
	return out
}

// StudentCourses returns the courses whose roster lists studentID. An empty semester or
// models.SemesterAllYear disables the semester filter.
func StudentCourses(studentID string, courses []models.Course, semester string) []models.Course {
	filterSemester := semester != "" && semester != models.SemesterAllYear
	out := make([]models.Course, 0)
	for _, course := range courses {
		if filterSemester && course.Semester != semester {
			continue
		}
		if course.EnrolledStudents.Find(studentID) >= 0 {
			out = append(out, course)
		}
	}
	return out
}

// CourseCodes returns the distinct course codes of courses in order of first appearance.
func CourseCodes(courses []models.Course) []string {
	seen := make(map[string]struct{}, len(courses))
	codes := make([]string, 0, len(courses))
	for _, course := range courses {
		if _, ok := seen[course.CourseCode]; ok || course.CourseCode == "" {
			continue
		}
		seen[course.CourseCode] = struct{}{}
		codes = append(codes, course.CourseCode)
	}
	return codes
}
