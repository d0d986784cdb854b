package academic

import (
	"github.com/hilamalka1/onboard-api/internal/models"
)

// RequiredCredits is the graduation threshold.
const RequiredCredits = 120

func courseKey(course models.Course) string {
	if course.CourseCode != "" {
		return course.CourseCode
	}
	return "id:" + course.ID
}

// passed trusts only a recorded grade. A stored completed flag may be stale.
func passed(roster models.Roster, studentID string) bool {
	for _, entry := range roster {
		if entry.StudentID != studentID {
			continue
		}
		if entry.Grade != nil && *entry.Grade >= models.PassingGrade {
			return true
		}
	}
	return false
}

// EarnedCredits sums the credit points of courses studentID has passed. A course code counts once
// even when it appears in several documents or the student is listed twice. Negative credit points
// count as zero.
func EarnedCredits(studentID string, courses []models.Course) int {
	counted := make(map[string]struct{}, len(courses))
	total := 0
	for _, course := range courses {
		key := courseKey(course)
		if _, done := counted[key]; done {
			continue
		}
		if !passed(course.EnrolledStudents, studentID) {
			continue
		}
		counted[key] = struct{}{}
		if course.CreditPoints > 0 {
			total += course.CreditPoints
		}
	}
	return total
}

// IsEligible reports whether earned meets the graduation threshold.
func IsEligible(earned int) bool {
	return earned >= RequiredCredits
}

// CompletionOf splits the threshold into earned and remaining credits. Remaining never drops below zero.
func CompletionOf(earned int) models.Completion {
	if earned < 0 {
		earned = 0
	}
	remaining := RequiredCredits - earned
	if remaining < 0 {
		remaining = 0
	}
	return models.Completion{Completed: earned, Remaining: remaining}
}
