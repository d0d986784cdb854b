package models

// Semesters offered by the institution. SemesterAllYear is only a feed filter value.
const (
	SemesterA       = "Semester A"
	SemesterB       = "Semester B"
	SemesterSummer  = "Summer"
	SemesterAllYear = "All Year"
)

// Academic year bounds.
const (
	MinAcademicYear = 1
	MaxAcademicYear = 4
)

// DegreePrograms is the fixed degree catalog.
var DegreePrograms = []string{
	"Computer Science",
	"Software Engineering",
	"Business Administration",
	"Biology",
	"Psychology",
	"Economics",
	"Education",
	"Architecture",
}

// Semesters lists the semesters a course can run in.
var Semesters = []string{SemesterA, SemesterB, SemesterSummer}

// IsDegreeProgram reports whether name is in the catalog.
func IsDegreeProgram(name string) bool {
	return contains(DegreePrograms, name)
}

// IsSemester reports whether name is a course semester.
func IsSemester(name string) bool {
	return contains(Semesters, name)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
