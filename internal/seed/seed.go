// Package seed fills a store with demo data through the services, so every business rule applies.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/internal/service"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
)

const (
	firstStudentID = 200000000
	maxRosterSize  = 8
)

var (
	firstNames   = []string{"Noa", "Itai", "Maya", "Omer", "Tamar", "Yonatan", "Shira", "Ariel", "Lior", "Dana"}
	lastNames    = []string{"Cohen", "Levi", "Mizrahi", "Peretz", "Biton", "Friedman", "Azulay", "Katz", "Shapiro", "Ben David"}
	lecturers    = []string{"Ruth Gal", "Moshe Adler", "Hila Baron", "Eitan Sade", "Orly Tal", "Gil Naor"}
	courseTitles = []string{
		"Data Structures", "Linear Algebra", "Microeconomics", "Cell Biology", "Cognitive Psychology",
		"Software Design", "Urban Planning", "Learning Theory", "Statistics", "Operating Systems",
	}
)

// Services are the use-cases the seeder drives.
type Services struct {
	Students    *service.StudentService
	Courses     *service.CourseService
	Assignments *service.AssignmentService
	Exams       *service.ExamService
	Events      *service.EventService
}

// Options sizes the generated data set.
type Options struct {
	Students int
	Courses  int
	Seed     int64
	Now      time.Time
}

// Result counts what was created. Records that already existed are counted as Skipped.
type Result struct {
	Students    int
	Courses     int
	Assignments int
	Exams       int
	Events      int
	Skipped     int
}

// Seeder generates demo students, courses with graded rosters, coursework and events.
type Seeder struct {
	svc    Services
	logger *zap.Logger
	rnd    *rand.Rand
	now    time.Time
	result Result
}

// New constructs a seeder.
func New(svc Services, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{svc: svc, logger: logger}
}

// Run creates the data set. Duplicates from an earlier run are skipped, any other failure aborts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	s.result = Result{}
	s.rnd = rand.New(rand.NewSource(opts.Seed))
	s.now = opts.Now
	if s.now.IsZero() {
		s.now = time.Now()
	}

	students, err := s.seedStudents(ctx, opts.Students)
	if err != nil {
		return s.result, err
	}
	courses, err := s.seedCourses(ctx, opts.Courses, students)
	if err != nil {
		return s.result, err
	}
	for _, course := range courses {
		if err := s.seedCoursework(ctx, course); err != nil {
			return s.result, err
		}
	}
	if err := s.seedEvents(ctx, students, courses); err != nil {
		return s.result, err
	}
	return s.result, nil
}

func (s *Seeder) seedStudents(ctx context.Context, n int) ([]models.Student, error) {
	students := make([]models.Student, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		req := service.CreateStudentRequest{
			StudentID:     fmt.Sprintf("%09d", firstStudentID+i),
			FirstName:     first,
			LastName:      last,
			Email:         fmt.Sprintf("%s.%s.%d@onboard.example", strings.ToLower(first), strings.ToLower(strings.ReplaceAll(last, " ", "")), i),
			AcademicYear:  models.MinAcademicYear + i%models.MaxAcademicYear,
			DegreeProgram: models.DegreePrograms[i%len(models.DegreePrograms)],
		}
		student, err := s.svc.Students.Create(ctx, req)
		if s.skip(err, "student", req.StudentID) {
			if existing, lookupErr := s.svc.Students.GetByStudentID(ctx, req.StudentID); lookupErr == nil {
				students = append(students, *existing)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed student %s: %w", req.StudentID, err)
		}
		s.result.Students++
		students = append(students, *student)
	}
	return students, nil
}

func (s *Seeder) seedCourses(ctx context.Context, n int, students []models.Student) ([]models.Course, error) {
	courses := make([]models.Course, 0, n)
	for i := 0; i < n; i++ {
		req := service.CreateCourseRequest{
			CourseName:       courseTitles[i%len(courseTitles)],
			CreditPoints:     2 + s.rnd.Intn(5),
			Semester:         models.Semesters[i%len(models.Semesters)],
			LecturerName:     lecturers[i%len(lecturers)],
			LecturerEmail:    fmt.Sprintf("lecturer%d@onboard.example", i),
			DegreeProgram:    models.DegreePrograms[i%len(models.DegreePrograms)],
			EnrolledStudents: s.roster(students),
		}
		course, err := s.svc.Courses.Create(ctx, req)
		if s.skip(err, "course", req.LecturerEmail) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed course %q: %w", req.CourseName, err)
		}
		s.result.Courses++
		courses = append(courses, *course)
	}
	return courses, nil
}

// roster picks a random subset of students. Roughly a quarter stay ungraded.
func (s *Seeder) roster(students []models.Student) []service.RosterInput {
	if len(students) == 0 {
		return nil
	}
	size := 1 + s.rnd.Intn(min(maxRosterSize, len(students)))
	entries := make([]service.RosterInput, 0, size)
	for _, idx := range s.rnd.Perm(len(students))[:size] {
		entry := service.RosterInput{StudentID: students[idx].StudentID}
		if s.rnd.Intn(4) > 0 {
			grade := float64(40 + s.rnd.Intn(61))
			entry.Grade = &grade
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *Seeder) seedCoursework(ctx context.Context, course models.Course) error {
	_, err := s.svc.Assignments.Create(ctx, service.AssignmentRequest{
		Title:       course.CourseName + " problem set",
		Description: "Weekly exercises",
		DueDate:     s.futureDate(3, 28),
		CourseCode:  course.CourseCode,
	})
	if err != nil {
		return fmt.Errorf("seed assignment for %s: %w", course.CourseCode, err)
	}
	s.result.Assignments++

	_, err = s.svc.Exams.Create(ctx, service.ExamRequest{
		ExamName:    course.CourseName + " final",
		Description: "Closed book",
		ExamDate:    s.futureDate(14, 60),
		CourseCode:  course.CourseCode,
	})
	if err != nil {
		return fmt.Errorf("seed exam for %s: %w", course.CourseCode, err)
	}
	s.result.Exams++
	return nil
}

func (s *Seeder) seedEvents(ctx context.Context, students []models.Student, courses []models.Course) error {
	requests := []service.EventRequest{{
		EventName:    "Semester opening",
		Description:  "Welcome assembly",
		EventDate:    s.futureDate(1, 5),
		StartTime:    "09:00",
		EndTime:      "11:00",
		AudienceType: models.AudienceAll,
	}}
	if len(students) > 0 {
		requests = append(requests, service.EventRequest{
			EventName:     models.DegreePrograms[0] + " meetup",
			EventDate:     s.futureDate(2, 10),
			AudienceType:  models.AudienceDegree,
			AudienceValue: models.AudienceText(students[0].DegreeProgram),
		})
		ids := make([]string, 0, 3)
		for i := 0; i < len(students) && i < 3; i++ {
			ids = append(ids, students[i].StudentID)
		}
		requests = append(requests, service.EventRequest{
			EventName:     "Advisor office hours",
			EventDate:     s.futureDate(1, 14),
			StartTime:     "14:00",
			EndTime:       "15:30",
			AudienceType:  models.AudienceStudents,
			AudienceValue: models.AudienceStudentIDs(ids...),
		})
	}
	if len(courses) > 0 {
		requests = append(requests, service.EventRequest{
			EventName:     courses[0].CourseName + " review session",
			EventDate:     s.futureDate(5, 20),
			AudienceType:  models.AudienceCourse,
			AudienceValue: models.AudienceText(courses[0].CourseCode),
		})
	}

	for _, req := range requests {
		if _, err := s.svc.Events.Create(ctx, req); err != nil {
			return fmt.Errorf("seed event %q: %w", req.EventName, err)
		}
		s.result.Events++
	}
	return nil
}

func (s *Seeder) futureDate(minDays, maxDays int) models.Date {
	days := minDays + s.rnd.Intn(maxDays-minDays+1)
	return models.NewDate(s.now.AddDate(0, 0, days))
}

func (s *Seeder) skip(err error, entity, key string) bool {
	if err == nil || !errors.Is(err, appErrors.ErrConflict) {
		return false
	}
	s.result.Skipped++
	s.logger.Info("seed record exists, skipping", zap.String("entity", entity), zap.String("key", key))
	return true
}
