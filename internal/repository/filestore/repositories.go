package filestore

import (
	"context"
	"sort"
	"time"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// Collection file names.
const (
	studentsFile    = "students"
	coursesFile     = "courses"
	assignmentsFile = "assignments"
	examsFile       = "exams"
	eventsFile      = "events"
)

// StudentRepository keeps students in students.json.
type StudentRepository struct {
	c *collection[models.Student]
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(s *Store) *StudentRepository {
	return &StudentRepository{c: &collection[models.Student]{
		store:  s,
		name:   studentsFile,
		id:     func(v *models.Student) *string { return &v.ID },
		stamps: func(v *models.Student) (*time.Time, *time.Time) { return &v.CreatedAt, &v.UpdatedAt },
		unique: []uniqueKey[models.Student]{
			{field: "studentId", value: func(v models.Student) string { return normalise(v.StudentID) }},
			{field: "email", value: func(v models.Student) string { return normalise(v.Email) }},
		},
	}}
}

// List filters, sorts and paginates students in memory.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	all, err := r.c.all(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Student, 0, len(all))
	for _, s := range all {
		if filter.DegreeProgram != "" && s.DegreeProgram != filter.DegreeProgram {
			continue
		}
		if filter.AcademicYear > 0 && s.AcademicYear != filter.AcademicYear {
			continue
		}
		if filter.Search != "" && !containsFold(filter.Search, s.FullName(), s.StudentID, s.Email) {
			continue
		}
		matched = append(matched, s)
	}
	less := func(a, b models.Student) bool { return a.LastName < b.LastName }
	switch filter.SortBy {
	case "studentId":
		less = func(a, b models.Student) bool { return a.StudentID < b.StudentID }
	case "createdAt":
		less = func(a, b models.Student) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	desc := descending(filter.SortOrder)
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

// All returns every student.
func (r *StudentRepository) All(ctx context.Context) ([]models.Student, error) { return r.c.all(ctx) }

// FindByID fetches a student by storage ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.c.findByID(ctx, id)
}

// FindByStudentID fetches a student by business key.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.c.first(ctx, func(s models.Student) bool { return s.StudentID == studentID })
}

// ExistsByStudentID checks the business key optionally excluding an ID.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error) {
	return r.c.exists(ctx, "studentId", studentID, excludeID)
}

// ExistsByEmail checks the email optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.c.exists(ctx, "email", email, excludeID)
}

// Create appends a student when its keys are free.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error { return r.c.create(ctx, s) }

// Update rewrites a student by ID.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error { return r.c.update(ctx, s) }

// Delete removes a student by ID.
func (r *StudentRepository) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// CourseRepository keeps courses in courses.json.
type CourseRepository struct {
	c *collection[models.Course]
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(s *Store) *CourseRepository {
	return &CourseRepository{c: &collection[models.Course]{
		store:  s,
		name:   coursesFile,
		id:     func(v *models.Course) *string { return &v.ID },
		stamps: func(v *models.Course) (*time.Time, *time.Time) { return &v.CreatedAt, &v.UpdatedAt },
		unique: []uniqueKey[models.Course]{
			{field: "courseCode", value: func(v models.Course) string { return normalise(v.CourseCode) }},
			{field: "lecturerEmail", value: func(v models.Course) string { return normalise(v.LecturerEmail) }},
		},
	}}
}

// List filters, sorts and paginates courses in memory.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	all, err := r.c.all(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Course, 0, len(all))
	for _, c := range all {
		if filter.Semester != "" && c.Semester != filter.Semester {
			continue
		}
		if filter.DegreeProgram != "" && c.DegreeProgram != filter.DegreeProgram {
			continue
		}
		if filter.Search != "" && !containsFold(filter.Search, c.CourseName, c.CourseCode, c.LecturerName) {
			continue
		}
		matched = append(matched, c)
	}
	less := func(a, b models.Course) bool { return a.CourseCode < b.CourseCode }
	switch filter.SortBy {
	case "courseName":
		less = func(a, b models.Course) bool { return a.CourseName < b.CourseName }
	case "creditPoints":
		less = func(a, b models.Course) bool { return a.CreditPoints < b.CreditPoints }
	case "createdAt":
		less = func(a, b models.Course) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	desc := descending(filter.SortOrder)
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

// All returns every course.
func (r *CourseRepository) All(ctx context.Context) ([]models.Course, error) { return r.c.all(ctx) }

// FindByID fetches a course by storage ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return r.c.findByID(ctx, id)
}

// FindByCode fetches a course by business code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	return r.c.first(ctx, func(c models.Course) bool { return c.CourseCode == code })
}

// ExistsByCode checks the code optionally excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return r.c.exists(ctx, "courseCode", code, excludeID)
}

// ExistsByLecturerEmail checks the lecturer email optionally excluding an ID.
func (r *CourseRepository) ExistsByLecturerEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.c.exists(ctx, "lecturerEmail", email, excludeID)
}

// Create appends a course when its keys are free.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.EnrolledStudents == nil {
		c.EnrolledStudents = models.Roster{}
	}
	return r.c.create(ctx, c)
}

// Update rewrites a course by ID.
func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error { return r.c.update(ctx, c) }

// Delete removes a course by ID.
func (r *CourseRepository) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// AssignmentRepository keeps assignments in assignments.json.
type AssignmentRepository struct {
	c *collection[models.Assignment]
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(s *Store) *AssignmentRepository {
	return &AssignmentRepository{c: &collection[models.Assignment]{
		store:  s,
		name:   assignmentsFile,
		id:     func(v *models.Assignment) *string { return &v.ID },
		stamps: func(v *models.Assignment) (*time.Time, *time.Time) { return &v.CreatedAt, &v.UpdatedAt },
	}}
}

// List returns assignments ordered by due date.
func (r *AssignmentRepository) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, int, error) {
	all, err := r.c.all(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Assignment, 0, len(all))
	for _, a := range all {
		if filter.CourseCode == "" || a.CourseCode == filter.CourseCode {
			matched = append(matched, a)
		}
	}
	desc := descending(filter.SortOrder)
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[j].DueDate.Before(matched[i].DueDate.Time)
		}
		return matched[i].DueDate.Before(matched[j].DueDate.Time)
	})
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

// All returns every assignment.
func (r *AssignmentRepository) All(ctx context.Context) ([]models.Assignment, error) {
	return r.c.all(ctx)
}

// FindByID fetches an assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	return r.c.findByID(ctx, id)
}

// Create appends an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	return r.c.create(ctx, a)
}

// Update rewrites an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	return r.c.update(ctx, a)
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// ExamRepository keeps exams in exams.json.
type ExamRepository struct {
	c *collection[models.Exam]
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(s *Store) *ExamRepository {
	return &ExamRepository{c: &collection[models.Exam]{
		store:  s,
		name:   examsFile,
		id:     func(v *models.Exam) *string { return &v.ID },
		stamps: func(v *models.Exam) (*time.Time, *time.Time) { return &v.CreatedAt, &v.UpdatedAt },
	}}
}

// List returns exams ordered by date.
func (r *ExamRepository) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, int, error) {
	all, err := r.c.all(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Exam, 0, len(all))
	for _, e := range all {
		if filter.CourseCode == "" || e.CourseCode == filter.CourseCode {
			matched = append(matched, e)
		}
	}
	desc := descending(filter.SortOrder)
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[j].ExamDate.Before(matched[i].ExamDate.Time)
		}
		return matched[i].ExamDate.Before(matched[j].ExamDate.Time)
	})
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

// All returns every exam.
func (r *ExamRepository) All(ctx context.Context) ([]models.Exam, error) { return r.c.all(ctx) }

// FindByID fetches an exam.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	return r.c.findByID(ctx, id)
}

// Create appends an exam.
func (r *ExamRepository) Create(ctx context.Context, e *models.Exam) error { return r.c.create(ctx, e) }

// Update rewrites an exam.
func (r *ExamRepository) Update(ctx context.Context, e *models.Exam) error { return r.c.update(ctx, e) }

// Delete removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }

// EventRepository keeps events in events.json.
type EventRepository struct {
	c *collection[models.Event]
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(s *Store) *EventRepository {
	return &EventRepository{c: &collection[models.Event]{
		store:  s,
		name:   eventsFile,
		id:     func(v *models.Event) *string { return &v.ID },
		stamps: func(v *models.Event) (*time.Time, *time.Time) { return &v.CreatedAt, &v.UpdatedAt },
	}}
}

// List returns events ordered by date and start time.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	all, err := r.c.all(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Event, 0, len(all))
	for _, e := range all {
		if filter.AudienceType != "" && e.AudienceType != filter.AudienceType {
			continue
		}
		if filter.From != nil && e.EventDate.Before(filter.From.Time) {
			continue
		}
		if filter.To != nil && e.EventDate.After(filter.To.Time) {
			continue
		}
		matched = append(matched, e)
	}
	less := func(a, b models.Event) bool {
		if a.EventDate.Equal(b.EventDate.Time) {
			return a.StartTime < b.StartTime
		}
		return a.EventDate.Before(b.EventDate.Time)
	}
	desc := descending(filter.SortOrder)
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

// All returns every event.
func (r *EventRepository) All(ctx context.Context) ([]models.Event, error) { return r.c.all(ctx) }

// FindByID fetches an event.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	return r.c.findByID(ctx, id)
}

// Create appends an event.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error { return r.c.create(ctx, e) }

// Update rewrites an event.
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error { return r.c.update(ctx, e) }

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error { return r.c.delete(ctx, id) }
