package service

import (
	"context"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// StudentRepository is implemented by every entity store backend.
type StudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	All(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// CourseRepository persists courses together with their embedded roster.
type CourseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	All(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByLecturerEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// AssignmentRepository persists assignments.
type AssignmentRepository interface {
	List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, int, error)
	All(ctx context.Context) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, item *models.Assignment) error
	Update(ctx context.Context, item *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

// ExamRepository persists exams.
type ExamRepository interface {
	List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, int, error)
	All(ctx context.Context) ([]models.Exam, error)
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	Create(ctx context.Context, item *models.Exam) error
	Update(ctx context.Context, item *models.Exam) error
	Delete(ctx context.Context, id string) error
}

// EventRepository persists events.
type EventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	All(ctx context.Context) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// Invalidator is told about every successful mutation so cached projections can be dropped.
type Invalidator interface {
	ProjectionsChanged(ctx context.Context, reason string)
}

type noopInvalidator struct{}

func (noopInvalidator) ProjectionsChanged(context.Context, string) {}

func invalidatorOrNoop(inv Invalidator) Invalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}
