package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/validation"
)

// CreateStudentRequest holds payload for registering students.
type CreateStudentRequest struct {
	StudentID     string `json:"studentId" validate:"required,studentid"`
	FirstName     string `json:"firstName" validate:"required,personname"`
	LastName      string `json:"lastName" validate:"required,personname"`
	Email         string `json:"email" validate:"required,email_shape"`
	AcademicYear  int    `json:"academicYear" validate:"required,min=1,max=4"`
	DegreeProgram string `json:"degreeProgram" validate:"required,degree"`
}

// UpdateStudentRequest holds editable student fields. The student ID cannot change.
type UpdateStudentRequest struct {
	FirstName     string `json:"firstName" validate:"required,personname"`
	LastName      string `json:"lastName" validate:"required,personname"`
	Email         string `json:"email" validate:"required,email_shape"`
	AcademicYear  int    `json:"academicYear" validate:"required,min=1,max=4"`
	DegreeProgram string `json:"degreeProgram" validate:"required,degree"`
}

func (r *CreateStudentRequest) normalize() {
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.DegreeProgram = strings.TrimSpace(r.DegreeProgram)
}

func (r *UpdateStudentRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
	r.DegreeProgram = strings.TrimSpace(r.DegreeProgram)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        StudentRepository
	validator   *validation.Validator
	invalidator Invalidator
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo StudentRepository, validate *validation.Validator, invalidator Invalidator, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, invalidator: invalidatorOrNoop(invalidator), logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		withRequest(ctx, s.logger).Error("list students failed", zap.Error(err))
		return nil, nil, storeError(err, "students", "list")
	}
	return students, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student by storage id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student", "load")
	}
	return student, nil
}

// GetByStudentID returns a student by its 9 digit business key.
func (s *StudentService) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.repo.FindByStudentID(ctx, strings.TrimSpace(studentID))
	if err != nil {
		return nil, storeError(err, "student", "load")
	}
	return student, nil
}

// Create registers a new student after checking both unique fields.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.normalize()
	if details := s.validator.Struct(req); details != nil {
		return nil, invalid(details)
	}

	exists, err := s.repo.ExistsByStudentID(ctx, req.StudentID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student ID")
	}
	if exists {
		return nil, duplicate("studentId")
	}
	exists, err = s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, duplicate("email")
	}

	student := &models.Student{
		StudentID:     req.StudentID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		AcademicYear:  req.AcademicYear,
		DegreeProgram: req.DegreeProgram,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		withRequest(ctx, s.logger).Error("create student failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, storeError(err, "student", "create")
	}
	s.invalidator.ProjectionsChanged(ctx, "student created")
	return student, nil
}

// Update modifies an existing student. Email stays unique excluding the student itself.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	req.normalize()
	if details := s.validator.Struct(req); details != nil {
		return nil, invalid(details)
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "student", "load")
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, duplicate("email")
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.AcademicYear = req.AcademicYear
	student.DegreeProgram = req.DegreeProgram
	if err := s.repo.Update(ctx, student); err != nil {
		withRequest(ctx, s.logger).Error("update student failed", zap.String("id", id), zap.Error(err))
		return nil, storeError(err, "student", "update")
	}
	s.invalidator.ProjectionsChanged(ctx, "student updated")
	return student, nil
}

// Delete permanently removes a student. Roster entries in courses are left as recorded.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "student", "delete")
	}
	s.invalidator.ProjectionsChanged(ctx, "student deleted")
	return nil
}
