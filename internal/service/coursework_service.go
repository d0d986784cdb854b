package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/pkg/validation"
)

// AssignmentRequest holds payload for creating or updating assignments.
type AssignmentRequest struct {
	Title       string      `json:"title" validate:"required,min=2,max=200"`
	Description string      `json:"description" validate:"max=2000"`
	DueDate     models.Date `json:"dueDate"`
	CourseCode  string      `json:"courseCode" validate:"required,coursecode"`
}

// ExamRequest holds payload for creating or updating exams.
type ExamRequest struct {
	ExamName    string      `json:"examName" validate:"required,min=2,max=200"`
	Description string      `json:"description" validate:"max=2000"`
	ExamDate    models.Date `json:"examDate"`
	CourseCode  string      `json:"courseCode" validate:"required,coursecode"`
}

// dateDetails adds a field error when date is unset or before today.
func dateDetails(details map[string]string, field string, date models.Date, now time.Time) map[string]string {
	switch {
	case date.IsZero():
		return merge(details, map[string]string{field: field + " is a required field"})
	case !validation.NotInPast(date, now):
		return merge(details, map[string]string{field: field + " must not be in the past"})
	}
	return details
}

// AssignmentService handles assignment use-cases. The course code is not checked against courses.
type AssignmentService struct {
	repo        AssignmentRepository
	validator   *validation.Validator
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo AssignmentRepository, validate *validation.Validator, invalidator Invalidator, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, validator: validate, invalidator: invalidatorOrNoop(invalidator), logger: logger, now: time.Now}
}

// List returns assignments, optionally for one course.
func (s *AssignmentService) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)
	filter.CourseCode = strings.ToUpper(strings.TrimSpace(filter.CourseCode))
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		withRequest(ctx, s.logger).Error("list assignments failed", zap.Error(err))
		return nil, nil, storeError(err, "assignments", "list")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an assignment by id.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "assignment", "load")
	}
	return item, nil
}

// Create stores a new assignment.
func (s *AssignmentService) Create(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	item := &models.Assignment{Title: req.Title, Description: req.Description, DueDate: req.DueDate, CourseCode: req.CourseCode}
	if err := s.repo.Create(ctx, item); err != nil {
		withRequest(ctx, s.logger).Error("create assignment failed", zap.String("course_code", req.CourseCode), zap.Error(err))
		return nil, storeError(err, "assignment", "create")
	}
	s.invalidator.ProjectionsChanged(ctx, "assignment created")
	return item, nil
}

// Update rewrites an assignment keyed by id.
func (s *AssignmentService) Update(ctx context.Context, id string, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "assignment", "load")
	}
	item.Title = req.Title
	item.Description = req.Description
	item.DueDate = req.DueDate
	item.CourseCode = req.CourseCode
	if err := s.repo.Update(ctx, item); err != nil {
		withRequest(ctx, s.logger).Error("update assignment failed", zap.String("id", id), zap.Error(err))
		return nil, storeError(err, "assignment", "update")
	}
	s.invalidator.ProjectionsChanged(ctx, "assignment updated")
	return item, nil
}

// Delete permanently removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "assignment", "delete")
	}
	s.invalidator.ProjectionsChanged(ctx, "assignment deleted")
	return nil
}

func (s *AssignmentService) check(req *AssignmentRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.CourseCode = strings.ToUpper(strings.TrimSpace(req.CourseCode))
	details := s.validator.Struct(*req)
	return invalid(dateDetails(details, "dueDate", req.DueDate, s.now()))
}

// ExamService handles exam use-cases.
type ExamService struct {
	repo        ExamRepository
	validator   *validation.Validator
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewExamService constructs the exam service.
func NewExamService(repo ExamRepository, validate *validation.Validator, invalidator Invalidator, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, validator: validate, invalidator: invalidatorOrNoop(invalidator), logger: logger, now: time.Now}
}

// List returns exams, optionally for one course.
func (s *ExamService) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)
	filter.CourseCode = strings.ToUpper(strings.TrimSpace(filter.CourseCode))
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		withRequest(ctx, s.logger).Error("list exams failed", zap.Error(err))
		return nil, nil, storeError(err, "exams", "list")
	}
	return items, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an exam by id.
func (s *ExamService) Get(ctx context.Context, id string) (*models.Exam, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "exam", "load")
	}
	return item, nil
}

// Create stores a new exam.
func (s *ExamService) Create(ctx context.Context, req ExamRequest) (*models.Exam, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	item := &models.Exam{ExamName: req.ExamName, Description: req.Description, ExamDate: req.ExamDate, CourseCode: req.CourseCode}
	if err := s.repo.Create(ctx, item); err != nil {
		withRequest(ctx, s.logger).Error("create exam failed", zap.String("course_code", req.CourseCode), zap.Error(err))
		return nil, storeError(err, "exam", "create")
	}
	s.invalidator.ProjectionsChanged(ctx, "exam created")
	return item, nil
}

// Update rewrites an exam keyed by id.
func (s *ExamService) Update(ctx context.Context, id string, req ExamRequest) (*models.Exam, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "exam", "load")
	}
	item.ExamName = req.ExamName
	item.Description = req.Description
	item.ExamDate = req.ExamDate
	item.CourseCode = req.CourseCode
	if err := s.repo.Update(ctx, item); err != nil {
		withRequest(ctx, s.logger).Error("update exam failed", zap.String("id", id), zap.Error(err))
		return nil, storeError(err, "exam", "update")
	}
	s.invalidator.ProjectionsChanged(ctx, "exam updated")
	return item, nil
}

// Delete permanently removes an exam.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "exam", "delete")
	}
	s.invalidator.ProjectionsChanged(ctx, "exam deleted")
	return nil
}

func (s *ExamService) check(req *ExamRequest) error {
	req.ExamName = strings.TrimSpace(req.ExamName)
	req.Description = strings.TrimSpace(req.Description)
	req.CourseCode = strings.ToUpper(strings.TrimSpace(req.CourseCode))
	details := s.validator.Struct(*req)
	return invalid(dateDetails(details, "examDate", req.ExamDate, s.now()))
}
