package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/validation"
)

// maxCodeAttempts bounds regeneration of a colliding course code.
const maxCodeAttempts = 10

// RosterInput enrolls one student, optionally with a grade.
type RosterInput struct {
	StudentID string   `json:"studentId" validate:"required,studentid"`
	Grade     *float64 `json:"grade" validate:"omitempty,min=0,max=100"`
}

// CreateCourseRequest holds payload for creating courses. An empty course code is generated.
type CreateCourseRequest struct {
	CourseCode       string        `json:"courseCode" validate:"omitempty,coursecode"`
	CourseName       string        `json:"courseName" validate:"required,min=2,max=120"`
	CreditPoints     int           `json:"creditPoints" validate:"required,min=1,max=30"`
	Semester         string        `json:"semester" validate:"required,semester"`
	LecturerName     string        `json:"lecturerName" validate:"required,personname"`
	LecturerEmail    string        `json:"lecturerEmail" validate:"required,email_shape"`
	DegreeProgram    string        `json:"degreeProgram" validate:"required,degree"`
	EnrolledStudents []RosterInput `json:"enrolledStudents" validate:"omitempty,dive"`
}

// UpdateCourseRequest holds editable course fields. The roster is managed separately.
type UpdateCourseRequest struct {
	CourseCode    string `json:"courseCode" validate:"required,coursecode"`
	CourseName    string `json:"courseName" validate:"required,min=2,max=120"`
	CreditPoints  int    `json:"creditPoints" validate:"required,min=1,max=30"`
	Semester      string `json:"semester" validate:"required,semester"`
	LecturerName  string `json:"lecturerName" validate:"required,personname"`
	LecturerEmail string `json:"lecturerEmail" validate:"required,email_shape"`
	DegreeProgram string `json:"degreeProgram" validate:"required,degree"`
}

// GradeRequest sets or clears (null) a roster grade.
type GradeRequest struct {
	Grade *float64 `json:"grade" validate:"omitempty,min=0,max=100"`
}

func (r *CreateCourseRequest) normalize() {
	r.CourseCode = strings.ToUpper(strings.TrimSpace(r.CourseCode))
	r.CourseName = strings.TrimSpace(r.CourseName)
	r.LecturerName = strings.TrimSpace(r.LecturerName)
	r.LecturerEmail = normalizeEmail(r.LecturerEmail)
	for i := range r.EnrolledStudents {
		r.EnrolledStudents[i].StudentID = strings.TrimSpace(r.EnrolledStudents[i].StudentID)
	}
}

func (r *UpdateCourseRequest) normalize() {
	r.CourseCode = strings.ToUpper(strings.TrimSpace(r.CourseCode))
	r.CourseName = strings.TrimSpace(r.CourseName)
	r.LecturerName = strings.TrimSpace(r.LecturerName)
	r.LecturerEmail = normalizeEmail(r.LecturerEmail)
}

// CourseService handles courses and their embedded roster.
type CourseService struct {
	repo         CourseRepository
	students     StudentRepository
	validator    *validation.Validator
	invalidator  Invalidator
	logger       *zap.Logger
	generateCode func() (string, error)
}

// NewCourseService constructs the course service. students resolves roster names.
func NewCourseService(repo CourseRepository, students StudentRepository, validate *validation.Validator, invalidator Invalidator, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:         repo,
		students:     students,
		validator:    validate,
		invalidator:  invalidatorOrNoop(invalidator),
		logger:       logger,
		generateCode: func() (string, error) { return validation.GenerateCourseCode(nil) },
	}
}

// List returns courses and pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		withRequest(ctx, s.logger).Error("list courses failed", zap.Error(err))
		return nil, nil, storeError(err, "courses", "list")
	}
	return courses, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a course by storage id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	return course, nil
}

// GetByCode returns a course by its business key.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	return course, nil
}

// Create stores a new course. A missing code is generated and regenerated on collision.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	req.normalize()
	details := s.validator.Struct(req)
	roster, rosterDetails, err := s.resolveRoster(ctx, req.EnrolledStudents)
	if err != nil {
		return nil, err
	}
	if details = merge(details, rosterDetails); details != nil {
		return nil, invalid(details)
	}

	if err := s.checkLecturerEmail(ctx, req.LecturerEmail, ""); err != nil {
		return nil, err
	}

	course := &models.Course{
		CourseCode:       req.CourseCode,
		CourseName:       req.CourseName,
		CreditPoints:     req.CreditPoints,
		Semester:         req.Semester,
		LecturerName:     req.LecturerName,
		LecturerEmail:    req.LecturerEmail,
		DegreeProgram:    req.DegreeProgram,
		EnrolledStudents: roster,
	}

	if req.CourseCode != "" {
		exists, err := s.repo.ExistsByCode(ctx, req.CourseCode, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
		}
		if exists {
			return nil, duplicate("courseCode")
		}
		if err := s.repo.Create(ctx, course); err != nil {
			withRequest(ctx, s.logger).Error("create course failed", zap.String("course_code", course.CourseCode), zap.Error(err))
			return nil, storeError(err, "course", "create")
		}
		s.invalidator.ProjectionsChanged(ctx, "course created")
		return course, nil
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate course code")
		}
		exists, err := s.repo.ExistsByCode(ctx, code, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
		}
		if exists {
			s.logger.Debug("generated course code collided", zap.String("course_code", code), zap.Int("attempt", attempt))
			continue
		}
		course.CourseCode = code
		err = s.repo.Create(ctx, course)
		if err == nil {
			s.invalidator.ProjectionsChanged(ctx, "course created")
			return course, nil
		}
		var dup *models.DuplicateKeyError
		if errors.As(err, &dup) && dup.Field == "courseCode" {
			course.ID = ""
			continue
		}
		withRequest(ctx, s.logger).Error("create course failed", zap.String("course_code", code), zap.Error(err))
		return nil, storeError(err, "course", "create")
	}
	return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("could not generate a unique course code after %d attempts", maxCodeAttempts))
}

// Update modifies course fields keyed by storage id. The roster is preserved.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	req.normalize()
	if details := s.validator.Struct(req); details != nil {
		return nil, invalid(details)
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	if req.CourseCode != course.CourseCode {
		exists, err := s.repo.ExistsByCode(ctx, req.CourseCode, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
		}
		if exists {
			return nil, duplicate("courseCode")
		}
	}
	if err := s.checkLecturerEmail(ctx, req.LecturerEmail, id); err != nil {
		return nil, err
	}

	course.CourseCode = req.CourseCode
	course.CourseName = req.CourseName
	course.CreditPoints = req.CreditPoints
	course.Semester = req.Semester
	course.LecturerName = req.LecturerName
	course.LecturerEmail = req.LecturerEmail
	course.DegreeProgram = req.DegreeProgram
	return s.save(ctx, course, "course updated")
}

// Delete permanently removes a course and its roster.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "course", "delete")
	}
	s.invalidator.ProjectionsChanged(ctx, "course deleted")
	return nil
}

// Enroll adds a student to the roster of a course.
func (s *CourseService) Enroll(ctx context.Context, courseID string, req RosterInput) (*models.Course, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	if details := s.validator.Struct(req); details != nil {
		return nil, invalid(details)
	}
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	if course.EnrolledStudents.Find(req.StudentID) >= 0 {
		return nil, appErrors.Duplicate("studentId", "student is already enrolled in this course")
	}
	roster, details, err := s.resolveRoster(ctx, []RosterInput{req})
	if err != nil {
		return nil, err
	}
	if details != nil {
		return nil, invalid(map[string]string{"studentId": details["enrolledStudents[0].studentId"]})
	}
	course.EnrolledStudents = append(course.EnrolledStudents, roster...)
	return s.save(ctx, course, "roster changed")
}

// Unenroll removes a student from the roster of a course.
func (s *CourseService) Unenroll(ctx context.Context, courseID, studentID string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	idx := course.EnrolledStudents.Find(strings.TrimSpace(studentID))
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this course")
	}
	course.EnrolledStudents = append(course.EnrolledStudents[:idx], course.EnrolledStudents[idx+1:]...)
	return s.save(ctx, course, "roster changed")
}

// SetGrade records a grade for an enrolled student and recomputes completion.
func (s *CourseService) SetGrade(ctx context.Context, courseID, studentID string, req GradeRequest) (*models.Course, error) {
	if details := s.validator.Struct(req); details != nil {
		return nil, invalid(details)
	}
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "course", "load")
	}
	idx := course.EnrolledStudents.Find(strings.TrimSpace(studentID))
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this course")
	}
	course.EnrolledStudents[idx].SetGrade(req.Grade)
	return s.save(ctx, course, "grade changed")
}

func (s *CourseService) save(ctx context.Context, course *models.Course, reason string) (*models.Course, error) {
	if err := s.repo.Update(ctx, course); err != nil {
		withRequest(ctx, s.logger).Error("update course failed", zap.String("id", course.ID), zap.Error(err))
		return nil, storeError(err, "course", "update")
	}
	s.invalidator.ProjectionsChanged(ctx, reason)
	return course, nil
}

func (s *CourseService) checkLecturerEmail(ctx context.Context, email, excludeID string) error {
	exists, err := s.repo.ExistsByLecturerEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate lecturer email")
	}
	if exists {
		return duplicate("lecturerEmail")
	}
	return nil
}

// resolveRoster copies names from the student store. Unknown or repeated IDs are reported per entry.
func (s *CourseService) resolveRoster(ctx context.Context, inputs []RosterInput) (models.Roster, map[string]string, error) {
	roster := make(models.Roster, 0, len(inputs))
	var details map[string]string
	seen := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		field := fmt.Sprintf("enrolledStudents[%d].studentId", i)
		if !validation.IsStudentID(input.StudentID) {
			continue
		}
		if _, dup := seen[input.StudentID]; dup {
			details = merge(details, map[string]string{field: "student is listed more than once"})
			continue
		}
		seen[input.StudentID] = struct{}{}

		student, err := s.students.FindByStudentID(ctx, input.StudentID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				details = merge(details, map[string]string{field: "no student with this ID"})
				continue
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve roster")
		}
		entry := models.RosterEntry{StudentID: student.StudentID, FirstName: student.FirstName, LastName: student.LastName}
		entry.SetGrade(input.Grade)
		roster = append(roster, entry)
	}
	return roster, details, nil
}
