package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/academic"
	"github.com/hilamalka1/onboard-api/internal/models"
	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
	"github.com/hilamalka1/onboard-api/pkg/export"
)

type courseGetter interface {
	Get(ctx context.Context, id string) (*models.Course, error)
}

type progressGetter interface {
	Progress(ctx context.Context, id string) (*models.StudentProgress, bool, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders course rosters and student transcripts.
type ExportService struct {
	courses  courseGetter
	progress progressGetter
	logger   *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(courses courseGetter, progress progressGetter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{courses: courses, progress: progress, logger: logger}
}

// Roster renders the roster of a course.
func (s *ExportService) Roster(ctx context.Context, courseID, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, err.Error())
	}
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(course.EnrolledStudents))
	for _, entry := range course.EnrolledStudents {
		rows = append(rows, map[string]string{
			"studentId": entry.StudentID,
			"firstName": entry.FirstName,
			"lastName":  entry.LastName,
			"grade":     formatGrade(entry.Grade),
			"completed": strconv.FormatBool(entry.Completed),
		})
	}
	data := export.Dataset{
		Title: fmt.Sprintf("%s %s", course.CourseCode, course.CourseName),
		Summary: []string{
			fmt.Sprintf("Semester: %s", course.Semester),
			fmt.Sprintf("Lecturer: %s <%s>", course.LecturerName, course.LecturerEmail),
			fmt.Sprintf("Enrolled: %d", len(course.EnrolledStudents)),
		},
		Headers: []string{"studentId", "firstName", "lastName", "grade", "completed"},
		Rows:    rows,
	}
	return s.render(format, "roster-"+course.CourseCode, data)
}

// Transcript renders the graded courses of a student.
func (s *ExportService) Transcript(ctx context.Context, studentID, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, err.Error())
	}
	progress, _, err := s.progress.Progress(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(progress.Grades))
	for _, row := range progress.Grades {
		grade := row.Grade
		rows = append(rows, map[string]string{
			"courseCode":   row.CourseCode,
			"courseName":   row.CourseName,
			"semester":     row.Semester,
			"creditPoints": strconv.Itoa(row.CreditPoints),
			"grade":        formatGrade(&grade),
			"completed":    strconv.FormatBool(row.Completed),
		})
	}
	average := "n/a"
	if progress.HasGrades {
		average = strconv.FormatFloat(progress.AverageGrade, 'f', 2, 64)
	}
	data := export.Dataset{
		Title: fmt.Sprintf("Transcript %s %s", progress.StudentID, progress.FullName),
		Summary: []string{
			fmt.Sprintf("Degree program: %s", progress.DegreeProgram),
			fmt.Sprintf("Earned credits: %d / %d", progress.EarnedCredits, academic.RequiredCredits),
			fmt.Sprintf("Eligible to graduate: %t", progress.Eligible),
			fmt.Sprintf("Average grade: %s", average),
		},
		Headers: []string{"courseCode", "courseName", "semester", "creditPoints", "grade", "completed"},
		Rows:    rows,
	}
	return s.render(format, "transcript-"+progress.StudentID, data)
}

func (s *ExportService) render(format export.Format, base string, data export.Dataset) (*ExportFile, error) {
	renderer := export.For(format)
	payload, err := renderer.Render(data)
	if err != nil {
		s.logger.Error("render export failed", zap.String("file", base), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    base + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        payload,
	}, nil
}

func formatGrade(grade *float64) string {
	if grade == nil {
		return ""
	}
	return strconv.FormatFloat(*grade, 'f', -1, 64)
}
