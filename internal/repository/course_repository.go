package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hilamalka1/onboard-api/internal/models"
)

const courseColumns = "id, course_code, course_name, credit_points, semester, lecturer_name, lecturer_email, degree_program, enrolled_students, created_at, updated_at"

// CourseRepository persists courses with their roster in a JSONB column.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching the provided filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	where := &whereBuilder{}
	if filter.Semester != "" {
		where.add("semester = ?", filter.Semester)
	}
	if filter.DegreeProgram != "" {
		where.add("degree_program = ?", filter.DegreeProgram)
	}
	if filter.Search != "" {
		where.add("(LOWER(course_name) LIKE ? OR LOWER(course_code) LIKE ? OR LOWER(lecturer_name) LIKE ?)",
			"%"+strings.ToLower(filter.Search)+"%")
	}

	order := orderClause(filter.SortBy, filter.SortOrder, map[string]string{
		"courseCode":   "course_code",
		"courseName":   "course_name",
		"creditPoints": "credit_points",
		"createdAt":    "created_at",
	}, "courseCode")

	query := fmt.Sprintf("SELECT %s FROM courses %s ORDER BY %s %s", courseColumns, where, order, limitClause(filter.Page, filter.PageSize))
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM courses %s", where), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// All returns every course ordered by code.
func (r *CourseRepository) All(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, "SELECT "+courseColumns+" FROM courses ORDER BY course_code"); err != nil {
		return nil, fmt.Errorf("list all courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by storage ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, "SELECT "+courseColumns+" FROM courses WHERE id = $1", id); err != nil {
		return nil, readError("find course", err)
	}
	return &course, nil
}

// FindByCode fetches a course by its business code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, "SELECT "+courseColumns+" FROM courses WHERE course_code = $1", code); err != nil {
		return nil, readError("find course by code", err)
	}
	return &course, nil
}

// ExistsByCode checks whether a course code is taken optionally excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return r.exists(ctx, "course_code", code, excludeID)
}

// ExistsByLecturerEmail checks whether another course already uses the lecturer email.
func (r *CourseRepository) ExistsByLecturerEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "LOWER(lecturer_email)", strings.ToLower(email), excludeID)
}

func (r *CourseRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM courses WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check course %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = models.Roster{}
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, course_code, course_name, credit_points, semester, lecturer_name, lecturer_email, degree_program, enrolled_students, created_at, updated_at)
        VALUES (:id, :course_code, :course_name, :credit_points, :semester, :lecturer_name, :lecturer_email, :degree_program, :enrolled_students, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return writeError("create course", err)
	}
	return nil
}

// Update rewrites a course including its roster.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_code = :course_code, course_name = :course_name, credit_points = :credit_points, semester = :semester, lecturer_name = :lecturer_name, lecturer_email = :lecturer_email, degree_program = :degree_program, enrolled_students = :enrolled_students, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return writeError("update course", err)
	}
	return requireAffected("update course", res)
}

// Delete permanently removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected("delete course", res)
}
