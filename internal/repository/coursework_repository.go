package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hilamalka1/onboard-api/internal/models"
)

const (
	assignmentColumns = "id, title, description, due_date, course_code, created_at, updated_at"
	examColumns       = "id, exam_name, description, exam_date, course_code, created_at, updated_at"
)

// AssignmentRepository persists assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments ordered by due date, optionally for one course.
func (r *AssignmentRepository) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, int, error) {
	where := &whereBuilder{}
	if filter.CourseCode != "" {
		where.add("course_code = ?", filter.CourseCode)
	}
	order := orderClause("dueDate", filter.SortOrder, map[string]string{"dueDate": "due_date"}, "dueDate")
	query := fmt.Sprintf("SELECT %s FROM assignments %s ORDER BY %s %s", assignmentColumns, where, order, limitClause(filter.Page, filter.PageSize))
	items := []models.Assignment{}
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM assignments %s", where), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return items, total, nil
}

// All returns every assignment ordered by due date.
func (r *AssignmentRepository) All(ctx context.Context) ([]models.Assignment, error) {
	items := []models.Assignment{}
	if err := r.db.SelectContext(ctx, &items, "SELECT "+assignmentColumns+" FROM assignments ORDER BY due_date"); err != nil {
		return nil, fmt.Errorf("list all assignments: %w", err)
	}
	return items, nil
}

// FindByID fetches an assignment by storage ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	var item models.Assignment
	if err := r.db.GetContext(ctx, &item, "SELECT "+assignmentColumns+" FROM assignments WHERE id = $1", id); err != nil {
		return nil, readError("find assignment", err)
	}
	return &item, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, item *models.Assignment) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO assignments (id, title, description, due_date, course_code, created_at, updated_at)
        VALUES (:id, :title, :description, :due_date, :course_code, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return writeError("create assignment", err)
	}
	return nil
}

// Update rewrites an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, item *models.Assignment) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET title = :title, description = :description, due_date = :due_date, course_code = :course_code, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return writeError("update assignment", err)
	}
	return requireAffected("update assignment", res)
}

// Delete permanently removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return requireAffected("delete assignment", res)
}

// ExamRepository persists exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// List returns exams ordered by date, optionally for one course.
func (r *ExamRepository) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, int, error) {
	where := &whereBuilder{}
	if filter.CourseCode != "" {
		where.add("course_code = ?", filter.CourseCode)
	}
	order := orderClause("examDate", filter.SortOrder, map[string]string{"examDate": "exam_date"}, "examDate")
	query := fmt.Sprintf("SELECT %s FROM exams %s ORDER BY %s %s", examColumns, where, order, limitClause(filter.Page, filter.PageSize))
	items := []models.Exam{}
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list exams: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM exams %s", where), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count exams: %w", err)
	}
	return items, total, nil
}

// All returns every exam ordered by date.
func (r *ExamRepository) All(ctx context.Context) ([]models.Exam, error) {
	items := []models.Exam{}
	if err := r.db.SelectContext(ctx, &items, "SELECT "+examColumns+" FROM exams ORDER BY exam_date"); err != nil {
		return nil, fmt.Errorf("list all exams: %w", err)
	}
	return items, nil
}

// FindByID fetches an exam by storage ID.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	var item models.Exam
	if err := r.db.GetContext(ctx, &item, "SELECT "+examColumns+" FROM exams WHERE id = $1", id); err != nil {
		return nil, readError("find exam", err)
	}
	return &item, nil
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, item *models.Exam) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO exams (id, exam_name, description, exam_date, course_code, created_at, updated_at)
        VALUES (:id, :exam_name, :description, :exam_date, :course_code, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return writeError("create exam", err)
	}
	return nil
}

// Update rewrites an exam.
func (r *ExamRepository) Update(ctx context.Context, item *models.Exam) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET exam_name = :exam_name, description = :description, exam_date = :exam_date, course_code = :course_code, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return writeError("update exam", err)
	}
	return requireAffected("update exam", res)
}

// Delete permanently removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM exams WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return requireAffected("delete exam", res)
}
