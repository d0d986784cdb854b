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

const studentColumns = "id, student_id, first_name, last_name, email, academic_year, degree_program, created_at, updated_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where := &whereBuilder{}
	if filter.DegreeProgram != "" {
		where.add("degree_program = ?", filter.DegreeProgram)
	}
	if filter.AcademicYear > 0 {
		where.add("academic_year = ?", filter.AcademicYear)
	}
	if filter.Search != "" {
		where.add("(LOWER(first_name || ' ' || last_name) LIKE ? OR student_id LIKE ? OR LOWER(email) LIKE ?)",
			"%"+strings.ToLower(filter.Search)+"%")
	}

	order := orderClause(filter.SortBy, filter.SortOrder, map[string]string{
		"studentId": "student_id",
		"lastName":  "last_name",
		"createdAt": "created_at",
	}, "lastName")

	query := fmt.Sprintf("SELECT %s FROM students %s ORDER BY %s %s", studentColumns, where, order, limitClause(filter.Page, filter.PageSize))
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM students %s", where), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// All returns every student ordered by student ID.
func (r *StudentRepository) All(ctx context.Context) ([]models.Student, error) {
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, "SELECT "+studentColumns+" FROM students ORDER BY student_id"); err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by storage ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM students WHERE id = $1", id); err != nil {
		return nil, readError("find student", err)
	}
	return &student, nil
}

// FindByStudentID fetches a student by the nine digit business key.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM students WHERE student_id = $1", studentID); err != nil {
		return nil, readError("find student by student id", err)
	}
	return &student, nil
}

// ExistsByStudentID checks if a student with the given business key exists optionally excluding an ID.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error) {
	return r.exists(ctx, "student_id", studentID, excludeID)
}

// ExistsByEmail checks if the email is taken optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "LOWER(email)", strings.ToLower(email), excludeID)
}

func (r *StudentRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM students WHERE %s = $1", column)
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
		return false, fmt.Errorf("check student %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, student_id, first_name, last_name, email, academic_year, degree_program, created_at, updated_at)
        VALUES (:id, :student_id, :first_name, :last_name, :email, :academic_year, :degree_program, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return writeError("create student", err)
	}
	return nil
}

// Update modifies an existing student. The business key is never rewritten.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, email = :email, academic_year = :academic_year, degree_program = :degree_program, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return writeError("update student", err)
	}
	return requireAffected("update student", res)
}

// Delete permanently removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected("delete student", res)
}
