package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/hilamalka1/onboard-api/internal/models"
)

const uniqueViolation = "23505"

// uniqueFields maps unique index names to the JSON field they protect.
var uniqueFields = map[string]string{
	"ux_students_student_id":    "studentId",
	"ux_students_email":         "email",
	"ux_courses_course_code":    "courseCode",
	"ux_courses_lecturer_email": "lecturerEmail",
}

// writeError maps unique violations to models.DuplicateKeyError and wraps everything else.
func writeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		field, ok := uniqueFields[pqErr.Constraint]
		if !ok {
			field = pqErr.Constraint
		}
		return fmt.Errorf("%s: %w", op, &models.DuplicateKeyError{Field: field})
	}
	return fmt.Errorf("%s: %w", op, err)
}

// readError maps sql.ErrNoRows to models.ErrNotFound.
func readError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected turns a zero-row update or delete into models.ErrNotFound.
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// orderClause resolves a whitelisted sort column and direction.
func orderClause(sortBy, sortOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed[fallback]
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	return column + " " + order
}

// limitClause renders LIMIT/OFFSET for a normalised page.
func limitClause(page, size int) string {
	page, size = models.NormalizePage(page, size)
	return fmt.Sprintf("LIMIT %d OFFSET %d", size, (page-1)*size)
}

type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(format string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, strings.ReplaceAll(format, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) String() string {
	if len(w.conditions) == 0 {
		return "WHERE 1=1"
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}
