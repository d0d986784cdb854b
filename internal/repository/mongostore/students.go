package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hilamalka1/onboard-api/internal/models"
)

var studentSorts = map[string]string{
	"studentId": "studentId",
	"lastName":  "lastName",
	"createdAt": "createdAt",
}

// StudentRepository stores students in the students collection.
type StudentRepository struct {
	coll *mongo.Collection
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{coll: db.Collection(StudentsCollection)}
}

// List returns students matching filter.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	q := bson.D{}
	if filter.DegreeProgram != "" {
		q = append(q, bson.E{Key: "degreeProgram", Value: filter.DegreeProgram})
	}
	if filter.AcademicYear > 0 {
		q = append(q, bson.E{Key: "academicYear", Value: filter.AcademicYear})
	}
	if filter.Search != "" {
		q = append(q, containsFold(filter.Search, "firstName", "lastName", "studentId", "email"))
	}
	field, ok := studentSorts[filter.SortBy]
	if !ok {
		field = "lastName"
	}
	return page[models.Student](ctx, r.coll, q, bson.D{{Key: field, Value: sortDirection(filter.SortOrder, 1)}}, filter.Page, filter.PageSize, "list students")
}

// All returns every student.
func (r *StudentRepository) All(ctx context.Context) ([]models.Student, error) {
	return findMany[models.Student](ctx, r.coll, bson.D{}, nil, "list all students")
}

// FindByID fetches a student by storage ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return findOne[models.Student](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, "find student")
}

// FindByStudentID fetches a student by business key.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return findOne[models.Student](ctx, r.coll, bson.D{{Key: "studentId", Value: studentID}}, "find student by student id")
}

// ExistsByStudentID checks the business key optionally excluding an ID.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error) {
	return exists(ctx, r.coll, bson.D{{Key: "studentId", Value: studentID}}, excludeID, "check student id")
}

// ExistsByEmail checks the email optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return exists(ctx, r.coll, bson.D{{Key: "email", Value: email}}, excludeID, "check student email")
}

// Create inserts a student; the unique indexes reject duplicates atomically.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	stamp(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		return writeError("create student", StudentsCollection, err)
	}
	return nil
}

// Update replaces a student document by ID.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	return replace(ctx, r.coll, student.ID, student, "update student")
}

// Delete permanently removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, "delete student")
}
