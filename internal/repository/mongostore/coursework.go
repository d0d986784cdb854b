package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hilamalka1/onboard-api/internal/models"
)

func courseworkQuery(filter models.CourseworkFilter) bson.D {
	q := bson.D{}
	if filter.CourseCode != "" {
		q = append(q, bson.E{Key: "courseCode", Value: filter.CourseCode})
	}
	return q
}

// AssignmentRepository stores assignments.
type AssignmentRepository struct {
	coll *mongo.Collection
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{coll: db.Collection(AssignmentsCollection)}
}

// List returns assignments ordered by due date.
func (r *AssignmentRepository) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Assignment, int, error) {
	sort := bson.D{{Key: "dueDate", Value: sortDirection(filter.SortOrder, 1)}}
	return page[models.Assignment](ctx, r.coll, courseworkQuery(filter), sort, filter.Page, filter.PageSize, "list assignments")
}

// All returns every assignment.
func (r *AssignmentRepository) All(ctx context.Context) ([]models.Assignment, error) {
	return findMany[models.Assignment](ctx, r.coll, bson.D{}, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}), "list all assignments")
}

// FindByID fetches an assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	return findOne[models.Assignment](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, "find assignment")
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, item *models.Assignment) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return writeError("create assignment", AssignmentsCollection, err)
	}
	return nil
}

// Update replaces an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, item *models.Assignment) error {
	item.UpdatedAt = time.Now().UTC()
	return replace(ctx, r.coll, item.ID, item, "update assignment")
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, "delete assignment")
}

// ExamRepository stores exams.
type ExamRepository struct {
	coll *mongo.Collection
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *mongo.Database) *ExamRepository {
	return &ExamRepository{coll: db.Collection(ExamsCollection)}
}

// List returns exams ordered by date.
func (r *ExamRepository) List(ctx context.Context, filter models.CourseworkFilter) ([]models.Exam, int, error) {
	sort := bson.D{{Key: "examDate", Value: sortDirection(filter.SortOrder, 1)}}
	return page[models.Exam](ctx, r.coll, courseworkQuery(filter), sort, filter.Page, filter.PageSize, "list exams")
}

// All returns every exam.
func (r *ExamRepository) All(ctx context.Context) ([]models.Exam, error) {
	return findMany[models.Exam](ctx, r.coll, bson.D{}, options.Find().SetSort(bson.D{{Key: "examDate", Value: 1}}), "list all exams")
}

// FindByID fetches an exam.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	return findOne[models.Exam](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, "find exam")
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, item *models.Exam) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return writeError("create exam", ExamsCollection, err)
	}
	return nil
}

// Update replaces an exam.
func (r *ExamRepository) Update(ctx context.Context, item *models.Exam) error {
	item.UpdatedAt = time.Now().UTC()
	return replace(ctx, r.coll, item.ID, item, "update exam")
}

// Delete removes an exam.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, "delete exam")
}
