package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hilamalka1/onboard-api/internal/models"
)

var courseSorts = map[string]string{
	"courseCode":   "courseCode",
	"courseName":   "courseName",
	"creditPoints": "creditPoints",
	"createdAt":    "createdAt",
}

// CourseRepository stores courses with their embedded roster.
type CourseRepository struct {
	coll *mongo.Collection
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(CoursesCollection)}
}

// List returns courses matching filter.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	q := bson.D{}
	if filter.Semester != "" {
		q = append(q, bson.E{Key: "semester", Value: filter.Semester})
	}
	if filter.DegreeProgram != "" {
		q = append(q, bson.E{Key: "degreeProgram", Value: filter.DegreeProgram})
	}
	if filter.Search != "" {
		q = append(q, containsFold(filter.Search, "courseName", "courseCode", "lecturerName"))
	}
	field, ok := courseSorts[filter.SortBy]
	if !ok {
		field = "courseCode"
	}
	return page[models.Course](ctx, r.coll, q, bson.D{{Key: field, Value: sortDirection(filter.SortOrder, 1)}}, filter.Page, filter.PageSize, "list courses")
}

// All returns every course.
func (r *CourseRepository) All(ctx context.Context) ([]models.Course, error) {
	return findMany[models.Course](ctx, r.coll, bson.D{}, nil, "list all courses")
}

// FindByID fetches a course by storage ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return findOne[models.Course](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, "find course")
}

// FindByCode fetches a course by business code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	return findOne[models.Course](ctx, r.coll, bson.D{{Key: "courseCode", Value: code}}, "find course by code")
}

// ExistsByCode checks the course code optionally excluding an ID.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return exists(ctx, r.coll, bson.D{{Key: "courseCode", Value: code}}, excludeID, "check course code")
}

// ExistsByLecturerEmail checks the lecturer email optionally excluding an ID.
func (r *CourseRepository) ExistsByLecturerEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return exists(ctx, r.coll, bson.D{{Key: "lecturerEmail", Value: email}}, excludeID, "check lecturer email")
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	stamp(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = models.Roster{}
	}
	if _, err := r.coll.InsertOne(ctx, course); err != nil {
		return writeError("create course", CoursesCollection, err)
	}
	return nil
}

// Update replaces a course document by ID.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	return replace(ctx, r.coll, course.ID, course, "update course")
}

// Delete permanently removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, "delete course")
}
