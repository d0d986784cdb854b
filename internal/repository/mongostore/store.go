// Package mongostore keeps the five entity collections in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// Collection names.
const (
	StudentsCollection    = "students"
	CoursesCollection     = "courses"
	AssignmentsCollection = "assignments"
	ExamsCollection       = "exams"
	EventsCollection      = "events"
)

// uniqueIndexes maps index names to the field they protect, per collection.
var uniqueIndexes = map[string]map[string]string{
	StudentsCollection: {
		"ux_students_student_id": "studentId",
		"ux_students_email":      "email",
	},
	CoursesCollection: {
		"ux_courses_course_code":    "courseCode",
		"ux_courses_lecturer_email": "lecturerEmail",
	},
}

// EnsureIndexes creates the unique indexes that back the business keys. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, indexes := range uniqueIndexes {
		specs := make([]mongo.IndexModel, 0, len(indexes))
		for name, field := range indexes {
			specs = append(specs, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetName(name).SetUnique(true),
			})
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}

// writeError maps duplicate key failures to models.DuplicateKeyError.
func writeError(op, collection string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		field := "_id"
		msg := err.Error()
		for name, f := range uniqueIndexes[collection] {
			if strings.Contains(msg, name) {
				field = f
				break
			}
		}
		return fmt.Errorf("%s: %w", op, &models.DuplicateKeyError{Field: field})
	}
	return fmt.Errorf("%s: %w", op, err)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, op string) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions, op string) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func page[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, sort bson.D, pageNum, size int, op string) ([]T, int, error) {
	pageNum, size = models.NormalizePage(pageNum, size)
	opts := options.Find().SetSort(sort).SetSkip(int64((pageNum - 1) * size)).SetLimit(int64(size))
	items, err := findMany[T](ctx, coll, filter, opts, op)
	if err != nil {
		return nil, 0, err
	}
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return items, int(total), nil
}

func exists(ctx context.Context, coll *mongo.Collection, filter bson.D, excludeID, op string) (bool, error) {
	if excludeID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID}}})
	}
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc interface{}, op string) error {
	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return writeError(op, coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func remove(ctx context.Context, coll *mongo.Collection, id, op string) error {
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// stamp assigns an ID and timestamps before insert.
func stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func sortDirection(order string, fallback int) int {
	switch strings.ToLower(order) {
	case "asc":
		return 1
	case "desc":
		return -1
	default:
		return fallback
	}
}

// containsFold builds a case-insensitive substring match over fields.
func containsFold(term string, fields ...string) bson.E {
	pattern := regexp.QuoteMeta(term)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.D{{Key: f, Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}})
	}
	return bson.E{Key: "$or", Value: or}
}
