package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// EventRepository stores events. Dates are YYYY-MM-DD strings so range filters compare lexically.
type EventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(EventsCollection)}
}

// List returns events ordered by date and start time.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	q := bson.D{}
	if filter.AudienceType != "" {
		q = append(q, bson.E{Key: "audienceType", Value: filter.AudienceType})
	}
	dateRange := bson.D{}
	if filter.From != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: filter.From.String()})
	}
	if filter.To != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: filter.To.String()})
	}
	if len(dateRange) > 0 {
		q = append(q, bson.E{Key: "eventDate", Value: dateRange})
	}
	dir := sortDirection(filter.SortOrder, 1)
	sort := bson.D{{Key: "eventDate", Value: dir}, {Key: "startTime", Value: dir}}
	return page[models.Event](ctx, r.coll, q, sort, filter.Page, filter.PageSize, "list events")
}

// All returns every event.
func (r *EventRepository) All(ctx context.Context) ([]models.Event, error) {
	return findMany[models.Event](ctx, r.coll, bson.D{}, options.Find().SetSort(bson.D{{Key: "eventDate", Value: 1}, {Key: "startTime", Value: 1}}), "list all events")
}

// FindByID fetches an event.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	return findOne[models.Event](ctx, r.coll, bson.D{{Key: "_id", Value: id}}, "find event")
}

// Create inserts an event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	stamp(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return writeError("create event", EventsCollection, err)
	}
	return nil
}

// Update replaces an event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	return replace(ctx, r.coll, event.ID, event, "update event")
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.coll, id, "delete event")
}
