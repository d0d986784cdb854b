package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hilamalka1/onboard-api/internal/models"
)

const eventColumns = "id, event_name, description, event_date, start_time, end_time, audience_type, audience_value, created_at, updated_at"

// EventRepository persists events. The audience value is stored as JSONB.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events ordered by date and start time.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	where := &whereBuilder{}
	if filter.AudienceType != "" {
		where.add("audience_type = ?", filter.AudienceType)
	}
	if filter.From != nil {
		where.add("event_date >= ?", filter.From.String())
	}
	if filter.To != nil {
		where.add("event_date <= ?", filter.To.String())
	}
	order := orderClause("eventDate", filter.SortOrder, map[string]string{"eventDate": "event_date"}, "eventDate")
	query := fmt.Sprintf("SELECT %s FROM events %s ORDER BY %s, start_time %s", eventColumns, where, order, limitClause(filter.Page, filter.PageSize))
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM events %s", where), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

// All returns every event ordered by date.
func (r *EventRepository) All(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, "SELECT "+eventColumns+" FROM events ORDER BY event_date, start_time"); err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	return events, nil
}

// FindByID fetches an event by storage ID.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.GetContext(ctx, &event, "SELECT "+eventColumns+" FROM events WHERE id = $1", id); err != nil {
		return nil, readError("find event", err)
	}
	return &event, nil
}

// Create inserts an event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	const query = `INSERT INTO events (id, event_name, description, event_date, start_time, end_time, audience_type, audience_value, created_at, updated_at)
        VALUES (:id, :event_name, :description, :event_date, :start_time, :end_time, :audience_type, :audience_value, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return writeError("create event", err)
	}
	return nil
}

// Update rewrites an event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET event_name = :event_name, description = :description, event_date = :event_date, start_time = :start_time, end_time = :end_time, audience_type = :audience_type, audience_value = :audience_value, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return writeError("update event", err)
	}
	return requireAffected("update event", res)
}

// Delete permanently removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireAffected("delete event", res)
}
