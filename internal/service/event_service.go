package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hilamalka1/onboard-api/internal/models"
	"github.com/hilamalka1/onboard-api/pkg/validation"
)

// EventRequest holds payload for creating or updating events.
type EventRequest struct {
	EventName     string               `json:"eventName" validate:"required,min=2,max=200"`
	Description   string               `json:"description" validate:"max=2000"`
	EventDate     models.Date          `json:"eventDate"`
	StartTime     string               `json:"startTime" validate:"omitempty,clock"`
	EndTime       string               `json:"endTime" validate:"omitempty,clock"`
	AudienceType  string               `json:"audienceType" validate:"required,audience"`
	AudienceValue models.AudienceValue `json:"audienceValue"`
}

// EventService handles event use-cases.
type EventService struct {
	repo        EventRepository
	validator   *validation.Validator
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewEventService constructs the event service.
func NewEventService(repo EventRepository, validate *validation.Validator, invalidator Invalidator, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, invalidator: invalidatorOrNoop(invalidator), logger: logger, now: time.Now}
}

// List returns events, optionally restricted by audience type or date range.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize)
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		withRequest(ctx, s.logger).Error("list events failed", zap.Error(err))
		return nil, nil, storeError(err, "events", "list")
	}
	return events, pagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "event", "load")
	}
	return event, nil
}

// Create stores a new event.
func (s *EventService) Create(ctx context.Context, req EventRequest) (*models.Event, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	event := &models.Event{}
	apply(event, req)
	if err := s.repo.Create(ctx, event); err != nil {
		withRequest(ctx, s.logger).Error("create event failed", zap.String("event", req.EventName), zap.Error(err))
		return nil, storeError(err, "event", "create")
	}
	s.invalidator.ProjectionsChanged(ctx, "event created")
	return event, nil
}

// Update rewrites an event keyed by id.
func (s *EventService) Update(ctx context.Context, id string, req EventRequest) (*models.Event, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "event", "load")
	}
	apply(event, req)
	if err := s.repo.Update(ctx, event); err != nil {
		withRequest(ctx, s.logger).Error("update event failed", zap.String("id", id), zap.Error(err))
		return nil, storeError(err, "event", "update")
	}
	s.invalidator.ProjectionsChanged(ctx, "event updated")
	return event, nil
}

// Delete permanently removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "event", "delete")
	}
	s.invalidator.ProjectionsChanged(ctx, "event deleted")
	return nil
}

func apply(event *models.Event, req EventRequest) {
	event.EventName = req.EventName
	event.Description = req.Description
	event.EventDate = req.EventDate
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.AudienceType = req.AudienceType
	event.AudienceValue = req.AudienceValue
}

func (s *EventService) check(req *EventRequest) error {
	req.EventName = strings.TrimSpace(req.EventName)
	req.Description = strings.TrimSpace(req.Description)
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.EndTime = strings.TrimSpace(req.EndTime)
	req.AudienceType = strings.ToLower(strings.TrimSpace(req.AudienceType))

	details := s.validator.Struct(*req)
	details = dateDetails(details, "eventDate", req.EventDate, s.now())
	if !validation.EndNotBeforeStart(req.StartTime, req.EndTime) {
		details = merge(details, map[string]string{"endTime": "endTime must not be before startTime"})
	}
	value, msg := normalizeAudience(req.AudienceType, req.AudienceValue)
	if msg != "" {
		details = merge(details, map[string]string{"audienceValue": msg})
	}
	req.AudienceValue = value
	return invalid(details)
}

// normalizeAudience checks the selector against its type and returns the canonical value.
func normalizeAudience(audienceType string, value models.AudienceValue) (models.AudienceValue, string) {
	switch audienceType {
	case models.AudienceAll:
		return models.AudienceValue{}, ""
	case models.AudienceDegree:
		degree := strings.TrimSpace(value.Text)
		if value.IsList() || !models.IsDegreeProgram(degree) {
			return value, "audienceValue must be a known degree program"
		}
		return models.AudienceText(degree), ""
	case models.AudienceCourse:
		code := strings.ToUpper(strings.TrimSpace(value.Text))
		if value.IsList() || code == "" {
			return value, "audienceValue must be a course code"
		}
		return models.AudienceText(code), ""
	case models.AudienceStudents:
		if !value.IsList() || len(value.Students) == 0 {
			return value, "audienceValue must list at least one student ID"
		}
		seen := make(map[string]struct{}, len(value.Students))
		ids := make([]string, 0, len(value.Students))
		for _, raw := range value.Students {
			id := strings.TrimSpace(raw)
			if !validation.IsStudentID(id) {
				return value, "audienceValue entries must be 9 digit student IDs"
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return models.AudienceStudentIDs(ids...), ""
	}
	return value, ""
}
