package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/model"
	"dispatch/internal/query"
	"dispatch/internal/repository"
)

const topDescriptionsLimit = 10

// EventView is the detail projection of a ride event with derived flags.
type EventView struct {
	ID               uuid.UUID `json:"id"`
	RideID           uuid.UUID `json:"ride_id"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	IsPickupEvent    bool      `json:"is_pickup_event"`
	IsDropoffEvent   bool      `json:"is_dropoff_event"`
	TimeSinceCreated string    `json:"time_since_created"`
}

// EventList is a paginated projection of ride events.
type EventList struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  []EventView `json:"results"`
}

// EventStats is the windowed rollup over the whole event collection.
type EventStats struct {
	TotalEvents     int64                         `json:"total_events"`
	Last24Hours     int64                         `json:"last_24_hours"`
	Last7Days       int64                         `json:"last_7_days"`
	TopDescriptions []repository.DescriptionCount `json:"top_descriptions"`
}

// CreateEventInput carries an event creation request.
type CreateEventInput struct {
	RideID      uuid.UUID `json:"ride_id" validate:"required"`
	Description string    `json:"description" validate:"required"`
}

// UpdateEventInput carries an event description edit. Editing events is a
// deliberate deviation from append-only semantics, kept as an explicit
// capability.
type UpdateEventInput struct {
	Description string `json:"description" validate:"required"`
}

// EventService exposes ride event operations.
type EventService interface {
	List(ctx context.Context, params url.Values) (*EventList, error)
	Todays(ctx context.Context, p query.Page) (*EventList, error)
	Create(ctx context.Context, in CreateEventInput) (*model.RideEvent, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*model.RideEvent, error)
	Types(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*EventStats, error)
}

type eventService struct {
	events repository.EventRepository
	rides  repository.RideRepository
	clock  query.Clock
}

// NewEventService builds an EventService. A nil clock falls back to the
// system clock.
func NewEventService(events repository.EventRepository, rides repository.RideRepository, clock query.Clock) EventService {
	if clock == nil {
		clock = query.SystemClock
	}
	return &eventService{events: events, rides: rides, clock: clock}
}

// humanizeSince renders the elapsed time since an event was created.
func humanizeSince(createdAt, now time.Time) string {
	delta := now.Sub(createdAt)
	switch {
	case delta >= 24*time.Hour:
		return fmt.Sprintf("%d days ago", int(delta.Hours())/24)
	case delta >= time.Hour:
		return fmt.Sprintf("%d hours ago", int(delta.Hours()))
	case delta >= time.Minute:
		return fmt.Sprintf("%d minutes ago", int(delta.Minutes()))
	default:
		return "Just now"
	}
}

func projectEvents(events []model.RideEvent, now time.Time) []EventView {
	views := make([]EventView, len(events))
	for i := range events {
		e := &events[i]
		views[i] = EventView{
			ID:               e.ID,
			RideID:           e.RideID,
			Description:      e.Description,
			CreatedAt:        e.CreatedAt,
			IsPickupEvent:    e.IsPickup(),
			IsDropoffEvent:   e.IsDropoff(),
			TimeSinceCreated: humanizeSince(e.CreatedAt, now),
		}
	}
	return views
}

// List returns a filtered, ordered, paginated event collection.
func (s *eventService) List(ctx context.Context, params url.Values) (*EventList, error) {
	f := query.EventFilters(params)
	ord := query.ParseOrdering(params.Get("ordering"), query.EventOrderingFields, query.Desc("created_at"))
	page := query.ParsePage(params)

	total, err := s.events.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	events, err := s.events.List(ctx, f, ord, page)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &EventList{
		Count:    total,
		Page:     page.Number,
		PageSize: page.Size,
		Results:  projectEvents(events, s.clock.Now()),
	}, nil
}

// Todays lists events across all rides inside the rolling 24-hour window.
// The reference instant is read once so the cutoff is the same for the count
// and every row.
func (s *eventService) Todays(ctx context.Context, p query.Page) (*EventList, error) {
	now := s.clock.Now()
	since := query.WindowStart(now, query.DayWindow)

	total, err := s.events.CountSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count todays events: %w", err)
	}
	events, err := s.events.ListSince(ctx, since, p)
	if err != nil {
		return nil, fmt.Errorf("list todays events: %w", err)
	}
	return &EventList{
		Count:    total,
		Page:     p.Number,
		PageSize: p.Size,
		Results:  projectEvents(events, now),
	}, nil
}

// Create appends an event to a ride.
func (s *eventService) Create(ctx context.Context, in CreateEventInput) (*model.RideEvent, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "description cannot be empty", "EMPTY_DESCRIPTION")
	}
	if _, err := s.rides.FindByID(ctx, in.RideID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrRideNotFound
		}
		return nil, fmt.Errorf("find ride: %w", err)
	}
	event := &model.RideEvent{
		RideID:      in.RideID,
		Description: description,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Update edits an event description after creation.
func (s *eventService) Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*model.RideEvent, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "description cannot be empty", "EMPTY_DESCRIPTION")
	}
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	event.Description = description
	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Types returns the distinct event descriptions currently stored.
func (s *eventService) Types(ctx context.Context) ([]string, error) {
	return s.events.DistinctDescriptions(ctx)
}

// Stats computes the event rollup: totals, 24-hour and 7-day windows, and
// the most frequent descriptions. Both windows share one reference instant.
func (s *eventService) Stats(ctx context.Context) (*EventStats, error) {
	now := s.clock.Now()

	total, err := s.events.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	day, err := s.events.CountSince(ctx, query.WindowStart(now, query.DayWindow))
	if err != nil {
		return nil, fmt.Errorf("count 24h events: %w", err)
	}
	week, err := s.events.CountSince(ctx, query.WindowStart(now, query.WeekWindow))
	if err != nil {
		return nil, fmt.Errorf("count 7d events: %w", err)
	}
	top, err := s.events.TopDescriptions(ctx, topDescriptionsLimit)
	if err != nil {
		return nil, fmt.Errorf("top descriptions: %w", err)
	}
	return &EventStats{
		TotalEvents:     total,
		Last24Hours:     day,
		Last7Days:       week,
		TopDescriptions: top,
	}, nil
}
