package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/model"
	"dispatch/internal/query"
)

// DescriptionCount is one row of the event frequency table.
type DescriptionCount struct {
	Description string `json:"description"`
	Count       int64  `json:"count"`
}

// EventRepository defines ride event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.RideEvent) error
	Update(ctx context.Context, event *model.RideEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RideEvent, error)
	List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.RideEvent, error)
	Count(ctx context.Context, f query.Filters) (int64, error)
	ListByRide(ctx context.Context, rideID uuid.UUID, p query.Page) ([]model.RideEvent, error)
	CountByRide(ctx context.Context, rideID uuid.UUID) (int64, error)
	ListByRideSince(ctx context.Context, rideID uuid.UUID, since time.Time) ([]model.RideEvent, error)
	ListSince(ctx context.Context, since time.Time, p query.Page) ([]model.RideEvent, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountSinceByRide(ctx context.Context, rideIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int64, error)
	CountTotal(ctx context.Context) (int64, error)
	TopDescriptions(ctx context.Context, limit int) ([]DescriptionCount, error)
	DistinctDescriptions(ctx context.Context) ([]string, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.RideEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *model.RideEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RideEvent, error) {
	var event model.RideEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.RideEvent, error) {
	var events []model.RideEvent
	tx := r.db.WithContext(ctx).Model(&model.RideEvent{})
	tx = f.Apply(tx)
	tx = ord.Apply(tx)
	tx = p.Apply(tx)
	if err := tx.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&model.RideEvent{})
	if err := f.Apply(tx).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *eventRepository) ListByRide(ctx context.Context, rideID uuid.UUID, p query.Page) ([]model.RideEvent, error) {
	var events []model.RideEvent
	err := r.db.WithContext(ctx).
		Where("ride_id = ?", rideID).
		Order("created_at DESC").Order("id ASC").
		Limit(p.Size).Offset(p.Offset()).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountByRide(ctx context.Context, rideID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RideEvent{}).
		Where("ride_id = ?", rideID).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *eventRepository) ListByRideSince(ctx context.Context, rideID uuid.UUID, since time.Time) ([]model.RideEvent, error) {
	var events []model.RideEvent
	err := r.db.WithContext(ctx).
		Where("ride_id = ? AND created_at >= ?", rideID, since).
		Order("created_at DESC").Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListSince(ctx context.Context, since time.Time, p query.Page) ([]model.RideEvent, error) {
	var events []model.RideEvent
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").Order("id ASC").
		Limit(p.Size).Offset(p.Offset()).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RideEvent{}).
		Where("created_at >= ?", since).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountSinceByRide returns per-ride counts of events inside the window, for
// annotating ride list rows without one query per row.
func (r *eventRepository) CountSinceByRide(ctx context.Context, rideIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(rideIDs))
	if len(rideIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		RideID uuid.UUID
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.RideEvent{}).
		Select("ride_id, COUNT(*) AS count").
		Where("ride_id IN ? AND created_at >= ?", rideIDs, since).
		Group("ride_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.RideID] = row.Count
	}
	return counts, nil
}

func (r *eventRepository) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.RideEvent{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// TopDescriptions returns the most frequent event descriptions. Ties are
// broken by description value so the table is stable between calls.
func (r *eventRepository) TopDescriptions(ctx context.Context, limit int) ([]DescriptionCount, error) {
	var rows []DescriptionCount
	err := r.db.WithContext(ctx).Model(&model.RideEvent{}).
		Select("description, COUNT(*) AS count").
		Group("description").
		Order("count DESC").Order("description ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) DistinctDescriptions(ctx context.Context) ([]string, error) {
	var descriptions []string
	err := r.db.WithContext(ctx).Model(&model.RideEvent{}).
		Distinct("description").
		Order("description ASC").
		Pluck("description", &descriptions).Error
	if err != nil {
		return nil, err
	}
	return descriptions, nil
}
