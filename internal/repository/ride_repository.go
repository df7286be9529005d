package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/model"
	"dispatch/internal/query"
)

// RideRepository defines ride persistence operations.
type RideRepository interface {
	Create(ctx context.Context, ride *model.Ride) error
	Update(ctx context.Context, ride *model.Ride) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ride, error)
	List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.Ride, error)
	ListAll(ctx context.Context, f query.Filters, ord query.Ordering) ([]model.Ride, error)
	Count(ctx context.Context, f query.Filters) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, p query.Page) ([]model.Ride, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListActive(ctx context.Context, p query.Page) ([]model.Ride, error)
	CountActive(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountTotal(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[model.RideStatus]int64, error)
}

type rideRepository struct {
	db *gorm.DB
}

// NewRideRepository builds a GORM-backed repository.
func NewRideRepository(db *gorm.DB) RideRepository {
	return &rideRepository{db: db}
}

func (r *rideRepository) Create(ctx context.Context, ride *model.Ride) error {
	return r.db.WithContext(ctx).Create(ride).Error
}

func (r *rideRepository) Update(ctx context.Context, ride *model.Ride) error {
	return r.db.WithContext(ctx).Save(ride).Error
}

func (r *rideRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ride, error) {
	var ride model.Ride
	err := r.db.WithContext(ctx).
		Preload("Rider").Preload("Driver").
		Where("rides.id = ?", id).
		First(&ride).Error
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

// base builds the list query. Rider and Driver are joined so free-text
// search can match the related user columns; the joins also eager-load both
// associations for projection.
func (r *rideRepository) base(ctx context.Context, f query.Filters) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Ride{}).
		Joins("Rider").Joins("Driver")
	return f.Apply(tx)
}

func (r *rideRepository) List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.Ride, error) {
	var rides []model.Ride
	tx := r.base(ctx, f)
	tx = ord.Apply(tx)
	tx = p.Apply(tx)
	if err := tx.Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *rideRepository) ListAll(ctx context.Context, f query.Filters, ord query.Ordering) ([]model.Ride, error) {
	var rides []model.Ride
	tx := r.base(ctx, f)
	if err := ord.Apply(tx).Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *rideRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	var n int64
	if err := r.base(ctx, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *rideRepository) ListByUser(ctx context.Context, userID uuid.UUID, p query.Page) ([]model.Ride, error) {
	var rides []model.Ride
	err := r.db.WithContext(ctx).Model(&model.Ride{}).
		Preload("Rider").Preload("Driver").
		Where("rider_id = ? OR driver_id = ?", userID, userID).
		Order("created_at DESC").Order("id ASC").
		Limit(p.Size).Offset(p.Offset()).
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *rideRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ride{}).
		Where("rider_id = ? OR driver_id = ?", userID, userID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *rideRepository) ListActive(ctx context.Context, p query.Page) ([]model.Ride, error) {
	var rides []model.Ride
	err := r.db.WithContext(ctx).Model(&model.Ride{}).
		Preload("Rider").Preload("Driver").
		Where("status IN ?", model.ActiveRideStatuses).
		Order("pickup_time DESC").Order("id ASC").
		Limit(p.Size).Offset(p.Offset()).
		Find(&rides).Error
	if err != nil {
		return nil, err
	}
	return rides, nil
}

func (r *rideRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ride{}).
		Where("status IN ?", model.ActiveRideStatuses).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a ride and all of its events in one transaction.
func (r *rideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ride_id = ?", id).Delete(&model.RideEvent{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Ride{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *rideRepository) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Ride{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *rideRepository) CountByStatus(ctx context.Context) (map[model.RideStatus]int64, error) {
	var rows []struct {
		Status model.RideStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Ride{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.RideStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
