package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dispatch/internal/model"
	"dispatch/internal/query"
	"dispatch/internal/repository"
)

// fixedClock pins the reference instant for window assertions.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.User, error) {
	args := m.Called(ctx, f, ord, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ListActiveByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) CountTotal(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountActiveByRole(ctx context.Context) (map[model.Role]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Role]int64), args.Error(1)
}

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mock.Mock
}

func (m *MockRideRepository) Create(ctx context.Context, ride *model.Ride) error {
	args := m.Called(ctx, ride)
	return args.Error(0)
}

func (m *MockRideRepository) Update(ctx context.Context, ride *model.Ride) error {
	args := m.Called(ctx, ride)
	return args.Error(0)
}

func (m *MockRideRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ride, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ride), args.Error(1)
}

func (m *MockRideRepository) List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.Ride, error) {
	args := m.Called(ctx, f, ord, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func (m *MockRideRepository) ListAll(ctx context.Context, f query.Filters, ord query.Ordering) ([]model.Ride, error) {
	args := m.Called(ctx, f, ord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func (m *MockRideRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRideRepository) ListByUser(ctx context.Context, userID uuid.UUID, p query.Page) ([]model.Ride, error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func (m *MockRideRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRideRepository) ListActive(ctx context.Context, p query.Page) ([]model.Ride, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ride), args.Error(1)
}

func (m *MockRideRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRideRepository) CountTotal(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRideRepository) CountByStatus(ctx context.Context) (map[model.RideStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.RideStatus]int64), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.RideEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, event *model.RideEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RideEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RideEvent), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.RideEvent, error) {
	args := m.Called(ctx, f, ord, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideEvent), args.Error(1)
}

func (m *MockEventRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) ListByRide(ctx context.Context, rideID uuid.UUID, p query.Page) ([]model.RideEvent, error) {
	args := m.Called(ctx, rideID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideEvent), args.Error(1)
}

func (m *MockEventRepository) CountByRide(ctx context.Context, rideID uuid.UUID) (int64, error) {
	args := m.Called(ctx, rideID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) ListByRideSince(ctx context.Context, rideID uuid.UUID, since time.Time) ([]model.RideEvent, error) {
	args := m.Called(ctx, rideID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideEvent), args.Error(1)
}

func (m *MockEventRepository) ListSince(ctx context.Context, since time.Time, p query.Page) ([]model.RideEvent, error) {
	args := m.Called(ctx, since, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RideEvent), args.Error(1)
}

func (m *MockEventRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) CountSinceByRide(ctx context.Context, rideIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, rideIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockEventRepository) CountTotal(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) TopDescriptions(ctx context.Context, limit int) ([]repository.DescriptionCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DescriptionCount), args.Error(1)
}

func (m *MockEventRepository) DistinctDescriptions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID, email, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}
