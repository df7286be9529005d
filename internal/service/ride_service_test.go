package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/model"
	"dispatch/internal/query"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testRide(status model.RideStatus, pickupLat, pickupLon float64) model.Ride {
	return model.Ride{
		ID:              uuid.New(),
		Status:          status,
		RiderID:         uuid.New(),
		DriverID:        uuid.New(),
		PickupLatitude:  pickupLat,
		PickupLongitude: pickupLon,
		PickupTime:      testNow,
		Rider:           &model.User{Email: "rider@example.com", FirstName: "Rita", LastName: "Rider", Role: model.RoleRider},
		Driver:          &model.User{Email: "driver@example.com", FirstName: "Derek", LastName: "Driver", Role: model.RoleDriver},
	}
}

func newRideServiceForTest(rides *MockRideRepository, events *MockEventRepository, users *MockUserRepository) RideService {
	return NewRideService(rides, events, users, fixedClock{now: testNow})
}

func TestRideService_Nearby(t *testing.T) {
	// Pickup points at roughly 0.014 km, 3.3 km, and 111 km from the center.
	center := []string{"37.7749", "-122.4194"}
	near := testRide(model.RideStatusEnRoute, 37.7750, -122.4195)
	mid := testRide(model.RideStatusPickup, 37.8049, -122.4194)
	far := testRide(model.RideStatusEnRoute, 38.7749, -122.4194)

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	// Return out of order so the result order proves the distance sort.
	mockRides.On("ListAll", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Ride{far, mid, near}, nil)
	mockEvents.On("CountSinceByRide", mock.Anything, mock.Anything, testNow.Add(-24*time.Hour)).
		Return(map[uuid.UUID]int64{near.ID: 2}, nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	result, err := svc.Nearby(context.Background(), url.Values{
		"gps_latitude":  {center[0]},
		"gps_longitude": {center[1]},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 10.0, result.RadiusKm)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, near.ID, result.Results[0].ID)
	assert.Equal(t, mid.ID, result.Results[1].ID)

	// Surfaced distances are rounded to two decimals.
	assert.NotNil(t, result.Results[0].DistanceKm)
	assert.InDelta(t, 0.01, *result.Results[0].DistanceKm, 0.011)
	assert.InDelta(t, 3.34, *result.Results[1].DistanceKm, 0.05)

	assert.Equal(t, int64(2), result.Results[0].TodaysEventsCount)
	assert.Equal(t, int64(0), result.Results[1].TodaysEventsCount)

	mockRides.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestRideService_Nearby_CustomRadiusExcludes(t *testing.T) {
	near := testRide(model.RideStatusEnRoute, 37.7750, -122.4195)
	mid := testRide(model.RideStatusPickup, 37.8049, -122.4194)

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("ListAll", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Ride{near, mid}, nil)
	mockEvents.On("CountSinceByRide", mock.Anything, mock.Anything, mock.Anything).
		Return(map[uuid.UUID]int64{}, nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	result, err := svc.Nearby(context.Background(), url.Values{
		"gps_latitude":  {"37.7749"},
		"gps_longitude": {"-122.4194"},
		"radius":        {"1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1.0, result.RadiusKm)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, near.ID, result.Results[0].ID)
}

func TestRideService_Nearby_BadCenter(t *testing.T) {
	svc := newRideServiceForTest(new(MockRideRepository), new(MockEventRepository), new(MockUserRepository))

	tests := []struct {
		name    string
		params  url.Values
		wantErr error
	}{
		{"missing center", url.Values{}, apperrors.ErrMissingCoordinates},
		{"non-numeric latitude", url.Values{"gps_latitude": {"north"}, "gps_longitude": {"-122.4"}}, apperrors.ErrMissingCoordinates},
		{"latitude out of range", url.Values{"gps_latitude": {"91"}, "gps_longitude": {"0"}}, apperrors.ErrInvalidCoordinates},
		{"longitude out of range", url.Values{"gps_latitude": {"0"}, "gps_longitude": {"-181"}}, apperrors.ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Nearby(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRideService_List_RanksWhenGPSPresent(t *testing.T) {
	near := testRide(model.RideStatusEnRoute, 37.7750, -122.4195)
	far := testRide(model.RideStatusEnRoute, 38.7749, -122.4194)

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("ListAll", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Ride{far, near}, nil)
	mockEvents.On("CountSinceByRide", mock.Anything, mock.Anything, mock.Anything).
		Return(map[uuid.UUID]int64{}, nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	result, err := svc.List(context.Background(), url.Values{
		"gps_latitude":  {"37.7749"},
		"gps_longitude": {"-122.4194"},
		"ordering":      {"-pickup_time"},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Count)
	// Distance rank overrides the requested ordering; no radius bound applies.
	assert.Equal(t, near.ID, result.Results[0].ID)
	assert.Equal(t, far.ID, result.Results[1].ID)
	assert.NotNil(t, result.Results[1].DistanceKm)
	assert.InDelta(t, 111.2, *result.Results[1].DistanceKm, 0.5)
}

func TestRideService_List_RankModePaginatesInMemory(t *testing.T) {
	rides := []model.Ride{
		testRide(model.RideStatusEnRoute, 37.7750, -122.4195),
		testRide(model.RideStatusEnRoute, 37.8049, -122.4194),
		testRide(model.RideStatusEnRoute, 38.7749, -122.4194),
	}

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("ListAll", mock.Anything, mock.Anything, mock.Anything).Return(rides, nil)
	mockEvents.On("CountSinceByRide", mock.Anything, mock.Anything, mock.Anything).
		Return(map[uuid.UUID]int64{}, nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	result, err := svc.List(context.Background(), url.Values{
		"gps_latitude":  {"37.7749"},
		"gps_longitude": {"-122.4194"},
		"page":          {"2"},
		"page_size":     {"2"},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.Count)
	assert.Equal(t, 2, result.Page)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, rides[2].ID, result.Results[0].ID)
}

func TestRideService_List_NoGPS(t *testing.T) {
	ride := testRide(model.RideStatusPickup, 37.7750, -122.4195)

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("Count", mock.Anything, mock.Anything).Return(int64(42), nil)
	mockRides.On("List", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Ride{ride}, nil)
	mockEvents.On("CountSinceByRide", mock.Anything, mock.Anything, mock.Anything).
		Return(map[uuid.UUID]int64{ride.ID: 3}, nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	result, err := svc.List(context.Background(), url.Values{"status": {"pickup"}})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), result.Count)
	assert.Len(t, result.Results, 1)
	assert.Nil(t, result.Results[0].DistanceKm)
	assert.Equal(t, int64(3), result.Results[0].TodaysEventsCount)
	assert.Equal(t, "rider@example.com", result.Results[0].RiderEmail)
	assert.Equal(t, "Derek Driver", result.Results[0].DriverName)
}

func TestRideService_Get(t *testing.T) {
	ride := testRide(model.RideStatusDropoff, 37.7750, -122.4195)
	ride.DropoffLatitude = 37.8044
	ride.DropoffLongitude = -122.2712
	events := []model.RideEvent{
		{ID: uuid.New(), RideID: ride.ID, Description: "Driver arrived at pickup", CreatedAt: testNow.Add(-time.Hour)},
	}

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("FindByID", mock.Anything, ride.ID).Return(&ride, nil)
	// The window cutoff is exactly 24 hours before the injected clock.
	mockEvents.On("ListByRideSince", mock.Anything, ride.ID, testNow.Add(-24*time.Hour)).
		Return(events, nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	detail, err := svc.Get(context.Background(), ride.ID)

	assert.NoError(t, err)
	assert.Equal(t, ride.ID, detail.ID)
	assert.Equal(t, "rider@example.com", detail.Rider.Email)
	assert.Equal(t, []float64{37.7750, -122.4195}, detail.PickupLocation)
	assert.Equal(t, []float64{37.8044, -122.2712}, detail.DropoffLocation)
	assert.Equal(t, 1, detail.TodaysEventsCount)
	assert.Equal(t, events, detail.TodaysRideEvents)

	mockEvents.AssertExpectations(t)
}

func TestRideService_Get_NotFound(t *testing.T) {
	mockRides := new(MockRideRepository)
	mockRides.On("FindByID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	svc := newRideServiceForTest(mockRides, new(MockEventRepository), new(MockUserRepository))
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestRideService_Create(t *testing.T) {
	riderID := uuid.New()
	driverID := uuid.New()
	rider := &model.User{ID: riderID, Role: model.RoleRider}
	driver := &model.User{ID: driverID, Role: model.RoleDriver}

	valid := CreateRideInput{
		Status:           model.RideStatusEnRoute,
		RiderID:          riderID,
		DriverID:         driverID,
		PickupLatitude:   37.7749,
		PickupLongitude:  -122.4194,
		DropoffLatitude:  37.8044,
		DropoffLongitude: -122.2712,
		PickupTime:       testNow,
	}

	tests := []struct {
		name      string
		mutate    func(*CreateRideInput)
		setupMock func(*MockRideRepository, *MockUserRepository)
		wantErr   error
	}{
		{
			name: "success",
			setupMock: func(mRides *MockRideRepository, mUsers *MockUserRepository) {
				mUsers.On("FindByID", mock.Anything, riderID).Return(rider, nil)
				mUsers.On("FindByID", mock.Anything, driverID).Return(driver, nil)
				mRides.On("Create", mock.Anything, mock.AnythingOfType("*model.Ride")).Return(nil)
			},
		},
		{
			name:    "unknown status",
			mutate:  func(in *CreateRideInput) { in.Status = "teleporting" },
			wantErr: apperrors.ErrInvalidStatus,
		},
		{
			name:    "latitude out of range",
			mutate:  func(in *CreateRideInput) { in.PickupLatitude = 95 },
			wantErr: apperrors.ErrInvalidCoordinates,
		},
		{
			name:    "same rider and driver",
			mutate:  func(in *CreateRideInput) { in.DriverID = in.RiderID },
			wantErr: apperrors.ErrSameRiderDriver,
		},
		{
			name: "rider has driver role",
			setupMock: func(mRides *MockRideRepository, mUsers *MockUserRepository) {
				mUsers.On("FindByID", mock.Anything, riderID).Return(&model.User{ID: riderID, Role: model.RoleDriver}, nil)
			},
			wantErr: apperrors.ErrInvalidRiderRole,
		},
		{
			name: "driver has rider role",
			setupMock: func(mRides *MockRideRepository, mUsers *MockUserRepository) {
				mUsers.On("FindByID", mock.Anything, riderID).Return(rider, nil)
				mUsers.On("FindByID", mock.Anything, driverID).Return(&model.User{ID: driverID, Role: model.RoleRider}, nil)
			},
			wantErr: apperrors.ErrInvalidDriverRole,
		},
		{
			name: "rider does not exist",
			setupMock: func(mRides *MockRideRepository, mUsers *MockUserRepository) {
				mUsers.On("FindByID", mock.Anything, riderID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRides := new(MockRideRepository)
			mockUsers := new(MockUserRepository)
			if tt.setupMock != nil {
				tt.setupMock(mockRides, mockUsers)
			}

			in := valid
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			svc := newRideServiceForTest(mockRides, new(MockEventRepository), mockUsers)
			ride, err := svc.Create(context.Background(), in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ride)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, in.Status, ride.Status)
				assert.Equal(t, in.RiderID, ride.RiderID)
			}
			mockRides.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestRideService_Update_StatusChangeAppendsEvent(t *testing.T) {
	ride := testRide(model.RideStatusPickup, 37.7750, -122.4195)
	completed := model.RideStatusCompleted

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("FindByID", mock.Anything, ride.ID).Return(&ride, nil)
	mockRides.On("Update", mock.Anything, mock.AnythingOfType("*model.Ride")).Return(nil)
	mockEvents.On("Create", mock.Anything, mock.MatchedBy(func(e *model.RideEvent) bool {
		return e.RideID == ride.ID && e.Description == "Status changed to completed"
	})).Return(nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	updated, err := svc.Update(context.Background(), ride.ID, UpdateRideInput{Status: &completed})

	assert.NoError(t, err)
	assert.Equal(t, model.RideStatusCompleted, updated.Status)
	mockEvents.AssertExpectations(t)
}

func TestRideService_Update_EventFailureDoesNotFailUpdate(t *testing.T) {
	ride := testRide(model.RideStatusPickup, 37.7750, -122.4195)
	completed := model.RideStatusCompleted

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("FindByID", mock.Anything, ride.ID).Return(&ride, nil)
	mockRides.On("Update", mock.Anything, mock.AnythingOfType("*model.Ride")).Return(nil)
	mockEvents.On("Create", mock.Anything, mock.AnythingOfType("*model.RideEvent")).
		Return(errors.New("events table unavailable"))

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	updated, err := svc.Update(context.Background(), ride.ID, UpdateRideInput{Status: &completed})

	assert.NoError(t, err)
	assert.Equal(t, model.RideStatusCompleted, updated.Status)
	mockEvents.AssertExpectations(t)
}

func TestRideService_Update_SameStatusNoEvent(t *testing.T) {
	ride := testRide(model.RideStatusPickup, 37.7750, -122.4195)
	same := model.RideStatusPickup

	mockRides := new(MockRideRepository)
	mockEvents := new(MockEventRepository)
	mockRides.On("FindByID", mock.Anything, ride.ID).Return(&ride, nil)
	mockRides.On("Update", mock.Anything, mock.AnythingOfType("*model.Ride")).Return(nil)

	svc := newRideServiceForTest(mockRides, mockEvents, new(MockUserRepository))
	_, err := svc.Update(context.Background(), ride.ID, UpdateRideInput{Status: &same})

	assert.NoError(t, err)
	mockEvents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRideService_Update_RejectsBadCoordinates(t *testing.T) {
	ride := testRide(model.RideStatusPickup, 37.7750, -122.4195)
	badLat := 123.0

	mockRides := new(MockRideRepository)
	mockRides.On("FindByID", mock.Anything, ride.ID).Return(&ride, nil)

	svc := newRideServiceForTest(mockRides, new(MockEventRepository), new(MockUserRepository))
	_, err := svc.Update(context.Background(), ride.ID, UpdateRideInput{PickupLatitude: &badLat})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCoordinates)
	mockRides.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRideService_Delete_NotFound(t *testing.T) {
	mockRides := new(MockRideRepository)
	mockRides.On("Delete", mock.Anything, mock.Anything).Return(gorm.ErrRecordNotFound)

	svc := newRideServiceForTest(mockRides, new(MockEventRepository), new(MockUserRepository))
	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestRideService_Events_RideMustExist(t *testing.T) {
	mockRides := new(MockRideRepository)
	mockRides.On("FindByID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	svc := newRideServiceForTest(mockRides, new(MockEventRepository), new(MockUserRepository))
	_, err := svc.Events(context.Background(), uuid.New(), query.Page{Number: 1, Size: 20})
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func TestRideService_Stats(t *testing.T) {
	mockRides := new(MockRideRepository)
	mockRides.On("CountTotal", mock.Anything).Return(int64(10), nil)
	mockRides.On("CountByStatus", mock.Anything).Return(map[model.RideStatus]int64{
		model.RideStatusEnRoute:   2,
		model.RideStatusPickup:    1,
		model.RideStatusDropoff:   1,
		model.RideStatusCompleted: 5,
		model.RideStatusCancelled: 1,
	}, nil)

	svc := newRideServiceForTest(mockRides, new(MockEventRepository), new(MockUserRepository))
	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalRides)
	assert.Equal(t, int64(4), stats.ActiveRides)
	assert.Equal(t, int64(5), stats.ByStatus[model.RideStatusCompleted])
}
