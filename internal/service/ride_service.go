package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/geo"
	"dispatch/internal/model"
	"dispatch/internal/query"
	"dispatch/internal/repository"
)

// UserSummary is the compact user projection embedded in ride views.
type UserSummary struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	Role      model.Role `json:"role"`
}

func summarize(u *model.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      u.Role,
	}
}

// RideListItem is the row projection for ride list views. DistanceKm is only
// set when GPS ranking is active, rounded to two decimals.
type RideListItem struct {
	ID                uuid.UUID        `json:"id"`
	Status            model.RideStatus `json:"status"`
	RiderEmail        string           `json:"rider_email"`
	DriverEmail       string           `json:"driver_email"`
	RiderName         string           `json:"rider_name"`
	DriverName        string           `json:"driver_name"`
	PickupTime        time.Time        `json:"pickup_time"`
	PickupLatitude    float64          `json:"pickup_latitude"`
	PickupLongitude   float64          `json:"pickup_longitude"`
	TodaysEventsCount int64            `json:"todays_events_count"`
	DistanceKm        *float64         `json:"distance_km,omitempty"`
}

// RideList is a paginated ride list response.
type RideList struct {
	Count    int64          `json:"count"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Results  []RideListItem `json:"results"`
}

// NearbyResult is the radius-mode response: bounded, distance-sorted rides
// plus the query center and radius actually used.
type NearbyResult struct {
	Count    int            `json:"count"`
	Center   geo.Point      `json:"center"`
	RadiusKm float64        `json:"radius_km"`
	Results  []RideListItem `json:"results"`
}

// RideDetail is the full single-ride projection including the rolling
// 24-hour event window.
type RideDetail struct {
	ID                uuid.UUID         `json:"id"`
	Status            model.RideStatus  `json:"status"`
	Rider             UserSummary       `json:"rider"`
	Driver            UserSummary       `json:"driver"`
	PickupLatitude    float64           `json:"pickup_latitude"`
	PickupLongitude   float64           `json:"pickup_longitude"`
	DropoffLatitude   float64           `json:"dropoff_latitude"`
	DropoffLongitude  float64           `json:"dropoff_longitude"`
	PickupLocation    []float64         `json:"pickup_location"`
	DropoffLocation   []float64         `json:"dropoff_location"`
	PickupTime        time.Time         `json:"pickup_time"`
	TodaysRideEvents  []model.RideEvent `json:"todays_ride_events"`
	TodaysEventsCount int               `json:"todays_events_count"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// RideStats is the read-side rollup over the whole ride collection.
type RideStats struct {
	TotalRides  int64                      `json:"total_rides"`
	ActiveRides int64                      `json:"active_rides"`
	ByStatus    map[model.RideStatus]int64 `json:"by_status"`
}

// CreateRideInput carries a ride creation request.
type CreateRideInput struct {
	Status           model.RideStatus `json:"status" validate:"required"`
	RiderID          uuid.UUID        `json:"rider_id" validate:"required"`
	DriverID         uuid.UUID        `json:"driver_id" validate:"required"`
	PickupLatitude   float64          `json:"pickup_latitude"`
	PickupLongitude  float64          `json:"pickup_longitude"`
	DropoffLatitude  float64          `json:"dropoff_latitude"`
	DropoffLongitude float64          `json:"dropoff_longitude"`
	PickupTime       time.Time        `json:"pickup_time" validate:"required"`
}

// UpdateRideInput carries a partial ride update. Nil fields are left as-is.
type UpdateRideInput struct {
	Status           *model.RideStatus `json:"status"`
	PickupLatitude   *float64          `json:"pickup_latitude"`
	PickupLongitude  *float64          `json:"pickup_longitude"`
	DropoffLatitude  *float64          `json:"dropoff_latitude"`
	DropoffLongitude *float64          `json:"dropoff_longitude"`
	PickupTime       *time.Time        `json:"pickup_time"`
}

// EventPage is a paginated event list.
type EventPage struct {
	Count    int64             `json:"count"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Results  []model.RideEvent `json:"results"`
}

// RideService exposes the ride query and mutation operations.
type RideService interface {
	List(ctx context.Context, params url.Values) (*RideList, error)
	Get(ctx context.Context, id uuid.UUID) (*RideDetail, error)
	Create(ctx context.Context, in CreateRideInput) (*model.Ride, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateRideInput) (*model.Ride, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Nearby(ctx context.Context, params url.Values) (*NearbyResult, error)
	Events(ctx context.Context, id uuid.UUID, p query.Page) (*EventPage, error)
	Active(ctx context.Context, p query.Page) (*RideList, error)
	Stats(ctx context.Context) (*RideStats, error)
}

type rideService struct {
	rides  repository.RideRepository
	events repository.EventRepository
	users  repository.UserRepository
	clock  query.Clock
}

// NewRideService builds a RideService. A nil clock falls back to the system
// clock.
func NewRideService(rides repository.RideRepository, events repository.EventRepository, users repository.UserRepository, clock query.Clock) RideService {
	if clock == nil {
		clock = query.SystemClock
	}
	return &rideService{rides: rides, events: events, users: users, clock: clock}
}

// rankedRide pairs a ride with its full-precision distance from the query
// point. Sorting and radius checks use this value; only the projection
// rounds it.
type rankedRide struct {
	ride     model.Ride
	distance float64
}

func rankByDistance(rides []model.Ride, center geo.Point) []rankedRide {
	ranked := make([]rankedRide, len(rides))
	for i, ride := range rides {
		ranked[i] = rankedRide{
			ride:     ride,
			distance: geo.Haversine(center.Lat, center.Lon, ride.PickupLatitude, ride.PickupLongitude),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	return ranked
}

// List returns a filtered, ordered, paginated ride collection. When parseable
// gps_latitude and gps_longitude parameters are present, results are ranked
// by distance from that point and the distance annotation is included; the
// rank overrides any requested ordering.
func (s *rideService) List(ctx context.Context, params url.Values) (*RideList, error) {
	f := query.RideFilters(params)
	ord := query.ParseOrdering(params.Get("ordering"), query.RideOrderingFields, query.Desc("pickup_time"))
	page := query.ParsePage(params)
	now := s.clock.Now()

	if center, ok := geo.ParsePoint(params.Get("gps_latitude"), params.Get("gps_longitude")); ok {
		rides, err := s.rides.ListAll(ctx, f, ord)
		if err != nil {
			return nil, fmt.Errorf("list rides: %w", err)
		}
		ranked := rankByDistance(rides, center)
		lo, hi := page.Bounds(len(ranked))
		items, err := s.projectRanked(ctx, ranked[lo:hi], now)
		if err != nil {
			return nil, err
		}
		return &RideList{
			Count:    int64(len(ranked)),
			Page:     page.Number,
			PageSize: page.Size,
			Results:  items,
		}, nil
	}

	total, err := s.rides.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count rides: %w", err)
	}
	rides, err := s.rides.List(ctx, f, ord, page)
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	items, err := s.project(ctx, rides, now, nil)
	if err != nil {
		return nil, err
	}
	return &RideList{
		Count:    total,
		Page:     page.Number,
		PageSize: page.Size,
		Results:  items,
	}, nil
}

// Nearby returns rides whose pickup point lies within radius_km of the query
// center, sorted by ascending distance. The radius defaults to 10 km when
// absent or unparseable; a missing or non-numeric center is a validation
// error because the operation has no meaning without one.
func (s *rideService) Nearby(ctx context.Context, params url.Values) (*NearbyResult, error) {
	center, ok := geo.ParsePoint(params.Get("gps_latitude"), params.Get("gps_longitude"))
	if !ok {
		return nil, apperrors.ErrMissingCoordinates
	}
	if !geo.ValidCoordinate(center.Lat, center.Lon) {
		return nil, apperrors.ErrInvalidCoordinates
	}
	radius := geo.ParseRadius(params.Get("radius"), geo.DefaultRadiusKm)

	rides, err := s.rides.ListAll(ctx, query.Filters{}, query.Desc("pickup_time"))
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}

	ranked := rankByDistance(rides, center)
	bounded := ranked[:0:0]
	for _, rr := range ranked {
		if rr.distance <= radius {
			bounded = append(bounded, rr)
		}
	}

	items, err := s.projectRanked(ctx, bounded, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &NearbyResult{
		Count:    len(bounded),
		Center:   center,
		RadiusKm: radius,
		Results:  items,
	}, nil
}

// project shapes rides into list rows, annotating each with its count of
// events inside the 24-hour window ending at now. distances, when non-nil,
// maps ride IDs to full-precision distances.
func (s *rideService) project(ctx context.Context, rides []model.Ride, now time.Time, distances map[uuid.UUID]float64) ([]RideListItem, error) {
	ids := make([]uuid.UUID, len(rides))
	for i, ride := range rides {
		ids[i] = ride.ID
	}
	counts, err := s.events.CountSinceByRide(ctx, ids, query.WindowStart(now, query.DayWindow))
	if err != nil {
		return nil, fmt.Errorf("count todays events: %w", err)
	}

	items := make([]RideListItem, len(rides))
	for i, ride := range rides {
		item := RideListItem{
			ID:                ride.ID,
			Status:            ride.Status,
			PickupTime:        ride.PickupTime,
			PickupLatitude:    ride.PickupLatitude,
			PickupLongitude:   ride.PickupLongitude,
			TodaysEventsCount: counts[ride.ID],
		}
		if ride.Rider != nil {
			item.RiderEmail = ride.Rider.Email
			item.RiderName = ride.Rider.FullName()
		}
		if ride.Driver != nil {
			item.DriverEmail = ride.Driver.Email
			item.DriverName = ride.Driver.FullName()
		}
		if distances != nil {
			if d, ok := distances[ride.ID]; ok {
				rounded := geo.Round2(d)
				item.DistanceKm = &rounded
			}
		}
		items[i] = item
	}
	return items, nil
}

func (s *rideService) projectRanked(ctx context.Context, ranked []rankedRide, now time.Time) ([]RideListItem, error) {
	rides := make([]model.Ride, len(ranked))
	distances := make(map[uuid.UUID]float64, len(ranked))
	for i, rr := range ranked {
		rides[i] = rr.ride
		distances[rr.ride.ID] = rr.distance
	}
	return s.project(ctx, rides, now, distances)
}

// Get returns the full ride detail with the rolling 24-hour event window.
func (s *rideService) Get(ctx context.Context, id uuid.UUID) (*RideDetail, error) {
	ride, err := s.rides.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrRideNotFound
		}
		return nil, fmt.Errorf("find ride: %w", err)
	}

	now := s.clock.Now()
	events, err := s.events.ListByRideSince(ctx, id, query.WindowStart(now, query.DayWindow))
	if err != nil {
		return nil, fmt.Errorf("list todays events: %w", err)
	}

	return &RideDetail{
		ID:                ride.ID,
		Status:            ride.Status,
		Rider:             summarize(ride.Rider),
		Driver:            summarize(ride.Driver),
		PickupLatitude:    ride.PickupLatitude,
		PickupLongitude:   ride.PickupLongitude,
		DropoffLatitude:   ride.DropoffLatitude,
		DropoffLongitude:  ride.DropoffLongitude,
		PickupLocation:    []float64{ride.PickupLatitude, ride.PickupLongitude},
		DropoffLocation:   []float64{ride.DropoffLatitude, ride.DropoffLongitude},
		PickupTime:        ride.PickupTime,
		TodaysRideEvents:  events,
		TodaysEventsCount: len(events),
		CreatedAt:         ride.CreatedAt,
		UpdatedAt:         ride.UpdatedAt,
	}, nil
}

func (s *rideService) validateParticipants(ctx context.Context, riderID, driverID uuid.UUID) error {
	if riderID == driverID {
		return apperrors.ErrSameRiderDriver
	}
	rider, err := s.users.FindByID(ctx, riderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find rider: %w", err)
	}
	if rider.Role != model.RoleRider && rider.Role != model.RoleAdmin {
		return apperrors.ErrInvalidRiderRole
	}
	driver, err := s.users.FindByID(ctx, driverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find driver: %w", err)
	}
	if driver.Role != model.RoleDriver && driver.Role != model.RoleAdmin {
		return apperrors.ErrInvalidDriverRole
	}
	return nil
}

// Create validates and stores a new ride. Coordinate validation at this
// boundary is what keeps the distance engine free of NaN inputs.
func (s *rideService) Create(ctx context.Context, in CreateRideInput) (*model.Ride, error) {
	if !in.Status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	if !geo.ValidCoordinate(in.PickupLatitude, in.PickupLongitude) ||
		!geo.ValidCoordinate(in.DropoffLatitude, in.DropoffLongitude) {
		return nil, apperrors.ErrInvalidCoordinates
	}
	if err := s.validateParticipants(ctx, in.RiderID, in.DriverID); err != nil {
		return nil, err
	}

	ride := &model.Ride{
		Status:           in.Status,
		RiderID:          in.RiderID,
		DriverID:         in.DriverID,
		PickupLatitude:   in.PickupLatitude,
		PickupLongitude:  in.PickupLongitude,
		DropoffLatitude:  in.DropoffLatitude,
		DropoffLongitude: in.DropoffLongitude,
		PickupTime:       in.PickupTime,
	}
	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("create ride: %w", err)
	}
	return ride, nil
}

// Update applies a partial ride update. Status writes accept any transition
// between known statuses; a status change appends a ride event as a second,
// independent write, so a failure there leaves the status change without its
// event.
func (s *rideService) Update(ctx context.Context, id uuid.UUID, in UpdateRideInput) (*model.Ride, error) {
	ride, err := s.rides.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrRideNotFound
		}
		return nil, fmt.Errorf("find ride: %w", err)
	}

	statusChanged := false
	if in.Status != nil && *in.Status != ride.Status {
		if !in.Status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		ride.Status = *in.Status
		statusChanged = true
	}
	if in.PickupLatitude != nil {
		ride.PickupLatitude = *in.PickupLatitude
	}
	if in.PickupLongitude != nil {
		ride.PickupLongitude = *in.PickupLongitude
	}
	if in.DropoffLatitude != nil {
		ride.DropoffLatitude = *in.DropoffLatitude
	}
	if in.DropoffLongitude != nil {
		ride.DropoffLongitude = *in.DropoffLongitude
	}
	if in.PickupTime != nil {
		ride.PickupTime = *in.PickupTime
	}
	if !geo.ValidCoordinate(ride.PickupLatitude, ride.PickupLongitude) ||
		!geo.ValidCoordinate(ride.DropoffLatitude, ride.DropoffLongitude) {
		return nil, apperrors.ErrInvalidCoordinates
	}

	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, fmt.Errorf("update ride: %w", err)
	}

	if statusChanged {
		// The status update already committed; a failed trail entry is
		// logged, not surfaced.
		err := s.events.Create(ctx, &model.RideEvent{
			RideID:      ride.ID,
			Description: fmt.Sprintf("Status changed to %s", ride.Status),
		})
		if err != nil {
			log.Printf("Warning: Failed to record status change event for ride %s: %v", ride.ID, err)
		}
	}
	return ride, nil
}

// Delete removes a ride and cascades deletion of its events.
func (s *rideService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.rides.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrRideNotFound
		}
		return fmt.Errorf("delete ride: %w", err)
	}
	return nil
}

// Events lists all events of one ride, newest first.
func (s *rideService) Events(ctx context.Context, id uuid.UUID, p query.Page) (*EventPage, error) {
	if _, err := s.rides.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrRideNotFound
		}
		return nil, fmt.Errorf("find ride: %w", err)
	}
	total, err := s.events.CountByRide(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count ride events: %w", err)
	}
	events, err := s.events.ListByRide(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("list ride events: %w", err)
	}
	return &EventPage{
		Count:    total,
		Page:     p.Number,
		PageSize: p.Size,
		Results:  events,
	}, nil
}

// Active lists rides still in progress.
func (s *rideService) Active(ctx context.Context, p query.Page) (*RideList, error) {
	total, err := s.rides.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active rides: %w", err)
	}
	rides, err := s.rides.ListActive(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list active rides: %w", err)
	}
	items, err := s.project(ctx, rides, s.clock.Now(), nil)
	if err != nil {
		return nil, err
	}
	return &RideList{
		Count:    total,
		Page:     p.Number,
		PageSize: p.Size,
		Results:  items,
	}, nil
}

// Stats computes the ride rollup over the unfiltered collection. A caller's
// active list filters never narrow these numbers.
func (s *rideService) Stats(ctx context.Context) (*RideStats, error) {
	total, err := s.rides.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rides: %w", err)
	}
	byStatus, err := s.rides.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rides by status: %w", err)
	}
	var active int64
	for _, status := range model.ActiveRideStatuses {
		active += byStatus[status]
	}
	return &RideStats{
		TotalRides:  total,
		ActiveRides: active,
		ByStatus:    byStatus,
	}, nil
}
