package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dispatch/internal/config"
	"dispatch/internal/db"
	"dispatch/internal/model"
	"dispatch/internal/repository"
)

const seedPassword = "testpass123"

type seedUser struct {
	Role      model.Role
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

var seedUsers = []seedUser{
	{Role: model.RoleAdmin, FirstName: "Ada", LastName: "Admin", Email: "admin@example.com", Phone: "+15550100001"},
	{Role: model.RoleDispatcher, FirstName: "Dana", LastName: "Dispatch", Email: "dispatcher@example.com", Phone: "+15550100002"},
	{Role: model.RoleDriver, FirstName: "Derek", LastName: "Driver", Email: "driver1@example.com", Phone: "+15550100003"},
	{Role: model.RoleDriver, FirstName: "Dina", LastName: "Driver", Email: "driver2@example.com", Phone: "+15550100004"},
	{Role: model.RoleRider, FirstName: "Rita", LastName: "Rider", Email: "rider1@example.com", Phone: "+15550100005"},
	{Role: model.RoleRider, FirstName: "Ravi", LastName: "Rider", Email: "rider2@example.com", Phone: "+15550100006"},
}

// seedRide pairs pickup/dropoff points around downtown San Francisco with a
// status and an offset for the pickup time relative to now.
type seedRide struct {
	Status      model.RideStatus
	DriverEmail string
	RiderEmail  string
	PickupLat   float64
	PickupLon   float64
	DropoffLat  float64
	DropoffLon  float64
	PickupIn    time.Duration
	Events      []string
}

var seedRides = []seedRide{
	{
		Status:      model.RideStatusEnRoute,
		DriverEmail: "driver1@example.com", RiderEmail: "rider1@example.com",
		PickupLat: 37.7749, PickupLon: -122.4194,
		DropoffLat: 37.8044, DropoffLon: -122.2712,
		PickupIn: 30 * time.Minute,
		Events:   []string{"Ride requested", "Driver assigned"},
	},
	{
		Status:      model.RideStatusPickup,
		DriverEmail: "driver1@example.com", RiderEmail: "rider2@example.com",
		PickupLat: 37.7858, PickupLon: -122.4064,
		DropoffLat: 37.7599, DropoffLon: -122.4148,
		PickupIn: -10 * time.Minute,
		Events:   []string{"Ride requested", "Driver assigned", "Driver arrived at pickup"},
	},
	{
		Status:      model.RideStatusDropoff,
		DriverEmail: "driver2@example.com", RiderEmail: "rider1@example.com",
		PickupLat: 37.7955, PickupLon: -122.3937,
		DropoffLat: 37.7952, DropoffLon: -122.4029,
		PickupIn: -45 * time.Minute,
		Events:   []string{"Ride requested", "Status changed to pickup", "Status changed to dropoff"},
	},
	{
		Status:      model.RideStatusCompleted,
		DriverEmail: "driver2@example.com", RiderEmail: "rider2@example.com",
		PickupLat: 37.7694, PickupLon: -122.4862,
		DropoffLat: 37.8078, DropoffLon: -122.4177,
		PickupIn: -26 * time.Hour,
		Events:   []string{"Ride requested", "Status changed to completed"},
	},
	{
		Status:      model.RideStatusCancelled,
		DriverEmail: "driver1@example.com", RiderEmail: "rider1@example.com",
		PickupLat: 37.7340, PickupLon: -122.4466,
		DropoffLat: 37.7249, DropoffLon: -122.4194,
		PickupIn: -8 * 24 * time.Hour,
		Events:   []string{"Ride requested", "Status changed to cancelled"},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Ride{}, &model.RideEvent{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	rideRepo := repository.NewRideRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	ctx := context.Background()

	users, created, err := ensureUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready: %d total, %d created", len(users), created)

	ridesCreated, eventsCreated, err := createRides(ctx, rideRepo, eventRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed rides: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Rides created: %d", ridesCreated)
	log.Printf("  - Ride events created: %d", eventsCreated)
	log.Printf("  - Login password for all seeded users: %s", seedPassword)
}

// ensureUsers creates the fixed seed users, skipping any that already exist.
func ensureUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, 0, fmt.Errorf("hash password: %w", err)
	}

	users := make(map[string]*model.User, len(seedUsers))
	created := 0
	for _, su := range seedUsers {
		existing, err := repo.FindByEmail(ctx, su.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, created, fmt.Errorf("error checking user %s: %w", su.Email, err)
		}
		if existing != nil {
			users[su.Email] = existing
			continue
		}

		user := &model.User{
			Role:         su.Role,
			FirstName:    su.FirstName,
			LastName:     su.LastName,
			Email:        su.Email,
			Phone:        su.Phone,
			PasswordHash: string(hash),
			Active:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, fmt.Errorf("error creating user %s: %w", su.Email, err)
		}
		users[su.Email] = user
		created++
	}
	return users, created, nil
}

// createRides inserts the sample rides and their event trails.
func createRides(ctx context.Context, rides repository.RideRepository, events repository.EventRepository, users map[string]*model.User) (ridesCreated int, eventsCreated int, err error) {
	now := time.Now().UTC()
	for _, sr := range seedRides {
		driver, ok := users[sr.DriverEmail]
		if !ok {
			return ridesCreated, eventsCreated, fmt.Errorf("missing seed driver %s", sr.DriverEmail)
		}
		rider, ok := users[sr.RiderEmail]
		if !ok {
			return ridesCreated, eventsCreated, fmt.Errorf("missing seed rider %s", sr.RiderEmail)
		}

		ride := &model.Ride{
			Status:           sr.Status,
			RiderID:          rider.ID,
			DriverID:         driver.ID,
			PickupLatitude:   sr.PickupLat,
			PickupLongitude:  sr.PickupLon,
			DropoffLatitude:  sr.DropoffLat,
			DropoffLongitude: sr.DropoffLon,
			PickupTime:       now.Add(sr.PickupIn),
		}
		if err := rides.Create(ctx, ride); err != nil {
			return ridesCreated, eventsCreated, fmt.Errorf("error creating ride: %w", err)
		}
		ridesCreated++

		for _, description := range sr.Events {
			event := &model.RideEvent{
				RideID:      ride.ID,
				Description: description,
			}
			if err := events.Create(ctx, event); err != nil {
				return ridesCreated, eventsCreated, fmt.Errorf("error creating ride event: %w", err)
			}
			eventsCreated++
		}
	}
	return ridesCreated, eventsCreated, nil
}
