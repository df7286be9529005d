package main

import (
	"log"
	"net/http"
	"os"

	_ "dispatch/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"dispatch/internal/auth"
	"dispatch/internal/cache"
	"dispatch/internal/config"
	"dispatch/internal/db"
	"dispatch/internal/handler"
	"dispatch/internal/model"
	"dispatch/internal/repository"
	"dispatch/internal/router"
	"dispatch/internal/service"
)

// @title Dispatch API
// @version 1.0
// @description Ride dispatch API with geospatial ride queries, ride event tracking, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.RideEvent{},
			&model.Ride{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Ride{},
		&model.RideEvent{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	rideRepo := repository.NewRideRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, rideRepo)
	rideService := service.NewRideService(rideRepo, eventRepo, userRepo, nil)
	eventService := service.NewEventService(eventRepo, rideRepo, nil)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	rideHandler := handler.NewRideHandler(rideService)
	eventHandler := handler.NewEventHandler(eventService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		rideHandler,
		eventHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
