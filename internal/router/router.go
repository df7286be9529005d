package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"dispatch/internal/auth"
	"dispatch/internal/config"
	"dispatch/internal/handler"
)

// Register wires routes and middleware. Every data route group runs behind
// the JWT middleware plus an access-gate policy: users and rides are
// admin-only, ride events are readable by any authenticated caller and
// writable by admins.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	rideHandler *handler.RideHandler,
	eventHandler *handler.EventHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", func(c echo.Context) error {
		ident := auth.IdentityFromContext(c)
		if ident == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": ident.UserID,
			"email":   ident.Email,
			"role":    ident.Role,
		})
	})

	// User routes
	users := secured.Group("/users", auth.Gate(auth.AdminOnly))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/stats", userHandler.Stats)
	users.GET("/drivers", userHandler.Drivers)
	users.GET("/riders", userHandler.Riders)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Deactivate)
	users.POST("/:id/activate", userHandler.Activate)
	users.GET("/:id/rides", userHandler.Rides)

	// Ride routes
	rides := secured.Group("/rides", auth.Gate(auth.AdminOnly))
	rides.GET("", rideHandler.List)
	rides.POST("", rideHandler.Create)
	rides.GET("/nearby", rideHandler.Nearby)
	rides.GET("/active", rideHandler.Active)
	rides.GET("/stats", rideHandler.Stats)
	rides.GET("/:id", rideHandler.Get)
	rides.PUT("/:id", rideHandler.Update)
	rides.DELETE("/:id", rideHandler.Delete)
	rides.GET("/:id/events", rideHandler.Events)

	// Ride event routes
	events := secured.Group("/ride-events", auth.Gate(auth.AdminWriteReadAny))
	events.GET("", eventHandler.List)
	events.POST("", eventHandler.Create)
	events.GET("/todays", eventHandler.Todays)
	events.GET("/types", eventHandler.Types)
	events.GET("/stats", eventHandler.Stats)
	events.PUT("/:id", eventHandler.Update)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
