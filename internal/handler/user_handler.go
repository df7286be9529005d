package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/query"
	"dispatch/internal/service"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @Summary List users
// @Description Filter by role and is_active, free-text search over names,
// @Description email and phone.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role (admin, driver, rider)"
// @Param is_active query string false "Active flag (true/1/yes)"
// @Param search query string false "Free-text search"
// @Param ordering query string false "Sort field, '-' prefix for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} service.UserList
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.userService.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateUserInput true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var in service.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, err := h.userService.Create(c.Request().Context(), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Update a user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body service.UpdateUserInput true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in service.UpdateUserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.userService.Update(c.Request().Context(), id, in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Deactivate godoc
// @Summary Soft-delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Deactivate(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User %s has been deactivated successfully.", user.Email),
	})
}

// Activate godoc
// @Summary Reactivate a deactivated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Activate(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("User %s has been activated successfully.", user.Email),
	})
}

// Rides godoc
// @Summary List a user's rides as rider or driver
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.RideList
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/rides [get]
func (h *UserHandler) Rides(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rides, err := h.userService.Rides(c.Request().Context(), id, query.ParsePage(c.QueryParams()))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rides)
}

// Drivers godoc
// @Summary List active drivers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /users/drivers [get]
func (h *UserHandler) Drivers(c echo.Context) error {
	drivers, err := h.userService.Drivers(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, drivers)
}

// Riders godoc
// @Summary List active riders
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /users/riders [get]
func (h *UserHandler) Riders(c echo.Context) error {
	riders, err := h.userService.Riders(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, riders)
}

// Stats godoc
// @Summary User statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserStats
// @Router /users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.userService.Stats(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
