package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/query"
	"dispatch/internal/service"
)

// RideHandler handles ride endpoints.
type RideHandler struct {
	rideService service.RideService
}

// NewRideHandler creates a new ride handler.
func NewRideHandler(rideService service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid id",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

func mapError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// List godoc
// @Summary List rides
// @Description Filter by status, rider_id, driver_id, start_date/end_date and
// @Description search; order with the ordering parameter. When gps_latitude
// @Description and gps_longitude are present, results are ranked by distance
// @Description from that point.
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Param status query string false "Ride status"
// @Param rider_id query string false "Rider ID"
// @Param driver_id query string false "Driver ID"
// @Param start_date query string false "Inclusive pickup_time lower bound"
// @Param end_date query string false "Inclusive pickup_time upper bound"
// @Param search query string false "Free-text search over participants"
// @Param ordering query string false "Sort field, '-' prefix for descending"
// @Param gps_latitude query number false "Rank-by-distance latitude"
// @Param gps_longitude query number false "Rank-by-distance longitude"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} service.RideList
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /rides [get]
func (h *RideHandler) List(c echo.Context) error {
	result, err := h.rideService.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Nearby godoc
// @Summary Rides within a radius of a point
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Param gps_latitude query number true "Center latitude"
// @Param gps_longitude query number true "Center longitude"
// @Param radius query number false "Radius in km (default 10)"
// @Success 200 {object} service.NearbyResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /rides/nearby [get]
func (h *RideHandler) Nearby(c echo.Context) error {
	result, err := h.rideService.Nearby(c.Request().Context(), c.QueryParams())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Active godoc
// @Summary List rides still in progress
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RideList
// @Router /rides/active [get]
func (h *RideHandler) Active(c echo.Context) error {
	result, err := h.rideService.Active(c.Request().Context(), query.ParsePage(c.QueryParams()))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Stats godoc
// @Summary Ride statistics
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RideStats
// @Router /rides/stats [get]
func (h *RideHandler) Stats(c echo.Context) error {
	stats, err := h.rideService.Stats(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Get godoc
// @Summary Get ride detail with today's events
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ride ID"
// @Success 200 {object} service.RideDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /rides/{id} [get]
func (h *RideHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	detail, err := h.rideService.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Create godoc
// @Summary Create a ride
// @Tags rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateRideInput true "Ride payload"
// @Success 201 {object} model.Ride
// @Failure 400 {object} errors.ErrorResponse
// @Router /rides [post]
func (h *RideHandler) Create(c echo.Context) error {
	var in service.CreateRideInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ride, err := h.rideService.Create(c.Request().Context(), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, ride)
}

// Update godoc
// @Summary Update a ride
// @Description Partial update. A status change appends a ride event.
// @Tags rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ride ID"
// @Param request body service.UpdateRideInput true "Fields to update"
// @Success 200 {object} model.Ride
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rides/{id} [put]
func (h *RideHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in service.UpdateRideInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ride, err := h.rideService.Update(c.Request().Context(), id, in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ride)
}

// Delete godoc
// @Summary Delete a ride and its events
// @Tags rides
// @Security BearerAuth
// @Param id path string true "Ride ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /rides/{id} [delete]
func (h *RideHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.rideService.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Events godoc
// @Summary List a ride's events
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ride ID"
// @Success 200 {object} service.EventPage
// @Failure 404 {object} errors.ErrorResponse
// @Router /rides/{id}/events [get]
func (h *RideHandler) Events(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	events, err := h.rideService.Events(c.Request().Context(), id, query.ParsePage(c.QueryParams()))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, events)
}
