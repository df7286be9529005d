package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/query"
	"dispatch/internal/service"
)

// EventHandler handles ride event endpoints.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List godoc
// @Summary List ride events
// @Description Filter by ride_id, start_date/end_date on created_at and
// @Description free-text search over descriptions.
// @Tags ride-events
// @Produce json
// @Security BearerAuth
// @Param ride_id query string false "Ride ID"
// @Param start_date query string false "Inclusive created_at lower bound"
// @Param end_date query string false "Inclusive created_at upper bound"
// @Param search query string false "Free-text search over descriptions"
// @Param ordering query string false "Sort field, '-' prefix for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} service.EventList
// @Failure 401 {object} errors.ErrorResponse
// @Router /ride-events [get]
func (h *EventHandler) List(c echo.Context) error {
	result, err := h.eventService.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Todays godoc
// @Summary Events from the last 24 hours across all rides
// @Tags ride-events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.EventList
// @Router /ride-events/todays [get]
func (h *EventHandler) Todays(c echo.Context) error {
	result, err := h.eventService.Todays(c.Request().Context(), query.ParsePage(c.QueryParams()))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Types godoc
// @Summary Distinct event descriptions
// @Tags ride-events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /ride-events/types [get]
func (h *EventHandler) Types(c echo.Context) error {
	types, err := h.eventService.Types(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, types)
}

// Stats godoc
// @Summary Event statistics with 24-hour and 7-day windows
// @Tags ride-events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.EventStats
// @Router /ride-events/stats [get]
func (h *EventHandler) Stats(c echo.Context) error {
	stats, err := h.eventService.Stats(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Create godoc
// @Summary Append an event to a ride
// @Tags ride-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateEventInput true "Event payload"
// @Success 201 {object} model.RideEvent
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ride-events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var in service.CreateEventInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	event, err := h.eventService.Create(c.Request().Context(), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// Update godoc
// @Summary Edit an event description
// @Description Deliberate deviation from append-only semantics.
// @Tags ride-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body service.UpdateEventInput true "New description"
// @Success 200 {object} model.RideEvent
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ride-events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in service.UpdateEventInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	event, err := h.eventService.Update(c.Request().Context(), id, in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, event)
}
