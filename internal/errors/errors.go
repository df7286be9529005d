package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid caller identity is present.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when an authenticated caller lacks the required role.
	ErrForbidden = errors.New("permission denied")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRideNotFound is returned when a referenced ride does not exist.
	ErrRideNotFound = errors.New("ride not found")
	// ErrEventNotFound is returned when a referenced ride event does not exist.
	ErrEventNotFound = errors.New("ride event not found")
	// ErrEmailTaken is returned when creating a user with an existing email.
	ErrEmailTaken = errors.New("a user with this email already exists")
	// ErrSameRiderDriver is returned when a ride names the same user as rider and driver.
	ErrSameRiderDriver = errors.New("rider and driver must be different users")
	// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
	ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	// ErrMissingCoordinates is returned when a nearby query lacks a usable center point.
	ErrMissingCoordinates = errors.New("gps_latitude and gps_longitude are required")
	// ErrInvalidRole is returned when a user role is not one of the known values.
	ErrInvalidRole = errors.New("role must be one of: admin, driver, rider, dispatcher")
	// ErrInvalidStatus is returned when a ride status is not one of the known values.
	ErrInvalidStatus = errors.New("status must be one of: en-route, pickup, dropoff, completed, cancelled")
	// ErrInvalidRiderRole is returned when the rider reference is not a rider or admin.
	ErrInvalidRiderRole = errors.New("rider must have the rider or admin role")
	// ErrInvalidDriverRole is returned when the driver reference is not a driver or admin.
	ErrInvalidDriverRole = errors.New("driver must have the driver or admin role")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Authentication and
// authorization failures never reveal whether the underlying resource exists.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	switch err {
	case ErrUnauthenticated:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrRideNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "RIDE_NOT_FOUND")
	case ErrEventNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "EVENT_NOT_FOUND")
	case ErrEmailTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case ErrSameRiderDriver:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SAME_RIDER_DRIVER")
	case ErrInvalidCoordinates:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_COORDINATES")
	case ErrMissingCoordinates:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_COORDINATES")
	case ErrInvalidRole:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case ErrInvalidStatus:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case ErrInvalidRiderRole:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RIDER_ROLE")
	case ErrInvalidDriverRole:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DRIVER_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
