package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/model"
)

// IdentityFromContext extracts the caller identity from the JWT placed in the
// echo context by the jwt middleware. Returns nil when no valid token is
// present.
func IdentityFromContext(c echo.Context) *Identity {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   model.Role(claims.Role),
	}
}

// modeForMethod derives the authorization mode from the HTTP method.
// GET/HEAD/OPTIONS are reads, everything else is a write.
func modeForMethod(method string) Mode {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ModeRead
	}
	return ModeWrite
}

// Gate builds the access-gate middleware for a route group.
func Gate(policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mode := modeForMethod(c.Request().Method)
			if err := Authorize(IdentityFromContext(c), policy, mode); err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}
