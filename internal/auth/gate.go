package auth

import (
	"github.com/google/uuid"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/model"
)

// Mode classifies an operation for authorization purposes.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Policy selects the authorization rule applied before any data access.
type Policy int

const (
	// AdminOnly allows only admin callers, for both reads and writes.
	AdminOnly Policy = iota
	// AdminWriteReadAny allows any authenticated caller to read and only
	// admin callers to write.
	AdminWriteReadAny
)

// Identity is an authenticated caller. A nil Identity means the request
// carried no valid credentials.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// Authorize decides whether the caller may perform an operation under the
// given policy. Missing identity and insufficient role map to distinct
// errors so the HTTP layer can answer 401 versus 403. Roles match exactly;
// there is no hierarchy.
func Authorize(ident *Identity, policy Policy, mode Mode) error {
	if ident == nil {
		return apperrors.ErrUnauthenticated
	}
	switch policy {
	case AdminWriteReadAny:
		if mode == ModeRead {
			return nil
		}
	}
	if ident.Role != model.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}
