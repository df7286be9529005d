package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "dispatch/internal/errors"
	"dispatch/internal/model"
	"dispatch/internal/query"
	"dispatch/internal/repository"
)

const bcryptCost = 10

// UserList is a paginated user list.
type UserList struct {
	Count    int64        `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Results  []model.User `json:"results"`
}

// UserStats is the read-side rollup over the user collection. Dispatchers are
// stored but, matching the role filter asymmetry, not broken out here.
type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	InactiveUsers int64 `json:"inactive_users"`
	Drivers       int64 `json:"drivers"`
	Riders        int64 `json:"riders"`
	Admins        int64 `json:"admins"`
}

// CreateUserInput carries a user creation request.
type CreateUserInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone"`
	Role            string `json:"role" validate:"required"`
}

// UpdateUserInput carries a partial profile update. Nil fields are left as-is.
type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
}

// UserService exposes user operations.
type UserService interface {
	List(ctx context.Context, params url.Values) (*UserList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*model.User, error)
	Activate(ctx context.Context, id uuid.UUID) (*model.User, error)
	Rides(ctx context.Context, id uuid.UUID, p query.Page) (*RideList, error)
	Drivers(ctx context.Context) ([]model.User, error)
	Riders(ctx context.Context) ([]model.User, error)
	Stats(ctx context.Context) (*UserStats, error)
}

type userService struct {
	users repository.UserRepository
	rides repository.RideRepository
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, rides repository.RideRepository) UserService {
	return &userService{users: users, rides: rides}
}

// List returns a filtered, ordered, paginated user collection.
func (s *userService) List(ctx context.Context, params url.Values) (*UserList, error) {
	f := query.UserFilters(params)
	ord := query.ParseOrdering(params.Get("ordering"), query.UserOrderingFields, query.Desc("created_at"))
	page := query.ParsePage(params)

	total, err := s.users.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	users, err := s.users.List(ctx, f, ord, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserList{
		Count:    total,
		Page:     page.Number,
		PageSize: page.Size,
		Results:  users,
	}, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Create registers a new user with a hashed password.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role := model.Role(in.Role)
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hashed),
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update applies a partial profile update.
func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		role := model.Role(*in.Role)
		if !role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		user.Role = role
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Deactivate soft-deletes a user by clearing the active flag.
func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.setActive(ctx, id, false)
}

// Activate restores a deactivated user.
func (s *userService) Activate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.setActive(ctx, id, true)
}

func (s *userService) setActive(ctx context.Context, id uuid.UUID, active bool) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Rides lists the rides a user participates in, as rider or driver.
func (s *userService) Rides(ctx context.Context, id uuid.UUID, p query.Page) (*RideList, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	total, err := s.rides.CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count user rides: %w", err)
	}
	rides, err := s.rides.ListByUser(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("list user rides: %w", err)
	}

	items := make([]RideListItem, len(rides))
	for i, ride := range rides {
		item := RideListItem{
			ID:              ride.ID,
			Status:          ride.Status,
			PickupTime:      ride.PickupTime,
			PickupLatitude:  ride.PickupLatitude,
			PickupLongitude: ride.PickupLongitude,
		}
		if ride.Rider != nil {
			item.RiderEmail = ride.Rider.Email
			item.RiderName = ride.Rider.FullName()
		}
		if ride.Driver != nil {
			item.DriverEmail = ride.Driver.Email
			item.DriverName = ride.Driver.FullName()
		}
		items[i] = item
	}
	return &RideList{
		Count:    total,
		Page:     p.Number,
		PageSize: p.Size,
		Results:  items,
	}, nil
}

// Drivers lists active users with the driver role.
func (s *userService) Drivers(ctx context.Context) ([]model.User, error) {
	return s.users.ListActiveByRole(ctx, model.RoleDriver)
}

// Riders lists active users with the rider role.
func (s *userService) Riders(ctx context.Context) ([]model.User, error) {
	return s.users.ListActiveByRole(ctx, model.RoleRider)
}

// Stats computes the user rollup over the unfiltered collection.
func (s *userService) Stats(ctx context.Context) (*UserStats, error) {
	total, err := s.users.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	active, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	byRole, err := s.users.CountActiveByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	return &UserStats{
		TotalUsers:    total,
		ActiveUsers:   active,
		InactiveUsers: total - active,
		Drivers:       byRole[model.RoleDriver],
		Riders:        byRole[model.RoleRider],
		Admins:        byRole[model.RoleAdmin],
	}, nil
}
