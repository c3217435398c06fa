package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/validation"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
	now      Clock
}

type CreateUserInput struct {
	UserID   string
	Name     string
	Email    string
	Phone    string
	Location string
}

// UpdateUserInput carries the profile fields to change; nil leaves a field
// untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Location *string
	IsActive *bool
}

func NewUserService(userRepo repository.UserRepository, now Clock) *UserService {
	return &UserService{userRepo: userRepo, now: clockOrDefault(now)}
}

func (in CreateUserInput) validate() error {
	return firstError(
		validation.ValidateID("userId", in.UserID),
		validation.ValidateLength("name", in.Name, validation.MaxNameLength),
		validation.ValidateEmail(in.Email),
		validation.ValidateLength("phone", in.Phone, validation.MaxNameLength),
		validation.ValidateLength("location", in.Location, validation.MaxNameLength),
	)
}

func isNotFound(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}

// CreateOrGetUser returns the stored user for in.UserID, creating it first
// when absent. created reports whether this call inserted the row. The body
// is only validated when a row is about to be inserted, so a known userId
// always resolves to its stored profile.
func (s *UserService) CreateOrGetUser(ctx context.Context, in CreateUserInput) (user *models.User, created bool, err error) {
	if in.UserID != "" {
		existing, err := s.userRepo.GetByUserID(ctx, in.UserID)
		if err == nil {
			return existing, false, nil
		}
		if !isNotFound(err) {
			return nil, false, fmt.Errorf("lookup user: %w", err)
		}
	}

	if err := in.validate(); err != nil {
		return nil, false, err
	}
	in.UserID = newID(in.UserID)

	user = models.NewUser(models.UserFields{
		UserID:   in.UserID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Location: in.Location,
	}, s.now())

	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("create user: %w", err)
		}
		// Either a concurrent request created the same userId, or the
		// email belongs to someone else.
		if winner, getErr := s.userRepo.GetByUserID(ctx, in.UserID); getErr == nil {
			return winner, false, nil
		}
		return nil, false, models.NewConflictError("Email already registered", err)
	}
	return user, true, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByUserID(ctx, userID)
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*models.User, error) {
	var errs []error
	if in.Name != nil {
		errs = append(errs, validation.ValidateLength("name", *in.Name, validation.MaxNameLength))
	}
	if in.Email != nil {
		errs = append(errs, validation.ValidateEmail(*in.Email))
	}
	if in.Phone != nil {
		errs = append(errs, validation.ValidateLength("phone", *in.Phone, validation.MaxNameLength))
	}
	if in.Location != nil {
		errs = append(errs, validation.ValidateLength("location", *in.Location, validation.MaxNameLength))
	}
	if err := firstError(errs...); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = models.OptionalString(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = models.Stamp(s.now())

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Email already registered", err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
