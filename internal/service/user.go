package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/storekit/storefront/internal/hash"
	"github.com/storekit/storefront/internal/logging"
	"github.com/storekit/storefront/internal/models"
	"github.com/storekit/storefront/internal/repo"
	"github.com/storekit/storefront/internal/transport"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, userID)
}

// UpdateProfile applies only the supplied fields. Changing the email keeps
// the uniqueness invariant.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req transport.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if *req.FirstName == "" {
			return nil, fmt.Errorf("%w: firstName cannot be empty", ErrValidation)
		}
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if *req.LastName == "" {
			return nil, fmt.Errorf("%w: lastName cannot be empty", ErrValidation)
		}
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
		if email != user.Email {
			taken, err := s.Repo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: email already registered", ErrValidation)
			}
			user.Email = email
		}
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		logging.FromContext(ctx).Error("update_profile_error", "error", err)
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !hash.CheckPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	pwHash, err := hash.HashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	return s.Repo.SaveUser(ctx, user)
}
