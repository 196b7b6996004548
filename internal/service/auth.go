package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/storekit/storefront/internal/events"
	"github.com/storekit/storefront/internal/hash"
	"github.com/storekit/storefront/internal/logging"
	"github.com/storekit/storefront/internal/models"
	"github.com/storekit/storefront/internal/repo"
	"github.com/storekit/storefront/internal/tokens"
	"github.com/storekit/storefront/internal/transport"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *events.Producer
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: firstName, lastName, email and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return &user, nil
}

// Login verifies credentials and issues a fresh token pair. The stored
// refresh hash is overwritten, which kills any other live session for the
// account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*transport.TokenPair, *models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		l.Error("login_error", "reason", "cannot look up user", "error", err)
		return nil, nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue tokens", "error", err)
		return nil, nil, err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
	})

	return pair, user, nil
}

// Refresh validates the presented refresh token against the stored hash and
// rotates it: the new pair replaces the stored value, so the presented token
// works exactly once.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*transport.TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		l.Error("refresh_error", "reason", "cannot look up user", "error", err)
		return nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != tokens.Sha256Hex(rawRefresh) {
		return nil, ErrInvalidToken
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("refresh_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.Repo.SetRefreshToken(ctx, userID, ""); err != nil {
		logging.FromContext(ctx).Error("logout_error", "error", err)
		return err
	}
	s.publish(ctx, events.TopicUserEvents, userID, map[string]any{
		"type":   "user_logged_out",
		"userID": userID,
	})
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*transport.TokenPair, error) {
	now := time.Now().UTC()

	access, err := tokens.SignAccessToken(user.ID, user.Role, s.JWTSecret, now.Add(tokens.AccessTTL))
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.SignRefreshToken(user.ID, s.RefreshSecret, now.Add(tokens.RefreshTTL))
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetRefreshToken(ctx, user.ID, tokens.Sha256Hex(refresh)); err != nil {
		return nil, err
	}

	return &transport.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, topic string, key uint, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "error", err)
	}
}
