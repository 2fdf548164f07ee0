package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

type Service struct {
	Repo  Repo
	NewID func() string
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// NormalizeEmail lowercases and validates a bare address.
func NormalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", apperr.Validation("a valid email address is required")
	}
	return strings.ToLower(addr.Address), nil
}

// SignIn finds the user by email or creates one, reporting whether it was created.
func (s *Service) SignIn(ctx context.Context, profile User) (User, bool, error) {
	email, err := NormalizeEmail(profile.Email)
	if err != nil {
		return User{}, false, err
	}
	profile.Email = email
	if strings.TrimSpace(profile.ID) == "" {
		profile.ID = s.newID()
	}
	user, created, err := s.Repo.UpsertByEmail(ctx, profile)
	if err != nil {
		telemetry.Error("users.sign_in_failed", map[string]any{"error": err})
		return User{}, false, apperr.Internal(err)
	}
	if created {
		telemetry.Info("users.created", map[string]any{"user_id": user.ID})
	}
	return user, created, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperr.Unauthenticated()
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.New(apperr.ErrNotFound, "user not found", err)
		}
		return User{}, apperr.Internal(err)
	}
	return user, nil
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
