package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

const (
	maxNameLen  = 120
	maxTitleLen = 120
	maxBioLen   = 2000
)

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get returns the caller's profile, or an empty one when none is stored.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperr.Unauthenticated()
	}
	p, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{}, nil
		}
		telemetry.Error("profiles.read_failed", map[string]any{"user_id": userID, "error": err})
		return Profile{}, apperr.Internal(err)
	}
	return p, nil
}

// Save replaces the caller's profile.
func (s *Service) Save(ctx context.Context, userID string, p Profile) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, apperr.Unauthenticated()
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Title = strings.TrimSpace(p.Title)
	p.Bio = strings.TrimSpace(p.Bio)
	if err := checkLen("name", p.Name, maxNameLen); err != nil {
		return Profile{}, err
	}
	if err := checkLen("title", p.Title, maxTitleLen); err != nil {
		return Profile{}, err
	}
	if err := checkLen("bio", p.Bio, maxBioLen); err != nil {
		return Profile{}, err
	}
	p.UpdatedAt = s.now()
	if err := s.Repo.Upsert(ctx, userID, p); err != nil {
		telemetry.Error("profiles.save_failed", map[string]any{"user_id": userID, "error": err})
		return Profile{}, apperr.Internal(err)
	}
	return p, nil
}

func checkLen(field, v string, max int) error {
	if len([]rune(v)) > max {
		return apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
