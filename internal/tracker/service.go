package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// Service lists tracked applications and applies status transitions.
type Service struct {
	Repo  Repo
	Now   func() time.Time
	NewID func() string
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create records a new application with status Analyzed.
func (s *Service) Create(ctx context.Context, userID string, in NewApplication) (Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Application{}, apperr.Unauthenticated()
	}
	app := Application{
		ID:             s.newID(),
		UserID:         userID,
		AnalysisID:     in.AnalysisID,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		Status:         StatusAnalyzed,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		telemetry.Error("application.create_failed", map[string]any{"user_id": userID, "analysis_id": in.AnalysisID, "error": err})
		return Application{}, apperr.Internal(err)
	}
	return app, nil
}

// List returns a snapshot of the user's applications, newest first, with
// missing fields defaulted.
func (s *Service) List(ctx context.Context, userID string) ([]Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Unauthenticated()
	}
	apps, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		telemetry.Error("application.list_failed", map[string]any{"user_id": userID, "error": err})
		return nil, apperr.Internal(err)
	}
	for i := range apps {
		apps[i] = apps[i].repair()
	}
	return apps, nil
}

// UpdateStatus validates status before touching storage, then writes with the
// owner in the predicate.
func (s *Service) UpdateStatus(ctx context.Context, userID, applicationID, status string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.Unauthenticated()
	}
	next, ok := ParseStatus(status)
	if !ok {
		return apperr.New(apperr.ErrInvalidStatus, "status must be one of Analyzed, Applied, Interviewing, Offer, Rejected", nil)
	}
	parsed, err := uuid.Parse(applicationID)
	if err != nil {
		return apperr.NotFoundOrForbidden()
	}
	// uuid.Parse also takes urn and braced forms; storage only knows the canonical one.
	applicationID = parsed.String()

	matched, err := s.Repo.UpdateStatus(ctx, userID, applicationID, next)
	if err != nil {
		telemetry.Error("application.status_failed", map[string]any{"user_id": userID, "application_id": applicationID, "error": err})
		return apperr.Internal(err)
	}
	if !matched {
		return apperr.NotFoundOrForbidden()
	}
	metrics.IncStatusTransition(string(next))
	telemetry.Info("application.status", map[string]any{
		"user_id":        userID,
		"application_id": applicationID,
		"status":         string(next),
	})
	return nil
}

// AppliedCount counts applications currently in Applied. Never cached.
func (s *Service) AppliedCount(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperr.Unauthenticated()
	}
	n, err := s.Repo.CountByStatus(ctx, userID, StatusApplied)
	if err != nil {
		telemetry.Error("application.count_failed", map[string]any{"user_id": userID, "error": err})
		return 0, apperr.Internal(err)
	}
	return n, nil
}

// TrackedCount counts every application the user tracks.
func (s *Service) TrackedCount(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperr.Unauthenticated()
	}
	return s.Repo.CountByUser(ctx, userID)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
