package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// DefaultStarterCredits is the balance of a freshly created account.
const DefaultStarterCredits int64 = 240

// TrackedCounter reports how many applications a user is tracking.
type TrackedCounter interface {
	TrackedCount(ctx context.Context, userID string) (int64, error)
}

// Service is the single source of truth for balances and usage counters.
type Service struct {
	store          store
	starterCredits int64

	// Tracked supplies the live applicationTracked figure for GetStats.
	// When nil the figure is reported as zero.
	Tracked TrackedCounter
}

// NewService constructs a Service with in-memory store.
func NewService(starterCredits int64) *Service {
	return &Service{store: newMemoryStore(), starterCredits: starterCredits}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(db *sql.DB, starterCredits int64) *Service {
	return &Service{store: NewPGStore(db), starterCredits: starterCredits}
}

// Create provisions the account for userID exactly once. Later calls are no-ops
// and report created=false.
func (s *Service) Create(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, apperr.Unauthenticated()
	}
	created, err := s.store.Create(ctx, userID, s.starterCredits)
	if err != nil {
		telemetry.Error("accounts.create_failed", map[string]any{"user_id": userID, "error": err})
		return false, apperr.Internal(err)
	}
	if created {
		telemetry.Info("accounts.created", map[string]any{"user_id": userID, "ai_credits": s.starterCredits})
	}
	return created, nil
}

// GetStats returns the dashboard counters. A missing account or a storage
// failure yields zero values rather than an error; only the log tells them apart.
func (s *Service) GetStats(ctx context.Context, userID string) (Stats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Stats{}, apperr.Unauthenticated()
	}

	tracked, err := s.trackedCount(ctx, userID)
	if err != nil {
		telemetry.Error("accounts.stats_soft_fail", map[string]any{"user_id": userID, "stage": "tracked_count", "error": err})
		return Stats{}, nil
	}

	acc, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Stats{ApplicationTracked: tracked}, nil
		}
		telemetry.Error("accounts.stats_soft_fail", map[string]any{"user_id": userID, "stage": "account", "error": err})
		return Stats{}, nil
	}

	return Stats{
		ResumeCreated:       acc.ResumeCreated,
		ApplicationTailored: acc.ApplicationTailored,
		ApplicationTracked:  tracked,
		AICredits:           acc.AICredits,
	}, nil
}

// Balance returns the current credit balance; a missing account holds zero.
// Unlike GetStats, storage failures are reported.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperr.Unauthenticated()
	}
	acc, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, apperr.Internal(err)
	}
	return acc.AICredits, nil
}

// IncrementResumeCreated bumps the resume-created counter. It never creates a
// record and is not idempotent.
func (s *Service) IncrementResumeCreated(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.Unauthenticated()
	}
	if err := s.store.IncrementResumeCreated(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.New(apperr.ErrNotFound, "account not found", err)
		}
		telemetry.Error("accounts.increment_failed", map[string]any{"user_id": userID, "error": err})
		return apperr.Internal(err)
	}
	return nil
}

// DeductCreditsForAnalysis charges cost credits and counts one tailored
// application in a single conditional write. A zero match returns a
// *DeductionError that matches apperr.ErrInsufficientCredits.
func (s *Service) DeductCreditsForAnalysis(ctx context.Context, userID string, cost int64) (Account, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Account{}, apperr.Unauthenticated()
	}
	if cost <= 0 {
		return Account{}, apperr.Validation("credit cost must be positive")
	}
	acc, err := s.store.Deduct(ctx, userID, cost)
	if err != nil {
		var dErr *DeductionError
		if errors.As(err, &dErr) {
			telemetry.Warn("credits.deduction_refused", map[string]any{"user_id": userID, "cost": cost, "cause": dErr.Cause.String()})
			return Account{}, dErr
		}
		telemetry.Error("credits.deduction_failed", map[string]any{"user_id": userID, "cost": cost, "error": err})
		return Account{}, apperr.Internal(err)
	}
	metrics.AddCreditsDeducted(cost)
	telemetry.Info("credits.deducted", map[string]any{"user_id": userID, "cost": cost, "ai_credits": acc.AICredits})
	return acc, nil
}

func (s *Service) trackedCount(ctx context.Context, userID string) (int64, error) {
	if s.Tracked == nil {
		return 0, nil
	}
	return s.Tracked.TrackedCount(ctx, userID)
}
