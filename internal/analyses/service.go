package analyses

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-tailor/internal/review"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

// Service reads stored analyses and replays suggestion reviews over them.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// ReviewResult is the state after replaying a list of acceptances.
type ReviewResult struct {
	Accepted  []string            `json:"accepted"`
	Remaining []review.Suggestion `json:"remaining"`
	Text      string              `json:"text"`
}

// Get returns the caller's analysis. Malformed, missing and foreign ids all
// report not found.
func (s *Service) Get(ctx context.Context, userID, id string) (Analysis, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Analysis{}, apperr.Unauthenticated()
	}
	if !ValidID(id) {
		return Analysis{}, apperr.New(apperr.ErrNotFound, "analysis not found", nil)
	}
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Analysis{}, apperr.New(apperr.ErrNotFound, "analysis not found", err)
		}
		telemetry.Error("analysis.read_failed", map[string]any{"user_id": userID, "analysis_id": id, "error": err})
		return Analysis{}, apperr.Internal(err)
	}
	if rec.UserID != userID {
		return Analysis{}, apperr.New(apperr.ErrNotFound, "analysis not found", nil)
	}
	return rec.Analysis.repair(), nil
}

// Save validates raw and stores it as the analysis id owned by userID.
func (s *Service) Save(ctx context.Context, userID, id string, raw []byte) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.Unauthenticated()
	}
	if !ValidID(id) {
		return apperr.Validation("analysis id must be a UUID or 24-character hex id")
	}
	a, err := Decode(raw)
	if err != nil {
		return apperr.New(apperr.ErrValidation, "analysis payload is invalid", err)
	}
	rec := Record{ID: id, UserID: userID, Analysis: a, CreatedAt: s.now()}
	if err := s.Repo.Save(ctx, rec); err != nil {
		telemetry.Error("analysis.save_failed", map[string]any{"user_id": userID, "analysis_id": id, "error": err})
		return apperr.Internal(err)
	}
	return nil
}

// Review replays acceptedIDs in order over the analysis suggestions.
func (s *Service) Review(ctx context.Context, userID, id string, acceptedIDs []string) (ReviewResult, error) {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return ReviewResult{}, err
	}
	session := review.New(a.BulletPointSuggestions)
	for _, sid := range acceptedIDs {
		session.Accept(sid)
	}
	return ReviewResult{
		Accepted:  session.Accepted(),
		Remaining: session.Remaining(),
		Text:      session.Text(),
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
