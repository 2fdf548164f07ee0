package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

const maxMessageLen = 5000

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Submit validates and appends a feedback entry. A signed-in caller is always
// the author; the body userId is kept only for anonymous submissions.
func (s *Service) Submit(ctx context.Context, callerID string, in Submission) (Entry, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Message = strings.TrimSpace(in.Message)
	switch {
	case in.Type == "" || in.Rating == 0 || in.Message == "":
		return Entry{}, apperr.Validation("Missing required fields")
	case in.Rating < 1 || in.Rating > 5:
		return Entry{}, apperr.Validation("rating must be between 1 and 5")
	case len([]rune(in.Message)) > maxMessageLen:
		return Entry{}, apperr.Validation("message is too long")
	}
	userID := strings.TrimSpace(callerID)
	if userID == "" {
		userID = strings.TrimSpace(in.UserID)
	}

	e := Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      in.Type,
		Rating:    in.Rating,
		Message:   in.Message,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Insert(ctx, e); err != nil {
		telemetry.Error("feedback.insert_failed", map[string]any{"user_id": userID, "error": err})
		return Entry{}, apperr.Internal(err)
	}
	telemetry.Info("feedback.received", map[string]any{"feedback_id": e.ID, "type": e.Type, "rating": e.Rating})
	return e, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
