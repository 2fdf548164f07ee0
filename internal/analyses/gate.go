package analyses

import (
	"context"
	"errors"
	"strings"

	"resume-tailor/internal/accounts"
	"resume-tailor/internal/analyzer"
	"resume-tailor/internal/resumefile"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/tracker"
)

// DefaultCost is the credit price of one analysis.
const DefaultCost int64 = 40

// Credits is the account surface the gate needs.
type Credits interface {
	Balance(ctx context.Context, userID string) (int64, error)
	DeductCreditsForAnalysis(ctx context.Context, userID string, cost int64) (accounts.Account, error)
}

// Applications records the tracked application for a paid analysis.
type Applications interface {
	Create(ctx context.Context, userID string, in tracker.NewApplication) (tracker.Application, error)
}

// Input is one analysis submission.
type Input struct {
	JobTitle       string
	JobDescription string
	Resume         analyzer.File
}

// Outcome is returned for every analysis the caller paid for. Tracked is
// false when the application record could not be written.
type Outcome struct {
	AnalysisID    string `json:"analysisId"`
	ApplicationID string `json:"applicationId,omitempty"`
	Tracked       bool   `json:"tracked"`
}

// Gate runs an analysis as: advisory balance check, external call, credit
// deduction, application insert. The steps are sequential and not wrapped in
// a transaction. A deduction failure after a successful call leaves the
// external work unpaid; an insert failure after deduction leaves the credits
// spent with no record.
type Gate struct {
	Credits      Credits
	Applications Applications
	Analyzer     analyzer.Client
	Results      *Service
	Cost         int64
}

// RunAnalysis executes the gate for userID.
func (g *Gate) RunAnalysis(ctx context.Context, userID string, in Input) (Outcome, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Outcome{}, apperr.Unauthenticated()
	}
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	info, err := validateInput(in)
	if err != nil {
		metrics.IncAnalysisOutcome(metrics.OutcomeRejected)
		return Outcome{}, err
	}
	in.Resume.ContentType = info.MimeType
	cost := g.cost()
	fields := map[string]any{"user_id": userID, "cost": cost}

	// Step 1: advisory only. The deduction below is the real check.
	balance, err := g.Credits.Balance(ctx, userID)
	switch {
	case err != nil:
		telemetry.Warn("analysis.precheck_skipped", withField(fields, "error", err))
	case balance < cost:
		metrics.IncAnalysisOutcome(metrics.OutcomeInsufficientCredits)
		telemetry.Info("analysis.gate", withField(fields, "step", "precheck", "outcome", "insufficient_credits", "ai_credits", balance))
		return Outcome{}, apperr.New(apperr.ErrInsufficientCredits, "You do not have enough credits for an analysis.", nil)
	}

	// Step 2.
	res, err := g.Analyzer.Analyze(ctx, analyzer.Request{
		UserID:         userID,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		Resume:         in.Resume,
	})
	if err != nil {
		metrics.IncAnalysisOutcome(metrics.OutcomeServiceError)
		telemetry.Error("analysis.gate", withField(fields, "step", "analyze", "outcome", "service_error", "error", err))
		return Outcome{}, apperr.New(apperr.ErrAnalysisService, "The analysis could not be completed. Please try again.", err)
	}
	if strings.TrimSpace(res.AnalysisID) == "" {
		metrics.IncAnalysisOutcome(metrics.OutcomeServiceError)
		return Outcome{}, apperr.New(apperr.ErrAnalysisService, "The analysis could not be completed. Please try again.", analyzer.ErrMalformedResponse)
	}
	fields["analysis_id"] = res.AnalysisID

	// Step 3.
	if _, err := g.Credits.DeductCreditsForAnalysis(ctx, userID, cost); err != nil {
		metrics.IncAnalysisOutcome(metrics.OutcomeDeductionFailed)
		cause := "error"
		var dErr *accounts.DeductionError
		if errors.As(err, &dErr) {
			cause = dErr.Cause.String()
		}
		telemetry.Error("analysis.gate", withField(fields, "step", "deduct", "outcome", "deduction_failed", "cause", cause, "error", err))
		return Outcome{}, apperr.New(apperr.ErrCreditDeductionFailed, "Please try again. Your credits were not charged.", err)
	}

	if len(res.Analysis) > 0 && g.Results != nil {
		if err := g.Results.Save(ctx, userID, res.AnalysisID, res.Analysis); err != nil {
			telemetry.Warn("analysis.payload_not_stored", withField(fields, "error", err))
		}
	}

	// Step 4. Credits stay deducted if this fails.
	app, err := g.Applications.Create(ctx, userID, tracker.NewApplication{
		AnalysisID:     res.AnalysisID,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
	})
	if err != nil {
		metrics.IncAnalysisOutcome(metrics.OutcomeUntracked)
		telemetry.Error("analysis.gate", withField(fields, "step", "record", "outcome", "untracked", "error", err))
		return Outcome{AnalysisID: res.AnalysisID}, nil
	}

	metrics.IncAnalysisOutcome(metrics.OutcomeSuccess)
	telemetry.Info("analysis.gate", withField(fields, "step", "record", "outcome", "success", "application_id", app.ID))
	return Outcome{AnalysisID: res.AnalysisID, ApplicationID: app.ID, Tracked: true}, nil
}

func (g *Gate) cost() int64 {
	if g.Cost > 0 {
		return g.Cost
	}
	return DefaultCost
}

func validateInput(in Input) (resumefile.Info, error) {
	if in.JobTitle == "" {
		return resumefile.Info{}, apperr.Validation("job title is required")
	}
	if in.JobDescription == "" {
		return resumefile.Info{}, apperr.Validation("job description is required")
	}
	info, err := resumefile.Inspect(in.Resume.Data, in.Resume.ContentType, in.Resume.Name)
	if err != nil {
		return resumefile.Info{}, apperr.New(apperr.ErrValidation, "resume must be a readable PDF or DOCX file up to 10 MiB", err)
	}
	return info, nil
}

func withField(base map[string]any, kv ...any) map[string]any {
	out := make(map[string]any, len(base)+len(kv)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			out[key] = kv[i+1]
		}
	}
	return out
}
