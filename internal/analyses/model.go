package analyses

import (
	"time"

	"resume-tailor/internal/review"
)

// Analysis is the payload produced by the external analysis service.
type Analysis struct {
	Score                  float64             `json:"score"`
	Summary                string              `json:"summary"`
	SkillAnalysis          SkillAnalysis       `json:"skillAnalysis"`
	BulletPointSuggestions []review.Suggestion `json:"bulletPointSuggestions"`
}

type SkillAnalysis struct {
	SkillsToEmphasize []string `json:"skillsToEmphasize"`
	PotentialGaps     []string `json:"potentialGaps"`
}

// Record is a stored analysis.
type Record struct {
	ID        string
	UserID    string
	Analysis  Analysis
	CreatedAt time.Time
}

// repair replaces missing lists with empty ones.
func (a Analysis) repair() Analysis {
	if a.SkillAnalysis.SkillsToEmphasize == nil {
		a.SkillAnalysis.SkillsToEmphasize = []string{}
	}
	if a.SkillAnalysis.PotentialGaps == nil {
		a.SkillAnalysis.PotentialGaps = []string{}
	}
	if a.BulletPointSuggestions == nil {
		a.BulletPointSuggestions = []review.Suggestion{}
	}
	return a
}
