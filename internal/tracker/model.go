package tracker

import "time"

// Status is the pipeline stage of a tracked application. Any status may move
// to any other.
type Status string

const (
	StatusAnalyzed     Status = "Analyzed"
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []Status{StatusAnalyzed, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// ParseStatus reports whether raw names a valid status. Matching is exact.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Application is one job application a user is tracking.
type Application struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	AnalysisID     string    `json:"analysisId"`
	JobTitle       string    `json:"jobTitle"`
	JobDescription string    `json:"jobDescription"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewApplication carries the fields supplied when an analysis succeeds.
type NewApplication struct {
	AnalysisID     string
	JobTitle       string
	JobDescription string
}

// repair fills defaults for records written without every field.
func (a Application) repair() Application {
	if a.Status == "" {
		a.Status = StatusAnalyzed
	}
	return a
}
