package accounts

import "time"

// Account is the per-user credit balance and usage counters.
type Account struct {
	UserID              string
	ResumeCreated       int64
	ApplicationTailored int64
	AICredits           int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Stats is the dashboard view of an account.
type Stats struct {
	ResumeCreated       int64 `json:"resumeCreated"`
	ApplicationTailored int64 `json:"applicationTailored"`
	ApplicationTracked  int64 `json:"applicationTracked"`
	AICredits           int64 `json:"aiCredits"`
}
