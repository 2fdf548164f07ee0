package feedback

import "time"

// Entry is one piece of user feedback. Entries are never updated.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Type      string    `json:"type"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submission is the client-supplied part of an Entry.
type Submission struct {
	Type    string `json:"type"`
	Rating  int    `json:"rating"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}
