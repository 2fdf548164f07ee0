// Package review tracks which suggested bullet rewrites a user keeps during
// one viewing of an analysis. Nothing here is persisted.
package review

import "strings"

// Suggestion is one proposed rewrite of a résumé bullet.
type Suggestion struct {
	ID         string `json:"id"`
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
}

// Session holds the untriaged suggestions and the accepted texts in
// acceptance order. It is not safe for concurrent use.
type Session struct {
	remaining []Suggestion
	accepted  []string
}

// New starts a session over suggestions. The slice is copied.
func New(suggestions []Suggestion) *Session {
	remaining := make([]Suggestion, len(suggestions))
	copy(remaining, suggestions)
	return &Session{remaining: remaining}
}

// Accept moves the suggestion with id from remaining to accepted and reports
// whether it was found. Unknown and already-accepted ids change nothing.
func (s *Session) Accept(id string) bool {
	for i, sug := range s.remaining {
		if sug.ID != id {
			continue
		}
		s.accepted = append(s.accepted, sug.Suggestion)
		s.remaining = append(s.remaining[:i:i], s.remaining[i+1:]...)
		return true
	}
	return false
}

// Remaining returns the suggestions not yet accepted, in original order.
func (s *Session) Remaining() []Suggestion {
	out := make([]Suggestion, len(s.remaining))
	copy(out, s.remaining)
	return out
}

// Accepted returns the accepted texts in the order they were accepted.
func (s *Session) Accepted() []string {
	out := make([]string, len(s.accepted))
	copy(out, s.accepted)
	return out
}

// Text renders every accepted text as a bulleted line.
func (s *Session) Text() string {
	lines := make([]string, len(s.accepted))
	for i, text := range s.accepted {
		lines[i] = "• " + text
	}
	return strings.Join(lines, "\n")
}
