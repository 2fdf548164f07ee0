package auth

import (
	"context"

	"resume-tailor/internal/shared/telemetry"
)

// Mailer delivers sign-in links.
type Mailer interface {
	SendLoginLink(ctx context.Context, to, link string) error
}

// LogMailer writes sign-in links to the log instead of sending mail. The link
// is only logged when ShowLink is set.
type LogMailer struct {
	From     string
	ShowLink bool
}

func (m LogMailer) SendLoginLink(ctx context.Context, to, link string) error {
	fields := map[string]any{"from": m.From, "to": to}
	if m.ShowLink {
		fields["link"] = link
	}
	telemetry.Info("auth.magic_link_issued", fields)
	return nil
}
