// Package auth implements the sign-in flows that issue bearer tokens.
package auth

import (
	"context"
	"errors"
	"net/url"

	sharedauth "resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

// Accounts creates the credit account for a new user.
type Accounts interface {
	Create(ctx context.Context, userID string) (bool, error)
}

// SignIn turns a verified identity into a bearer token, creating the user
// and the credit account on first sign-in.
type SignIn struct {
	Users    *users.Service
	Accounts Accounts
	Signer   *sharedauth.Signer
}

// Complete returns a signed token for profile.
func (s *SignIn) Complete(ctx context.Context, provider string, profile users.User) (string, error) {
	user, created, err := s.Users.SignIn(ctx, profile)
	if err != nil {
		return "", err
	}
	// Insert-if-absent, so retrying a half-finished first sign-in heals it.
	if _, err := s.Accounts.Create(ctx, user.ID); err != nil {
		return "", err
	}
	token, err := s.Signer.Sign(sharedauth.Claims{
		Sub:     user.ID,
		Email:   user.Email,
		Name:    user.FullName,
		Picture: user.PictureURL,
	})
	if err != nil {
		return "", err
	}
	telemetry.Info("auth.signed_in", map[string]any{"user_id": user.ID, "provider": provider, "new_user": created})
	return token, nil
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
