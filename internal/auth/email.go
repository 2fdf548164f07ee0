package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

// DefaultLinkTTL is how long an emailed sign-in link stays valid.
const DefaultLinkTTL = 24 * time.Hour

// EmailService implements passwordless sign-in through single-use links.
type EmailService struct {
	Tokens     TokenStore
	Mailer     Mailer
	SignIn     *SignIn
	BaseURL    string
	UIRedirect string
	TTL        time.Duration
	Now        func() time.Time
}

// Start issues a sign-in link for email. Delivery failures are logged, not
// returned, so the response does not reveal anything about the address.
func (s *EmailService) Start(ctx context.Context, email string) error {
	email, err := users.NormalizeEmail(email)
	if err != nil {
		return err
	}
	raw, err := newRawToken()
	if err != nil {
		return apperr.Internal(err)
	}
	tok := LoginToken{Hash: hashToken(raw), Email: email, ExpiresAt: s.now().Add(s.ttl())}
	if err := s.Tokens.Save(ctx, tok); err != nil {
		telemetry.Error("auth.magic_link_store_failed", map[string]any{"error": err})
		return apperr.Internal(err)
	}
	link, err := s.callbackURL(raw)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Mailer.SendLoginLink(ctx, email, link); err != nil {
		telemetry.Error("auth.magic_link_send_failed", map[string]any{"error": err})
	}
	return nil
}

// Complete consumes a raw link token and returns a bearer token.
func (s *EmailService) Complete(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperr.New(apperr.ErrUnauthenticated, "sign-in link is invalid or expired", nil)
	}
	email, err := s.Tokens.Consume(ctx, hashToken(raw), s.now())
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			return "", apperr.New(apperr.ErrUnauthenticated, "sign-in link is invalid or expired", err)
		}
		return "", apperr.Internal(err)
	}
	return s.SignIn.Complete(ctx, "email", users.User{Email: email})
}

// RegisterRoutes attaches the email sign-in routes.
func (s *EmailService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/email/start", s.start)
	rg.GET("/auth/email/callback", s.callback)
}

type startRequest struct {
	Email string `json:"email"`
}

func (s *EmailService) start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := s.Start(c.Request.Context(), req.Email); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Accepted(c, "Check your email for a sign-in link.")
}

func (s *EmailService) callback(c *gin.Context) {
	token, err := s.Complete(c.Request.Context(), c.Query("token"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	redirectURL, err := appendToken(s.UIRedirect, token)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

func (s *EmailService) callbackURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimRight(s.BaseURL, "/") + "/api/v1/auth/email/callback")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", raw)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *EmailService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultLinkTTL
}

func (s *EmailService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
