package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleStateTTL    = 5 * time.Minute
)

// GoogleService signs users in with the OAuth authorization-code flow and
// PKCE. Accounts are keyed by the verified Google email.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	userInfoURL string
	pending     *pendingLogins
	signIn      *SignIn
}

func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, signIn *SignIn) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		uiRedirect:  uiRedirect,
		userInfoURL: googleUserInfoURL,
		pending:     newPendingLogins(googleStateTTL),
		signIn:      signIn,
	}
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	cfg := s.oauthConfig
	return cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google sign-in is not configured", nil)
		return
	}
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	s.pending.put(state, verifier)

	authURL := s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
	c.Redirect(http.StatusFound, authURL)
}

func (s *GoogleService) callback(c *gin.Context) {
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	verifier, ok := s.pending.take(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		telemetry.Warn("auth.google_exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		telemetry.Warn("auth.google_userinfo_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}
	if info.Sub == "" || info.Email == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "incomplete user profile", nil)
		return
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		respond.Error(c, http.StatusForbidden, "email_unverified", "Google account email is not verified", nil)
		return
	}

	jwt, err := s.signIn.Complete(ctx, "google", users.User{
		ID:         "google:" + info.Sub,
		Email:      info.Email,
		FullName:   info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		PictureURL: info.Picture,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail *bool  `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	resp, err := s.oauthConfig.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("decode userinfo: %w", err)
	}
	// v2 userinfo reports the subject as "id".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

// pendingLogins holds the PKCE verifier for each outstanding state. Entries
// are single-use and expired ones are dropped on every put.
type pendingLogins struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]pendingLogin
}

type pendingLogin struct {
	verifier  string
	expiresAt time.Time
}

func newPendingLogins(ttl time.Duration) *pendingLogins {
	return &pendingLogins{ttl: ttl, now: time.Now, items: make(map[string]pendingLogin)}
}

func (p *pendingLogins) put(state, verifier string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for k, v := range p.items {
		if now.After(v.expiresAt) {
			delete(p.items, k)
		}
	}
	p.items[state] = pendingLogin{verifier: verifier, expiresAt: now.Add(p.ttl)}
}

func (p *pendingLogins) take(state string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[state]
	if !ok {
		return "", false
	}
	delete(p.items, state)
	if p.now().After(item.expiresAt) {
		return "", false
	}
	return item.verifier, true
}

func (p *pendingLogins) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
