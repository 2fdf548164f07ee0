package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server/middleware"
)

type echoRoutes struct{}

func (echoRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"userId": middleware.UserIDFromContext(c)})
	})
}

func newTestRouter(t *testing.T) (*gin.Engine, *auth.Signer) {
	t.Helper()
	signer, err := auth.NewSigner("test-secret", false)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	cfg := config.Config{Env: "dev", RateLimitDefaultRPS: 5, RateLimitAnalysisRPM: 6, CORSAllowOrigins: []string{"http://ui.test"}}
	r := NewRouter(RouterDeps{
		Config:   cfg,
		Verifier: signer,
		IsAnalysisRequest: func(c *gin.Context) bool {
			return c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyses"
		},
		Handlers: []Routes{echoRoutes{}},
	})
	return r, signer
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK || resp.Body.String() != `{"database":"memory","ok":true}` {
		t.Fatalf("unexpected health response %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "tailor_http_requests_total") {
		t.Fatalf("expected request metrics in exposition, got %d", resp.Code)
	}
}

func TestAnalysisRouteIsRateLimitedPerUser(t *testing.T) {
	r, signer := newTestRouter(t)
	tokenA, _ := signer.Sign(auth.Claims{Sub: "user-a"})
	tokenB, _ := signer.Sign(auth.Claims{Sub: "user-b"})

	send := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	// Six per minute allows a burst of two.
	for i := 0; i < 2; i++ {
		if resp := send(tokenA); resp.Code != http.StatusCreated {
			t.Fatalf("request %d expected 201, got %d", i+1, resp.Code)
		}
	}
	if resp := send(tokenA); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp := send(tokenB); resp.Code != http.StatusCreated {
		t.Fatalf("expected other user to be unaffected, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	for in, want := range map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"} {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
