package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", false)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	router := gin.New()
	router.Use(Auth(signer))
	router.GET("/api/v1/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c), "email": UserEmailFromContext(c)})
	})
	router.OPTIONS("/api/v1/me", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, signer
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthSetsIdentityFromBearer(t *testing.T) {
	router, signer := newAuthRouter(t)
	token, err := signer.Sign(auth.Claims{Sub: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"email":"a@example.com","userId":"user-1"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestAuthAnonymousAndInvalid(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != `{"email":"","userId":""}` {
		t.Fatalf("expected anonymous pass-through, got %d %s", resp.Code, resp.Body.String())
	}

	for _, header := range []string{"Basic abc", "Bearer ", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, resp.Code)
		}
	}
}
