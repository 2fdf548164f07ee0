package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	for _, tc := range []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"reuses well-formed id", "req-123_abc.9", true},
		{"mints when absent", "", false},
		{"mints for unsafe characters", "abc\" injected", false},
		{"mints for oversized id", strings.Repeat("a", 65), false},
	} {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		if tc.inbound != "" {
			req.Header.Set("X-Request-Id", tc.inbound)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		got := resp.Header().Get("X-Request-Id")
		if got != resp.Body.String() {
			t.Fatalf("%s: header %q and context %q differ", tc.name, got, resp.Body.String())
		}
		if tc.keep && got != tc.inbound {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.inbound, got)
		}
		if !tc.keep {
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("%s: expected a minted uuid, got %q", tc.name, got)
			}
		}
	}
}
