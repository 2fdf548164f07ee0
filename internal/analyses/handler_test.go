package analyses

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *Handler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	})
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func multipartAnalysis(t *testing.T, title string, resume []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("jobTitle", title))
	require.NoError(t, mw.WriteField("jobDescription", "Go and Postgres"))
	if resume != nil {
		fw, err := mw.CreateFormFile("resume", "cv.docx")
		require.NoError(t, err)
		_, err = fw.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestRunAnalysisHandler(t *testing.T) {
	f := newGateFixture(t, 240, nil)
	router := newTestRouter(NewHandler(f.gate, f.results, ""), "user-1")

	body, ct := multipartAnalysis(t, "Backend Engineer", testDOCX(t))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var out Outcome
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, testAnalysisID, out.AnalysisID)
	assert.True(t, out.Tracked)
	assert.NotEmpty(t, out.ApplicationID)
}

func TestRunAnalysisHandlerErrors(t *testing.T) {
	cases := []struct {
		name    string
		user    string
		balance int64
		title   string
		resume  bool
		status  int
		code    string
	}{
		{"anonymous", "", 240, "Engineer", true, http.StatusUnauthorized, "unauthorized"},
		{"missing file", "user-1", 240, "Engineer", false, http.StatusBadRequest, "validation_error"},
		{"missing title", "user-1", 240, "", true, http.StatusBadRequest, "validation_error"},
		{"low balance", "user-1", 10, "Engineer", true, http.StatusPaymentRequired, "insufficient_credits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newGateFixture(t, tc.balance, nil)
			router := newTestRouter(NewHandler(f.gate, f.results, ""), tc.user)
			var resume []byte
			if tc.resume {
				resume = testDOCX(t)
			}
			body, ct := multipartAnalysis(t, tc.title, resume)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
			req.Header.Set("Content-Type", ct)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, tc.status, resp.Code)
			assert.Contains(t, resp.Body.String(), `"code":"`+tc.code+`"`)
			assert.Equal(t, 0, f.calls)
		})
	}
}

func TestGetAndReviewHandlers(t *testing.T) {
	svc := newTestService(t)
	router := newTestRouter(NewHandler(&Gate{}, svc, ""), "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+testAnalysisID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"score":82`)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyses/"+testAnalysisID+"/review", strings.NewReader(`{"acceptedIds":["b1"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var res ReviewResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
	assert.Len(t, res.Remaining, 2)

	other := newTestRouter(NewHandler(&Gate{}, svc, ""), "user-2")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+testAnalysisID, nil)
	resp = httptest.NewRecorder()
	other.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeliverResultHandler(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	router := newTestRouter(NewHandler(&Gate{}, svc, "s3cret"), "")
	payload := `{"userId":"user-1","analysis":` + samplePayload + `}`

	req := httptest.NewRequest(http.MethodPut, "/api/v1/analyses/"+testAnalysisID+"/result", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Callback-Token", "wrong")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/analyses/"+testAnalysisID+"/result", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Callback-Token", "s3cret")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNoContent, resp.Code)

	a, err := svc.Get(req.Context(), "user-1", testAnalysisID)
	require.NoError(t, err)
	assert.Equal(t, 82.0, a.Score)
}

func TestResultRouteDisabledWithoutToken(t *testing.T) {
	router := newTestRouter(NewHandler(&Gate{}, &Service{Repo: NewMemoryRepo()}, ""), "")
	req := httptest.NewRequest(http.MethodPut, "/api/v1/analyses/"+testAnalysisID+"/result", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
