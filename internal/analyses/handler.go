package analyses

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/analyzer"
	"resume-tailor/internal/resumefile"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/util"
)

// Handler wires HTTP handlers to the analysis gate and read model.
type Handler struct {
	Gate *Gate
	Svc  *Service
	// CallbackToken enables result delivery by the analysis workflow when set.
	CallbackToken string
}

// NewHandler constructs a Handler.
func NewHandler(gate *Gate, svc *Service, callbackToken string) *Handler {
	return &Handler{Gate: gate, Svc: svc, CallbackToken: callbackToken}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.runAnalysis)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.POST("/analyses/:id/review", h.reviewAnalysis)
	if h.CallbackToken != "" {
		rg.PUT("/analyses/:id/result", h.deliverResult)
	}
}

// IsAnalysisRequest reports whether c starts a paid analysis.
func IsAnalysisRequest(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/analyses")
}

func (h *Handler) runAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, resumefile.MaxSize+(1<<20))
	fh, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "resume file exceeds 10 MiB", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", []map[string]string{
			{"field": "resume", "issue": "required"},
		})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file could not be read", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, resumefile.MaxSize+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file could not be read", nil)
		return
	}

	out, err := h.Gate.RunAnalysis(c.Request.Context(), userID, Input{
		JobTitle:       c.PostForm("jobTitle"),
		JobDescription: c.PostForm("jobDescription"),
		Resume: analyzer.File{
			Name:        util.SanitizeFileName(fh.Filename, "resume"),
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		},
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("analysisId", out.AnalysisID)
	if out.ApplicationID != "" {
		c.Set("applicationId", out.ApplicationID)
	}
	respond.Created(c, out)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	id := c.Param("id")
	c.Set("analysisId", id)
	a, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, a)
}

type reviewRequest struct {
	AcceptedIDs []string `json:"acceptedIds"`
}

func (h *Handler) reviewAnalysis(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	id := c.Param("id")
	c.Set("analysisId", id)
	res, err := h.Svc.Review(c.Request.Context(), middleware.UserIDFromContext(c), id, req.AcceptedIDs)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, res)
}

type resultRequest struct {
	UserID   string          `json:"userId"`
	Analysis json.RawMessage `json:"analysis"`
}

func (h *Handler) deliverResult(c *gin.Context) {
	token := c.GetHeader("X-Callback-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.CallbackToken)) != 1 {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid callback token", nil)
		return
	}
	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Analysis) == 0 || strings.TrimSpace(req.UserID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId and analysis are required", nil)
		return
	}
	id := c.Param("id")
	c.Set("analysisId", id)
	if err := h.Svc.Save(c.Request.Context(), req.UserID, id, req.Analysis); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.NoContent(c)
}
