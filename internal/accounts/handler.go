package accounts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.getStats)
	rg.POST("/stats/resume-created", h.resumeCreated)
}

func (h *Handler) getStats(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	stats, err := h.Svc.GetStats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) resumeCreated(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	if err := h.Svc.IncrementResumeCreated(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Accepted(c, "Resume export recorded.")
}
