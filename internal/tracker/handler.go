package tracker

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
	rg.GET("/applications", h.list)
	rg.GET("/applications/applied-count", h.appliedCount)
	rg.PATCH("/applications/:id/status", h.updateStatus)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) list(c *gin.Context) {
	apps, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"applications": apps})
}

func (h *Handler) appliedCount(c *gin.Context) {
	n, err := h.Svc.AppliedCount(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"appliedCount": n})
}

func (h *Handler) updateStatus(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	id := c.Param("id")
	c.Set("applicationId", id)
	if err := h.Svc.UpdateStatus(c.Request.Context(), userID, id, req.Status); err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("statusTransition", "->"+req.Status)
	respond.OK(c, gin.H{"id": id, "status": req.Status})
}
