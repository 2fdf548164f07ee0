package feedback

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
	rg.POST("/feedback", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var in Submission
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	e, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.Created(c, gin.H{"message": "Feedback submitted successfully", "id": e.ID})
}
