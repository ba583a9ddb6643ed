package review

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/pkg/pagination"
	"github.com/stylebox-hq/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/reviews", authMW, adminMW)
	g.GET("/queue", h.queue)
	g.GET("/dashboard", h.dashboard)
	g.POST("/:id/start", h.start)
	g.POST("/:id/decision", h.decide)
}

func (h *Handler) queue(c *gin.Context) {
	items, pag, err := h.svc.Queue(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) dashboard(c *gin.Context) {
	report, err := h.svc.Dashboard()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}

func (h *Handler) start(c *gin.Context) {
	sub, err := h.svc.StartReview(c.Param("id"))
	if err != nil {
		respondReviewErr(c, err)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) decide(c *gin.Context) {
	var body struct {
		Decision models.SubmissionStatus `json:"decision" binding:"required"`
		Score    *int                    `json:"score"`
		Feedback string                  `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.svc.Decide(c.Param("id"), body.Decision, body.Score, body.Feedback)
	if err != nil {
		respondReviewErr(c, err)
		return
	}
	response.OK(c, sub)
}

func respondReviewErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBadDecision), errors.Is(err, ErrScoreRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotReviewable), errors.Is(err, ErrStale):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
