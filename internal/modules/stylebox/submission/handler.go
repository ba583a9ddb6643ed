package submission

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/stylebox-hq/core/internal/middleware"
	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
	"github.com/stylebox-hq/core/internal/pkg/pagination"
	"github.com/stylebox-hq/core/internal/pkg/response"
)

type Handler struct {
	svc    *Service
	tplSvc *template.Service
}

func NewHandler(svc *Service, tplSvc *template.Service) *Handler {
	return &Handler{svc: svc, tplSvc: tplSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/submissions", authMW)
	g.GET("/mine", h.mine)
	g.GET("/workspace/:boxId", h.workspace)
	g.POST("/workspace/:boxId/restart", h.restart)
	g.GET("/:id", h.get)
	g.PUT("/:id/deliverables/:deliverableId", h.toggle)
	g.POST("/:id/submit", h.submit)
}

func (h *Handler) mine(c *gin.Context) {
	items, pag, err := h.svc.ListForDesigner(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// workspace resolves the latest active template for the stylebox and
// returns (creating if needed) the designer's attempt against it.
func (h *Handler) workspace(c *gin.Context) {
	box := h.resolveBox(c)
	if box == nil {
		return
	}
	sub, err := h.svc.Workspace(box, middleware.CurrentUserID(c))
	if err != nil {
		respondSubmissionErr(c, err)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) restart(c *gin.Context) {
	box := h.resolveBox(c)
	if box == nil {
		return
	}
	sub, err := h.svc.StartNewAttempt(box, middleware.CurrentUserID(c))
	if err != nil {
		respondSubmissionErr(c, err)
		return
	}
	response.Created(c, sub)
}

func (h *Handler) get(c *gin.Context) {
	sub, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sub == nil {
		response.NotFound(c)
		return
	}
	user := middleware.CurrentUser(c)
	if sub.DesignerID != user.ID && !user.IsAdmin() {
		response.Forbidden(c)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) toggle(c *gin.Context) {
	var body struct {
		Completed bool   `json:"completed"`
		AssetURL  string `json:"asset_url"`
		Note      string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sub, err := h.svc.ToggleDeliverable(
		c.Param("id"), middleware.CurrentUserID(c), c.Param("deliverableId"),
		body.Completed, body.AssetURL, body.Note,
	)
	if err != nil {
		respondSubmissionErr(c, err)
		return
	}
	if sub == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) submit(c *gin.Context) {
	sub, err := h.svc.Submit(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		respondSubmissionErr(c, err)
		return
	}
	if sub == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) resolveBox(c *gin.Context) *models.StyleBoxModel {
	box, err := h.tplSvc.GetLatest(c.Param("boxId"))
	if err != nil {
		response.InternalError(c, err)
		return nil
	}
	if box == nil {
		response.NotFound(c)
		return nil
	}
	return box
}

func respondSubmissionErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(c)
	case errors.Is(err, ErrUnknownDeliverable):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrNotEditable),
		errors.Is(err, ErrStale),
		errors.Is(err, ErrAttemptOpen),
		errors.Is(err, ErrNotOpenForWork),
		errors.Is(err, ErrNoDeliverables),
		errors.Is(err, ErrRequiredIncomplete):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
