package template

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/pkg/pagination"
	"github.com/stylebox-hq/core/internal/pkg/response"
)

// BoxPayload is the write DTO shared by create/save/publish/version
// operations. Nil fields leave the stored value untouched.
type BoxPayload struct {
	Title              *string                      `json:"title"`
	Tags               []string                     `json:"tags"`
	Category           *models.StyleBoxCategory     `json:"category"`
	Difficulty         *models.StyleBoxDifficulty   `json:"difficulty"`
	DesignGuidelines   *string                      `json:"design_guidelines"`
	Archetype          *models.Archetype            `json:"archetype"`
	Mutation           *models.Mutation             `json:"mutation"`
	Restrictions       *models.Restrictions         `json:"restrictions"`
	Manifestation      *models.Manifestation        `json:"manifestation"`
	Deliverables       []models.Deliverable         `json:"deliverables"`
	EvaluationCriteria []models.EvaluationCriterion `json:"evaluation_criteria"`
	SubmissionDeadline *time.Time                   `json:"submission_deadline"`
	ReleaseDate        *time.Time                   `json:"release_date"`
	SubscriptionTier   *string                      `json:"required_subscription_tier"`
	RankOrder          *int                         `json:"required_rank_order"`
}

// apply overlays the payload onto t, routing cascading keys through Derive
// so difficulty/category changes recompute their derived fields.
func (p *BoxPayload) apply(t models.StyleBoxModel) (models.StyleBoxModel, error) {
	var err error
	if p.Category != nil && *p.Category != t.Category {
		if t, err = Derive(t, FieldCategory, string(*p.Category)); err != nil {
			return t, err
		}
	}
	if p.Difficulty != nil && *p.Difficulty != t.Difficulty {
		if t, err = Derive(t, FieldDifficulty, string(*p.Difficulty)); err != nil {
			return t, err
		}
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Tags != nil {
		t.Tags = models.StringArray(p.Tags)
	}
	if p.DesignGuidelines != nil {
		t.DesignGuidelines = *p.DesignGuidelines
	}
	if p.Archetype != nil {
		t.Archetype = p.Archetype
	}
	if p.Mutation != nil {
		t.Mutation = p.Mutation
	}
	if p.Restrictions != nil {
		t.Restrictions = p.Restrictions
	}
	if p.Manifestation != nil {
		t.Manifestation = p.Manifestation
	}
	if p.Deliverables != nil {
		t.Deliverables = p.Deliverables
	}
	if p.EvaluationCriteria != nil {
		t.EvaluationCriteria = p.EvaluationCriteria
	}
	if p.SubmissionDeadline != nil {
		t.SubmissionDeadline = p.SubmissionDeadline
	}
	if p.ReleaseDate != nil {
		t.ReleaseDate = p.ReleaseDate
	}
	if p.SubscriptionTier != nil {
		t.RequiredSubscriptionTier = *p.SubscriptionTier
	}
	if p.RankOrder != nil {
		t.RequiredRankOrder = *p.RankOrder
	}
	return t, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/styleboxes")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/preview", h.preview)
	g.GET("/by-box/:boxId", h.getLatest)
	g.GET("/by-box/:boxId/versions", h.listVersions)
	g.GET("/by-box/:boxId/versions/:version", h.getVersion)

	a := g.Group("", authMW, adminMW)
	a.POST("", h.create)
	a.PUT("/:id", h.save)
	a.POST("/:id/publish", h.publish)
	a.POST("/:id/version", h.saveAsNewVersion)
	a.POST("/:id/archive", h.archive)
	a.POST("/criteria/distribute", h.distributeCriteria)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	var f ListFilter
	if v := c.Query("status"); v != "" {
		st := models.StyleBoxStatus(v)
		f.Status = &st
	}
	if v := c.Query("category"); v != "" {
		ct := models.StyleBoxCategory(v)
		f.Category = &ct
	}
	if v := c.Query("difficulty"); v != "" {
		df := models.StyleBoxDifficulty(v)
		f.Difficulty = &df
	}
	f.LatestOnly = c.DefaultQuery("latest_only", "true") == "true"

	items, pag, err := h.svc.List(q, f)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, t)
}

func (h *Handler) getLatest(c *gin.Context) {
	t, err := h.svc.GetLatest(c.Param("boxId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, t)
}

func (h *Handler) listVersions(c *gin.Context) {
	items, err := h.svc.ListVersions(c.Param("boxId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) getVersion(c *gin.Context) {
	var version int
	fmt.Sscanf(c.Param("version"), "%d", &version)
	if version <= 0 {
		response.BadRequest(c, "version is required")
		return
	}
	t, err := h.svc.GetVersion(c.Param("boxId"), version)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, t)
}

func (h *Handler) preview(c *gin.Context) {
	t, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	html, err := RenderBrief(t)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) create(c *gin.Context) {
	var dto BoxPayload
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	category := models.StyleBoxCategory("")
	if dto.Category != nil {
		category = *dto.Category
	}
	t, err := dto.apply(CreateEmpty(category))
	if err != nil {
		respondTemplateErr(c, err)
		return
	}
	saved, err := h.svc.SaveDraft(&t)
	if err != nil {
		respondTemplateErr(c, err)
		return
	}
	response.Created(c, saved)
}

func (h *Handler) save(c *gin.Context) {
	h.persist(c, h.svc.SaveDraft)
}

func (h *Handler) publish(c *gin.Context) {
	h.persist(c, h.svc.Publish)
}

func (h *Handler) saveAsNewVersion(c *gin.Context) {
	h.persist(c, h.svc.SaveAsNewVersion)
}

// persist loads the row, overlays the request payload, and hands the result
// to one of the three save operations.
func (h *Handler) persist(c *gin.Context, op func(*models.StyleBoxModel) (*models.StyleBoxModel, error)) {
	existing, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if existing == nil {
		response.NotFound(c)
		return
	}
	var dto BoxPayload
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := dto.apply(*existing)
	if err != nil {
		respondTemplateErr(c, err)
		return
	}
	saved, err := op(&t)
	if err != nil {
		respondTemplateErr(c, err)
		return
	}
	response.OK(c, saved)
}

func (h *Handler) archive(c *gin.Context) {
	t, err := h.svc.Archive(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if t == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, t)
}

func (h *Handler) distributeCriteria(c *gin.Context) {
	var body struct {
		Criteria []models.EvaluationCriterion `json:"criteria" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"criteria": DistributeEvenly(body.Criteria)})
}

// respondTemplateErr maps validation failures to a correctable 422 carrying
// the wizard step to return to; everything else is a 500.
func respondTemplateErr(c *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		response.ValidationFailed(c, verr.Msg, string(verr.Step))
		return
	}
	response.InternalError(c, err)
}
