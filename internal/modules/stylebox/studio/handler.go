package studio

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylebox-hq/core/internal/middleware"
	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
	"github.com/stylebox-hq/core/internal/pkg/response"
)

type Handler struct {
	mgr    *Manager
	tplSvc *template.Service
}

func NewHandler(mgr *Manager, tplSvc *template.Service) *Handler {
	return &Handler{mgr: mgr, tplSvc: tplSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/studio/session", authMW, adminMW)
	g.POST("", h.open)
	g.GET("", h.state)
	g.PATCH("/field", h.updateField)
	g.PATCH("/quadrant", h.updateQuadrant)
	g.PUT("/tab", h.setTab)
	g.POST("/reset", h.reset)
	g.POST("/save", h.save)
	g.POST("/publish", h.publish)
	g.POST("/version", h.saveAsNewVersion)
	g.DELETE("", h.close)
}

type sessionState struct {
	Draft       models.StyleBoxModel `json:"draft"`
	Tab         template.WizardStep  `json:"tab"`
	LastSavedAt *time.Time           `json:"last_saved_at,omitempty"`
}

func stateOf(s *Session) sessionState {
	return sessionState{Draft: s.Draft(), Tab: s.Tab(), LastSavedAt: s.LastSavedAt()}
}

func (h *Handler) open(c *gin.Context) {
	var body struct {
		StyleBoxID string                  `json:"stylebox_id"`
		Category   models.StyleBoxCategory `json:"category"`
	}
	// Empty body opens a blank session.
	_ = c.ShouldBindJSON(&body)

	var box *models.StyleBoxModel
	if body.StyleBoxID != "" {
		t, err := h.tplSvc.GetByID(body.StyleBoxID)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if t == nil {
			response.NotFound(c)
			return
		}
		box = t
	} else if body.Category != "" {
		fresh := template.CreateEmpty(body.Category)
		box = &fresh
	}

	s := h.mgr.Open(c.Request.Context(), middleware.CurrentUserID(c), box)
	response.Created(c, stateOf(s))
}

func (h *Handler) session(c *gin.Context) *Session {
	s := h.mgr.Get(middleware.CurrentUserID(c))
	if s == nil {
		response.NotFoundMsg(c, "no active editing session")
	}
	return s
}

func (h *Handler) state(c *gin.Context) {
	if s := h.session(c); s != nil {
		response.OK(c, stateOf(s))
	}
}

func (h *Handler) updateField(c *gin.Context) {
	s := h.session(c)
	if s == nil {
		return
	}
	var body struct {
		Key   template.FieldKey `json:"key" binding:"required"`
		Value json.RawMessage   `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	value, err := decodeFieldValue(body.Key, body.Value)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := s.UpdateField(body.Key, value); err != nil {
		respondStudioErr(c, err)
		return
	}
	response.OK(c, stateOf(s))
}

func (h *Handler) updateQuadrant(c *gin.Context) {
	s := h.session(c)
	if s == nil {
		return
	}
	var body struct {
		Parent template.FieldKey `json:"parent" binding:"required"`
		Child  string            `json:"child"  binding:"required"`
		Value  json.RawMessage   `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	value, err := decodeQuadrantValue(body.Child, body.Value)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := s.UpdateNested(body.Parent, body.Child, value); err != nil {
		respondStudioErr(c, err)
		return
	}
	response.OK(c, stateOf(s))
}

func (h *Handler) setTab(c *gin.Context) {
	s := h.session(c)
	if s == nil {
		return
	}
	var body struct {
		Tab template.WizardStep `json:"tab" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	s.SetTab(body.Tab)
	response.OK(c, stateOf(s))
}

func (h *Handler) reset(c *gin.Context) {
	s := h.session(c)
	if s == nil {
		return
	}
	s.Reset()
	response.OK(c, stateOf(s))
}

func (h *Handler) save(c *gin.Context) {
	h.persist(c, nil)
}

func (h *Handler) publish(c *gin.Context) {
	h.persist(c, h.tplSvc.Publish)
}

func (h *Handler) saveAsNewVersion(c *gin.Context) {
	h.persist(c, h.tplSvc.SaveAsNewVersion)
}

func (h *Handler) persist(c *gin.Context, op PersistFunc) {
	s := h.session(c)
	if s == nil {
		return
	}
	saved, err := s.Save(op)
	if err != nil {
		var verr *template.ValidationError
		if errors.As(err, &verr) {
			// Send the editor back to the offending step.
			s.SetTab(verr.Step)
			response.ValidationFailed(c, verr.Msg, string(verr.Step))
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"saved": saved, "session": stateOf(s)})
}

func (h *Handler) close(c *gin.Context) {
	h.mgr.Close(middleware.CurrentUserID(c))
	response.NoContent(c)
}

// decodeFieldValue unmarshals the raw JSON value into the concrete type
// the derivation rules expect for this key.
func decodeFieldValue(key template.FieldKey, raw json.RawMessage) (interface{}, error) {
	switch key {
	case template.FieldDeliverables:
		var v []models.Deliverable
		return v, unmarshalInto(raw, &v)
	case template.FieldEvaluationCriteria:
		var v []models.EvaluationCriterion
		return v, unmarshalInto(raw, &v)
	case template.FieldArchetype:
		v := &models.Archetype{}
		return v, unmarshalInto(raw, v)
	case template.FieldMutation:
		v := &models.Mutation{}
		return v, unmarshalInto(raw, v)
	case template.FieldRestrictions:
		v := &models.Restrictions{}
		return v, unmarshalInto(raw, v)
	case template.FieldManifestation:
		v := &models.Manifestation{}
		return v, unmarshalInto(raw, v)
	case template.FieldRankOrder:
		var v int
		return v, unmarshalInto(raw, &v)
	case template.FieldSubmissionDeadline, template.FieldReleaseDate:
		if string(raw) == "null" || len(raw) == 0 {
			return nil, nil
		}
		var v time.Time
		return v, unmarshalInto(raw, &v)
	default:
		var v string
		return v, unmarshalInto(raw, &v)
	}
}

func decodeQuadrantValue(child string, raw json.RawMessage) (interface{}, error) {
	switch child {
	case "moodboard", "points":
		var v []string
		return v, unmarshalInto(raw, &v)
	case "max_weight", "max_cost":
		var v float64
		return v, unmarshalInto(raw, &v)
	default:
		var v string
		return v, unmarshalInto(raw, &v)
	}
}

func unmarshalInto(raw json.RawMessage, dest interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("value is required")
	}
	return json.Unmarshal(raw, dest)
}

func respondStudioErr(c *gin.Context, err error) {
	var verr *template.ValidationError
	if errors.As(err, &verr) {
		response.ValidationFailed(c, verr.Msg, string(verr.Step))
		return
	}
	// Unknown field keys and type mismatches are caller bugs, not 500s.
	response.BadRequest(c, err.Error())
}
