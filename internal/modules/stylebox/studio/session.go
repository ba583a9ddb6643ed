package studio

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
	"go.uber.org/zap"
)

// PersistFunc writes the draft update-in-place and returns the stored row.
type PersistFunc func(t *models.StyleBoxModel) (*models.StyleBoxModel, error)

// Session is the ephemeral working copy of one template under edit. It has
// exactly one owner; every mutation routes through the pure derivation
// rules in the template package. The session also owns its autosave loop;
// it is constructed explicitly and handed to whatever needs it, never
// looked up ambiently.
type Session struct {
	mu sync.Mutex

	draft models.StyleBoxModel
	tab   template.WizardStep

	lastSnapshot string
	lastSavedAt  *time.Time
	flushing     bool

	persist PersistFunc
	logger  *zap.Logger

	cancelAutosave context.CancelFunc
}

// NewSession wraps a template (freshly created or loaded) for editing.
// The initial snapshot matches the loaded state, so autosave stays idle
// until the editor actually changes something.
func NewSession(draft models.StyleBoxModel, persist PersistFunc, logger *zap.Logger) *Session {
	s := &Session{
		draft:   draft,
		tab:     template.StepBasics,
		persist: persist,
		logger:  logger,
	}
	if draft.ID != "" {
		s.lastSnapshot = marshalDraft(draft)
	}
	return s
}

// UpdateField applies a top-level field change through the derivation
// rules. Unknown keys error out; a dropped update is a contract violation.
func (s *Session) UpdateField(key template.FieldKey, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := template.Derive(s.draft, key, value)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// UpdateNested merge-patches one nested quadrant field, leaving sibling
// fields of the same quadrant untouched.
func (s *Session) UpdateNested(parent template.FieldKey, child string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := template.PatchQuadrant(s.draft, parent, child, value)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// Reset discards the working copy for a fresh empty template and returns
// the wizard to the first step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = template.CreateEmpty("")
	s.tab = template.StepBasics
	s.lastSnapshot = ""
	s.lastSavedAt = nil
}

// Draft returns a copy of the working template.
func (s *Session) Draft() models.StyleBoxModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Tab returns the current wizard position.
func (s *Session) Tab() template.WizardStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SetTab records the wizard position. Pure navigation state; no invariant.
func (s *Session) SetTab(tab template.WizardStep) {
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
}

// LastSavedAt reports when the draft last reached the store, for display.
func (s *Session) LastSavedAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedAt
}

// Save persists the draft explicitly. It shares the snapshot bookkeeping
// with autosave; both write the same serialized draft, so if they race the
// last writer wins and nothing is lost.
func (s *Session) Save(op PersistFunc) (*models.StyleBoxModel, error) {
	s.mu.Lock()
	draftCopy := s.draft
	s.mu.Unlock()

	if op == nil {
		op = s.persist
	}
	saved, err := op(&draftCopy)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.adoptIdentity(saved)
	s.lastSnapshot = marshalDraft(s.draft)
	now := time.Now()
	s.lastSavedAt = &now
	s.mu.Unlock()
	return saved, nil
}

// adoptIdentity copies server-assigned identity from a stored row into the
// working copy so later flushes update in place. Caller holds the lock.
func (s *Session) adoptIdentity(saved *models.StyleBoxModel) {
	if saved == nil {
		return
	}
	if s.draft.ID == "" {
		s.draft.ID = saved.ID
	}
	if s.draft.BoxID == "" {
		s.draft.BoxID = saved.BoxID
	}
	if saved.Version > s.draft.Version {
		s.draft.Version = saved.Version
	}
}

func marshalDraft(t models.StyleBoxModel) string {
	b, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(b)
}
