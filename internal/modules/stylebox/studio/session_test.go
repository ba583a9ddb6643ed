package studio

import (
	"errors"
	"sync"
	"testing"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
)

// countingStore records persist calls and can be told to fail.
type countingStore struct {
	mu    sync.Mutex
	calls int
	fail  bool
	last  *models.StyleBoxModel
}

func (c *countingStore) persist(t *models.StyleBoxModel) (*models.StyleBoxModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.fail {
		return nil, errors.New("store unavailable")
	}
	saved := *t
	if saved.ID == "" {
		saved.ID = "stored-id"
	}
	c.last = &saved
	return &saved, nil
}

func (c *countingStore) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestSession(store *countingStore) *Session {
	return NewSession(template.CreateEmpty(models.CategoryFashion), store.persist, nil)
}

func TestAutosaveTickSkipsUntitledDraft(t *testing.T) {
	store := &countingStore{}
	s := newTestSession(store)

	s.AutosaveTick()
	if store.callCount() != 0 {
		t.Fatal("a draft without a title must not be flushed")
	}
}

func TestAutosaveTickFlushesOnceThenIdles(t *testing.T) {
	store := &countingStore{}
	s := newTestSession(store)
	if err := s.UpdateField(template.FieldTitle, "Raw Denim Redux"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	s.AutosaveTick()
	if store.callCount() != 1 {
		t.Fatalf("first tick should flush, calls = %d", store.callCount())
	}

	// No edits in between: equal snapshots, no second write.
	s.AutosaveTick()
	s.AutosaveTick()
	if store.callCount() != 1 {
		t.Fatalf("unchanged draft was flushed again, calls = %d", store.callCount())
	}

	if err := s.UpdateField(template.FieldDesignGuidelines, "tighter"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	s.AutosaveTick()
	if store.callCount() != 2 {
		t.Fatalf("edited draft should flush again, calls = %d", store.callCount())
	}
}

func TestAutosaveTickRetriesAfterFailure(t *testing.T) {
	store := &countingStore{fail: true}
	s := newTestSession(store)
	if err := s.UpdateField(template.FieldTitle, "Bias Cut Study"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	s.AutosaveTick()
	if store.callCount() != 1 {
		t.Fatal("failing flush should still have been attempted")
	}
	if s.LastSavedAt() != nil {
		t.Fatal("failed flush must not record a save time")
	}

	// The snapshot was not advanced, so the next tick retries.
	store.fail = false
	s.AutosaveTick()
	if store.callCount() != 2 {
		t.Fatal("next tick should retry after a failure")
	}
	if s.LastSavedAt() == nil {
		t.Fatal("successful flush should record a save time")
	}
}

func TestAutosaveAdoptsStoredIdentity(t *testing.T) {
	store := &countingStore{}
	s := NewSession(models.StyleBoxModel{
		BoxID:   "box-1",
		Version: 1,
		Status:  models.StyleBoxDraft,
	}, store.persist, nil)
	if err := s.UpdateField(template.FieldTitle, "Chain Mail Revival"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	s.AutosaveTick()
	if got := s.Draft().ID; got != "stored-id" {
		t.Fatalf("draft should adopt the stored row ID, got %q", got)
	}

	// Later flushes keep updating the same row.
	if err := s.UpdateField(template.FieldTitle, "Chain Mail Revival II"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	s.AutosaveTick()
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.last.ID != "stored-id" {
		t.Fatalf("second flush wrote a different identity %q", store.last.ID)
	}
}

func TestSaveSharesSnapshotWithAutosave(t *testing.T) {
	store := &countingStore{}
	s := newTestSession(store)
	if err := s.UpdateField(template.FieldTitle, "Moire Layers"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	if _, err := s.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if store.callCount() != 1 {
		t.Fatalf("explicit save should persist once, calls = %d", store.callCount())
	}

	// Autosave sees the explicit save's snapshot and stays idle.
	s.AutosaveTick()
	if store.callCount() != 1 {
		t.Fatal("autosave flushed a draft the explicit save already stored")
	}
}

func TestResetClearsWorkingState(t *testing.T) {
	store := &countingStore{}
	s := newTestSession(store)
	if err := s.UpdateField(template.FieldTitle, "Scrapped Idea"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	s.SetTab(template.StepCriteria)

	s.Reset()
	if s.Draft().Title != "" {
		t.Fatal("reset should discard the working title")
	}
	if s.Tab() != template.StepBasics {
		t.Fatal("reset should return the wizard to the first step")
	}
	if s.LastSavedAt() != nil {
		t.Fatal("reset should clear the save marker")
	}
}
