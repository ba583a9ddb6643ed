package template

import (
	"errors"
	"testing"
	"time"

	"github.com/stylebox-hq/core/internal/models"
)

func TestPrepareNewVersionBumpsSequentially(t *testing.T) {
	prior := models.StyleBoxModel{
		Base:    models.Base{ID: "row-3"},
		BoxID:   "box-1",
		Version: 3,
		Title:   "Raw Denim Redux",
	}

	next := prepareNewVersion(prior, &prior)
	if next.Version != 4 {
		t.Fatalf("version = %d, want prior+1 = 4", next.Version)
	}
	if next.ID != "" {
		t.Fatalf("new version must be a new row, got identity %q", next.ID)
	}
	if next.BoxID != "box-1" || next.Title != "Raw Denim Redux" {
		t.Fatal("content must carry over to the new version")
	}
	if prior.ID != "row-3" || prior.Version != 3 {
		t.Fatal("the prior version must stay untouched")
	}
}

func TestPrepareNewVersionFreshensAgainstLatest(t *testing.T) {
	working := models.StyleBoxModel{BoxID: "box-1", Version: 2}
	latest := &models.StyleBoxModel{BoxID: "box-1", Version: 5}

	// A stale working copy still lands past the newest stored row.
	if got := prepareNewVersion(working, latest).Version; got != 6 {
		t.Fatalf("version = %d, want latest+1 = 6", got)
	}

	// No stored row yet: bump from the working copy.
	if got := prepareNewVersion(working, nil).Version; got != 3 {
		t.Fatalf("version = %d, want working+1 = 3", got)
	}
}

func TestPrepareNewVersionStripsIdentity(t *testing.T) {
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	working := models.StyleBoxModel{
		Base:    models.Base{ID: "row-1", CreatedAt: created, UpdatedAt: created},
		BoxID:   "box-1",
		Version: 1,
	}

	next := prepareNewVersion(working, nil)
	if next.ID != "" || !next.CreatedAt.IsZero() || !next.UpdatedAt.IsZero() {
		t.Fatal("row identity and timestamps must be server-assigned on the new row")
	}
}

func TestRequireValidRubric(t *testing.T) {
	box := CreateEmpty(models.CategoryFashion)

	err := requireValidRubric(&box)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("empty rubric must not publish, got %v", err)
	}
	if verr.Step != StepCriteria {
		t.Errorf("validation step = %q, want criteria", verr.Step)
	}

	box.EvaluationCriteria = []models.EvaluationCriterion{
		{Name: "Silhouette", Weight: 60},
		{Name: "Craft", Weight: 30},
	}
	if err := requireValidRubric(&box); err == nil {
		t.Fatal("weights summing to 90 must not publish")
	}

	box.EvaluationCriteria[1].Weight = 40
	if err := requireValidRubric(&box); err != nil {
		t.Fatalf("a complete rubric should pass, got %v", err)
	}
}
