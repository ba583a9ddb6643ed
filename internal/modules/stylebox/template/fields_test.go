package template

import (
	"errors"
	"testing"

	"github.com/stylebox-hq/core/internal/models"
)

func TestDeriveCategoryCascadesDeliverables(t *testing.T) {
	box := CreateEmpty("")
	if len(box.Deliverables) != 0 {
		t.Fatalf("empty category should start with no deliverables, got %d", len(box.Deliverables))
	}

	next, err := Derive(box, FieldCategory, string(models.CategoryFashion))
	if err != nil {
		t.Fatalf("Derive(category): %v", err)
	}
	if next.Category != models.CategoryFashion {
		t.Fatalf("category = %q, want fashion", next.Category)
	}
	if len(next.Deliverables) != 5 {
		t.Fatalf("fashion default set should have 5 deliverables, got %d", len(next.Deliverables))
	}
	for i, d := range next.Deliverables {
		if d.ID == "" {
			t.Errorf("deliverable %d has no assigned ID", i)
		}
	}

	// Switching category replaces the set outright.
	jewelry, err := Derive(next, FieldCategory, string(models.CategoryJewelry))
	if err != nil {
		t.Fatalf("Derive(category=jewelry): %v", err)
	}
	if len(jewelry.Deliverables) != 4 {
		t.Fatalf("jewelry default set should have 4 deliverables, got %d", len(jewelry.Deliverables))
	}
}

func TestDeriveDifficultyCascadesGuidelines(t *testing.T) {
	box := CreateEmpty(models.CategoryFashion)
	if box.DesignGuidelines != GuidelinesFor(models.DifficultyEasy) {
		t.Fatal("fresh box should carry the easy guidelines")
	}

	next, err := Derive(box, FieldDifficulty, string(models.DifficultyInsane))
	if err != nil {
		t.Fatalf("Derive(difficulty): %v", err)
	}
	if next.DesignGuidelines != GuidelinesFor(models.DifficultyInsane) {
		t.Fatal("difficulty change must recompute design guidelines")
	}

	// A manual guideline edit afterwards sticks.
	edited, err := Derive(next, FieldDesignGuidelines, "house rules")
	if err != nil {
		t.Fatalf("Derive(design_guidelines): %v", err)
	}
	if edited.DesignGuidelines != "house rules" {
		t.Fatal("manual guidelines edit was dropped")
	}
}

func TestDeriveRejectsUnknownValues(t *testing.T) {
	box := CreateEmpty(models.CategoryFashion)

	_, err := Derive(box, FieldCategory, "pottery")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("unknown category should be a ValidationError, got %v", err)
	}
	if verr.Step != StepBasics {
		t.Errorf("validation step = %q, want basics", verr.Step)
	}

	if _, err := Derive(box, FieldDifficulty, "impossible"); err == nil {
		t.Fatal("unknown difficulty must error")
	}
	if _, err := Derive(box, "no_such_field", "x"); err == nil {
		t.Fatal("unknown field key must error, never silently no-op")
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	box := CreateEmpty(models.CategoryTextile)
	before := len(box.Deliverables)

	next, err := Derive(box, FieldCategory, string(models.CategoryFashion))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if len(box.Deliverables) != before {
		t.Fatal("Derive mutated its input")
	}
	if len(next.Deliverables) == before {
		t.Fatal("Derive returned an unchanged copy")
	}
}

func TestPatchQuadrantMaterializesAndPreservesSiblings(t *testing.T) {
	box := CreateEmpty(models.CategoryFashion)
	if box.Mutation != nil {
		t.Fatal("fresh box should have no mutation quadrant")
	}

	withConcept, err := PatchQuadrant(box, FieldMutation, "concept", "deconstruction")
	if err != nil {
		t.Fatalf("PatchQuadrant(concept): %v", err)
	}
	if withConcept.Mutation == nil || withConcept.Mutation.Concept != "deconstruction" {
		t.Fatal("patching a nil quadrant should materialize it")
	}
	if box.Mutation != nil {
		t.Fatal("PatchQuadrant mutated its input")
	}

	withDirective, err := PatchQuadrant(withConcept, FieldMutation, "directive", "invert the closure")
	if err != nil {
		t.Fatalf("PatchQuadrant(directive): %v", err)
	}
	if withDirective.Mutation.Concept != "deconstruction" {
		t.Fatal("sibling field lost by nested patch")
	}
	if withDirective.Mutation.Directive != "invert the closure" {
		t.Fatal("directive not set")
	}

	if _, err := PatchQuadrant(box, FieldMutation, "color", "red"); err == nil {
		t.Fatal("unknown nested field must error")
	}
	if _, err := PatchQuadrant(box, FieldTitle, "x", "y"); err == nil {
		t.Fatal("non-quadrant parent must error")
	}
}

func TestPatchQuadrantTolerances(t *testing.T) {
	box := CreateEmpty(models.CategoryJewelry)

	withWeight, err := PatchQuadrant(box, FieldRestrictions, "max_weight", 12.5)
	if err != nil {
		t.Fatalf("PatchQuadrant(max_weight): %v", err)
	}
	withBoth, err := PatchQuadrant(withWeight, FieldRestrictions, "max_cost", 300.0)
	if err != nil {
		t.Fatalf("PatchQuadrant(max_cost): %v", err)
	}
	if withBoth.Restrictions.Tolerances.MaxWeight != 12.5 {
		t.Fatal("max_weight lost when patching max_cost")
	}
	if withBoth.Restrictions.Tolerances.MaxCost != 300.0 {
		t.Fatal("max_cost not set")
	}
}

func TestDistributeEvenly(t *testing.T) {
	for n := 1; n <= 7; n++ {
		criteria := make([]models.EvaluationCriterion, n)
		for i := range criteria {
			criteria[i].Name = "criterion"
		}
		out := DistributeEvenly(criteria)
		if got := WeightSum(out); got != 100 {
			t.Errorf("n=%d: weights sum to %d, want 100", n, got)
		}
		for i := 1; i < n; i++ {
			if out[i].Weight != out[1].Weight {
				t.Errorf("n=%d: non-first weights differ", n)
			}
		}
	}
	if out := DistributeEvenly(nil); len(out) != 0 {
		t.Fatal("empty criteria should pass through")
	}

	// 3 criteria: 34 + 33 + 33.
	out := DistributeEvenly(make([]models.EvaluationCriterion, 3))
	if out[0].Weight != 34 || out[1].Weight != 33 || out[2].Weight != 33 {
		t.Fatalf("3-way split = %d/%d/%d, want 34/33/33", out[0].Weight, out[1].Weight, out[2].Weight)
	}
}

func TestDefaultDeliverablesFreshCopies(t *testing.T) {
	a := DefaultDeliverables(models.CategoryFashion)
	b := DefaultDeliverables(models.CategoryFashion)
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("fashion category should have defaults")
	}
	if a[0].ID == b[0].ID {
		t.Fatal("each default set must get fresh deliverable IDs")
	}
	a[0].Name = "tampered"
	if c := DefaultDeliverables(models.CategoryFashion); c[0].Name == "tampered" {
		t.Fatal("returned set aliases the shared defaults table")
	}
	if got := DefaultDeliverables("pottery"); got != nil {
		t.Fatal("unknown category should yield no deliverables")
	}
}
