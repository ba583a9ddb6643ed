package template

import (
	"github.com/google/uuid"
	"github.com/stylebox-hq/core/internal/models"
)

// difficultyGuidelines maps each difficulty to its preset guideline text.
// Changing a box's difficulty recomputes design_guidelines from this table.
var difficultyGuidelines = map[models.StyleBoxDifficulty]string{
	models.DifficultyFree:   "Open brief. The quadrants are prompts, not constraints. Interpret the archetype freely and document your reasoning as you go.",
	models.DifficultyEasy:   "Follow the archetype closely. Apply the mutation as a single, clearly visible change and keep every restriction point intact.",
	models.DifficultyMedium: "Balance fidelity and invention. The mutation should transform at least two aspects of the archetype while all restriction points and tolerances hold.",
	models.DifficultyHard:   "The archetype must remain recognizable only in silhouette. Push the mutation to its limit; tolerances are strict and every restriction point is graded.",
	models.DifficultyInsane: "Total reinterpretation under full constraint. Every quadrant is binding, tolerances have zero slack, and the manifestation prompt is graded line by line.",
}

// categoryDeliverables maps each category to its default deliverable set.
// Changing a box's category replaces the deliverable list with this set.
var categoryDeliverables = map[models.StyleBoxCategory][]models.Deliverable{
	models.CategoryFashion: {
		{Name: "Concept Sketch", FileType: "image", Required: true, RubricVisible: true},
		{Name: "Technical Flat", FileType: "image", Required: true, RubricVisible: true},
		{Name: "Fabric & Trim Story", FileType: "pdf", Required: true, RubricVisible: true},
		{Name: "Final Look Render", FileType: "image", Required: true, RubricVisible: true},
		{Name: "Process Journal", FileType: "pdf", Required: false, RubricVisible: false},
	},
	models.CategoryTextile: {
		{Name: "Repeat Pattern File", FileType: "vector", Required: true, RubricVisible: true},
		{Name: "Colorway Chart", FileType: "image", Required: true, RubricVisible: true},
		{Name: "Scale Variations", FileType: "image", Required: true, RubricVisible: true},
		{Name: "Application Mockup", FileType: "image", Required: false, RubricVisible: false},
	},
	models.CategoryJewelry: {
		{Name: "Form Study Sketch", FileType: "image", Required: true, RubricVisible: true},
		{Name: "Dimensioned Technical Drawing", FileType: "vector", Required: true, RubricVisible: true},
		{Name: "Material & Stone Map", FileType: "pdf", Required: true, RubricVisible: true},
		{Name: "360 Render", FileType: "video", Required: false, RubricVisible: false},
	},
}

// DefaultDeliverables returns a fresh copy of the default set for a category,
// with deliverable IDs assigned. Unknown categories get an empty set.
func DefaultDeliverables(category models.StyleBoxCategory) []models.Deliverable {
	defaults, ok := categoryDeliverables[category]
	if !ok {
		return nil
	}
	out := make([]models.Deliverable, len(defaults))
	for i, d := range defaults {
		d.ID = uuid.New().String()
		out[i] = d
	}
	return out
}

// GuidelinesFor returns the preset guideline text for a difficulty.
func GuidelinesFor(difficulty models.StyleBoxDifficulty) string {
	return difficultyGuidelines[difficulty]
}

// CreateEmpty produces a fresh draft template with safe defaults. An empty
// category yields a box with no deliverables until one is chosen.
func CreateEmpty(category models.StyleBoxCategory) models.StyleBoxModel {
	difficulty := models.DifficultyEasy
	return models.StyleBoxModel{
		BoxID:            uuid.New().String(),
		Version:          1,
		Status:           models.StyleBoxDraft,
		Category:         category,
		Difficulty:       difficulty,
		DesignGuidelines: GuidelinesFor(difficulty),
		Deliverables:     DefaultDeliverables(category),
	}
}

// DistributeEvenly reassigns criteria weights to floor(100/n) each, with the
// remainder added to the first, so the weights always sum to exactly 100.
func DistributeEvenly(criteria []models.EvaluationCriterion) []models.EvaluationCriterion {
	n := len(criteria)
	if n == 0 {
		return criteria
	}
	out := make([]models.EvaluationCriterion, n)
	copy(out, criteria)
	base := 100 / n
	for i := range out {
		out[i].Weight = base
	}
	out[0].Weight += 100 - base*n
	return out
}

// WeightSum totals criteria weights.
func WeightSum(criteria []models.EvaluationCriterion) int {
	sum := 0
	for _, c := range criteria {
		sum += c.Weight
	}
	return sum
}
