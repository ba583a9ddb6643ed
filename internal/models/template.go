package models

import "time"

// StyleBoxCategory is the design discipline a StyleBox belongs to.
type StyleBoxCategory string

const (
	CategoryFashion StyleBoxCategory = "fashion"
	CategoryTextile StyleBoxCategory = "textile"
	CategoryJewelry StyleBoxCategory = "jewelry"
)

// StyleBoxDifficulty grades how demanding a brief is.
type StyleBoxDifficulty string

const (
	DifficultyFree   StyleBoxDifficulty = "free"
	DifficultyEasy   StyleBoxDifficulty = "easy"
	DifficultyMedium StyleBoxDifficulty = "medium"
	DifficultyHard   StyleBoxDifficulty = "hard"
	DifficultyInsane StyleBoxDifficulty = "insane"
)

// StyleBoxStatus is the publication lifecycle state of a template version.
type StyleBoxStatus string

const (
	StyleBoxDraft    StyleBoxStatus = "draft"
	StyleBoxActive   StyleBoxStatus = "active"
	StyleBoxArchived StyleBoxStatus = "archived"
)

// Archetype is the first quadrant: the base silhouette the brief starts from.
type Archetype struct {
	Silhouette  string `json:"silhouette,omitempty"`
	Rationale   string `json:"rationale,omitempty"`
	AnchorImage string `json:"anchor_image,omitempty"`
}

// Mutation is the second quadrant: how the archetype should be transformed.
type Mutation struct {
	Concept   string   `json:"concept,omitempty"`
	Directive string   `json:"directive,omitempty"`
	Moodboard []string `json:"moodboard,omitempty"`
}

// Tolerances bounds physical properties of the finished piece.
type Tolerances struct {
	MaxWeight float64 `json:"max_weight,omitempty"`
	MaxCost   float64 `json:"max_cost,omitempty"`
}

// Restrictions is the third quadrant: hard constraints on the design.
type Restrictions struct {
	Points     []string   `json:"points,omitempty"`
	Tolerances Tolerances `json:"tolerances"`
}

// Manifestation is the fourth quadrant: what the designer must produce.
type Manifestation struct {
	Prompt string `json:"prompt,omitempty"`
}

// Deliverable is one named asset a designer provides to complete a submission.
type Deliverable struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	FileType      string `json:"file_type"`
	Required      bool   `json:"required"`
	GradingRubric string `json:"grading_rubric,omitempty"`
	RubricVisible bool   `json:"rubric_visible"`
}

// EvaluationCriterion is a weighted rubric line item. Weights on a
// publishable template must sum to exactly 100.
type EvaluationCriterion struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Weight      int    `json:"weight"`
}

// StyleBoxModel is one persisted version of a StyleBox template.
// BoxID is stable across versions; each saved version is its own row, so
// older versions stay independently retrievable.
type StyleBoxModel struct {
	Base
	BoxID              string                `json:"box_id"              gorm:"index:idx_box_version,unique;not null"`
	Version            int                   `json:"version"             gorm:"index:idx_box_version,unique;default:1"`
	Title              string                `json:"title"`
	Tags               StringArray           `json:"tags"                gorm:"type:json"`
	Category           StyleBoxCategory      `json:"category"            gorm:"index"`
	Difficulty         StyleBoxDifficulty    `json:"difficulty"          gorm:"index"`
	DesignGuidelines   string                `json:"design_guidelines"   gorm:"type:text"`
	Archetype          *Archetype            `json:"archetype,omitempty"     gorm:"type:longtext;serializer:json"`
	Mutation           *Mutation             `json:"mutation,omitempty"      gorm:"type:longtext;serializer:json"`
	Restrictions       *Restrictions         `json:"restrictions,omitempty"  gorm:"type:longtext;serializer:json"`
	Manifestation      *Manifestation        `json:"manifestation,omitempty" gorm:"type:longtext;serializer:json"`
	Deliverables       []Deliverable         `json:"deliverables"        gorm:"type:longtext;serializer:json"`
	EvaluationCriteria []EvaluationCriterion `json:"evaluation_criteria" gorm:"type:longtext;serializer:json"`
	Status             StyleBoxStatus        `json:"status"              gorm:"index;default:draft"`
	SubmissionDeadline *time.Time            `json:"submission_deadline"`
	ReleaseDate        *time.Time            `json:"release_date"`

	RequiredSubscriptionTier string `json:"required_subscription_tier"`
	RequiredRankOrder        int    `json:"required_rank_order" gorm:"default:0"`
}

func (StyleBoxModel) TableName() string { return "styleboxes" }

// RequiredDeliverables returns only the deliverables marked required.
func (m *StyleBoxModel) RequiredDeliverables() []Deliverable {
	var out []Deliverable
	for _, d := range m.Deliverables {
		if d.Required {
			out = append(out, d)
		}
	}
	return out
}
