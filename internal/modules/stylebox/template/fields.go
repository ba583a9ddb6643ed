package template

import (
	"fmt"
	"time"

	"github.com/stylebox-hq/core/internal/models"
)

// WizardStep identifies an authoring wizard position. Validation failures
// carry the step the editor should be sent back to.
type WizardStep string

const (
	StepBasics       WizardStep = "basics"
	StepQuadrants    WizardStep = "quadrants"
	StepDeliverables WizardStep = "deliverables"
	StepCriteria     WizardStep = "criteria"
	StepReview       WizardStep = "review"
)

// FieldKey names a top-level editable template field.
type FieldKey string

const (
	FieldTitle              FieldKey = "title"
	FieldCategory           FieldKey = "category"
	FieldDifficulty         FieldKey = "difficulty"
	FieldDesignGuidelines   FieldKey = "design_guidelines"
	FieldDeliverables       FieldKey = "deliverables"
	FieldEvaluationCriteria FieldKey = "evaluation_criteria"
	FieldSubmissionDeadline FieldKey = "submission_deadline"
	FieldReleaseDate        FieldKey = "release_date"
	FieldSubscriptionTier   FieldKey = "required_subscription_tier"
	FieldRankOrder          FieldKey = "required_rank_order"
	FieldArchetype          FieldKey = "archetype"
	FieldMutation           FieldKey = "mutation"
	FieldRestrictions       FieldKey = "restrictions"
	FieldManifestation      FieldKey = "manifestation"
)

// ValidationError is a user-correctable failure. It names the wizard step
// the editor should return to; handlers render it as a 422, never a 500.
type ValidationError struct {
	Step WizardStep
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(step WizardStep, format string, args ...interface{}) error {
	return &ValidationError{Step: step, Msg: fmt.Sprintf(format, args...)}
}

// Derive returns a copy of t with key set to value, plus any cascading
// derived fields. Only two keys cascade: difficulty recomputes
// design_guidelines, category recomputes deliverables. The input is never
// mutated; callers compare snapshots to decide whether to persist.
func Derive(t models.StyleBoxModel, key FieldKey, value interface{}) (models.StyleBoxModel, error) {
	out := t

	switch key {
	case FieldTitle:
		s, err := asString(key, value)
		if err != nil {
			return t, err
		}
		out.Title = s

	case FieldCategory:
		s, err := asString(key, value)
		if err != nil {
			return t, err
		}
		category := models.StyleBoxCategory(s)
		if _, ok := categoryDeliverables[category]; !ok {
			return t, validationErr(StepBasics, "unknown category %q", s)
		}
		out.Category = category
		out.Deliverables = DefaultDeliverables(category)

	case FieldDifficulty:
		s, err := asString(key, value)
		if err != nil {
			return t, err
		}
		difficulty := models.StyleBoxDifficulty(s)
		if _, ok := difficultyGuidelines[difficulty]; !ok {
			return t, validationErr(StepBasics, "unknown difficulty %q", s)
		}
		out.Difficulty = difficulty
		out.DesignGuidelines = GuidelinesFor(difficulty)

	case FieldDesignGuidelines:
		s, err := asString(key, value)
		if err != nil {
			return t, err
		}
		out.DesignGuidelines = s

	case FieldDeliverables:
		v, ok := value.([]models.Deliverable)
		if !ok {
			return t, fmt.Errorf("field %s: expected []Deliverable, got %T", key, value)
		}
		out.Deliverables = append([]models.Deliverable(nil), v...)

	case FieldEvaluationCriteria:
		v, ok := value.([]models.EvaluationCriterion)
		if !ok {
			return t, fmt.Errorf("field %s: expected []EvaluationCriterion, got %T", key, value)
		}
		out.EvaluationCriteria = append([]models.EvaluationCriterion(nil), v...)

	case FieldSubmissionDeadline:
		ts, err := asTimePtr(key, value)
		if err != nil {
			return t, err
		}
		out.SubmissionDeadline = ts

	case FieldReleaseDate:
		ts, err := asTimePtr(key, value)
		if err != nil {
			return t, err
		}
		out.ReleaseDate = ts

	case FieldSubscriptionTier:
		s, err := asString(key, value)
		if err != nil {
			return t, err
		}
		out.RequiredSubscriptionTier = s

	case FieldRankOrder:
		n, err := asInt(key, value)
		if err != nil {
			return t, err
		}
		out.RequiredRankOrder = n

	case FieldArchetype:
		v, ok := value.(*models.Archetype)
		if !ok {
			return t, fmt.Errorf("field %s: expected *Archetype, got %T", key, value)
		}
		out.Archetype = cloneArchetype(v)

	case FieldMutation:
		v, ok := value.(*models.Mutation)
		if !ok {
			return t, fmt.Errorf("field %s: expected *Mutation, got %T", key, value)
		}
		out.Mutation = cloneMutation(v)

	case FieldRestrictions:
		v, ok := value.(*models.Restrictions)
		if !ok {
			return t, fmt.Errorf("field %s: expected *Restrictions, got %T", key, value)
		}
		out.Restrictions = cloneRestrictions(v)

	case FieldManifestation:
		v, ok := value.(*models.Manifestation)
		if !ok {
			return t, fmt.Errorf("field %s: expected *Manifestation, got %T", key, value)
		}
		out.Manifestation = cloneManifestation(v)

	default:
		// Unknown keys must surface, never silently no-op.
		return t, fmt.Errorf("unknown template field %q", key)
	}

	return out, nil
}

// QuadrantKey names a nested quadrant field for merge-patch updates.
type QuadrantKey struct {
	Parent FieldKey
	Child  string
}

// PatchQuadrant returns a copy of t with one nested quadrant field set,
// leaving sibling fields of the same quadrant untouched. A nil quadrant is
// materialized first, so patching an undefined quadrant defines it.
func PatchQuadrant(t models.StyleBoxModel, parent FieldKey, child string, value interface{}) (models.StyleBoxModel, error) {
	out := t

	switch parent {
	case FieldArchetype:
		q := cloneArchetype(t.Archetype)
		if q == nil {
			q = &models.Archetype{}
		}
		switch child {
		case "silhouette":
			s, err := asString(parent, value)
			if err != nil {
				return t, err
			}
			q.Silhouette = s
		case "rationale":
			s, err := asString(parent, value)
			if err != nil {
				return t, err
			}
			q.Rationale = s
		case "anchor_image":
			s, err := asString(parent, value)
			if err != nil {
				return t, err
			}
			q.AnchorImage = s
		default:
			return t, fmt.Errorf("unknown archetype field %q", child)
		}
		out.Archetype = q

	case FieldMutation:
		q := cloneMutation(t.Mutation)
		if q == nil {
			q = &models.Mutation{}
		}
		switch child {
		case "concept":
			s, err := asString(parent, value)
			if err != nil {
				return t, err
			}
			q.Concept = s
		case "directive":
			s, err := asString(parent, value)
			if err != nil {
				return t, err
			}
			q.Directive = s
		case "moodboard":
			v, ok := value.([]string)
			if !ok {
				return t, fmt.Errorf("field %s.%s: expected []string, got %T", parent, child, value)
			}
			q.Moodboard = append([]string(nil), v...)
		default:
			return t, fmt.Errorf("unknown mutation field %q", child)
		}
		out.Mutation = q

	case FieldRestrictions:
		q := cloneRestrictions(t.Restrictions)
		if q == nil {
			q = &models.Restrictions{}
		}
		switch child {
		case "points":
			v, ok := value.([]string)
			if !ok {
				return t, fmt.Errorf("field %s.%s: expected []string, got %T", parent, child, value)
			}
			q.Points = append([]string(nil), v...)
		case "max_weight":
			f, err := asFloat(parent, value)
			if err != nil {
				return t, err
			}
			q.Tolerances.MaxWeight = f
		case "max_cost":
			f, err := asFloat(parent, value)
			if err != nil {
				return t, err
			}
			q.Tolerances.MaxCost = f
		default:
			return t, fmt.Errorf("unknown restrictions field %q", child)
		}
		out.Restrictions = q

	case FieldManifestation:
		q := cloneManifestation(t.Manifestation)
		if q == nil {
			q = &models.Manifestation{}
		}
		switch child {
		case "prompt":
			s, err := asString(parent, value)
			if err != nil {
				return t, err
			}
			q.Prompt = s
		default:
			return t, fmt.Errorf("unknown manifestation field %q", child)
		}
		out.Manifestation = q

	default:
		return t, fmt.Errorf("field %q is not a quadrant", parent)
	}

	return out, nil
}

func cloneArchetype(q *models.Archetype) *models.Archetype {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}

func cloneMutation(q *models.Mutation) *models.Mutation {
	if q == nil {
		return nil
	}
	c := *q
	c.Moodboard = append([]string(nil), q.Moodboard...)
	return &c
}

func cloneRestrictions(q *models.Restrictions) *models.Restrictions {
	if q == nil {
		return nil
	}
	c := *q
	c.Points = append([]string(nil), q.Points...)
	return &c
}

func cloneManifestation(q *models.Manifestation) *models.Manifestation {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}

func asString(key FieldKey, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %s: expected string, got %T", key, value)
	}
	return s, nil
}

func asInt(key FieldKey, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		// JSON numbers decode as float64.
		return int(v), nil
	default:
		return 0, fmt.Errorf("field %s: expected int, got %T", key, value)
	}
}

func asFloat(key FieldKey, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("field %s: expected number, got %T", key, value)
	}
}

func asTimePtr(key FieldKey, value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("field %s: invalid RFC3339 time %q", key, v)
		}
		return &ts, nil
	default:
		return nil, fmt.Errorf("field %s: expected time, got %T", key, value)
	}
}
