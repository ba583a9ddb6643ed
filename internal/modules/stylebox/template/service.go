package template

import (
	"errors"
	"time"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/pkg/events"
	"github.com/stylebox-hq/core/internal/pkg/pagination"
	"github.com/stylebox-hq/core/internal/pkg/response"
	"github.com/stylebox-hq/core/internal/pkg/sanitize"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns template persistence: save-in-place, publication, and
// save-as-new-version. It is the only template code that touches the store;
// everything in fields.go and defaults.go stays pure.
type Service struct {
	db     *gorm.DB
	bus    events.Publisher
	logger *zap.Logger
}

func NewService(db *gorm.DB, bus events.Publisher, logger *zap.Logger) *Service {
	if bus == nil {
		bus = events.Nop{}
	}
	return &Service{db: db, bus: bus, logger: logger}
}

// ListFilter narrows storefront/admin template listings.
type ListFilter struct {
	Status     *models.StyleBoxStatus
	Category   *models.StyleBoxCategory
	Difficulty *models.StyleBoxDifficulty
	LatestOnly bool
}

func (s *Service) List(q pagination.Query, f ListFilter) ([]models.StyleBoxModel, response.Pagination, error) {
	tx := s.db.Model(&models.StyleBoxModel{}).Order("updated_at DESC")
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.Category != nil {
		tx = tx.Where("category = ?", *f.Category)
	}
	if f.Difficulty != nil {
		tx = tx.Where("difficulty = ?", *f.Difficulty)
	}
	if f.LatestOnly {
		tx = tx.Where("version = (SELECT MAX(version) FROM styleboxes s2 WHERE s2.box_id = styleboxes.box_id AND s2.deleted_at IS NULL)")
	}
	var items []models.StyleBoxModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.StyleBoxModel, error) {
	var t models.StyleBoxModel
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetLatest returns the newest version row for a stable box id.
func (s *Service) GetLatest(boxID string) (*models.StyleBoxModel, error) {
	var t models.StyleBoxModel
	err := s.db.Where("box_id = ?", boxID).Order("version DESC").First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// GetVersion returns one specific version row for a stable box id.
func (s *Service) GetVersion(boxID string, version int) (*models.StyleBoxModel, error) {
	var t models.StyleBoxModel
	err := s.db.Where("box_id = ? AND version = ?", boxID, version).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListVersions returns every version of a box, newest first.
func (s *Service) ListVersions(boxID string) ([]models.StyleBoxModel, error) {
	var items []models.StyleBoxModel
	err := s.db.Where("box_id = ?", boxID).Order("version DESC").Find(&items).Error
	return items, err
}

// SaveDraft persists the template in place. Status is left untouched unless
// the caller has set one explicitly.
func (s *Service) SaveDraft(t *models.StyleBoxModel) (*models.StyleBoxModel, error) {
	if err := requireTitle(t); err != nil {
		return nil, err
	}
	sanitizeBox(t)

	if t.ID == "" {
		if t.BoxID == "" || t.Version == 0 {
			fresh := CreateEmpty(t.Category)
			if t.BoxID == "" {
				t.BoxID = fresh.BoxID
			}
			if t.Version == 0 {
				t.Version = 1
			}
		}
		if t.Status == "" {
			t.Status = models.StyleBoxDraft
		}
		return t, s.db.Create(t).Error
	}

	updates := contentColumns(t)
	if t.Status != "" {
		updates["status"] = t.Status
	}
	return t, s.db.Model(&models.StyleBoxModel{}).Where("id = ?", t.ID).Updates(updates).Error
}

// Publish forces the template active. The rubric must be non-empty and its
// weights must sum to 100 before the box can go live.
func (s *Service) Publish(t *models.StyleBoxModel) (*models.StyleBoxModel, error) {
	if err := requireTitle(t); err != nil {
		return nil, err
	}
	if err := requireValidRubric(t); err != nil {
		return nil, err
	}
	t.Status = models.StyleBoxActive
	saved, err := s.SaveDraft(t)
	if err != nil {
		return nil, err
	}
	s.bus.BroadcastPublic(events.StyleBoxPublished, saved)
	return saved, nil
}

// SaveAsNewVersion creates a new immutable row for the next version. The
// prior version's row is untouched and stays fetchable. Row identity
// (primary key, timestamps) is server-assigned on the new row.
func (s *Service) SaveAsNewVersion(t *models.StyleBoxModel) (*models.StyleBoxModel, error) {
	if err := requireTitle(t); err != nil {
		return nil, err
	}
	sanitizeBox(t)

	// Freshen against the store so concurrent version saves cannot collide.
	latest, err := s.GetLatest(t.BoxID)
	if err != nil {
		return nil, err
	}
	next := prepareNewVersion(*t, latest)

	if err := s.db.Create(&next).Error; err != nil {
		return nil, err
	}
	s.bus.BroadcastAdmin(events.StyleBoxVersioned, &next)
	return &next, nil
}

// prepareNewVersion copies the working draft into the next version row.
// Row identity is stripped so the store assigns a fresh primary key, and the
// version lands one past both the caller's copy and the newest stored row.
func prepareNewVersion(t models.StyleBoxModel, latest *models.StyleBoxModel) models.StyleBoxModel {
	next := t
	next.Base = models.Base{}
	if latest != nil && latest.Version >= t.Version {
		next.Version = latest.Version + 1
	} else {
		next.Version = t.Version + 1
	}
	return next
}

// Archive retires a template version.
func (s *Service) Archive(id string) (*models.StyleBoxModel, error) {
	t, err := s.GetByID(id)
	if err != nil || t == nil {
		return t, err
	}
	if err := s.db.Model(t).Update("status", models.StyleBoxArchived).Error; err != nil {
		return nil, err
	}
	t.Status = models.StyleBoxArchived
	s.bus.BroadcastAdmin(events.StyleBoxArchived, t)
	return t, nil
}

// ActivateDueReleases flips draft boxes whose release date has passed to
// active. Runs from the scheduler.
func (s *Service) ActivateDueReleases(now time.Time) (int64, error) {
	res := s.db.Model(&models.StyleBoxModel{}).
		Where("status = ? AND release_date IS NOT NULL AND release_date <= ?", models.StyleBoxDraft, now).
		Update("status", models.StyleBoxActive)
	return res.RowsAffected, res.Error
}

// ArchivePastDeadlines retires active boxes whose submission deadline has
// passed. Runs from the scheduler.
func (s *Service) ArchivePastDeadlines(now time.Time) (int64, error) {
	res := s.db.Model(&models.StyleBoxModel{}).
		Where("status = ? AND submission_deadline IS NOT NULL AND submission_deadline <= ?", models.StyleBoxActive, now).
		Update("status", models.StyleBoxArchived)
	return res.RowsAffected, res.Error
}

func requireTitle(t *models.StyleBoxModel) error {
	if sanitize.Text(t.Title) == "" {
		return validationErr(StepBasics, "title is required")
	}
	return nil
}

func requireValidRubric(t *models.StyleBoxModel) error {
	if len(t.EvaluationCriteria) == 0 {
		return validationErr(StepCriteria, "at least one evaluation criterion is required")
	}
	if sum := WeightSum(t.EvaluationCriteria); sum != 100 {
		return validationErr(StepCriteria, "evaluation criteria weights sum to %d, expected 100", sum)
	}
	return nil
}

// sanitizeBox scrubs every free-text field before it is persisted.
func sanitizeBox(t *models.StyleBoxModel) {
	t.Title = sanitize.Text(t.Title)
	t.DesignGuidelines = sanitize.Rich(t.DesignGuidelines)
	t.RequiredSubscriptionTier = sanitize.Text(t.RequiredSubscriptionTier)
	if t.Archetype != nil {
		t.Archetype.Silhouette = sanitize.Text(t.Archetype.Silhouette)
		t.Archetype.Rationale = sanitize.Rich(t.Archetype.Rationale)
		t.Archetype.AnchorImage = sanitize.Text(t.Archetype.AnchorImage)
	}
	if t.Mutation != nil {
		t.Mutation.Concept = sanitize.Text(t.Mutation.Concept)
		t.Mutation.Directive = sanitize.Rich(t.Mutation.Directive)
		t.Mutation.Moodboard = sanitize.TextSlice(t.Mutation.Moodboard)
	}
	if t.Restrictions != nil {
		t.Restrictions.Points = sanitize.TextSlice(t.Restrictions.Points)
	}
	if t.Manifestation != nil {
		t.Manifestation.Prompt = sanitize.Rich(t.Manifestation.Prompt)
	}
	for i := range t.Deliverables {
		t.Deliverables[i].Name = sanitize.Text(t.Deliverables[i].Name)
		t.Deliverables[i].GradingRubric = sanitize.Rich(t.Deliverables[i].GradingRubric)
	}
	for i := range t.EvaluationCriteria {
		t.EvaluationCriteria[i].Name = sanitize.Text(t.EvaluationCriteria[i].Name)
		t.EvaluationCriteria[i].Description = sanitize.Rich(t.EvaluationCriteria[i].Description)
	}
}

func contentColumns(t *models.StyleBoxModel) map[string]interface{} {
	return map[string]interface{}{
		"title":                      t.Title,
		"category":                   t.Category,
		"difficulty":                 t.Difficulty,
		"design_guidelines":          t.DesignGuidelines,
		"archetype":                  t.Archetype,
		"mutation":                   t.Mutation,
		"restrictions":               t.Restrictions,
		"manifestation":              t.Manifestation,
		"deliverables":               t.Deliverables,
		"evaluation_criteria":        t.EvaluationCriteria,
		"submission_deadline":        t.SubmissionDeadline,
		"release_date":               t.ReleaseDate,
		"required_subscription_tier": t.RequiredSubscriptionTier,
		"required_rank_order":        t.RequiredRankOrder,
	}
}
