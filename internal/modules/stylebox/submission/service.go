package submission

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

// Guard and ownership failures. Handlers map these to 409/403; they are
// detected before any write reaches the store.
var (
	ErrNotEditable        = errors.New("submission is locked; wait for a revision request")
	ErrRequiredIncomplete = errors.New("all required deliverables must be completed before submitting")
	ErrNoDeliverables     = errors.New("this submission has no deliverables and cannot be completed")
	ErrStale              = errors.New("submission changed underneath this request; refresh and retry")
	ErrNotOwner           = errors.New("submission belongs to another designer")
	ErrUnknownDeliverable = errors.New("deliverable is not part of this submission")
	ErrNotOpenForWork     = errors.New("stylebox is not open for submissions")
	ErrAttemptOpen        = errors.New("an editable attempt already exists for this stylebox")
)

// Service drives the designer side of the submission lifecycle. All
// transitions are guarded UPDATEs against the current persisted status, so
// a stale client copy can never force an illegal edge.
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

func (s *Service) GetByID(id string) (*models.SubmissionModel, error) {
	var sub models.SubmissionModel
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Latest returns the newest attempt for (stylebox, designer), or nil.
func (s *Service) Latest(styleBoxID, designerID string) (*models.SubmissionModel, error) {
	var sub models.SubmissionModel
	err := s.db.Where("style_box_id = ? AND designer_id = ?", styleBoxID, designerID).
		Order("version_number DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Workspace returns the designer's current attempt for a stylebox,
// creating a draft lazily on first visit. The deliverable set is
// snapshotted from the template at that moment and never recomputed.
func (s *Service) Workspace(box *models.StyleBoxModel, designerID string) (*models.SubmissionModel, error) {
	existing, err := s.Latest(box.BoxID, designerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if box.Status != models.StyleBoxActive {
		return nil, ErrNotOpenForWork
	}
	return s.createAttempt(box, designerID, 1)
}

// StartNewAttempt opens a fresh versioned attempt after a terminal review.
// At most one editable submission may exist per (designer, stylebox).
func (s *Service) StartNewAttempt(box *models.StyleBoxModel, designerID string) (*models.SubmissionModel, error) {
	latest, err := s.Latest(box.BoxID, designerID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return s.Workspace(box, designerID)
	}
	if latest.Editable() || latest.Status == models.SubmissionSubmitted || latest.Status == models.SubmissionUnderReview {
		return nil, ErrAttemptOpen
	}
	if box.Status != models.StyleBoxActive {
		return nil, ErrNotOpenForWork
	}
	return s.createAttempt(box, designerID, latest.VersionNumber+1)
}

func (s *Service) createAttempt(box *models.StyleBoxModel, designerID string, attempt int) (*models.SubmissionModel, error) {
	completions := make([]models.DeliverableCompletion, len(box.Deliverables))
	for i, d := range box.Deliverables {
		completions[i] = models.DeliverableCompletion{DeliverableID: d.ID}
	}
	sub := &models.SubmissionModel{
		StyleBoxID:        box.BoxID,
		StyleBoxVersion:   box.Version,
		DesignerID:        designerID,
		VersionNumber:     attempt,
		Status:            models.SubmissionDraft,
		DeliverableSet:    box.Deliverables,
		Completions:       completions,
		TotalDeliverables: len(box.Deliverables),
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, err
	}
	s.bus.BroadcastAdmin(events.SubmissionCreated, sub)
	return sub, nil
}

// ToggleDeliverable records or clears one deliverable completion and
// recomputes the progress percentage. Progress is never cached stale: it is
// derived from the completion set on every toggle.
func (s *Service) ToggleDeliverable(id, designerID, deliverableID string, completed bool, assetURL, note string) (*models.SubmissionModel, error) {
	sub, err := s.GetByID(id)
	if err != nil || sub == nil {
		return sub, err
	}
	if sub.DesignerID != designerID {
		return nil, ErrNotOwner
	}
	if !sub.Editable() {
		return nil, ErrNotEditable
	}

	found := false
	for i := range sub.Completions {
		if sub.Completions[i].DeliverableID != deliverableID {
			continue
		}
		found = true
		sub.Completions[i].Completed = completed
		sub.Completions[i].AssetURL = sanitize.Text(assetURL)
		sub.Completions[i].Note = sanitize.Text(note)
		if completed {
			now := time.Now()
			sub.Completions[i].CompletedAt = &now
		} else {
			sub.Completions[i].CompletedAt = nil
		}
	}
	if !found {
		return nil, ErrUnknownDeliverable
	}

	sub.CompletedCount = 0
	for _, c := range sub.Completions {
		if c.Completed {
			sub.CompletedCount++
		}
	}
	sub.Progress = Progress(sub.CompletedCount, sub.TotalDeliverables)

	// Guarded write: if the admin locked the row since our read, nothing
	// is updated and the request is rejected.
	res := s.db.Model(&models.SubmissionModel{}).
		Where("id = ? AND status IN ?", sub.ID, []models.SubmissionStatus{models.SubmissionDraft, models.SubmissionRevisionRequested}).
		Updates(map[string]interface{}{
			"completions":            sub.Completions,
			"completed_deliverables": sub.CompletedCount,
			"progress_percentage":    sub.Progress,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}
	s.publishProgress(sub)
	return sub, nil
}

// publishProgress fans the attempt's progress out to the studios watching
// its stylebox room.
func (s *Service) publishProgress(sub *models.SubmissionModel) {
	s.bus.BroadcastStyleBox(sub.StyleBoxID, events.SubmissionProgress, progressPayload(sub))
}

// progressPayload is the per-box event body. It carries counts only; the
// completion details stay between the designer and the reviewers.
func progressPayload(sub *models.SubmissionModel) map[string]interface{} {
	return map[string]interface{}{
		"submission_id":          sub.ID,
		"stylebox_id":            sub.StyleBoxID,
		"designer_id":            sub.DesignerID,
		"status":                 sub.Status,
		"completed_deliverables": sub.CompletedCount,
		"total_deliverables":     sub.TotalDeliverables,
		"progress_percentage":    sub.Progress,
	}
}

// Submit moves an editable attempt to submitted. The guard is evaluated
// against a freshened read, then enforced again by the conditional UPDATE.
func (s *Service) Submit(id, designerID string) (*models.SubmissionModel, error) {
	sub, err := s.GetByID(id)
	if err != nil || sub == nil {
		return sub, err
	}
	if sub.DesignerID != designerID {
		return nil, ErrNotOwner
	}
	if !sub.Editable() {
		return nil, ErrNotEditable
	}
	if sub.TotalDeliverables == 0 {
		return nil, ErrNoDeliverables
	}
	if !AllRequiredComplete(sub.DeliverableSet, sub.Completions) {
		return nil, ErrRequiredIncomplete
	}

	now := time.Now()
	res := s.db.Model(&models.SubmissionModel{}).
		Where("id = ? AND status IN ?", sub.ID, []models.SubmissionStatus{models.SubmissionDraft, models.SubmissionRevisionRequested}).
		Updates(map[string]interface{}{
			"status":       models.SubmissionSubmitted,
			"submitted_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStale
	}

	sub.Status = models.SubmissionSubmitted
	sub.SubmittedAt = &now
	s.bus.BroadcastAdmin(events.SubmissionSubmitted, sub)
	s.bus.BroadcastStyleBox(sub.StyleBoxID, events.SubmissionSubmitted, progressPayload(sub))
	return sub, nil
}

// ListForDesigner returns the designer's attempts, newest first.
func (s *Service) ListForDesigner(designerID string, q pagination.Query) ([]models.SubmissionModel, response.Pagination, error) {
	tx := s.db.Model(&models.SubmissionModel{}).
		Where("designer_id = ?", designerID).
		Order("updated_at DESC")
	var items []models.SubmissionModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}
