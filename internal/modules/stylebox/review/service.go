package review

import (
	"errors"
	"time"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/modules/stylebox/submission"
	"github.com/stylebox-hq/core/internal/pkg/events"
	"github.com/stylebox-hq/core/internal/pkg/pagination"
	"github.com/stylebox-hq/core/internal/pkg/response"
	"github.com/stylebox-hq/core/internal/pkg/sanitize"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotReviewable = errors.New("submission is not awaiting review")
	ErrBadDecision   = errors.New("decision must be approved, rejected or revision_requested")
	ErrScoreRequired = errors.New("approval requires a score between 1 and 100")
	ErrStale         = errors.New("submission changed underneath this request; refresh and retry")
)

// reviewableStates are the states an admin decision may act on. Picking up
// a submission for review is optional; a decision straight from submitted
// is allowed.
var reviewableStates = []models.SubmissionStatus{
	models.SubmissionSubmitted,
	models.SubmissionUnderReview,
}

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

// Queue lists submissions waiting on an admin, oldest submission first.
func (s *Service) Queue(q pagination.Query) ([]models.SubmissionModel, response.Pagination, error) {
	tx := s.db.Model(&models.SubmissionModel{}).
		Where("status IN ?", reviewableStates).
		Order("submitted_at ASC")
	var items []models.SubmissionModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// StartReview marks a submitted attempt as under review so two admins do
// not pick up the same one.
func (s *Service) StartReview(id string) (*models.SubmissionModel, error) {
	res := s.db.Model(&models.SubmissionModel{}).
		Where("id = ? AND status = ?", id, models.SubmissionSubmitted).
		Update("status", models.SubmissionUnderReview)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		cur, err := s.get(id)
		if err != nil {
			return nil, err
		}
		return nil, raceLossErr(cur, models.SubmissionUnderReview)
	}
	return s.get(id)
}

// Decide resolves a review. Approval carries a mandatory 1-100 score; the
// other outcomes never carry one. revision_requested hands the attempt back
// to the designer as the single re-entrant edge of the lifecycle.
func (s *Service) Decide(id string, decision models.SubmissionStatus, score *int, feedback string) (*models.SubmissionModel, error) {
	switch decision {
	case models.SubmissionApproved:
		if score == nil || *score < 1 || *score > 100 {
			return nil, ErrScoreRequired
		}
	case models.SubmissionRejected, models.SubmissionRevisionRequested:
		score = nil
	default:
		return nil, ErrBadDecision
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      decision,
		"score":       score,
		"feedback":    sanitize.Rich(feedback),
		"reviewed_at": now,
	}
	res := s.db.Model(&models.SubmissionModel{}).
		Where("id = ? AND status IN ?", id, reviewableStates).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		cur, err := s.get(id)
		if err != nil {
			return nil, err
		}
		return nil, raceLossErr(cur, reviewableStates...)
	}

	sub, err := s.get(id)
	if err != nil {
		return nil, err
	}
	s.bus.BroadcastPublic(events.SubmissionReviewed, sub)
	return sub, nil
}

// raceLossErr distinguishes a lost guarded UPDATE that is worth retrying
// from one that is not. A row sitting in one of the retryable states was
// changed underneath the request; anything else is simply not reviewable.
func raceLossErr(cur *models.SubmissionModel, retryable ...models.SubmissionStatus) error {
	if cur != nil {
		for _, st := range retryable {
			if cur.Status == st {
				return ErrStale
			}
		}
	}
	return ErrNotReviewable
}

func (s *Service) get(id string) (*models.SubmissionModel, error) {
	var sub models.SubmissionModel
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// CanDecide mirrors the persisted guard for callers that want to check a
// decision before issuing it.
func CanDecide(from, decision models.SubmissionStatus) bool {
	return submission.CanTransition(from, decision) &&
		decision != models.SubmissionSubmitted &&
		decision != models.SubmissionUnderReview
}
