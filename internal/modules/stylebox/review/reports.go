package review

import (
	"github.com/stylebox-hq/core/internal/models"
	"gorm.io/gorm"
)

// DashboardReport is computed on demand from the submission table; nothing
// here is a maintained aggregate.
type DashboardReport struct {
	TotalSubmissions int64   `json:"total_submissions"`
	Approved         int64   `json:"approved"`
	Rejected         int64   `json:"rejected"`
	AwaitingReview   int64   `json:"awaiting_review"`
	ApprovalRate     float64 `json:"approval_rate"`
	// Mean seconds between a stylebox version going live and an approved
	// submission against it.
	AvgCompletionSeconds float64          `json:"avg_completion_seconds"`
	AverageScore         float64          `json:"average_score"`
	PerBox               []BoxReportEntry `json:"per_box"`
}

type BoxReportEntry struct {
	BoxID     string `json:"box_id"`
	Title     string `json:"title"`
	Total     int64  `json:"total"`
	Approved  int64  `json:"approved"`
	Submitted int64  `json:"submitted"`
}

// Dashboard builds the admin review dashboard. Rates over an empty table
// are reported as zero, not NaN.
func (s *Service) Dashboard() (*DashboardReport, error) {
	r := &DashboardReport{}

	base := func() *gorm.DB { return s.db.Model(&models.SubmissionModel{}) }

	if err := base().Count(&r.TotalSubmissions).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.SubmissionApproved).Count(&r.Approved).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.SubmissionRejected).Count(&r.Rejected).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status IN ?", reviewableStates).Count(&r.AwaitingReview).Error; err != nil {
		return nil, err
	}
	if r.TotalSubmissions > 0 {
		r.ApprovalRate = float64(r.Approved) / float64(r.TotalSubmissions)
	}

	if r.Approved > 0 {
		var avg struct {
			Seconds float64
			Score   float64
		}
		err := base().
			Select("AVG(TIMESTAMPDIFF(SECOND, styleboxes.created_at, submissions.submitted_at)) AS seconds, AVG(submissions.score) AS score").
			Joins("JOIN styleboxes ON styleboxes.box_id = submissions.style_box_id AND styleboxes.version = submissions.style_box_version").
			Where("submissions.status = ?", models.SubmissionApproved).
			Scan(&avg).Error
		if err != nil {
			return nil, err
		}
		r.AvgCompletionSeconds = avg.Seconds
		r.AverageScore = avg.Score
	}

	err := base().
		Select("submissions.style_box_id AS box_id, MAX(styleboxes.title) AS title, COUNT(*) AS total, SUM(submissions.status = ?) AS approved, SUM(submissions.status IN ?) AS submitted",
			models.SubmissionApproved, reviewableStates).
		Joins("JOIN styleboxes ON styleboxes.box_id = submissions.style_box_id AND styleboxes.version = submissions.style_box_version").
		Group("submissions.style_box_id").
		Order("total DESC").
		Scan(&r.PerBox).Error
	if err != nil {
		return nil, err
	}
	if r.PerBox == nil {
		r.PerBox = []BoxReportEntry{}
	}
	return r, nil
}
