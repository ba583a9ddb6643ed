package models

import "time"

// SubmissionStatus is the workflow state of a designer's submission.
type SubmissionStatus string

const (
	SubmissionDraft             SubmissionStatus = "draft"
	SubmissionSubmitted         SubmissionStatus = "submitted"
	SubmissionUnderReview       SubmissionStatus = "under_review"
	SubmissionApproved          SubmissionStatus = "approved"
	SubmissionRejected          SubmissionStatus = "rejected"
	SubmissionRevisionRequested SubmissionStatus = "revision_requested"
)

// DeliverableCompletion records whether one deliverable from the snapshot
// set has been satisfied, and with what asset.
type DeliverableCompletion struct {
	DeliverableID string     `json:"deliverable_id"`
	Completed     bool       `json:"completed"`
	AssetURL      string     `json:"asset_url,omitempty"`
	Note          string     `json:"note,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// SubmissionModel is a designer's attempt at one StyleBox. The deliverable
// set is snapshotted from the template at creation time and never recomputed,
// so later template edits cannot retroactively change what a submission owes.
type SubmissionModel struct {
	Base
	StyleBoxID        string                  `json:"stylebox_id"        gorm:"index:idx_sub_box_designer;not null"`
	StyleBoxVersion   int                     `json:"stylebox_version"`
	DesignerID        string                  `json:"designer_id"        gorm:"index:idx_sub_box_designer;not null"`
	VersionNumber     int                     `json:"version_number"     gorm:"default:1"`
	Status            SubmissionStatus        `json:"status"             gorm:"index;default:draft"`
	DeliverableSet    []Deliverable           `json:"deliverable_set"    gorm:"type:longtext;serializer:json"`
	Completions       []DeliverableCompletion `json:"completions"        gorm:"type:longtext;serializer:json"`
	TotalDeliverables int                     `json:"total_deliverables"     gorm:"default:0"`
	CompletedCount    int                     `json:"completed_deliverables" gorm:"column:completed_deliverables;default:0"`
	Progress          int                     `json:"progress_percentage"    gorm:"column:progress_percentage;default:0"`
	Score             *int                    `json:"score,omitempty"`
	Feedback          string                  `json:"feedback,omitempty" gorm:"type:text"`
	SubmittedAt       *time.Time              `json:"submitted_at,omitempty"`
	ReviewedAt        *time.Time              `json:"reviewed_at,omitempty"`
}

func (SubmissionModel) TableName() string { return "submissions" }

// Editable reports whether the designer may still modify this submission.
func (m *SubmissionModel) Editable() bool {
	return m.Status == SubmissionDraft || m.Status == SubmissionRevisionRequested
}
