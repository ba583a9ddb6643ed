package submission

import (
	"math"

	"github.com/stylebox-hq/core/internal/models"
)

// transitions is the full adjacency of the submission state machine.
// revision_requested → submitted is the only re-entrant edge; approved and
// rejected are terminal.
var transitions = map[models.SubmissionStatus][]models.SubmissionStatus{
	models.SubmissionDraft:             {models.SubmissionSubmitted},
	models.SubmissionSubmitted:         {models.SubmissionUnderReview, models.SubmissionApproved, models.SubmissionRejected, models.SubmissionRevisionRequested},
	models.SubmissionUnderReview:       {models.SubmissionApproved, models.SubmissionRejected, models.SubmissionRevisionRequested},
	models.SubmissionRevisionRequested: {models.SubmissionSubmitted},
	models.SubmissionApproved:          nil,
	models.SubmissionRejected:          nil,
}

// CanTransition reports whether the edge from → to exists. Pure; no I/O.
func CanTransition(from, to models.SubmissionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// editableStates are the only states in which the designer may write.
func editable(status models.SubmissionStatus) bool {
	return status == models.SubmissionDraft || status == models.SubmissionRevisionRequested
}

// Progress computes the rounded completion percentage, clamped to [0,100].
// Zero deliverables always yields zero; such a submission can never be
// completed, only abandoned.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(completed) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// AllRequiredComplete reports whether every deliverable marked required in
// the snapshot set has a completion recorded. Optional deliverables never
// block submission.
func AllRequiredComplete(set []models.Deliverable, completions []models.DeliverableCompletion) bool {
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		if c.Completed {
			done[c.DeliverableID] = true
		}
	}
	for _, d := range set {
		if d.Required && !done[d.ID] {
			return false
		}
	}
	return true
}

// CanSubmit is the formal submit guard: the submission must be in an
// editable state and every required deliverable must be complete. A
// submission with an empty snapshot set is never eligible.
func CanSubmit(s *models.SubmissionModel) bool {
	if s == nil || !editable(s.Status) {
		return false
	}
	if s.TotalDeliverables == 0 {
		return false
	}
	return AllRequiredComplete(s.DeliverableSet, s.Completions)
}
