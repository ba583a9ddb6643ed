package submission

import (
	"testing"

	"github.com/stylebox-hq/core/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.SubmissionStatus }{
		{models.SubmissionDraft, models.SubmissionSubmitted},
		{models.SubmissionSubmitted, models.SubmissionUnderReview},
		{models.SubmissionSubmitted, models.SubmissionApproved},
		{models.SubmissionSubmitted, models.SubmissionRejected},
		{models.SubmissionSubmitted, models.SubmissionRevisionRequested},
		{models.SubmissionUnderReview, models.SubmissionApproved},
		{models.SubmissionUnderReview, models.SubmissionRejected},
		{models.SubmissionUnderReview, models.SubmissionRevisionRequested},
		{models.SubmissionRevisionRequested, models.SubmissionSubmitted},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to models.SubmissionStatus }{
		{models.SubmissionDraft, models.SubmissionApproved},
		{models.SubmissionDraft, models.SubmissionUnderReview},
		{models.SubmissionApproved, models.SubmissionSubmitted},
		{models.SubmissionApproved, models.SubmissionRejected},
		{models.SubmissionRejected, models.SubmissionSubmitted},
		{models.SubmissionUnderReview, models.SubmissionSubmitted},
		{models.SubmissionRevisionRequested, models.SubmissionApproved},
		{models.SubmissionSubmitted, models.SubmissionDraft},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesHaveNoEdges(t *testing.T) {
	all := []models.SubmissionStatus{
		models.SubmissionDraft,
		models.SubmissionSubmitted,
		models.SubmissionUnderReview,
		models.SubmissionApproved,
		models.SubmissionRejected,
		models.SubmissionRevisionRequested,
	}
	for _, to := range all {
		if CanTransition(models.SubmissionApproved, to) {
			t.Errorf("approved must be terminal, found edge to %s", to)
		}
		if CanTransition(models.SubmissionRejected, to) {
			t.Errorf("rejected must be terminal, found edge to %s", to)
		}
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, -1, 0},
		{0, 4, 0},
		{1, 4, 25},
		{2, 4, 50},
		{4, 4, 100},
		{1, 3, 33},
		{2, 3, 67},
		{5, 4, 100}, // clamped
		{-1, 4, 0},  // clamped
	}
	for _, tc := range cases {
		if got := Progress(tc.completed, tc.total); got != tc.want {
			t.Errorf("Progress(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestAllRequiredComplete(t *testing.T) {
	set := []models.Deliverable{
		{ID: "a", Name: "Concept Sketch", Required: true},
		{ID: "b", Name: "Technical Flat", Required: true},
		{ID: "c", Name: "Process Journal", Required: false},
	}

	if AllRequiredComplete(set, nil) {
		t.Fatal("no completions should not satisfy required deliverables")
	}

	partial := []models.DeliverableCompletion{
		{DeliverableID: "a", Completed: true},
	}
	if AllRequiredComplete(set, partial) {
		t.Fatal("one of two required complete should not pass")
	}

	full := []models.DeliverableCompletion{
		{DeliverableID: "a", Completed: true},
		{DeliverableID: "b", Completed: true},
	}
	if !AllRequiredComplete(set, full) {
		t.Fatal("all required complete should pass even with optional missing")
	}

	unchecked := []models.DeliverableCompletion{
		{DeliverableID: "a", Completed: true},
		{DeliverableID: "b", Completed: false},
	}
	if AllRequiredComplete(set, unchecked) {
		t.Fatal("a completion row with completed=false must not count")
	}
}

func TestAllRequiredCompleteNoRequired(t *testing.T) {
	set := []models.Deliverable{
		{ID: "c", Name: "Process Journal", Required: false},
	}
	if !AllRequiredComplete(set, nil) {
		t.Fatal("a set with no required deliverables is trivially complete")
	}
}

func TestCanSubmit(t *testing.T) {
	set := []models.Deliverable{{ID: "a", Required: true}}
	done := []models.DeliverableCompletion{{DeliverableID: "a", Completed: true}}

	if CanSubmit(nil) {
		t.Fatal("nil submission must not be submittable")
	}

	s := &models.SubmissionModel{
		Status:            models.SubmissionDraft,
		DeliverableSet:    set,
		Completions:       done,
		TotalDeliverables: 1,
	}
	if !CanSubmit(s) {
		t.Fatal("complete draft should be submittable")
	}

	s.Status = models.SubmissionRevisionRequested
	if !CanSubmit(s) {
		t.Fatal("revision_requested is editable and should be submittable")
	}

	s.Status = models.SubmissionSubmitted
	if CanSubmit(s) {
		t.Fatal("already submitted attempt must not submit again")
	}

	s.Status = models.SubmissionDraft
	s.Completions = nil
	if CanSubmit(s) {
		t.Fatal("incomplete required deliverables must block submit")
	}

	empty := &models.SubmissionModel{Status: models.SubmissionDraft}
	if CanSubmit(empty) {
		t.Fatal("a submission with zero deliverables can never be submitted")
	}
}
