package review

import (
	"testing"

	"github.com/stylebox-hq/core/internal/models"
)

func TestCanDecide(t *testing.T) {
	decisions := []models.SubmissionStatus{
		models.SubmissionApproved,
		models.SubmissionRejected,
		models.SubmissionRevisionRequested,
	}
	for _, d := range decisions {
		if !CanDecide(models.SubmissionSubmitted, d) {
			t.Errorf("submitted -> %s should be decidable", d)
		}
		if !CanDecide(models.SubmissionUnderReview, d) {
			t.Errorf("under_review -> %s should be decidable", d)
		}
		if CanDecide(models.SubmissionDraft, d) {
			t.Errorf("draft -> %s must not be decidable", d)
		}
		if CanDecide(models.SubmissionApproved, d) {
			t.Errorf("approved is terminal, -> %s must not be decidable", d)
		}
		if CanDecide(models.SubmissionRejected, d) {
			t.Errorf("rejected is terminal, -> %s must not be decidable", d)
		}
	}

	// Lifecycle moves that are not review outcomes.
	if CanDecide(models.SubmissionSubmitted, models.SubmissionUnderReview) {
		t.Error("picking up a review is StartReview, not a decision")
	}
	if CanDecide(models.SubmissionRevisionRequested, models.SubmissionSubmitted) {
		t.Error("resubmission belongs to the designer, not the reviewer")
	}
}

func TestRaceLossErr(t *testing.T) {
	// Losing the claim to another admin is a retryable conflict.
	claimed := &models.SubmissionModel{Status: models.SubmissionUnderReview}
	if err := raceLossErr(claimed, models.SubmissionUnderReview); err != ErrStale {
		t.Fatalf("lost claim race should report ErrStale, got %v", err)
	}

	// A row the guard can never match again is not reviewable at all.
	done := &models.SubmissionModel{Status: models.SubmissionApproved}
	if err := raceLossErr(done, reviewableStates...); err != ErrNotReviewable {
		t.Fatalf("terminal row should report ErrNotReviewable, got %v", err)
	}
	if err := raceLossErr(nil, reviewableStates...); err != ErrNotReviewable {
		t.Fatalf("missing row should report ErrNotReviewable, got %v", err)
	}
}
