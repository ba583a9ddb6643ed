package submission

import (
	"testing"

	"github.com/stylebox-hq/core/internal/models"
	"github.com/stylebox-hq/core/internal/pkg/events"
)

// recordingBus captures the last per-box broadcast.
type recordingBus struct {
	events.Nop
	boxID   string
	event   string
	payload map[string]interface{}
}

func (r *recordingBus) BroadcastStyleBox(boxID, event string, payload interface{}) {
	r.boxID = boxID
	r.event = event
	r.payload, _ = payload.(map[string]interface{})
}

func TestProgressEventTargetsBoxRoom(t *testing.T) {
	bus := &recordingBus{}
	svc := &Service{bus: bus}

	sub := &models.SubmissionModel{
		StyleBoxID:        "box-9",
		DesignerID:        "designer-1",
		Status:            models.SubmissionDraft,
		CompletedCount:    2,
		TotalDeliverables: 5,
		Progress:          40,
	}
	svc.publishProgress(sub)

	if bus.boxID != "box-9" {
		t.Fatalf("event went to room %q, want box-9", bus.boxID)
	}
	if bus.event != events.SubmissionProgress {
		t.Fatalf("event = %q, want %q", bus.event, events.SubmissionProgress)
	}
	if bus.payload == nil {
		t.Fatal("payload should be the progress map")
	}
	if got := bus.payload["progress_percentage"]; got != 40 {
		t.Errorf("progress_percentage = %v, want 40", got)
	}
	if got := bus.payload["completed_deliverables"]; got != 2 {
		t.Errorf("completed_deliverables = %v, want 2", got)
	}
	if _, leaked := bus.payload["completions"]; leaked {
		t.Error("payload must not carry per-deliverable detail")
	}
}
