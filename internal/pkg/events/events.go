package events

// Workflow event names emitted by the engine on state transitions. The
// gateway fans these out to connected dashboards; the storage layer is not
// involved.
const (
	StyleBoxPublished   = "stylebox_published"
	StyleBoxVersioned   = "stylebox_versioned"
	StyleBoxArchived    = "stylebox_archived"
	SubmissionCreated   = "submission_created"
	SubmissionProgress  = "submission_progress"
	SubmissionSubmitted = "submission_submitted"
	SubmissionReviewed  = "submission_reviewed"
)

// Publisher is the event bus surface the workflow services emit to.
// The gateway hub implements it; tests use Nop or a recorder.
type Publisher interface {
	BroadcastAdmin(event string, payload interface{})
	BroadcastPublic(event string, payload interface{})
	// BroadcastStyleBox targets only the clients subscribed to one box.
	BroadcastStyleBox(boxID, event string, payload interface{})
}

// Nop discards all events.
type Nop struct{}

func (Nop) BroadcastAdmin(string, interface{})            {}
func (Nop) BroadcastPublic(string, interface{})           {}
func (Nop) BroadcastStyleBox(string, string, interface{}) {}
