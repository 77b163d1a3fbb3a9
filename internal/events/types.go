package events

import "time"

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamDialog = "LIFECLOVER_DIALOG"
	StreamEvents = "LIFECLOVER_EVENTS"
)

// Subject constants.
const (
	SubjectDialogRequest = "lifeclover.dialog.request"
	SubjectDialogReply   = "lifeclover.dialog.reply"
	SubjectProfileUpdate = "lifeclover.dialog.profile"
	SubjectTurnEvent     = "lifeclover.events.turn"
)

// DialogRequest asks the engine to run one dialogue turn. Mode is
// free-form; anything but "info" is served by the companion.
type DialogRequest struct {
	ID         string    `json:"id" validate:"required"`
	UserID     string    `json:"user_id" validate:"required,max=128"`
	Text       string    `json:"text" validate:"required"`
	Mode       string    `json:"mode"`
	ReceivedAt time.Time `json:"received_at"`
}

// DialogReply carries the engine's reply for one processed request.
type DialogReply struct {
	RequestID string    `json:"request_id"`
	UserID    string    `json:"user_id"`
	Reply     string    `json:"reply"`
	RepliedAt time.Time `json:"replied_at"`
}

// ProfileUpdate merges checklist answers into a user's profile.
type ProfileUpdate struct {
	UserID  string            `json:"user_id" validate:"required,max=128"`
	Profile map[string]string `json:"profile" validate:"required,min=1"`
}

// TurnEvent records one completed dialogue turn for downstream
// consumers (analytics, caregiver dashboards).
type TurnEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Mode        string    `json:"mode"`
	Reply       string    `json:"reply"`
	ModelCalls  int       `json:"model_calls"`
	CompletedAt time.Time `json:"completed_at"`
}
