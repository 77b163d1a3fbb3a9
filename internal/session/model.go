// Package session persists per-user conversation state: message
// history, profile fields and the last visit timestamp.
package session

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one utterance in a user's conversation history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the durable state for one user. LastVisit is nil until
// the user completes a first turn.
type Session struct {
	UserID    string            `json:"user_id"`
	LastVisit *time.Time        `json:"last_visit,omitempty"`
	Profile   map[string]string `json:"profile"`
}
