// Package service defines the backend-agnostic interface for backend operations.
package service

import "time"

// User represents the authenticated account. Immutable from the client's
// perspective; fetched once per session validation.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Task represents a single task item. The server owns the canonical copy;
// the client holds a possibly-stale cache keyed by ID.
type Task struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskPatch carries partial fields for a task update.
// Nil fields are omitted from the request body.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message delivery states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// ChatReply is the backend's answer to a chat message.
type ChatReply struct {
	Response  string `json:"response"`
	ThreadID  string `json:"thread_id"`
	MessageID string `json:"message_id"`
}

// Credentials is the result of a successful sign-in or sign-up.
type Credentials struct {
	User  User
	Token string
}
