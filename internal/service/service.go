// Package service defines the backend-agnostic interface for backend operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All HTTP calls go through this interface.
// Commands and stores never speak HTTP directly.
type Service interface {
	// SignIn authenticates with email and password.
	// The transport persists the returned token as a side effect.
	SignIn(ctx context.Context, email, password string) (Credentials, error)

	// SignUp registers a new account. Same token side effect as SignIn.
	SignUp(ctx context.Context, email, password, name string) (Credentials, error)

	// SignOut invalidates the server-side session.
	SignOut(ctx context.Context) error

	// Me validates the stored token and returns the account it belongs to.
	Me(ctx context.Context) (User, error)

	// ListTasks returns the user's tasks in server order.
	ListTasks(ctx context.Context, userID string) ([]Task, error)

	// CreateTask creates a task and returns the server's representation.
	CreateTask(ctx context.Context, userID, title, description string) (Task, error)

	// UpdateTask sends partial fields and returns the updated task.
	UpdateTask(ctx context.Context, userID string, taskID int64, patch TaskPatch) (Task, error)

	// ToggleTask flips the completion state server-side and returns the
	// resulting task. The client never computes the new state locally.
	ToggleTask(ctx context.Context, userID string, taskID int64) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, userID string, taskID int64) error

	// Chat sends a message to the assistant. threadID is empty for the
	// first message of a conversation; the reply establishes it.
	Chat(ctx context.Context, userID, message, threadID string) (ChatReply, error)
}
