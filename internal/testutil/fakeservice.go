// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"todoctl/internal/apierr"
	"todoctl/internal/service"
)

// Token is the bearer token the fake hands out on sign-in and sign-up.
const Token = "fake-token"

// ChatCall records one Chat invocation.
type ChatCall struct {
	Message  string
	ThreadID string
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	user   service.User
	tasks  []service.Task
	nextID int64

	// Chat scripting: replies carry ChatResponse and ChatThreadID.
	ChatResponse string
	ChatThreadID string
	chatCalls    []ChatCall

	calls map[string]int

	// Error injection for testing
	SignInErr     error
	SignUpErr     error
	SignOutErr    error
	MeErr         error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	ToggleTaskErr error
	DeleteTaskErr error
	ChatErr       error
}

// NewFakeService creates a FakeService with a default signed-in user.
func NewFakeService() *FakeService {
	return &FakeService{
		user:         service.User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
		nextID:       1,
		ChatResponse: "Done",
		ChatThreadID: "t1",
		calls:        make(map[string]int),
	}
}

// SetUser replaces the fake's account.
func (f *FakeService) SetUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = u
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(title, description string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:          f.nextID,
		UserID:      f.user.ID,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   "2024-01-01T00:00:00Z",
		UpdatedAt:   "2024-01-01T00:00:00Z",
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// CallCount returns how many times the named method ran.
func (f *FakeService) CallCount(name string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[name]
}

// ChatCalls returns the recorded Chat invocations.
func (f *FakeService) ChatCalls() []ChatCall {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]ChatCall, len(f.chatCalls))
	copy(out, f.chatCalls)
	return out
}

func (f *FakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

// SignIn implements service.Service.
func (f *FakeService) SignIn(ctx context.Context, email, password string) (service.Credentials, error) {
	f.record("SignIn")
	if f.SignInErr != nil {
		return service.Credentials{}, f.SignInErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if email != f.user.Email {
		return service.Credentials{}, apierr.New(apierr.KindUnauthorized, "unauthorized")
	}
	return service.Credentials{User: f.user, Token: Token}, nil
}

// SignUp implements service.Service.
func (f *FakeService) SignUp(ctx context.Context, email, password, name string) (service.Credentials, error) {
	f.record("SignUp")
	if f.SignUpErr != nil {
		return service.Credentials{}, f.SignUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = service.User{ID: "u1", Email: email, Name: name}
	return service.Credentials{User: f.user, Token: Token}, nil
}

// SignOut implements service.Service.
func (f *FakeService) SignOut(ctx context.Context) error {
	f.record("SignOut")
	return f.SignOutErr
}

// Me implements service.Service.
func (f *FakeService) Me(ctx context.Context) (service.User, error) {
	f.record("Me")
	if f.MeErr != nil {
		return service.User{}, f.MeErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, userID string) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, userID, title, description string) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	return f.AddTask(title, description, false), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, userID string, taskID int64, patch service.TaskPatch) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != taskID {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = *patch.Description
		}
		if patch.Completed != nil {
			f.tasks[i].Completed = *patch.Completed
		}
		f.tasks[i].UpdatedAt = "2024-01-02T00:00:00Z"
		return f.tasks[i], nil
	}
	return service.Task{}, apierr.New(apierr.KindNotFound, "task not found")
}

// ToggleTask implements service.Service. The fake flips server-side, like
// the real backend.
func (f *FakeService) ToggleTask(ctx context.Context, userID string, taskID int64) (service.Task, error) {
	f.record("ToggleTask")
	if f.ToggleTaskErr != nil {
		return service.Task{}, f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Completed = !f.tasks[i].Completed
			f.tasks[i].UpdatedAt = "2024-01-02T00:00:00Z"
			return f.tasks[i], nil
		}
	}
	return service.Task{}, apierr.New(apierr.KindNotFound, "task not found")
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return apierr.New(apierr.KindNotFound, "task not found")
}

// Chat implements service.Service.
func (f *FakeService) Chat(ctx context.Context, userID, message, threadID string) (service.ChatReply, error) {
	f.record("Chat")
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, ChatCall{Message: message, ThreadID: threadID})
	n := len(f.chatCalls)
	f.mu.Unlock()
	if f.ChatErr != nil {
		return service.ChatReply{}, f.ChatErr
	}
	return service.ChatReply{
		Response:  f.ChatResponse,
		ThreadID:  f.ChatThreadID,
		MessageID: fmt.Sprintf("m%d", n),
	}, nil
}
