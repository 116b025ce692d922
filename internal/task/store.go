// Package task holds the client-side task collection for the active user.
//
// The store is an ordered, in-memory cache keyed by task id. The server is
// the source of truth: every mutation commits only after a confirmed server
// response, adopting the server's returned representation wholesale. There
// is no optimistic local flip and therefore nothing to roll back.
package task

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"todoctl/internal/apierr"
	"todoctl/internal/service"
)

// Title and description limits, enforced client-side before any network
// call.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// ErrNotConfirmed is returned by Delete when the caller has not confirmed
// the deletion. No network call is made.
var ErrNotConfirmed = apierr.New(apierr.KindValidation, "delete not confirmed")

// Store is the client-side task collection.
type Store struct {
	svc service.Service

	mu      sync.Mutex
	tasks   []service.Task
	pending map[string]bool

	// flights collapses duplicate in-flight mutations on the same
	// operation key, so toggling one task twice quickly issues one call.
	flights singleflight.Group
}

// NewStore creates an empty store over the given backend.
func NewStore(svc service.Service) *Store {
	return &Store{
		svc:     svc,
		pending: make(map[string]bool),
	}
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Pending reports whether the operation key has an in-flight mutation.
func (s *Store) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[key]
}

// setPending flips an operation's pending flag.
func (s *Store) setPending(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.pending[key] = true
	} else {
		delete(s.pending, key)
	}
}

// Refresh replaces the collection with the server's task list.
func (s *Store) Refresh(ctx context.Context, userID string) ([]service.Task, error) {
	tasks, err := s.svc.ListTasks(ctx, userID)
	if err != nil {
		log.WithError(err).Debug("task refresh failed")
		return nil, err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return s.Tasks(), nil
}

// Create validates the fields, creates the task on the server, and prepends
// the result so the newest task displays first. Most-recent-first ordering
// is a client display policy, not a server guarantee.
func (s *Store) Create(ctx context.Context, userID, title, description string) (service.Task, error) {
	if err := validateFields(title, description); err != nil {
		return service.Task{}, err
	}

	const key = "add-task"
	s.setPending(key, true)
	defer s.setPending(key, false)

	created, err := s.svc.CreateTask(ctx, userID, strings.TrimSpace(title), description)
	if err != nil {
		log.WithError(err).Debug("create task failed")
		return service.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append([]service.Task{created}, s.tasks...)
	s.mu.Unlock()
	return created, nil
}

// Update sends partial fields and replaces the matching entry in place,
// preserving its position in the collection.
func (s *Store) Update(ctx context.Context, userID string, taskID int64, patch service.TaskPatch) (service.Task, error) {
	if patch.Title != nil || patch.Description != nil {
		title := "x"
		if patch.Title != nil {
			title = *patch.Title
		}
		desc := ""
		if patch.Description != nil {
			desc = *patch.Description
		}
		if err := validateFields(title, desc); err != nil {
			return service.Task{}, err
		}
	}

	key := opKey("update", taskID)
	s.setPending(key, true)
	defer s.setPending(key, false)

	updated, err := s.svc.UpdateTask(ctx, userID, taskID, patch)
	if err != nil {
		log.WithError(err).Debug("update task failed")
		return service.Task{}, err
	}

	s.replace(updated)
	return updated, nil
}

// Toggle flips the completion state. The server computes and returns the
// new value; adopting it instead of negating locally avoids a double-flip
// race when the same task is toggled twice quickly. Duplicate concurrent
// toggles of one task share a single backend call.
func (s *Store) Toggle(ctx context.Context, userID string, taskID int64) (service.Task, error) {
	key := opKey("toggle", taskID)
	s.setPending(key, true)
	defer s.setPending(key, false)

	v, err, _ := s.flights.Do(key, func() (any, error) {
		return s.svc.ToggleTask(ctx, userID, taskID)
	})
	if err != nil {
		log.WithError(err).Debug("toggle task failed")
		return service.Task{}, err
	}

	toggled := v.(service.Task)
	s.replace(toggled)
	return toggled, nil
}

// Delete removes the task on the server and drops exactly the matching
// entry, leaving the relative order of the rest unchanged. confirmed must
// be true; deletion always requires an explicit user confirmation step.
func (s *Store) Delete(ctx context.Context, userID string, taskID int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	key := opKey("delete", taskID)
	s.setPending(key, true)
	defer s.setPending(key, false)

	if err := s.svc.DeleteTask(ctx, userID, taskID); err != nil {
		log.WithError(err).Debug("delete task failed")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// replace swaps the entry matching the task's id for the server's
// representation. Tasks not present in the collection are ignored; the next
// refresh will pick them up.
func (s *Store) replace(task service.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
}

// opKey builds the pending-map key for a task-scoped mutation.
func opKey(verb string, taskID int64) string {
	return fmt.Sprintf("%s-%d", verb, taskID)
}

// validateFields enforces the title and description limits.
func validateFields(title, description string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < 1 || n > MaxTitleLen {
		return apierr.Newf(apierr.KindValidation, "title must be between 1 and %d characters", MaxTitleLen)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return apierr.Newf(apierr.KindValidation, "description must be at most %d characters", MaxDescriptionLen)
	}
	return nil
}
