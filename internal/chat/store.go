// Package chat persists the assistant conversation across client runs.
//
// The transcript and backend thread id live in a single JSON file under the
// config directory. Every mutation writes through synchronously; that file
// is the only durability the chat history gets.
package chat

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"todoctl/internal/service"
)

// errorReply is appended in place of an assistant reply when the send
// fails. Chat degrades gracefully; it never blocks further input.
const errorReply = "Sorry, I encountered an error. Please try again."

// sessionState is the on-disk schema.
type sessionState struct {
	ThreadID string                `json:"thread_id,omitempty"`
	Messages []service.ChatMessage `json:"messages"`
}

// Store is the chat session store.
type Store struct {
	svc  service.Service
	path string

	mu       sync.Mutex
	messages []service.ChatMessage
	threadID string
}

// NewStore creates a store hydrated from the session file at path. A
// missing or unparseable file yields an empty transcript, never an error.
func NewStore(svc service.Service, path string) *Store {
	s := &Store{svc: svc, path: path}
	s.hydrate()
	return s
}

// hydrate loads the persisted transcript and thread id.
func (s *Store) hydrate() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		log.WithError(err).Warn("failed to parse chat history, starting empty")
		return
	}
	s.messages = state.Messages
	s.threadID = state.ThreadID
}

// save writes the current state through to disk. Failures are logged, not
// surfaced; a send must not fail because the transcript couldn't be saved.
func (s *Store) save() {
	state := sessionState{ThreadID: s.threadID, Messages: s.messages}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.WithError(err).Warn("failed to encode chat history")
		return
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		log.WithError(err).Warn("failed to save chat history")
	}
}

// Messages returns a copy of the transcript in order.
func (s *Store) Messages() []service.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// ThreadID returns the backend conversation id, or "" before the first
// successful exchange.
func (s *Store) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// Send appends the user's message, forwards it to the assistant, and
// appends the reply. The user message is recorded immediately (there is no
// server echo to wait for) and tagged pending until the exchange resolves.
// On failure the user message is tagged failed and a synthetic assistant
// message takes the reply's place; the returned message is what the caller
// should display either way.
func (s *Store) Send(ctx context.Context, userID, text string) service.ChatMessage {
	userMsg := service.ChatMessage{
		ID:        uuid.NewString(),
		Role:      service.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
		Status:    service.StatusPending,
	}

	s.mu.Lock()
	s.messages = append(s.messages, userMsg)
	threadID := s.threadID
	s.save()
	s.mu.Unlock()

	reply, err := s.svc.Chat(ctx, userID, text, threadID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		log.WithError(err).Warn("chat send failed")
		s.setStatus(userMsg.ID, service.StatusFailed)
		assistantMsg := service.ChatMessage{
			ID:        uuid.NewString(),
			Role:      service.RoleAssistant,
			Content:   errorReply,
			Timestamp: time.Now(),
			Status:    service.StatusFailed,
		}
		s.messages = append(s.messages, assistantMsg)
		s.save()
		return assistantMsg
	}

	s.setStatus(userMsg.ID, service.StatusConfirmed)

	// The first reply establishes the thread; later replies should carry
	// the same id. Continuity is server-controlled, so an id change is
	// adopted, not rejected.
	if reply.ThreadID != "" {
		if s.threadID != "" && s.threadID != reply.ThreadID {
			log.WithFields(log.Fields{"old": s.threadID, "new": reply.ThreadID}).
				Debug("server changed thread id mid-conversation")
		}
		s.threadID = reply.ThreadID
	}

	assistantMsg := service.ChatMessage{
		ID:        reply.MessageID,
		Role:      service.RoleAssistant,
		Content:   reply.Response,
		Timestamp: time.Now(),
		Status:    service.StatusConfirmed,
	}
	if assistantMsg.ID == "" {
		assistantMsg.ID = uuid.NewString()
	}
	s.messages = append(s.messages, assistantMsg)
	s.save()
	return assistantMsg
}

// setStatus updates a message's delivery state in place. Caller holds the
// lock.
func (s *Store) setStatus(id, status string) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = status
			return
		}
	}
}

// Reset discards the transcript and thread id, on disk and in memory.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.threadID = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
