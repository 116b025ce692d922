// Package session owns the authentication token lifecycle.
package session

import (
	"context"

	log "github.com/sirupsen/logrus"

	"todoctl/internal/auth"
	"todoctl/internal/service"
)

// Manager validates and tears down the active session.
type Manager struct {
	svc    service.Service
	tokens *auth.Store
}

// NewManager creates a session manager over the given backend and token
// store.
func NewManager(svc service.Service, tokens *auth.Store) *Manager {
	return &Manager{svc: svc, tokens: tokens}
}

// GetSession returns the signed-in user, or nil when there is no valid
// session. Without a stored token it returns nil immediately, no network
// call. Probe failures of any kind (network error, 401) also yield nil;
// callers treat nil as "not authenticated".
func (m *Manager) GetSession(ctx context.Context) *service.User {
	if m.tokens.Token() == "" {
		return nil
	}

	user, err := m.svc.Me(ctx)
	if err != nil {
		log.WithError(err).Debug("session validation failed")
		return nil
	}
	return &user
}

// SignIn authenticates and returns the account. The transport persists the
// token; the manager only reports the outcome.
func (m *Manager) SignIn(ctx context.Context, email, password string) (service.User, error) {
	creds, err := m.svc.SignIn(ctx, email, password)
	if err != nil {
		return service.User{}, err
	}
	return creds.User, nil
}

// SignUp registers a new account and signs it in.
func (m *Manager) SignUp(ctx context.Context, email, password, name string) (service.User, error) {
	creds, err := m.svc.SignUp(ctx, email, password, name)
	if err != nil {
		return service.User{}, err
	}
	return creds.User, nil
}

// SignOut ends the session. The server call is best-effort: a failure is
// logged, never surfaced. Local token and cached user id are cleared
// unconditionally.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.svc.SignOut(ctx); err != nil {
		log.WithError(err).Warn("signout request failed")
	}
	if err := m.tokens.ClearToken(); err != nil {
		log.WithError(err).Warn("failed to clear token")
	}
	if err := m.tokens.ClearUserID(); err != nil {
		log.WithError(err).Warn("failed to clear cached user id")
	}
}

// UserID resolves the account id for API paths: the cached id when present,
// otherwise a "who am I" probe whose result is cached for later runs.
func (m *Manager) UserID(ctx context.Context) (string, error) {
	if id := m.tokens.UserID(); id != "" {
		return id, nil
	}
	user, err := m.svc.Me(ctx)
	if err != nil {
		return "", err
	}
	if err := m.tokens.SaveUserID(user.ID); err != nil {
		log.WithError(err).Warn("failed to cache user id")
	}
	return user.ID, nil
}
