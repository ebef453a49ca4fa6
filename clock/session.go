/*
session.go - PIN authentication producing explicit sessions

PURPOSE:
  Validates a supplied PIN against a worker's profile or the deployment's
  administrator PIN and hands back a Session. The session is an explicit
  object passed to operations requiring authorization; nothing here is
  process-wide ambient login state.
*/
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Authenticator issues and tracks sessions. Tokens are opaque and live
// only in memory; restarting the process logs everyone out.
type Authenticator struct {
	Store    Store
	AdminPIN string

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewAuthenticator creates an authenticator. The admin PIN comes from
// deployment configuration, never from the store.
func NewAuthenticator(store Store, adminPIN string) *Authenticator {
	return &Authenticator{
		Store:    store,
		AdminPIN: adminPIN,
		sessions: make(map[string]*Session),
	}
}

// LoginAdmin validates the administrator PIN.
func (a *Authenticator) LoginAdmin(pin string) (*Session, error) {
	if a.AdminPIN == "" || pin != a.AdminPIN {
		return nil, ErrInvalidPIN
	}
	return a.issue(SessionAdmin, ""), nil
}

// LoginWorker validates a worker's PIN. An unknown worker fails the same
// way as a wrong PIN so login attempts cannot probe for valid ids.
func (a *Authenticator) LoginWorker(ctx context.Context, id WorkerID, pin string) (*Session, error) {
	w, err := a.Store.GetWorker(ctx, id)
	if err != nil || w.PIN != pin {
		return nil, ErrInvalidPIN
	}
	return a.issue(SessionWorker, id), nil
}

// Lookup resolves a session token.
func (a *Authenticator) Lookup(token string) (*Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Logout invalidates a session token. Unknown tokens are a no-op.
func (a *Authenticator) Logout(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}

func (a *Authenticator) issue(typ SessionType, id WorkerID) *Session {
	s := &Session{
		Token:    uuid.NewString(),
		Type:     typ,
		WorkerID: id,
		IssuedAt: time.Now(),
	}
	a.mu.Lock()
	a.sessions[s.Token] = s
	a.mu.Unlock()
	return s
}
