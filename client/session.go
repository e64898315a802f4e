package client

import (
	"context"
	"strings"
	"sync"
)

// Session holds the current authenticated identity and notifies listeners
// when it changes. It is safe for concurrent use.
type Session struct {
	remote Remote

	mu        sync.Mutex
	identity  *Identity
	listeners map[int]func(*Identity)
	nextID    int
}

func NewSession(remote Remote) *Session {
	return &Session{
		remote:    remote,
		listeners: make(map[int]func(*Identity)),
	}
}

// Current returns the signed-in identity, or nil.
func (s *Session) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// OnChange registers a listener invoked on every sign-in and sign-out. The
// returned function unregisters it.
func (s *Session) OnChange(fn func(*Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) set(identity *Identity) {
	s.mu.Lock()
	s.identity = identity
	fns := make([]func(*Identity), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

func (s *Session) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	identity, err := s.remote.SignUp(ctx, email, password, strings.TrimSpace(fullName))
	if err != nil {
		return nil, err
	}
	s.set(identity)
	return identity, nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &ValidationError{Field: "credentials", Reason: "email and password are required"}
	}

	identity, err := s.remote.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.set(identity)
	return identity, nil
}

func (s *Session) SignOut(ctx context.Context) error {
	err := s.remote.SignOut(ctx)
	// The local identity is cleared regardless: a failed remote sign-out
	// must not leave the client acting as the old user.
	s.set(nil)
	return err
}
