package client

import (
	"context"
	"strings"

	"github.com/shophouse/shophouse/internal/invite"
)

// Houses handles house creation and invite-code joins.
type Houses struct {
	remote  Remote
	session *Session
}

func NewHouses(remote Remote, session *Session) *Houses {
	return &Houses{remote: remote, session: session}
}

// Create makes a new house with a fresh invite code and a membership edge
// for the acting user. An invite-code collision surfaces as an error; a
// retry of the whole call draws a fresh code.
func (h *Houses) Create(ctx context.Context, name string) (*House, error) {
	if h.session.Current() == nil {
		return nil, ErrUnauthenticated
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	return h.remote.CreateHouse(ctx, name)
}

// Join adds the acting user to the house matching the invite code. Codes are
// matched case-insensitively; no match fails with ErrNotFound. Joining a
// house the user already belongs to succeeds and changes nothing.
func (h *Houses) Join(ctx context.Context, code string) (*House, error) {
	if h.session.Current() == nil {
		return nil, ErrUnauthenticated
	}

	code = invite.Normalize(code)
	if code == "" {
		return nil, &ValidationError{Field: "invite_code", Reason: "must not be empty"}
	}

	return h.remote.JoinHouse(ctx, code)
}

// List returns all houses the acting user belongs to.
func (h *Houses) List(ctx context.Context) ([]House, error) {
	if h.session.Current() == nil {
		return nil, ErrUnauthenticated
	}
	return h.remote.ListHouses(ctx)
}
