// Package client is the application-side half of the shared shopping list:
// it maintains a local snapshot of one house's items, keeps it consistent
// with the remote store through change notifications, and applies optimistic
// updates after successful mutations.
package client

import (
	"context"
	"time"
)

// Identity is the authenticated user as the remote store knows them.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// House is a shared shopping-list context.
type House struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// Item is a single shopping-list entry.
type Item struct {
	ID        string    `json:"id"`
	HouseID   string    `json:"house_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	AddedBy   string    `json:"added_by"`
	Bought    bool      `json:"bought"`
	BoughtBy  *string   `json:"bought_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a change notification for a watched house. The payload carries the
// entity and action tags, but consumers reload wholesale rather than applying
// the delta.
type Event struct {
	Entity  string
	Action  string
	HouseID string
	ID      string
}

// Subscription is a live change-notification channel for one house.
type Subscription interface {
	// Events yields notifications until the subscription is closed. The
	// channel is closed on teardown or transport failure.
	Events() <-chan Event

	// Close releases the channel. Notifications arriving afterwards are
	// dropped, not buffered.
	Close() error
}

// Remote is the backend the client synchronizes against. Implementations
// must return ErrUnauthenticated for rejected credentials or missing
// sessions, ErrNotFound for lookups that match nothing, and wrap other
// failures in RemoteError.
type Remote interface {
	SignUp(ctx context.Context, email, password, fullName string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error

	CreateHouse(ctx context.Context, name string) (*House, error)
	JoinHouse(ctx context.Context, inviteCode string) (*House, error)
	ListHouses(ctx context.Context) ([]House, error)

	ListItems(ctx context.Context, houseID string) ([]Item, error)
	AddItem(ctx context.Context, houseID, name string, quantity int) (*Item, error)
	ToggleBought(ctx context.Context, itemID string) (*Item, error)
	DeleteItem(ctx context.Context, itemID string) error

	Subscribe(ctx context.Context, houseID string) (Subscription, error)
}
