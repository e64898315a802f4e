package client

import (
	"context"
	"strings"
)

// Dispatcher performs item mutations against the remote store and applies
// the result to the local snapshot immediately, without waiting for the
// change-notification round trip. The local snapshot is only touched after
// the remote write succeeds; a failed mutation leaves it unchanged.
type Dispatcher struct {
	remote  Remote
	session *Session
	syncer  *Syncer
}

func NewDispatcher(remote Remote, session *Session, syncer *Syncer) *Dispatcher {
	return &Dispatcher{remote: remote, session: session, syncer: syncer}
}

// AddItem creates an item in the house and appends the server-assigned
// record to the local snapshot.
func (d *Dispatcher) AddItem(ctx context.Context, houseID, name string, quantity int) (*Item, error) {
	if d.session.Current() == nil {
		return nil, ErrUnauthenticated
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	item, err := d.remote.AddItem(ctx, houseID, name, quantity)
	if err != nil {
		return nil, err
	}

	d.syncer.applyInsert(*item)
	return item, nil
}

// ToggleBought flips the item's bought state. Transitioning to bought sets
// bought_by to the acting user; transitioning back clears it.
func (d *Dispatcher) ToggleBought(ctx context.Context, itemID string) (*Item, error) {
	if d.session.Current() == nil {
		return nil, ErrUnauthenticated
	}

	item, err := d.remote.ToggleBought(ctx, itemID)
	if err != nil {
		return nil, err
	}

	d.syncer.applyUpdate(*item)
	return item, nil
}

// DeleteItem removes the item remotely and from the local snapshot.
func (d *Dispatcher) DeleteItem(ctx context.Context, itemID string) error {
	if d.session.Current() == nil {
		return ErrUnauthenticated
	}

	if err := d.remote.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	d.syncer.applyDelete(itemID)
	return nil
}
