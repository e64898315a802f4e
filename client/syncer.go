package client

import (
	"context"
	"log/slog"
	"sync"
)

// Syncer maintains a client-local snapshot of one house's items, kept
// consistent with the remote collection. The initial snapshot comes from
// Load; after Subscribe, any change notification for the house triggers a
// full reload rather than a delta merge.
type Syncer struct {
	remote Remote
	logger *slog.Logger

	// loadMu serializes loads so that concurrent notifications cannot race
	// an older response past a newer one. The rendered state is always the
	// result of the most recently completed load.
	loadMu sync.Mutex

	mu       sync.Mutex
	houseID  string
	items    []Item
	loading  bool
	sub      Subscription
	onUpdate func([]Item)
}

func NewSyncer(remote Remote, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{remote: remote, logger: logger}
}

// OnUpdate registers a callback invoked with a copy of the snapshot after
// every change. Must be set before Load or Subscribe.
func (s *Syncer) OnUpdate(fn func([]Item)) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current item snapshot.
func (s *Syncer) Snapshot() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a load is in flight.
func (s *Syncer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Load fetches all items for the house, in insertion order, and replaces the
// snapshot wholesale. Transport errors are logged and leave the previous
// snapshot in place; no error surfaces to the caller and nothing retries.
func (s *Syncer) Load(ctx context.Context, houseID string) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	s.houseID = houseID
	s.loading = true
	s.mu.Unlock()

	items, err := s.remote.ListItems(ctx, houseID)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.logger.Error("load items", "error", err, "house_id", houseID)
		return
	}

	s.mu.Lock()
	s.loading = false
	s.items = items
	fn, out := s.pendingNotifyLocked()
	s.mu.Unlock()
	if fn != nil {
		fn(out)
	}
}

// Subscribe opens a change-notification channel for the house and reloads on
// every event, regardless of its payload. Any previous subscription is
// released first.
func (s *Syncer) Subscribe(ctx context.Context, houseID string) error {
	s.Unsubscribe()

	sub, err := s.remote.Subscribe(ctx, houseID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.houseID = houseID
	s.sub = sub
	s.mu.Unlock()

	go func() {
		for range sub.Events() {
			s.Load(ctx, houseID)
		}
	}()
	return nil
}

// Unsubscribe releases the change-notification channel. Call it when the
// owning view is torn down.
func (s *Syncer) Unsubscribe() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		if err := sub.Close(); err != nil {
			s.logger.Warn("close subscription", "error", err)
		}
	}
}

// applyInsert appends an item to the snapshot, or replaces it if an item
// with the same id is already present. Reloads after an already-applied
// insert converge to the same state.
func (s *Syncer) applyInsert(item Item) {
	s.mu.Lock()
	replaced := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append(s.items, item)
	}
	fn, out := s.pendingNotifyLocked()
	s.mu.Unlock()
	if fn != nil {
		fn(out)
	}
}

// applyUpdate replaces the matching item in place. An item missing from the
// snapshot is ignored.
func (s *Syncer) applyUpdate(item Item) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			found = true
			break
		}
	}
	var fn func([]Item)
	var out []Item
	if found {
		fn, out = s.pendingNotifyLocked()
	}
	s.mu.Unlock()
	if fn != nil {
		fn(out)
	}
}

// applyDelete removes the matching item from the snapshot.
func (s *Syncer) applyDelete(itemID string) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	var fn func([]Item)
	var out []Item
	if found {
		fn, out = s.pendingNotifyLocked()
	}
	s.mu.Unlock()
	if fn != nil {
		fn(out)
	}
}

// pendingNotifyLocked returns the update callback and a snapshot copy to
// hand it. The caller must hold s.mu and invoke the callback after
// releasing it.
func (s *Syncer) pendingNotifyLocked() (func([]Item), []Item) {
	if s.onUpdate == nil {
		return nil, nil
	}
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return s.onUpdate, out
}
