package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shophouse/shophouse/internal/invite"
)

// fakeRemote is an in-memory Remote used across the package tests. Error
// injection via the fail* flags simulates remote rejections.
type fakeRemote struct {
	mu      sync.Mutex
	nextID  int
	houses  map[string]*House
	byCode  map[string]string
	members map[string]map[string]bool
	items   map[string][]Item
	subs    []*fakeSub

	identity *Identity

	failAddItem   bool
	failListItems bool
	failSubscribe bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		houses:  make(map[string]*House),
		byCode:  make(map[string]string),
		members: make(map[string]map[string]bool),
		items:   make(map[string][]Item),
	}
}

func (f *fakeRemote) genID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeRemote) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := &Identity{UserID: f.genID("user"), Email: email, Token: f.genID("token")}
	f.identity = id
	return id, nil
}

func (f *fakeRemote) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if password == "wrong" {
		return nil, ErrUnauthenticated
	}
	id := &Identity{UserID: f.genID("user"), Email: email, Token: f.genID("token")}
	f.identity = id
	return id, nil
}

func (f *fakeRemote) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = nil
	return nil
}

func (f *fakeRemote) CreateHouse(ctx context.Context, name string) (*House, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	code, err := invite.NewCode()
	if err != nil {
		return nil, err
	}
	if _, taken := f.byCode[code]; taken {
		return nil, &RemoteError{Op: "create house", Err: fmt.Errorf("invite code collision")}
	}

	house := &House{ID: f.genID("house"), Name: name, InviteCode: code, CreatedAt: time.Now()}
	f.houses[house.ID] = house
	f.byCode[code] = house.ID
	f.addMemberLocked(house.ID)
	return house, nil
}

func (f *fakeRemote) JoinHouse(ctx context.Context, inviteCode string) (*House, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	houseID, ok := f.byCode[invite.Normalize(inviteCode)]
	if !ok {
		return nil, ErrNotFound
	}
	f.addMemberLocked(houseID)
	return f.houses[houseID], nil
}

func (f *fakeRemote) addMemberLocked(houseID string) {
	if f.members[houseID] == nil {
		f.members[houseID] = make(map[string]bool)
	}
	if f.identity != nil {
		f.members[houseID][f.identity.UserID] = true
	}
}

func (f *fakeRemote) memberCount(houseID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members[houseID])
}

func (f *fakeRemote) ListHouses(ctx context.Context) ([]House, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []House
	for id, members := range f.members {
		if f.identity != nil && members[f.identity.UserID] {
			out = append(out, *f.houses[id])
		}
	}
	return out, nil
}

func (f *fakeRemote) ListItems(ctx context.Context, houseID string) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListItems {
		return nil, &RemoteError{Op: "list items", Err: fmt.Errorf("network down")}
	}
	out := make([]Item, len(f.items[houseID]))
	copy(out, f.items[houseID])
	return out, nil
}

func (f *fakeRemote) AddItem(ctx context.Context, houseID, name string, quantity int) (*Item, error) {
	f.mu.Lock()
	if f.failAddItem {
		f.mu.Unlock()
		return nil, &RemoteError{Op: "add item", Err: fmt.Errorf("constraint violation")}
	}

	now := time.Now()
	item := Item{
		ID:        f.genID("item"),
		HouseID:   houseID,
		Name:      name,
		Quantity:  quantity,
		AddedBy:   f.actorLocked(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.items[houseID] = append(f.items[houseID], item)
	f.mu.Unlock()

	f.notify(Event{Entity: "item", Action: "insert", HouseID: houseID, ID: item.ID})
	return &item, nil
}

func (f *fakeRemote) ToggleBought(ctx context.Context, itemID string) (*Item, error) {
	f.mu.Lock()
	var toggled *Item
	var houseID string
	for hid, items := range f.items {
		for i := range items {
			if items[i].ID == itemID {
				if items[i].Bought {
					items[i].Bought = false
					items[i].BoughtBy = nil
				} else {
					actor := f.actorLocked()
					items[i].Bought = true
					items[i].BoughtBy = &actor
				}
				items[i].UpdatedAt = time.Now()
				cp := items[i]
				toggled = &cp
				houseID = hid
			}
		}
	}
	f.mu.Unlock()

	if toggled == nil {
		return nil, ErrNotFound
	}
	f.notify(Event{Entity: "item", Action: "update", HouseID: houseID, ID: itemID})
	return toggled, nil
}

func (f *fakeRemote) DeleteItem(ctx context.Context, itemID string) error {
	f.mu.Lock()
	var houseID string
	for hid, items := range f.items {
		for i := range items {
			if items[i].ID == itemID {
				f.items[hid] = append(items[:i], items[i+1:]...)
				houseID = hid
				break
			}
		}
	}
	f.mu.Unlock()

	if houseID == "" {
		return ErrNotFound
	}
	f.notify(Event{Entity: "item", Action: "delete", HouseID: houseID, ID: itemID})
	return nil
}

func (f *fakeRemote) actorLocked() string {
	if f.identity == nil {
		return ""
	}
	return f.identity.UserID
}

func (f *fakeRemote) Subscribe(ctx context.Context, houseID string) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSubscribe {
		return nil, &RemoteError{Op: "subscribe", Err: fmt.Errorf("dial failed")}
	}
	sub := &fakeSub{houseID: houseID, events: make(chan Event, 16)}
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeRemote) notify(ev Event) {
	f.mu.Lock()
	subs := make([]*fakeSub, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(ev)
	}
}

type fakeSub struct {
	houseID string
	mu      sync.Mutex
	closed  bool
	events  chan Event
}

func (s *fakeSub) deliver(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || ev.HouseID != s.houseID {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}

func (s *fakeSub) Events() <-chan Event {
	return s.events
}

func (s *fakeSub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}
