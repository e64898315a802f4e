package client

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestAddItemValidation(t *testing.T) {
	remote, session, _, dispatcher := setupClient(t)
	house := createHouse(t, remote, session)
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := dispatcher.AddItem(ctx, house.ID, "   ", 1); !errors.As(err, &vErr) {
		t.Errorf("empty name: got %v, want ValidationError", err)
	}
	if _, err := dispatcher.AddItem(ctx, house.ID, "Milk", 0); !errors.As(err, &vErr) {
		t.Errorf("zero quantity: got %v, want ValidationError", err)
	}
}

func TestAddItemRequiresActor(t *testing.T) {
	remote, session, _, dispatcher := setupClient(t)
	house := createHouse(t, remote, session)
	ctx := context.Background()

	if err := session.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	if _, err := dispatcher.AddItem(ctx, house.ID, "Milk", 1); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("got %v, want ErrUnauthenticated", err)
	}
}

func TestFailedAddLeavesSnapshotUnchanged(t *testing.T) {
	remote, session, syncer, dispatcher := setupClient(t)
	house := createHouse(t, remote, session)
	ctx := context.Background()

	if _, err := dispatcher.AddItem(ctx, house.ID, "Milk", 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	remote.mu.Lock()
	remote.failAddItem = true
	remote.mu.Unlock()

	_, err := dispatcher.AddItem(ctx, house.ID, "Eggs", 2)
	if err == nil {
		t.Fatal("expected error from rejected add")
	}
	var rErr *RemoteError
	if !errors.As(err, &rErr) {
		t.Errorf("got %T, want RemoteError", err)
	}

	if n := len(syncer.Snapshot()); n != 1 {
		t.Errorf("snapshot has %d items after failed add, want 1", n)
	}
}

func TestToggleBoughtInvolutive(t *testing.T) {
	remote, session, syncer, dispatcher := setupClient(t)
	house := createHouse(t, remote, session)
	ctx := context.Background()
	actorID := session.Current().UserID

	item, err := dispatcher.AddItem(ctx, house.ID, "Milk", 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	toggled, err := dispatcher.ToggleBought(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Bought {
		t.Error("expected bought=true after first toggle")
	}
	if toggled.BoughtBy == nil || *toggled.BoughtBy != actorID {
		t.Errorf("bought_by = %v, want %s", toggled.BoughtBy, actorID)
	}

	toggled, err = dispatcher.ToggleBought(ctx, item.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if toggled.Bought {
		t.Error("expected bought=false after second toggle")
	}
	if toggled.BoughtBy != nil {
		t.Errorf("bought_by = %v, want nil", *toggled.BoughtBy)
	}

	snapshot := syncer.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Bought || snapshot[0].BoughtBy != nil {
		t.Errorf("snapshot not updated in place: %+v", snapshot)
	}
}

func TestDeleteItemRemovesFromSnapshot(t *testing.T) {
	remote, session, syncer, dispatcher := setupClient(t)
	house := createHouse(t, remote, session)
	ctx := context.Background()

	item, err := dispatcher.AddItem(ctx, house.ID, "Milk", 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	keep, err := dispatcher.AddItem(ctx, house.ID, "Eggs", 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if err := dispatcher.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snapshot := syncer.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != keep.ID {
		t.Errorf("snapshot = %+v, want only %s", snapshot, keep.ID)
	}
}

// After any sequence of successful mutations, the optimistic snapshot must
// equal what a fresh load returns.
func TestMutationSequenceConvergesWithLoad(t *testing.T) {
	remote, session, syncer, dispatcher := setupClient(t)
	house := createHouse(t, remote, session)
	ctx := context.Background()

	milk, err := dispatcher.AddItem(ctx, house.ID, "Milk", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := dispatcher.AddItem(ctx, house.ID, "Eggs", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := dispatcher.ToggleBought(ctx, milk.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	bread, err := dispatcher.AddItem(ctx, house.ID, "Bread", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := dispatcher.DeleteItem(ctx, bread.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	optimistic := syncer.Snapshot()

	fresh, err := remote.ListItems(ctx, house.ID)
	if err != nil {
		t.Fatalf("fresh load: %v", err)
	}

	if !reflect.DeepEqual(optimistic, fresh) {
		t.Errorf("optimistic snapshot diverged from fresh load:\n%+v\n%+v", optimistic, fresh)
	}
}
