package client

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestCreateHouseInviteCodeFormat(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)
	ctx := context.Background()

	format := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		house, err := houses.Create(ctx, "House")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if !format.MatchString(house.InviteCode) {
			t.Errorf("invite code %q does not match format", house.InviteCode)
		}
		if seen[house.InviteCode] {
			t.Errorf("duplicate invite code %q", house.InviteCode)
		}
		seen[house.InviteCode] = true
	}
}

func TestCreateHouseValidation(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := houses.Create(ctx, "  "); !errors.As(err, &vErr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestCreateHouseAddsCreatorMembership(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)

	house, err := houses.Create(context.Background(), "House")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := remote.memberCount(house.ID); n != 1 {
		t.Errorf("member count = %d, want 1", n)
	}
}

func TestJoinHouseUnknownCode(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)

	_, err := houses.Join(context.Background(), "ZZZZZZ")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestJoinHouseCaseInsensitive(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)
	ctx := context.Background()

	created, err := houses.Create(ctx, "House")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A second user joins with the lowercased code
	if _, err := session.SignIn(ctx, "bob@example.com", "password123"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	joined, err := houses.Join(ctx, "  "+strings.ToLower(created.InviteCode)+" ")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != created.ID {
		t.Errorf("joined house %s, want %s", joined.ID, created.ID)
	}
	if n := remote.memberCount(created.ID); n != 2 {
		t.Errorf("member count = %d, want 2", n)
	}
}

func TestJoinHouseEmptyCode(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)

	var vErr *ValidationError
	if _, err := houses.Join(context.Background(), "   "); !errors.As(err, &vErr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestRejoinIsIdempotent(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)
	ctx := context.Background()

	house, err := houses.Create(ctx, "House")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := houses.Join(ctx, house.InviteCode); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if n := remote.memberCount(house.ID); n != 1 {
		t.Errorf("member count = %d after rejoin, want 1", n)
	}
}

func TestHouseActionsRequireActor(t *testing.T) {
	remote, session, _, _ := setupClient(t)
	houses := NewHouses(remote, session)
	ctx := context.Background()

	if err := session.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	if _, err := houses.Create(ctx, "House"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("create: got %v, want ErrUnauthenticated", err)
	}
	if _, err := houses.Join(ctx, "ABC123"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("join: got %v, want ErrUnauthenticated", err)
	}
}
