package store

import "testing"

func TestProfileDefaults(t *testing.T) {
	db := setupTestDB(t)
	ps := NewProfileStore(db)
	userID := createTestUser(t, db, "alice@example.com")

	p, err := ps.Create(userID, "Alice García")
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if p.FullName != "Alice García" {
		t.Errorf("full_name = %q, want %q", p.FullName, "Alice García")
	}
	if p.Language != "es" {
		t.Errorf("language = %q, want %q", p.Language, "es")
	}
	if p.Notifications {
		t.Error("notifications should default to off")
	}
	if p.Phone != nil {
		t.Errorf("phone = %q, want nil", *p.Phone)
	}
}

func TestProfileUpdate(t *testing.T) {
	db := setupTestDB(t)
	ps := NewProfileStore(db)
	userID := createTestUser(t, db, "alice@example.com")

	if _, err := ps.Create(userID, "Alice"); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	phone := "+34600111222"
	p, err := ps.Update(userID, "Alice García", "en", true, &phone)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if p.FullName != "Alice García" {
		t.Errorf("full_name = %q, want %q", p.FullName, "Alice García")
	}
	if p.Language != "en" {
		t.Errorf("language = %q, want %q", p.Language, "en")
	}
	if !p.Notifications {
		t.Error("notifications should be on")
	}
	if p.Phone == nil || *p.Phone != phone {
		t.Errorf("phone = %v, want %q", p.Phone, phone)
	}
}

func TestProfileStats(t *testing.T) {
	db := setupTestDB(t)
	ps := NewProfileStore(db)
	hs := NewHouseStore(db)
	is := NewItemStore(db)

	aliceID := createTestUser(t, db, "alice@example.com")
	bobID := createTestUser(t, db, "bob@example.com")

	house, _ := hs.Create("Casa Central")
	hs.AddMember(house.ID, aliceID)
	hs.AddMember(house.ID, bobID)

	milk, _ := is.Create(house.ID, "Milk", 1, aliceID)
	is.Create(house.ID, "Eggs", 2, aliceID)
	bread, _ := is.Create(house.ID, "Bread", 1, bobID)

	is.ToggleBought(milk.ID, aliceID)
	is.ToggleBought(bread.ID, aliceID)

	stats, err := ps.Stats(aliceID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ItemsAdded != 2 {
		t.Errorf("items_added = %d, want 2", stats.ItemsAdded)
	}
	if stats.HousesJoined != 1 {
		t.Errorf("houses_joined = %d, want 1", stats.HousesJoined)
	}
	if stats.ItemsBought != 2 {
		t.Errorf("items_bought = %d, want 2", stats.ItemsBought)
	}
}
