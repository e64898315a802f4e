package model

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile holds the user-editable account data, one row per user.
type Profile struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Language      string    `json:"language"`
	Notifications bool      `json:"notifications"`
	Phone         *string   `json:"phone"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileStats aggregates a user's activity across all houses.
type ProfileStats struct {
	ItemsAdded   int `json:"items_added"`
	HousesJoined int `json:"houses_joined"`
	ItemsBought  int `json:"items_bought"`
}
