package model

import "time"

// Item is a single shopping-list entry. It is owned collectively by the
// members of HouseID; any member may mutate any item.
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
