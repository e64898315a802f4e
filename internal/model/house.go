package model

import "time"

type House struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

type HouseMember struct {
	HouseID  string    `json:"house_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// HouseMemberDetail is a membership edge joined with the member's profile name.
type HouseMemberDetail struct {
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	JoinedAt time.Time `json:"joined_at"`
}
