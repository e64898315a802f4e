package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shophouse/shophouse/internal/invite"
	"github.com/shophouse/shophouse/internal/model"
)

type HouseStore struct {
	db *sql.DB
}

func NewHouseStore(db *sql.DB) *HouseStore {
	return &HouseStore{db: db}
}

func scanHouse(scanner interface{ Scan(...any) error }) (*model.House, error) {
	var h model.House
	err := scanner.Scan(&h.ID, &h.Name, &h.InviteCode, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func scanHouseMember(scanner interface{ Scan(...any) error }) (*model.HouseMember, error) {
	var m model.HouseMember
	err := scanner.Scan(&m.HouseID, &m.UserID, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const houseCols = `id, name, invite_code, created_at`
const houseMemberCols = `house_id, user_id, joined_at`

// Create inserts a house with a fresh invite code. The code's uniqueness is
// enforced by the schema; a collision fails the insert and the caller retries
// the whole flow with a new code.
func (s *HouseStore) Create(name string) (*model.House, error) {
	code, err := invite.NewCode()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO houses (id, name, invite_code) VALUES (?, ?, ?)`,
		id, name, code,
	)
	if err != nil {
		return nil, fmt.Errorf("insert house: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseStore) GetByID(id string) (*model.House, error) {
	row := s.db.QueryRow(`SELECT `+houseCols+` FROM houses WHERE id = ?`, id)
	h, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house: %w", err)
	}
	return h, nil
}

// GetByInviteCode looks up a house by its normalized invite code.
func (s *HouseStore) GetByInviteCode(code string) (*model.House, error) {
	row := s.db.QueryRow(
		`SELECT `+houseCols+` FROM houses WHERE invite_code = ?`,
		invite.Normalize(code),
	)
	h, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house by invite code: %w", err)
	}
	return h, nil
}

// AddMember inserts the membership edge. Rejoining an already-joined house is
// a no-op; the existing edge is returned either way.
func (s *HouseStore) AddMember(houseID, userID string) (*model.HouseMember, error) {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO house_members (house_id, user_id) VALUES (?, ?)`,
		houseID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.GetMember(houseID, userID)
}

func (s *HouseStore) GetMember(houseID, userID string) (*model.HouseMember, error) {
	row := s.db.QueryRow(
		`SELECT `+houseMemberCols+` FROM house_members WHERE house_id = ? AND user_id = ?`,
		houseID, userID,
	)
	m, err := scanHouseMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListMembers returns the membership edges joined with each member's profile
// name, ordered by join time.
func (s *HouseStore) ListMembers(houseID string) ([]model.HouseMemberDetail, error) {
	rows, err := s.db.Query(
		`SELECT hm.user_id, COALESCE(p.full_name, ''), hm.joined_at
		 FROM house_members hm
		 LEFT JOIN profiles p ON p.id = hm.user_id
		 WHERE hm.house_id = ?
		 ORDER BY hm.joined_at ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.HouseMemberDetail
	for rows.Next() {
		var m model.HouseMemberDetail
		if err := rows.Scan(&m.UserID, &m.FullName, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *HouseStore) ListHousesForUser(userID string) ([]model.House, error) {
	rows, err := s.db.Query(
		`SELECT h.id, h.name, h.invite_code, h.created_at
		 FROM houses h
		 JOIN house_members hm ON h.id = hm.house_id
		 WHERE hm.user_id = ?
		 ORDER BY hm.joined_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list houses for user: %w", err)
	}
	defer rows.Close()

	var houses []model.House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		houses = append(houses, *h)
	}
	return houses, rows.Err()
}
