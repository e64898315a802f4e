package store

import (
	"database/sql"
	"fmt"

	"github.com/shophouse/shophouse/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var notifications int
	var phone sql.NullString

	err := scanner.Scan(&p.ID, &p.FullName, &p.Language, &notifications, &phone, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Notifications = notifications != 0
	if phone.Valid {
		p.Phone = &phone.String
	}
	return &p, nil
}

const profileCols = `id, full_name, language, notifications, phone, updated_at`

// Create inserts a profile with sign-up defaults: the given name, Spanish
// language, notifications off, no phone.
func (s *ProfileStore) Create(userID, fullName string) (*model.Profile, error) {
	_, err := s.db.Exec(
		`INSERT INTO profiles (id, full_name) VALUES (?, ?)`,
		userID, fullName,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return s.GetByID(userID)
}

func (s *ProfileStore) GetByID(userID string) (*model.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM profiles WHERE id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) Update(userID, fullName, language string, notifications bool, phone *string) (*model.Profile, error) {
	var ph sql.NullString
	if phone != nil {
		ph = sql.NullString{String: *phone, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE profiles SET full_name = ?, language = ?, notifications = ?, phone = ?, updated_at = datetime('now') WHERE id = ?`,
		fullName, language, notifications, ph, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(userID)
}

// Stats aggregates the user's activity: items they added, houses they belong
// to, and items they marked bought.
func (s *ProfileStore) Stats(userID string) (*model.ProfileStats, error) {
	var st model.ProfileStats

	err := s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE added_by = ?`, userID).Scan(&st.ItemsAdded)
	if err != nil {
		return nil, fmt.Errorf("count items added: %w", err)
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM house_members WHERE user_id = ?`, userID).Scan(&st.HousesJoined)
	if err != nil {
		return nil, fmt.Errorf("count houses joined: %w", err)
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE bought_by = ? AND bought = 1`, userID).Scan(&st.ItemsBought)
	if err != nil {
		return nil, fmt.Errorf("count items bought: %w", err)
	}
	return &st, nil
}
