package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shophouse/shophouse/internal/model"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var item model.Item
	var bought int
	var boughtBy sql.NullString

	err := scanner.Scan(
		&item.ID, &item.HouseID, &item.Name, &item.Quantity, &item.AddedBy,
		&bought, &boughtBy, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Bought = bought != 0
	if boughtBy.Valid {
		item.BoughtBy = &boughtBy.String
	}
	return &item, nil
}

const itemCols = `id, house_id, name, quantity, added_by, bought, bought_by, created_at, updated_at`

func (s *ItemStore) GetByID(id string) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) Create(houseID, name string, quantity int, addedBy string) (*model.Item, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO items (id, house_id, name, quantity, added_by) VALUES (?, ?, ?, ?, ?)`,
		id, houseID, name, quantity, addedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return s.GetByID(id)
}

// ListByHouse returns every item in the house in insertion order. created_at
// ascending is the canonical display order; mutations never re-sort.
func (s *ItemStore) ListByHouse(houseID string) ([]model.Item, error) {
	rows, err := s.db.Query(
		`SELECT `+itemCols+` FROM items WHERE house_id = ? ORDER BY created_at ASC, rowid ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ItemStore) Update(id, name string, quantity int) (*model.Item, error) {
	_, err := s.db.Exec(
		`UPDATE items SET name = ?, quantity = ?, updated_at = datetime('now') WHERE id = ?`,
		name, quantity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItemStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ToggleBought flips the bought flag. Transitioning to bought records who
// bought it; transitioning back clears bought_by. Either way updated_at is
// refreshed. Returns nil if the item does not exist.
func (s *ItemStore) ToggleBought(id, actorID string) (*model.Item, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if item.Bought {
		_, err = s.db.Exec(
			`UPDATE items SET bought = 0, bought_by = NULL, updated_at = datetime('now') WHERE id = ?`,
			id,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE items SET bought = 1, bought_by = ?, updated_at = datetime('now') WHERE id = ?`,
			actorID, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle bought: %w", err)
	}
	return s.GetByID(id)
}
