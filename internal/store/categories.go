package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) CreateCategory(c Category) (*Category, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO categories (id, name, description, color, icon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Color, c.Icon, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return s.GetCategory(c.ID)
}

func (s *Store) GetCategory(id string) (*Category, error) {
	c := &Category{}
	var icon sql.NullString
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, name, description, color, icon, created_at, updated_at
		 FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Color, &icon, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", id, err)
	}
	c.Icon = strPtr(icon)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, color, icon, created_at, updated_at
		 FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var icon sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &icon, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.Icon = strPtr(icon)
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(c Category) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`UPDATE categories SET name = ?, description = ?, color = ?, icon = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Description, c.Color, c.Icon, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCategory removes a category without touching tasks that reference
// it; those keep a dangling reference and render as uncategorized.
func (s *Store) DeleteCategory(id string) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}
