package store

import (
	"database/sql"
	"fmt"
	"time"
)

const taskColumns = `id, title, description, status, priority, category_id, due_date,
	reminder_time, repeating, repeat_interval, completed_at, created_at, updated_at`

func (s *Store) CreateTask(t Task) (*Task, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.CategoryID,
		formatTimePtr(t.DueDate), formatTimePtr(t.ReminderTime),
		boolToInt(t.Repeating), t.RepeatInterval, formatTimePtr(t.CompletedAt),
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(t.ID)
}

func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) UpdateTask(t Task) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
		 category_id = ?, due_date = ?, reminder_time = ?, repeating = ?,
		 repeat_interval = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, t.CategoryID,
		formatTimePtr(t.DueDate), formatTimePtr(t.ReminderTime),
		boolToInt(t.Repeating), t.RepeatInterval, formatTimePtr(t.CompletedAt),
		now, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// ListTasks returns tasks matching the filter, ordered by due date. Both
// date bounds are inclusive.
func (s *Store) ListTasks(f TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if f.Status != nil {
		query += ` AND status = ?`
		args = append(args, *f.Status)
	}
	if f.Priority != nil {
		query += ` AND priority = ?`
		args = append(args, *f.Priority)
	}
	if f.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.DueFrom != nil {
		query += ` AND due_date >= ?`
		args = append(args, formatTime(*f.DueFrom))
	}
	if f.DueTo != nil {
		query += ` AND due_date <= ?`
		args = append(args, formatTime(*f.DueTo))
	}
	if f.Search != "" {
		query += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		pattern := "%" + sqlLower(f.Search) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY due_date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var categoryID, dueDate, reminderTime, completedAt sql.NullString
	var repeatInterval sql.NullInt64
	var repeating int
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&categoryID, &dueDate, &reminderTime, &repeating, &repeatInterval,
		&completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.CategoryID = strPtr(categoryID)
	t.DueDate = parseTimePtr(dueDate)
	t.ReminderTime = parseTimePtr(reminderTime)
	t.Repeating = repeating == 1
	t.RepeatInterval = intPtr(repeatInterval)
	t.CompletedAt = parseTimePtr(completedAt)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
