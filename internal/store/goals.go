package store

import (
	"database/sql"
	"fmt"
	"time"
)

const goalColumns = `id, title, description, period, start_date, target_date,
	status, progress, color, created_at, updated_at, completed_at`

func (s *Store) CreateGoal(g Goal) (*Goal, error) {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.Period == "" {
		g.Period = GoalWeekly
	}
	if g.Status == "" {
		g.Status = GoalActive
	}
	if g.StartDate.IsZero() {
		g.StartDate = time.Now()
	}
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, g.Period, formatTime(g.StartDate),
		formatTime(g.TargetDate), g.Status, g.Progress, g.Color, now, now,
		formatTimePtr(g.CompletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.GetGoal(g.ID)
}

func (s *Store) GetGoal(id string) (*Goal, error) {
	row := s.db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return g, nil
}

func (s *Store) ListGoals(status *GoalStatus) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY target_date`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoal(g Goal) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`UPDATE goals SET title = ?, description = ?, period = ?, start_date = ?,
		 target_date = ?, status = ?, progress = ?, color = ?, updated_at = ?,
		 completed_at = ? WHERE id = ?`,
		g.Title, g.Description, g.Period, formatTime(g.StartDate),
		formatTime(g.TargetDate), g.Status, g.Progress, g.Color, now,
		formatTimePtr(g.CompletedAt), g.ID,
	)
	if err != nil {
		return fmt.Errorf("update goal %s: %w", g.ID, err)
	}
	return nil
}

func (s *Store) DeleteGoal(id string) error {
	_, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	return nil
}

func scanGoal(row rowScanner) (*Goal, error) {
	g := &Goal{}
	var startDate, targetDate, createdAt, updatedAt string
	var completedAt sql.NullString
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Period, &startDate,
		&targetDate, &g.Status, &g.Progress, &g.Color, &createdAt, &updatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}
	g.StartDate = parseTime(startDate)
	g.TargetDate = parseTime(targetDate)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	g.CompletedAt = parseTimePtr(completedAt)
	return g, nil
}
