package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/taskit/internal/habit"
)

const habitColumns = `id, name, description, color, icon, frequency, frequency_days,
	reminder, days_completed, current_streak, best_streak, last_completed,
	goal_id, active, created_at, updated_at`

func (s *Store) CreateHabit(h Habit) (*Habit, error) {
	if h.ID == "" {
		h.ID = newID()
	}
	if h.Frequency == "" {
		h.Frequency = habit.Daily
	}
	h.Active = true
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.Description, h.Color, h.Icon, h.Frequency,
		joinInts(h.FrequencyDays), formatTimePtr(h.Reminder),
		h.DaysCompleted, h.CurrentStreak, h.BestStreak,
		formatTimePtr(h.LastCompleted), h.GoalID, boolToInt(h.Active),
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return s.GetHabit(h.ID)
}

func (s *Store) GetHabit(id string) (*Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		return nil, fmt.Errorf("get habit %s: %w", id, err)
	}
	return h, nil
}

// ListHabits returns habits ordered by name. When activeOnly is set,
// deactivated habits are excluded.
func (s *Store) ListHabits(activeOnly bool) ([]Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// SearchHabits matches a case-insensitive substring of name or description.
func (s *Store) SearchHabits(query string) ([]Habit, error) {
	pattern := "%" + sqlLower(query) + "%"
	rows, err := s.db.Query(
		`SELECT `+habitColumns+` FROM habits
		 WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ?
		 ORDER BY name`, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(h Habit) error {
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`UPDATE habits SET name = ?, description = ?, color = ?, icon = ?,
		 frequency = ?, frequency_days = ?, reminder = ?, goal_id = ?,
		 active = ?, updated_at = ? WHERE id = ?`,
		h.Name, h.Description, h.Color, h.Icon, h.Frequency,
		joinInts(h.FrequencyDays), formatTimePtr(h.Reminder), h.GoalID,
		boolToInt(h.Active), now, h.ID,
	)
	if err != nil {
		return fmt.Errorf("update habit %s: %w", h.ID, err)
	}
	return nil
}

// DeleteHabit removes the habit; its completion history goes with it.
func (s *Store) DeleteHabit(id string) error {
	_, err := s.db.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return nil
}

// --- Completions ---

func (s *Store) AddCompletion(c HabitCompletion) (*HabitCompletion, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	c.Completed = true
	_, err := s.db.Exec(
		`INSERT INTO habit_completions (id, habit_id, date, completed, completed_at, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, c.Date.Format(dateLayout), boolToInt(c.Completed),
		formatTime(c.CompletedAt), c.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	if err := s.recalcHabitCounters(c.HabitID); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCompletionForDate returns the completion record for the habit on the
// given day, or nil when there is none.
func (s *Store) GetCompletionForDate(habitID string, date time.Time) (*HabitCompletion, error) {
	row := s.db.QueryRow(
		`SELECT id, habit_id, date, completed, completed_at, notes
		 FROM habit_completions WHERE habit_id = ? AND date = ? LIMIT 1`,
		habitID, date.Format(dateLayout),
	)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteCompletion(id string) error {
	var habitID string
	err := s.db.QueryRow(`SELECT habit_id FROM habit_completions WHERE id = ?`, id).Scan(&habitID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get completion %s: %w", id, err)
	}
	if _, err := s.db.Exec(`DELETE FROM habit_completions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete completion %s: %w", id, err)
	}
	return s.recalcHabitCounters(habitID)
}

// ListCompletions returns all completions for a habit, most recent first.
func (s *Store) ListCompletions(habitID string) ([]HabitCompletion, error) {
	rows, err := s.db.Query(
		`SELECT id, habit_id, date, completed, completed_at, notes
		 FROM habit_completions WHERE habit_id = ? ORDER BY date DESC`, habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()
	return collectCompletions(rows)
}

// ListCompletionsInRange returns completions for all habits with dates in
// [from, to], both bounds inclusive.
func (s *Store) ListCompletionsInRange(from, to time.Time) ([]HabitCompletion, error) {
	rows, err := s.db.Query(
		`SELECT id, habit_id, date, completed, completed_at, notes
		 FROM habit_completions WHERE date >= ? AND date <= ? ORDER BY date`,
		from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list completions in range: %w", err)
	}
	defer rows.Close()
	return collectCompletions(rows)
}

// ListAllCompletions returns every completion record, keyed by habit.
func (s *Store) ListAllCompletions() (map[string][]HabitCompletion, error) {
	rows, err := s.db.Query(
		`SELECT id, habit_id, date, completed, completed_at, notes
		 FROM habit_completions ORDER BY date`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all completions: %w", err)
	}
	defer rows.Close()

	byHabit := make(map[string][]HabitCompletion)
	completions, err := collectCompletions(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	return byHabit, nil
}

// recalcHabitCounters is the one authoritative place the cached habit
// counters are written. It rederives them from the completion set after
// every completion mutation so they cannot drift.
func (s *Store) recalcHabitCounters(habitID string) error {
	h, err := s.GetHabit(habitID)
	if err != nil {
		return err
	}
	completions, err := s.ListCompletions(habitID)
	if err != nil {
		return err
	}

	dates := make([]time.Time, len(completions))
	var last *time.Time
	for i, c := range completions {
		dates[i] = c.Date
		if last == nil || c.Date.After(*last) {
			d := c.Date
			last = &d
		}
	}

	current := habit.DailyStreak(dates, time.Now())
	best := habit.BestStreak(h.Frequency, dates)
	if current > best {
		best = current
	}

	_, err = s.db.Exec(
		`UPDATE habits SET days_completed = ?, current_streak = ?, best_streak = ?,
		 last_completed = ?, updated_at = ? WHERE id = ?`,
		len(completions), current, best, formatTimePtr(last),
		formatTime(time.Now()), habitID,
	)
	if err != nil {
		return fmt.Errorf("recalc habit counters %s: %w", habitID, err)
	}
	return nil
}

func scanHabit(row rowScanner) (*Habit, error) {
	h := &Habit{}
	var icon, reminder, lastCompleted, goalID sql.NullString
	var freqDays string
	var active int
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Color, &icon,
		&h.Frequency, &freqDays, &reminder, &h.DaysCompleted, &h.CurrentStreak,
		&h.BestStreak, &lastCompleted, &goalID, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	h.Icon = strPtr(icon)
	h.FrequencyDays = splitInts(freqDays)
	h.Reminder = parseTimePtr(reminder)
	h.LastCompleted = parseTimePtr(lastCompleted)
	h.GoalID = strPtr(goalID)
	h.Active = active == 1
	h.CreatedAt = parseTime(createdAt)
	h.UpdatedAt = parseTime(updatedAt)
	return h, nil
}

func scanCompletion(row rowScanner) (*HabitCompletion, error) {
	c := &HabitCompletion{}
	var date, completedAt string
	var completed int
	err := row.Scan(&c.ID, &c.HabitID, &date, &completed, &completedAt, &c.Notes)
	if err != nil {
		return nil, err
	}
	c.Date, _ = time.Parse(dateLayout, date)
	c.Completed = completed == 1
	c.CompletedAt = parseTime(completedAt)
	return c, nil
}

func collectCompletions(rows *sql.Rows) ([]HabitCompletion, error) {
	var completions []HabitCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}
