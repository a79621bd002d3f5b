package store

import (
	"database/sql"
	"fmt"
	"time"
)

const pomodoroColumns = `id, task_id, label, focus_minutes, break_minutes,
	long_break_minutes, sessions_before_lb, sessions_completed, status,
	started_at, ended_at, focus_seconds, created_at`

// StartPomodoroSession records a new session entering its first focus phase.
func (s *Store) StartPomodoroSession(p PomodoroSession) (*PomodoroSession, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Status == "" {
		p.Status = PomodoroFocus
	}
	now := time.Now()
	if p.StartedAt == nil {
		p.StartedAt = &now
	}
	_, err := s.db.Exec(
		`INSERT INTO pomodoro_sessions (`+pomodoroColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TaskID, p.Label, p.FocusMinutes, p.BreakMinutes,
		p.LongBreakMinutes, p.SessionsBeforeLB, p.SessionsCompleted, p.Status,
		formatTimePtr(p.StartedAt), formatTimePtr(p.EndedAt), p.FocusSeconds,
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert pomodoro session: %w", err)
	}
	return s.GetPomodoroSession(p.ID)
}

func (s *Store) GetPomodoroSession(id string) (*PomodoroSession, error) {
	row := s.db.QueryRow(`SELECT `+pomodoroColumns+` FROM pomodoro_sessions WHERE id = ?`, id)
	p, err := scanPomodoro(row)
	if err != nil {
		return nil, fmt.Errorf("get pomodoro session %s: %w", id, err)
	}
	return p, nil
}

// UpdatePomodoroProgress stores the live status, completed-session count and
// cumulative focus seconds of a running session.
func (s *Store) UpdatePomodoroProgress(id string, status PomodoroStatus, sessionsCompleted int, focusSeconds int64) error {
	_, err := s.db.Exec(
		`UPDATE pomodoro_sessions SET status = ?, sessions_completed = ?, focus_seconds = ?
		 WHERE id = ?`,
		status, sessionsCompleted, focusSeconds, id,
	)
	if err != nil {
		return fmt.Errorf("update pomodoro session %s: %w", id, err)
	}
	return nil
}

// FinishPomodoroSession closes out a session as completed or cancelled.
func (s *Store) FinishPomodoroSession(id string, status PomodoroStatus) error {
	_, err := s.db.Exec(
		`UPDATE pomodoro_sessions SET status = ?, ended_at = ? WHERE id = ?`,
		status, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("finish pomodoro session %s: %w", id, err)
	}
	return nil
}

// PomodoroStats sums completed sessions and focus time over [from, to).
func (s *Store) PomodoroStats(from, to time.Time) (sessions int, focusSeconds int64, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(sessions_completed), 0), COALESCE(SUM(focus_seconds), 0)
		 FROM pomodoro_sessions
		 WHERE created_at >= ? AND created_at < ?`,
		formatTime(from), formatTime(to),
	).Scan(&sessions, &focusSeconds)
	if err != nil {
		err = fmt.Errorf("pomodoro stats: %w", err)
	}
	return
}

func scanPomodoro(row rowScanner) (*PomodoroSession, error) {
	p := &PomodoroSession{}
	var taskID, label, startedAt, endedAt sql.NullString
	var createdAt string
	err := row.Scan(&p.ID, &taskID, &label, &p.FocusMinutes, &p.BreakMinutes,
		&p.LongBreakMinutes, &p.SessionsBeforeLB, &p.SessionsCompleted,
		&p.Status, &startedAt, &endedAt, &p.FocusSeconds, &createdAt)
	if err != nil {
		return nil, err
	}
	p.TaskID = strPtr(taskID)
	p.Label = strPtr(label)
	p.StartedAt = parseTimePtr(startedAt)
	p.EndedAt = parseTimePtr(endedAt)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}
