// Package pomodoro implements the focus timer as an explicit state machine.
// The machine never sleeps on its own: the owner drives it with Tick calls
// from whatever tick source it runs under, and time is read through a Clock
// so tests can run on a fake one.
package pomodoro

import "time"

// Phase is the kind of interval the timer is counting down.
type Phase int

const (
	PhaseFocus Phase = iota
	PhaseBreak
	PhaseLongBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseBreak:
		return "Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}

// Clock abstracts wall-clock reads.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Config holds the adjustable durations and the long-break threshold.
type Config struct {
	Focus     time.Duration
	Break     time.Duration
	LongBreak time.Duration
	// Threshold is how many focus completions earn a long break.
	Threshold int
}

// Duration bounds, in minutes.
const (
	MinFocusMin, MaxFocusMin         = 5, 60
	MinBreakMin, MaxBreakMin         = 1, 15
	MinLongBreakMin, MaxLongBreakMin = 5, 30
	MinThreshold, MaxThreshold       = 2, 6
)

// Session is the live, transient timer state. It is distinct from the
// persisted session records in the store.
type Session struct {
	clock Clock
	cfg   Config

	phase   Phase
	running bool
	paused  bool

	// remaining is authoritative while the countdown is not running;
	// while running, phaseEnd is.
	remaining time.Duration
	total     time.Duration
	phaseEnd  time.Time

	completedFocus int
	focusSeconds   int64
	taskID         *string
}

// NewSession builds an idle session armed for a focus interval.
func NewSession(clock Clock, cfg Config) *Session {
	s := &Session{clock: clock, cfg: clampConfig(cfg), phase: PhaseFocus}
	s.arm(PhaseFocus)
	return s
}

func clampConfig(cfg Config) Config {
	cfg.Focus = clampDur(cfg.Focus, MinFocusMin, MaxFocusMin)
	cfg.Break = clampDur(cfg.Break, MinBreakMin, MaxBreakMin)
	cfg.LongBreak = clampDur(cfg.LongBreak, MinLongBreakMin, MaxLongBreakMin)
	cfg.Threshold = clampInt(cfg.Threshold, MinThreshold, MaxThreshold)
	return cfg
}

func clampDur(d time.Duration, minMin, maxMin int) time.Duration {
	if d < time.Duration(minMin)*time.Minute {
		return time.Duration(minMin) * time.Minute
	}
	if d > time.Duration(maxMin)*time.Minute {
		return time.Duration(maxMin) * time.Minute
	}
	return d
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (s *Session) durationFor(p Phase) time.Duration {
	switch p {
	case PhaseBreak:
		return s.cfg.Break
	case PhaseLongBreak:
		return s.cfg.LongBreak
	default:
		return s.cfg.Focus
	}
}

// arm loads the phase's full duration without starting the countdown.
func (s *Session) arm(p Phase) {
	s.phase = p
	s.total = s.durationFor(p)
	s.remaining = s.total
	s.running = false
	s.paused = false
}

// Start begins the countdown for the currently armed phase, optionally
// bound to a task. Starting an already-running session is a no-op.
func (s *Session) Start(taskID *string) {
	if s.running {
		return
	}
	if taskID != nil {
		s.taskID = taskID
	}
	s.phaseEnd = s.clock.Now().Add(s.remaining)
	s.running = true
	s.paused = false
}

// Pause captures the remaining time and halts the countdown.
func (s *Session) Pause() {
	if !s.running {
		return
	}
	s.remaining = s.phaseEnd.Sub(s.clock.Now())
	if s.remaining < 0 {
		s.remaining = 0
	}
	s.running = false
	s.paused = true
}

// Resume restarts the countdown from the captured remaining time.
func (s *Session) Resume() {
	if !s.paused {
		return
	}
	s.phaseEnd = s.clock.Now().Add(s.remaining)
	s.running = true
	s.paused = false
}

// Cancel stops everything, drops the task binding and re-arms a focus
// interval at full duration. Completed-session count is kept.
func (s *Session) Cancel() {
	s.taskID = nil
	s.arm(PhaseFocus)
}

// Skip forces the natural-completion transition immediately, discarding
// whatever time is left.
func (s *Session) Skip() {
	if s.phase == PhaseFocus {
		s.focusSeconds += int64((s.total - s.Remaining()) / time.Second)
	}
	s.advance()
}

// Tick advances the countdown. It returns true when this tick completed the
// phase, which is the moment the owner should notify and persist.
func (s *Session) Tick() bool {
	if !s.running {
		return false
	}
	s.remaining = s.phaseEnd.Sub(s.clock.Now())
	if s.remaining > 0 {
		return false
	}
	s.remaining = 0
	if s.phase == PhaseFocus {
		s.focusSeconds += int64(s.total / time.Second)
	}
	s.advance()
	return true
}

// advance applies the transition rule and arms the next phase. The next
// countdown is not started; that takes an explicit Start.
func (s *Session) advance() {
	next := PhaseFocus
	if s.phase == PhaseFocus {
		s.completedFocus++
		if s.completedFocus%s.cfg.Threshold == 0 {
			next = PhaseLongBreak
		} else {
			next = PhaseBreak
		}
	}
	s.arm(next)
}

// SetFocusMinutes edits the focus duration. All duration edits are rejected
// while the countdown is running; otherwise the armed time is recomputed
// when the edit targets the current phase. Returns the clamped value.
func (s *Session) SetFocusMinutes(min int) int {
	min = clampInt(min, MinFocusMin, MaxFocusMin)
	if s.running {
		return int(s.cfg.Focus.Minutes())
	}
	s.cfg.Focus = time.Duration(min) * time.Minute
	if s.phase == PhaseFocus {
		s.arm(PhaseFocus)
	}
	return min
}

// SetBreakMinutes edits the short break duration.
func (s *Session) SetBreakMinutes(min int) int {
	min = clampInt(min, MinBreakMin, MaxBreakMin)
	if s.running {
		return int(s.cfg.Break.Minutes())
	}
	s.cfg.Break = time.Duration(min) * time.Minute
	if s.phase == PhaseBreak {
		s.arm(PhaseBreak)
	}
	return min
}

// SetLongBreakMinutes edits the long break duration.
func (s *Session) SetLongBreakMinutes(min int) int {
	min = clampInt(min, MinLongBreakMin, MaxLongBreakMin)
	if s.running {
		return int(s.cfg.LongBreak.Minutes())
	}
	s.cfg.LongBreak = time.Duration(min) * time.Minute
	if s.phase == PhaseLongBreak {
		s.arm(PhaseLongBreak)
	}
	return min
}

// SetThreshold edits how many focus completions earn a long break.
func (s *Session) SetThreshold(n int) int {
	n = clampInt(n, MinThreshold, MaxThreshold)
	if s.running {
		return s.cfg.Threshold
	}
	s.cfg.Threshold = n
	return n
}

// Remaining reports the live remaining time of the current phase.
func (s *Session) Remaining() time.Duration {
	if s.running {
		r := s.phaseEnd.Sub(s.clock.Now())
		if r < 0 {
			return 0
		}
		return r
	}
	return s.remaining
}

func (s *Session) Total() time.Duration { return s.total }
func (s *Session) Phase() Phase         { return s.phase }
func (s *Session) Running() bool        { return s.running }
func (s *Session) Paused() bool         { return s.paused }
func (s *Session) CompletedFocus() int  { return s.completedFocus }
func (s *Session) FocusSeconds() int64  { return s.focusSeconds }
func (s *Session) TaskID() *string      { return s.taskID }
func (s *Session) Config() Config       { return s.cfg }
