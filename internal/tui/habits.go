package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskit/internal/habit"
	"github.com/sadopc/taskit/internal/store"
)

var habitColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

var habitFrequencies = []habit.Frequency{habit.Daily, habit.Weekly, habit.Monthly, habit.Custom}

type habitFilter int

const (
	habitFilterAll habitFilter = iota
	habitFilterDaily
	habitFilterWeekly
	habitFilterMonthly
	habitFilterCompleted
	habitFilterUncompleted
)

var habitFilterNames = []string{"All", "Daily", "Weekly", "Monthly", "Done", "Not Done"}

type habitsModel struct {
	store  *store.Store
	width  int
	height int

	habits      []store.Habit
	completions map[string][]store.HabitCompletion
	visible     []store.Habit
	cursor      int

	filter       habitFilter
	selectedDate time.Time

	formActive bool
	form       *huh.Form
	formType   string // "habit", "edit_habit"
	editingID  string

	formName  *string
	formDesc  *string
	formFreq  *string
	formColor *string
}

func newHabitsModel(s *store.Store) habitsModel {
	name, desc, freq, color := "", "", string(habit.Daily), habitColors[0]
	return habitsModel{
		store:        s,
		selectedDate: today(),
		formName:     &name,
		formDesc:     &desc,
		formFreq:     &freq,
		formColor:    &color,
	}
}

func (h *habitsModel) setSize(w, hh int) {
	h.width = w
	h.height = hh
}

type habitsDataMsg struct {
	habits      []store.Habit
	completions map[string][]store.HabitCompletion
}

func (h habitsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		habits, _ := h.store.ListHabits(true)
		completions, _ := h.store.ListAllCompletions()
		return habitsDataMsg{habits: habits, completions: completions}
	}
}

func (h *habitsModel) doneOn(habitID string, date time.Time) bool {
	for _, c := range h.completions[habitID] {
		if sameDay(c.Date, date) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (h *habitsModel) applyView() {
	h.visible = h.visible[:0]
	for _, hb := range h.habits {
		switch h.filter {
		case habitFilterDaily:
			if hb.Frequency != habit.Daily {
				continue
			}
		case habitFilterWeekly:
			if hb.Frequency != habit.Weekly {
				continue
			}
		case habitFilterMonthly:
			if hb.Frequency != habit.Monthly {
				continue
			}
		case habitFilterCompleted:
			if !h.doneOn(hb.ID, h.selectedDate) {
				continue
			}
		case habitFilterUncompleted:
			if h.doneOn(hb.ID, h.selectedDate) {
				continue
			}
		}
		h.visible = append(h.visible, hb)
	}
	if h.cursor >= len(h.visible) {
		h.cursor = max(0, len(h.visible)-1)
	}
}

func (h habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if h.formActive && h.form != nil {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		h.habits = msg.habits
		h.completions = msg.completions
		h.applyView()
		return h, nil

	case tea.KeyMsg:
		return h.updateList(msg)
	}
	return h, nil
}

func (h habitsModel) updateList(msg tea.KeyMsg) (habitsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(msg, keys.Down):
		if h.cursor < len(h.visible)-1 {
			h.cursor++
		}
	case key.Matches(msg, keys.Left):
		h.selectedDate = h.selectedDate.AddDate(0, 0, -1)
		h.applyView()
	case key.Matches(msg, keys.Right):
		if h.selectedDate.Before(today()) {
			h.selectedDate = h.selectedDate.AddDate(0, 0, 1)
			h.applyView()
		}
	case key.Matches(msg, keys.Filter):
		h.filter = (h.filter + 1) % 6
		h.applyView()
	case key.Matches(msg, keys.Toggle):
		if len(h.visible) > 0 {
			return h.toggle(h.visible[h.cursor])
		}
	case key.Matches(msg, keys.New):
		return h.showHabitForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(h.visible) > 0 {
			hb := h.visible[h.cursor]
			return h.showHabitForm(&hb)
		}
	case key.Matches(msg, keys.Delete):
		if len(h.visible) > 0 {
			h.store.DeleteHabit(h.visible[h.cursor].ID)
			return h, h.refresh()
		}
	}
	return h, nil
}

// toggle flips the completion for the selected date. Streak counters are
// recomputed inside the store on every completion change.
func (h habitsModel) toggle(hb store.Habit) (habitsModel, tea.Cmd) {
	existing, err := h.store.GetCompletionForDate(hb.ID, h.selectedDate)
	if err != nil {
		return h, errStatus(err)
	}
	if existing != nil {
		if err := h.store.DeleteCompletion(existing.ID); err != nil {
			return h, errStatus(err)
		}
	} else {
		_, err := h.store.AddCompletion(store.HabitCompletion{
			HabitID: hb.ID,
			Date:    h.selectedDate,
		})
		if err != nil {
			return h, errStatus(err)
		}
	}
	return h, tea.Batch(h.refresh(), func() tea.Msg { return habitSavedMsg{} })
}

func (h habitsModel) showHabitForm(hb *store.Habit) (habitsModel, tea.Cmd) {
	if hb == nil {
		*h.formName = ""
		*h.formDesc = ""
		*h.formFreq = string(habit.Daily)
		*h.formColor = habitColors[0]
		h.formType = "habit"
	} else {
		*h.formName = hb.Name
		*h.formDesc = hb.Description
		*h.formFreq = string(hb.Frequency)
		*h.formColor = hb.Color
		h.formType = "edit_habit"
		h.editingID = hb.ID
	}

	freqOptions := make([]huh.Option[string], len(habitFrequencies))
	for i, f := range habitFrequencies {
		freqOptions[i] = huh.NewOption(string(f), string(f))
	}
	colorOptions := make([]huh.Option[string], len(habitColors))
	for i, c := range habitColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	h.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(h.formName),
			huh.NewInput().Title("Description").Value(h.formDesc),
			huh.NewSelect[string]().Title("Frequency").Options(freqOptions...).Value(h.formFreq),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(h.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	h.formActive = true
	return h, h.form.Init()
}

func (h habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			h.formActive = false
			h.form = nil
			return h, nil
		}
	}

	form, cmd := h.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		h.form = f
	}

	if h.form.State == huh.StateCompleted {
		h.formActive = false
		if *h.formName == "" {
			return h, nil
		}
		if h.formType == "edit_habit" {
			existing, err := h.store.GetHabit(h.editingID)
			if err != nil {
				return h, errStatus(err)
			}
			existing.Name = *h.formName
			existing.Description = *h.formDesc
			existing.Frequency = habit.Frequency(*h.formFreq)
			existing.Color = *h.formColor
			if err := h.store.UpdateHabit(*existing); err != nil {
				return h, errStatus(err)
			}
		} else {
			_, err := h.store.CreateHabit(store.Habit{
				Name:        *h.formName,
				Description: *h.formDesc,
				Frequency:   habit.Frequency(*h.formFreq),
				Color:       *h.formColor,
			})
			if err != nil {
				return h, errStatus(err)
			}
		}
		return h, h.refresh()
	}
	return h, cmd
}

func (h habitsModel) view() string {
	w := h.width - 4

	if h.formActive && h.form != nil {
		title := titleStyle.Render("New Habit")
		if h.formType == "edit_habit" {
			title = titleStyle.Render("Edit Habit")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.View())
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, h.renderHeader())
	rows = append(rows, "")

	if len(h.visible) == 0 {
		rows = append(rows, mutedStyle.Render("No habits here. Press n to create one."))
	} else {
		for i, hb := range h.visible {
			rows = append(rows, h.renderHabitRow(hb, i == h.cursor))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  space: toggle  f: filter  ←/→: date"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h habitsModel) renderHeader() string {
	var tabs []string
	for i, name := range habitFilterNames {
		if habitFilter(i) == h.filter {
			tabs = append(tabs, selectedItemStyle.Render("["+name+"]"))
		} else {
			tabs = append(tabs, mutedStyle.Render(" "+name+" "))
		}
	}

	dateLabel := "Today"
	if !sameDay(h.selectedDate, today()) {
		dateLabel = h.selectedDate.Format("Mon, Jan 02")
	}

	return titleStyle.Render("Habits") + "  " + strings.Join(tabs, " ") + "  " + highlightStyle.Render(dateLabel)
}

func (h habitsModel) renderHabitRow(hb store.Habit, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	check := mutedStyle.Render("○")
	if h.doneOn(hb.ID, h.selectedDate) {
		check = successStyle.Render("✓")
	}

	colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(hb.Color)).Render("●")

	streak := mutedStyle.Render(fmt.Sprintf("streak %d · best %d · total %d",
		hb.CurrentStreak, hb.BestStreak, hb.DaysCompleted))

	return fmt.Sprintf("%s%s %s %-24s %-8s %s",
		cursor, check, colorDot, style.Render(hb.Name), mutedStyle.Render(string(hb.Frequency)), streak)
}
