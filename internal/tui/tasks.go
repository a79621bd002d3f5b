package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskit/internal/remind"
	"github.com/sadopc/taskit/internal/store"
	"github.com/sadopc/taskit/internal/taskview"
)

var taskPriorities = []store.TaskPriority{store.PriorityLow, store.PriorityMedium, store.PriorityHigh}

type tasksModel struct {
	store  *store.Store
	sched  *remind.Scheduler
	width  int
	height int

	tasks      []store.Task
	visible    []store.Task
	categories []store.Category
	cursor     int

	filter        taskview.Filter
	showCompleted bool
	sortKey       taskview.Sort
	sortDir       taskview.Direction

	searching bool
	query     string

	formActive bool
	form       *huh.Form
	formType   string // "task", "edit_task"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formDesc     *string
	formCategory *string
	formPriority *string
	formDue      *string
	formRepeat   *bool
	formInterval *string
}

func newTasksModel(s *store.Store, sched *remind.Scheduler) tasksModel {
	title, desc, cat, prio, due, interval := "", "", "", string(store.PriorityMedium), "", ""
	repeat := false
	return tasksModel{
		store:        s,
		sched:        sched,
		sortKey:      taskview.SortDueDate,
		sortDir:      taskview.Ascending,
		formTitle:    &title,
		formDesc:     &desc,
		formCategory: &cat,
		formPriority: &prio,
		formDue:      &due,
		formRepeat:   &repeat,
		formInterval: &interval,
	}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type tasksDataMsg struct {
	tasks      []store.Task
	categories []store.Category
	prefs      store.Preferences
}

func (t tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := t.store.ListTasks(store.TaskFilter{})
		categories, _ := t.store.ListCategories()
		prefs := t.store.GetPreferences()
		return tasksDataMsg{tasks: tasks, categories: categories, prefs: prefs}
	}
}

func (t *tasksModel) applyView() {
	filtered := taskview.Apply(t.tasks, t.filter, t.showCompleted, t.query, time.Now())
	t.visible = taskview.SortTasks(filtered, t.sortKey, t.sortDir)
	if t.cursor >= len(t.visible) {
		t.cursor = max(0, len(t.visible)-1)
	}
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.tasks = msg.tasks
		t.categories = msg.categories
		t.showCompleted = msg.prefs.ShowCompletedTasks
		t.sortKey = taskview.ParseSort(msg.prefs.TaskSort)
		t.sortDir = taskview.ParseDirection(msg.prefs.TaskSortDirection)
		t.applyView()
		return t, nil

	case tea.KeyMsg:
		if t.searching {
			return t.updateSearch(msg)
		}
		return t.updateList(msg)
	}
	return t, nil
}

func (t tasksModel) updateSearch(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		t.searching = false
		t.query = ""
	case "enter":
		t.searching = false
	case "backspace":
		if len(t.query) > 0 {
			t.query = t.query[:len(t.query)-1]
		}
	default:
		if len(msg.Runes) > 0 {
			t.query += string(msg.Runes)
		}
	}
	t.applyView()
	return t, nil
}

func (t tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(msg, keys.Down):
		if t.cursor < len(t.visible)-1 {
			t.cursor++
		}
	case key.Matches(msg, keys.Filter):
		t.filter = (t.filter + 1) % 5
		t.applyView()
	case key.Matches(msg, keys.Search):
		t.searching = true
		t.query = ""
	case key.Matches(msg, keys.New):
		return t.showTaskForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(t.visible) > 0 {
			task := t.visible[t.cursor]
			return t.showTaskForm(&task)
		}
	case key.Matches(msg, keys.Delete):
		if len(t.visible) > 0 {
			task := t.visible[t.cursor]
			t.store.DeleteTask(task.ID)
			if t.sched != nil {
				t.sched.CancelTaskReminder(task.ID)
			}
			return t, t.refresh()
		}
	case key.Matches(msg, keys.Toggle):
		if len(t.visible) > 0 {
			return t.toggleDone(t.visible[t.cursor])
		}
	default:
		if msg.String() == "c" {
			t.store.SetShowCompletedTasks(!t.showCompleted)
			return t, t.refresh()
		}
	}
	return t, nil
}

// toggleDone flips completion. Completing a repeating task also spawns the
// next pending occurrence, shifted by the repeat interval.
func (t tasksModel) toggleDone(task store.Task) (tasksModel, tea.Cmd) {
	if task.Status == store.StatusCompleted {
		task.Status = store.StatusPending
		task.CompletedAt = nil
		if err := t.store.UpdateTask(task); err != nil {
			return t, errStatus(err)
		}
		if t.sched != nil {
			t.sched.ScheduleTaskReminder(task)
		}
		return t, t.refresh()
	}

	now := time.Now()
	task.Status = store.StatusCompleted
	task.CompletedAt = &now
	if err := t.store.UpdateTask(task); err != nil {
		return t, errStatus(err)
	}
	if t.sched != nil {
		t.sched.CancelTaskReminder(task.ID)
	}

	if task.Repeating && task.RepeatInterval != nil && task.DueDate != nil {
		next := task
		next.ID = ""
		next.Status = store.StatusPending
		next.CompletedAt = nil
		due := task.DueDate.AddDate(0, 0, *task.RepeatInterval)
		next.DueDate = &due
		created, err := t.store.CreateTask(next)
		if err == nil && t.sched != nil {
			t.sched.ScheduleTaskReminder(*created)
		}
	}
	return t, t.refresh()
}

func (t tasksModel) showTaskForm(task *store.Task) (tasksModel, tea.Cmd) {
	if task == nil {
		*t.formTitle = ""
		*t.formDesc = ""
		*t.formCategory = ""
		*t.formPriority = string(store.PriorityMedium)
		*t.formDue = ""
		*t.formRepeat = false
		*t.formInterval = ""
		t.formType = "task"
	} else {
		*t.formTitle = task.Title
		*t.formDesc = task.Description
		*t.formCategory = ""
		if task.CategoryID != nil {
			*t.formCategory = *task.CategoryID
		}
		*t.formPriority = string(task.Priority)
		*t.formDue = ""
		if task.DueDate != nil {
			*t.formDue = task.DueDate.Local().Format("2006-01-02 15:04")
		}
		*t.formRepeat = task.Repeating
		*t.formInterval = ""
		if task.RepeatInterval != nil {
			*t.formInterval = strconv.Itoa(*task.RepeatInterval)
		}
		t.formType = "edit_task"
		t.editingID = task.ID
	}

	catOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, c := range t.categories {
		catOptions = append(catOptions, huh.NewOption(c.Name, c.ID))
	}
	prioOptions := make([]huh.Option[string], len(taskPriorities))
	for i, p := range taskPriorities {
		prioOptions[i] = huh.NewOption(string(p), string(p))
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(t.formTitle),
			huh.NewInput().Title("Description").Value(t.formDesc),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(t.formCategory),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(t.formPriority),
			huh.NewInput().Title("Due (YYYY-MM-DD HH:MM, optional)").Value(t.formDue),
			huh.NewConfirm().Title("Repeating").Value(t.formRepeat),
			huh.NewInput().Title("Repeat every (days)").Value(t.formInterval),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		if *t.formTitle == "" {
			return t, nil
		}
		return t.saveForm()
	}
	return t, cmd
}

func (t tasksModel) saveForm() (tasksModel, tea.Cmd) {
	task := store.Task{
		Title:       *t.formTitle,
		Description: *t.formDesc,
		Priority:    store.TaskPriority(*t.formPriority),
		Status:      store.StatusPending,
	}
	if *t.formCategory != "" {
		cat := *t.formCategory
		task.CategoryID = &cat
	}
	if due, ok := parseDueInput(*t.formDue); ok {
		task.DueDate = &due
	}
	if *t.formRepeat {
		task.Repeating = true
		if n, err := strconv.Atoi(*t.formInterval); err == nil && n > 0 {
			task.RepeatInterval = &n
		}
	}

	if t.formType == "edit_task" {
		old, err := t.store.GetTask(t.editingID)
		if err != nil {
			return t, errStatus(err)
		}
		task.ID = old.ID
		task.Status = old.Status
		task.CompletedAt = old.CompletedAt
		task.CreatedAt = old.CreatedAt
		if err := t.store.UpdateTask(task); err != nil {
			return t, errStatus(err)
		}
		if t.sched != nil {
			t.sched.ScheduleTaskReminder(task)
		}
	} else {
		created, err := t.store.CreateTask(task)
		if err != nil {
			return t, errStatus(err)
		}
		if t.sched != nil {
			t.sched.ScheduleTaskReminder(*created)
		}
	}

	return t, tea.Batch(t.refresh(), func() tea.Msg { return taskSavedMsg{} })
}

func parseDueInput(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if due, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return due, true
		}
	}
	return time.Time{}, false
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		if t.formType == "edit_task" {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View())
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, t.renderHeader())
	rows = append(rows, "")

	if len(t.visible) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks here. Press n to create one."))
	} else {
		catNames := make(map[string]string, len(t.categories))
		for _, c := range t.categories {
			catNames[c.ID] = c.Name
		}
		for i, task := range t.visible {
			rows = append(rows, t.renderTaskRow(task, i == t.cursor, catNames))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  space: toggle  f: filter  /: search  c: show done"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t tasksModel) renderHeader() string {
	var tabs []string
	for f := taskview.FilterAll; f <= taskview.FilterCategories; f++ {
		name := f.String()
		if f == t.filter {
			tabs = append(tabs, selectedItemStyle.Render("["+name+"]"))
		} else {
			tabs = append(tabs, mutedStyle.Render(" "+name+" "))
		}
	}
	header := titleStyle.Render("Tasks") + "  " + strings.Join(tabs, " ")
	if t.searching || t.query != "" {
		header += "  " + highlightStyle.Render("/"+t.query)
	}
	return header
}

func (t tasksModel) renderTaskRow(task store.Task, selected bool, catNames map[string]string) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	status := "○"
	switch task.Status {
	case store.StatusCompleted:
		status = successStyle.Render("✓")
	case store.StatusInProgress:
		status = warningStyle.Render("◐")
	}

	prio := priorityDot(task.Priority)

	due := mutedStyle.Render(formatDue(task.DueDate))
	if task.DueDate != nil && task.DueDate.Before(time.Now()) && task.Status != store.StatusCompleted {
		due = errorStyle.Render(formatDue(task.DueDate))
	}

	cat := ""
	if task.CategoryID != nil {
		if name, ok := catNames[*task.CategoryID]; ok {
			cat = mutedStyle.Render(" [" + name + "]")
		}
	}

	repeat := ""
	if task.Repeating {
		repeat = mutedStyle.Render(" ↻")
	}

	return fmt.Sprintf("%s%s %s %s%s%s  %s",
		cursor, status, prio, style.Render(task.Title), cat, repeat, due)
}

func priorityDot(p store.TaskPriority) string {
	switch p {
	case store.PriorityHigh:
		return priorityHighStyle.Render("●")
	case store.PriorityMedium:
		return priorityMediumStyle.Render("●")
	default:
		return priorityLowStyle.Render("●")
	}
}
