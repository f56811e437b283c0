package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/agenda"
	"taskboard/internal/config"
	"taskboard/internal/store"
	"taskboard/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeMetadata
)

type metaState struct {
	taskID      string
	description string
	priority    string
	project     string
	due         string
	dueTime     string
	index       int
}

type Model struct {
	store      *store.Store
	cfg        config.Config
	view       string
	tasks      []task.Task
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	meta       *metaState
	calYear    int
	calMonth   time.Month
}

func Run(s *store.Store, cfg config.Config) error {
	program := tea.NewProgram(New(s, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// New builds the model on the configured default view.
func New(s *store.Store, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	today := s.Today()
	m := Model{
		store:    s,
		cfg:      cfg,
		view:     cfg.DefaultView,
		input:    ti,
		mode:     modeList,
		calYear:  today.Year,
		calMonth: today.Month,
		status:   fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
	}
	if m.view == "" {
		m.view = config.ViewToday
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.meta != nil {
			return m.updateMetadataMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode == modeAdd {
		return m.updateAddMode(key, msg)
	}
	return m.updateListMode(key)
}

// reload refreshes the visible tasks for the current view and keeps the
// cursor in range.
func (m *Model) reload() {
	switch m.view {
	case config.ViewToday:
		m.tasks = m.store.TodayTasks()
	case config.ViewUpcoming:
		m.tasks = m.store.UpcomingTasks()
	case config.ViewCompleted:
		m.tasks = m.store.CompletedTasks()
	case config.ViewCalendar:
		m.tasks = m.monthTasks()
	default:
		m.tasks = m.store.AllTasks()
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) monthTasks() []task.Task {
	mv := agenda.Month(m.store.AllTasks(), m.calYear, m.calMonth, m.store.Today())
	var out []task.Task
	for _, d := range mv.Days {
		out = append(out, d.Tasks...)
	}
	agenda.SortByDue(out)
	return out
}

// selectTask moves the cursor onto id if it is visible.
func (m *Model) selectTask(id string) {
	if i := slices.IndexFunc(m.tasks, func(t task.Task) bool { return t.ID == id }); i >= 0 {
		m.cursor = i
	}
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		in := task.NewTask{
			Title:    title,
			Priority: task.Priority(m.cfg.DefaultPriority),
			Project:  m.cfg.DefaultProject,
		}
		if m.view == config.ViewToday {
			in.DueDate = m.store.Today()
		}
		added, err := m.store.AddTask(in)
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.reload()
		m.selectTask(added.ID)
		m.status = "Added task"
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case k.ViewAll, k.ViewToday, k.ViewUpcoming, k.ViewCompleted, k.ViewCalendar:
		m.switchView(viewForKey(k, key))
	case k.PrevMonth, k.NextMonth:
		if m.view != config.ViewCalendar {
			return m, nil
		}
		delta := 1
		if key == k.PrevMonth {
			delta = -1
		}
		y, mo := agenda.ShiftMonth(m.calYear, m.calMonth, delta)
		m.calYear, m.calMonth = y, mo
		m.cursor = 0
		m.reload()
		m.status = fmt.Sprintf("%s %d", mo, y)
	case k.Add:
		m.mode = modeAdd
		m.input.Placeholder = "Task title"
		m.input.Focus()
		m.status = "Add mode: type a title and press Enter"
	case k.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		toggled, err := m.store.ToggleComplete(m.tasks[m.cursor].ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.reload()
		if toggled.Completed {
			m.status = "Completed " + toggled.Title
		} else {
			m.status = "Reopened " + toggled.Title
		}
	case k.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case k.ClearCompleted:
		n, err := m.store.ClearCompleted()
		if err != nil {
			m.status = fmt.Sprintf("clear failed: %v", err)
			return m, nil
		}
		m.reload()
		m.status = fmt.Sprintf("Cleared %d completed %s", n, plural(n, "task"))
	case k.Detail:
		if len(m.tasks) == 0 {
			m.status = "No tasks"
			return m, nil
		}
		m.status = m.detailLine(m.tasks[m.cursor])
	case k.Edit:
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startMetadataEdit(m.tasks[m.cursor])
	}
	return m, nil
}

func (m *Model) switchView(view string) {
	if view == "" || view == m.view {
		return
	}
	m.view = view
	m.cursor = 0
	if view == config.ViewCalendar {
		today := m.store.Today()
		m.calYear, m.calMonth = today.Year, today.Month
	}
	m.reload()
	m.status = viewTitle(view)
}

func viewForKey(k config.Keymap, key string) string {
	switch key {
	case k.ViewAll:
		return config.ViewAll
	case k.ViewToday:
		return config.ViewToday
	case k.ViewUpcoming:
		return config.ViewUpcoming
	case k.ViewCompleted:
		return config.ViewCompleted
	case k.ViewCalendar:
		return config.ViewCalendar
	}
	return ""
}

func (m Model) detailLine(t task.Task) string {
	info := fmt.Sprintf("%s • %s • %s priority", t.Title, humanDone(t.Completed), t.Priority)
	if t.Project != "" {
		info += " • project:" + t.Project
	}
	if t.HasDue() {
		info += " • due:" + task.DueLabel(t.DueDate, m.store.Today())
		if t.DueTime != "" {
			info += " " + t.DueTime
		}
	}
	if t.Description != "" {
		info += " • " + t.Description
	}
	return info
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		removed, err := m.store.DeleteTask(m.pendingDel.ID)
		m.confirmDel = false
		m.pendingDel = nil
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.reload()
		if removed {
			m.status = "Deleted task"
		} else {
			m.status = "Task was already gone"
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startMetadataEdit(t task.Task) (tea.Model, tea.Cmd) {
	m.meta = &metaState{
		taskID:      t.ID,
		description: t.Description,
		priority:    string(t.Priority),
		project:     t.Project,
		due:         t.DueDate.String(),
		dueTime:     t.DueTime,
	}
	m.input.SetValue(m.meta.currentValue())
	m.input.Placeholder = m.meta.currentLabel()
	m.input.Focus()
	m.mode = modeMetadata
	m.status = "Edit task: tab to move, enter to save/next, esc to cancel"
	return m, nil
}

func (m Model) updateMetadataMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.meta = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case "tab", "down":
		m.moveMeta(1)
		return m, nil
	case "shift+tab", "up":
		m.moveMeta(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.meta.setCurrentValue(m.input.Value())
		if m.meta.index >= len(metaFields())-1 {
			return m.saveMetadata()
		}
		m.moveMeta(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveMeta(delta int) {
	m.meta.setCurrentValue(m.input.Value())
	m.meta.index = wrapIndex(m.meta.index+delta, len(metaFields()))
	m.input.SetValue(m.meta.currentValue())
	m.input.Placeholder = m.meta.currentLabel()
	m.status = m.metaPrompt()
}

func (m Model) saveMetadata() (tea.Model, tea.Cmd) {
	priority, err := task.ParsePriority(m.meta.priority)
	if err != nil {
		m.status = fmt.Sprintf("priority invalid: %v", err)
		return m, nil
	}
	due, err := task.ResolveDue(m.meta.due, m.store.Today())
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}
	if strings.TrimSpace(m.meta.dueTime) != "" {
		if _, ok := task.ParseDueTime(m.meta.dueTime); !ok {
			m.status = fmt.Sprintf("due time invalid: %q", m.meta.dueTime)
			return m, nil
		}
	}

	taskID := m.meta.taskID
	patch := task.Patch{
		Description: &m.meta.description,
		Priority:    &priority,
		DueDate:     &due,
		DueTime:     &m.meta.dueTime,
	}
	if current, err := m.store.Task(taskID); err == nil && current.Project != m.meta.project {
		patch.Project = &m.meta.project
	}
	if _, err := m.store.UpdateTask(taskID, patch); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.meta = nil
	m.mode = modeList
	m.input.Blur()
	m.reload()
	m.selectTask(taskID)
	m.status = "Task saved"
	return m, nil
}

func metaFields() []string {
	return []string{"description", "priority (low/medium/high)", "project", "due date (YYYY-MM-DD, today, tomorrow)", "due time (e.g. 2:00 PM)"}
}

func (ms metaState) currentLabel() string {
	return metaFields()[ms.index]
}

func (ms metaState) values() []string {
	return []string{ms.description, ms.priority, ms.project, ms.due, ms.dueTime}
}

func (ms metaState) currentValue() string {
	return ms.values()[ms.index]
}

func (ms *metaState) setCurrentValue(v string) {
	switch ms.index {
	case 0:
		ms.description = v
	case 1:
		ms.priority = v
	case 2:
		ms.project = v
	case 3:
		ms.due = v
	case 4:
		ms.dueTime = v
	}
}

func (m Model) metaPrompt() string {
	if m.meta == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		m.meta.currentLabel(), m.meta.index+1, len(metaFields()))
}
