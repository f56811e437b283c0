package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/agenda"
	"taskboard/internal/config"
	"taskboard/internal/task"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTab     = tabStyle.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	todayCell     = lipgloss.NewStyle().Bold(true).Reverse(true)
	busyCell      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	editorStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
	priorityStyle = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// projectColors maps stored color tokens to terminal colors.
var projectColors = map[string]lipgloss.Color{
	"bg-primary":     "12",
	"bg-success":     "10",
	"bg-destructive": "9",
	"bg-warning":     "11",
	"bg-accent":      "13",
}

func projectStyle(color string) lipgloss.Style {
	c, ok := projectColors[color]
	if !ok {
		c = projectColors[task.DefaultProjectColor]
	}
	return lipgloss.NewStyle().Foreground(c)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Taskboard"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.view == config.ViewCalendar {
		b.WriteString(m.renderCalendar())
		b.WriteString("\n")
	}

	if len(m.tasks) == 0 {
		b.WriteString(mutedStyle.Render(emptyMessage(m.view, m.cfg.Keys.Add)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	switch {
	case m.meta != nil:
		b.WriteString(editorStyle.Render(m.renderMetaBox() + "\n" + m.input.View()))
	case m.mode == modeAdd:
		b.WriteString("New task: " + m.input.View())
	default:
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTabs() string {
	k := m.cfg.Keys
	keys := map[string]string{
		config.ViewAll:       k.ViewAll,
		config.ViewToday:     k.ViewToday,
		config.ViewUpcoming:  k.ViewUpcoming,
		config.ViewCompleted: k.ViewCompleted,
		config.ViewCalendar:  k.ViewCalendar,
	}
	tabs := make([]string, 0, len(config.Views))
	for _, v := range config.Views {
		label := fmt.Sprintf("%s %s", keys[v], viewTitle(v))
		if v == m.view {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func viewTitle(view string) string {
	switch view {
	case config.ViewToday:
		return "Today"
	case config.ViewUpcoming:
		return "Upcoming"
	case config.ViewCompleted:
		return "Completed"
	case config.ViewCalendar:
		return "Calendar"
	}
	return "All Tasks"
}

func emptyMessage(view, addKey string) string {
	switch view {
	case config.ViewToday:
		return fmt.Sprintf("Nothing due today. Press '%s' to add a task.", addKey)
	case config.ViewUpcoming:
		return "No upcoming tasks."
	case config.ViewCompleted:
		return "No completed tasks yet."
	case config.ViewCalendar:
		return "No tasks due this month."
	}
	return fmt.Sprintf("No tasks yet. Press '%s' to add one.", addKey)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s detail • space toggle • %s delete • %s edit • %s clear done • %s/%s month • %s quit",
		k.Up, k.Down, k.Add, k.Detail, k.Delete, k.Edit, k.ClearCompleted, k.PrevMonth, k.NextMonth, k.Quit)
}

func (m Model) renderTaskList() string {
	today := m.store.Today()
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}

		parts := []string{cursor, checkbox, title}
		parts = append(parts, priorityStyle[t.Priority].Render(string(t.Priority)))
		if t.Project != "" {
			parts = append(parts, projectStyle(t.ProjectColor).Render("#"+t.Project))
		}
		if t.HasDue() {
			due := task.DueLabel(t.DueDate, today)
			if t.DueTime != "" {
				due += " " + t.DueTime
			}
			if t.Overdue(today) {
				due = overdueStyle.Render(due)
			} else {
				due = mutedStyle.Render(due)
			}
			parts = append(parts, due)
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCalendar() string {
	mv := agenda.Month(m.store.AllTasks(), m.calYear, m.calMonth, m.store.Today())
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", mv.Month, mv.Year)))
	b.WriteString("\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")
	for _, week := range mv.Weeks() {
		cells := make([]string, 0, len(week))
		for _, d := range week {
			if d == nil {
				cells = append(cells, "  ")
				continue
			}
			cell := fmt.Sprintf("%2d", d.Date.Day)
			switch {
			case d.IsToday:
				cell = todayCell.Render(cell)
			case len(d.Tasks) > 0:
				cell = busyCell.Render(cell)
			}
			cells = append(cells, cell)
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d %s this month", mv.Count(), plural(mv.Count(), "task"))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSummary() string {
	all := m.store.AllTasks()
	switch m.view {
	case config.ViewUpcoming:
		s := agenda.SummarizeUpcoming(all, m.store.Today())
		return fmt.Sprintf("%d upcoming • %d this week • %d overdue • %d high priority",
			s.Total, s.ThisWeek, s.Overdue, s.HighPriority)
	case config.ViewCompleted:
		s := agenda.SummarizeCompleted(all, m.store.Now())
		line := fmt.Sprintf("%d completed • %d today • %d this week • %d high priority\n%s",
			s.Total, s.Today, s.ThisWeek, s.HighPriority, agenda.Motivation(s.Total).Message())
		if agenda.Achievement(s.Total) {
			line += fmt.Sprintf("\nAchievement unlocked: %d tasks completed!", s.Total)
		}
		return line
	}
	s := m.store.Stats()
	return fmt.Sprintf("%d total • %d completed • %d in progress • %d high priority",
		s.Total, s.Completed, s.InProgress, s.HighPriority)
}

func (m Model) renderMetaBox() string {
	if m.meta == nil {
		return ""
	}
	var b strings.Builder
	for i, name := range metaFields() {
		prefix := " "
		if i == m.meta.index {
			prefix = ">"
		}
		val := m.meta.values()[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-38s : %s\n", prefix, name, val))
	}
	return b.String()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
