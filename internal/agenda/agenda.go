// Package agenda computes the derived task views: today, upcoming, completed,
// weekly and overdue classification, summary counts and calendar buckets.
//
// View functions return new slices and leave their input alone; only
// SortByDue works in place. Nothing is cached.
package agenda

import (
	"cmp"
	"slices"
	"time"

	"taskboard/internal/task"
)

// WeekDays is the width of the "this week" window.
const WeekDays = 7

func filter(tasks []task.Task, keep func(task.Task) bool) []task.Task {
	out := []task.Task{}
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Today returns the tasks due on today, completed or not, in input order.
func Today(tasks []task.Task, today task.Date) []task.Task {
	return filter(tasks, func(t task.Task) bool {
		return t.HasDue() && t.DueDate == today
	})
}

// Upcoming returns the tasks due after today, earliest first. Tasks due on
// the same day are ordered by due time; times that cannot be parsed sort last
// and otherwise keep input order.
func Upcoming(tasks []task.Task, today task.Date) []task.Task {
	out := filter(tasks, func(t task.Task) bool {
		return t.HasDue() && t.DueDate.After(today)
	})
	SortByDue(out)
	return out
}

func Completed(tasks []task.Task) []task.Task {
	return filter(tasks, func(t task.Task) bool { return t.Completed })
}

// ThisWeek returns the tasks due between today and WeekDays days later, inclusive.
func ThisWeek(tasks []task.Task, today task.Date) []task.Task {
	return filter(tasks, func(t task.Task) bool {
		if !t.HasDue() || t.DueDate.Before(today) {
			return false
		}
		return today.DaysUntil(t.DueDate) <= WeekDays
	})
}

// Overdue returns the incomplete tasks due before today.
func Overdue(tasks []task.Task, today task.Date) []task.Task {
	return filter(tasks, func(t task.Task) bool { return t.Overdue(today) })
}

func Stats(tasks []task.Task) task.Stats {
	var s task.Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		if t.Priority == task.PriorityHigh {
			s.HighPriority++
		}
	}
	s.InProgress = s.Total - s.Completed
	return s
}

// SortByDue orders tasks in place by due date, then due time. The sort is stable.
func SortByDue(tasks []task.Task) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		at, aok := task.ParseDueTime(a.DueTime)
		bt, bok := task.ParseDueTime(b.DueTime)
		switch {
		case aok && bok:
			return cmp.Compare(at, bt)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
}

type UpcomingSummary struct {
	Total        int `json:"total" yaml:"total"`
	ThisWeek     int `json:"thisWeek" yaml:"this_week"`
	Overdue      int `json:"overdue" yaml:"overdue"`
	HighPriority int `json:"highPriority" yaml:"high_priority"`
}

// SummarizeUpcoming counts over the upcoming list. Overdue stays zero for
// upcoming tasks by construction but is kept so the panel can show it.
func SummarizeUpcoming(tasks []task.Task, today task.Date) UpcomingSummary {
	up := Upcoming(tasks, today)
	return UpcomingSummary{
		Total:        len(up),
		ThisWeek:     len(ThisWeek(up, today)),
		Overdue:      len(Overdue(up, today)),
		HighPriority: Stats(up).HighPriority,
	}
}

type CompletedSummary struct {
	Total        int `json:"total" yaml:"total"`
	Today        int `json:"today" yaml:"today"`
	ThisWeek     int `json:"thisWeek" yaml:"this_week"`
	HighPriority int `json:"highPriority" yaml:"high_priority"`
}

// SummarizeCompleted counts completed tasks. Completion time is taken from
// UpdatedAt: Today means updated on now's calendar day, ThisWeek means
// updated within the last WeekDays days.
func SummarizeCompleted(tasks []task.Task, now time.Time) CompletedSummary {
	done := Completed(tasks)
	today := task.DateOf(now)
	weekAgo := now.AddDate(0, 0, -WeekDays)

	s := CompletedSummary{Total: len(done)}
	for _, t := range done {
		if task.DateOf(t.UpdatedAt.In(now.Location())) == today {
			s.Today++
		}
		if !t.UpdatedAt.Before(weekAgo) {
			s.ThisWeek++
		}
		if t.Priority == task.PriorityHigh {
			s.HighPriority++
		}
	}
	return s
}
