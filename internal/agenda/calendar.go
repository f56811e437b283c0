package agenda

import (
	"time"

	"taskboard/internal/task"
)

type Day struct {
	Date    task.Date
	Tasks   []task.Task
	IsToday bool
}

// Preview returns up to n task titles and how many more tasks the day holds.
func (d Day) Preview(n int) (titles []string, more int) {
	for i, t := range d.Tasks {
		if i >= n {
			break
		}
		titles = append(titles, t.Title)
	}
	if len(d.Tasks) > n {
		more = len(d.Tasks) - n
	}
	return titles, more
}

// MonthView is one calendar month. Leading is the number of blank cells
// before the 1st in a Sunday-first week.
type MonthView struct {
	Year    int
	Month   time.Month
	Leading int
	Days    []Day
}

// ByDay buckets tasks by due date. Tasks without a due date are dropped.
func ByDay(tasks []task.Task) map[task.Date][]task.Task {
	out := map[task.Date][]task.Task{}
	for _, t := range tasks {
		if !t.HasDue() {
			continue
		}
		out[t.DueDate] = append(out[t.DueDate], t)
	}
	return out
}

func TasksOn(tasks []task.Task, day task.Date) []task.Task {
	out := filter(tasks, func(t task.Task) bool { return t.HasDue() && t.DueDate == day })
	SortByDue(out)
	return out
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftMonth moves year/month by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

func Month(tasks []task.Task, year int, month time.Month, today task.Date) MonthView {
	buckets := ByDay(tasks)
	first := task.Date{Year: year, Month: month, Day: 1}
	mv := MonthView{
		Year:    year,
		Month:   month,
		Leading: int(first.Weekday()),
	}
	n := DaysIn(year, month)
	mv.Days = make([]Day, 0, n)
	for i := 1; i <= n; i++ {
		d := task.Date{Year: year, Month: month, Day: i}
		dayTasks := buckets[d]
		SortByDue(dayTasks)
		mv.Days = append(mv.Days, Day{Date: d, Tasks: dayTasks, IsToday: d == today})
	}
	return mv
}

// Weeks lays the month out in rows of seven cells. Cells outside the month are nil.
func (m MonthView) Weeks() [][]*Day {
	var weeks [][]*Day
	week := make([]*Day, m.Leading, 7)
	for i := range m.Days {
		week = append(week, &m.Days[i])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Day, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// Count returns the number of dated tasks in the month.
func (m MonthView) Count() int {
	n := 0
	for _, d := range m.Days {
		n += len(d.Tasks)
	}
	return n
}
