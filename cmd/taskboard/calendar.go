package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/agenda"
)

const calendarPreview = 2

func newCalendarCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with the tasks due on each day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := a.store.Today()
			year, mon := today.Year, today.Month
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid --month %q: want YYYY-MM", month)
				}
				year, mon = t.Year(), t.Month()
			}
			renderMonth(cmd.OutOrStdout(), agenda.Month(a.store.AllTasks(), year, mon, today))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show as YYYY-MM (default: the current month)")
	return cmd
}

func renderMonth(w io.Writer, mv agenda.MonthView) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s %d", mv.Month, mv.Year)))
	fmt.Fprintln(w, "Su Mo Tu We Th Fr Sa")
	for _, week := range mv.Weeks() {
		cells := make([]string, 0, len(week))
		for _, d := range week {
			switch {
			case d == nil:
				cells = append(cells, "  ")
			case d.IsToday:
				cells = append(cells, headerStyle.Render(fmt.Sprintf("%2d", d.Date.Day)))
			default:
				cells = append(cells, fmt.Sprintf("%2d", d.Date.Day))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	fmt.Fprintln(w)

	if mv.Count() == 0 {
		fmt.Fprintln(w, "No tasks due this month.")
		return
	}
	for _, d := range mv.Days {
		if len(d.Tasks) == 0 {
			continue
		}
		titles, more := d.Preview(calendarPreview)
		line := strings.Join(titles, ", ")
		if more > 0 {
			line += fmt.Sprintf(" (+%d more)", more)
		}
		fmt.Fprintf(w, "%s %2d: %s\n", mv.Month.String()[:3], d.Date.Day, line)
	}
}
