package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/agenda"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			tasks := a.store.AllTasks()
			s := a.store.Stats()
			up := agenda.SummarizeUpcoming(tasks, a.store.Today())
			done := agenda.SummarizeCompleted(tasks, a.store.Now())

			fmt.Fprintln(w, headerStyle.Render("Tasks"))
			fmt.Fprintf(w, "  %-14s %d\n", "total:", s.Total)
			fmt.Fprintf(w, "  %-14s %d\n", "completed:", s.Completed)
			fmt.Fprintf(w, "  %-14s %d\n", "in progress:", s.InProgress)
			fmt.Fprintf(w, "  %-14s %d\n", "high priority:", s.HighPriority)

			fmt.Fprintln(w, headerStyle.Render("Upcoming"))
			fmt.Fprintf(w, "  %-14s %d\n", "total:", up.Total)
			fmt.Fprintf(w, "  %-14s %d\n", "this week:", up.ThisWeek)
			fmt.Fprintf(w, "  %-14s %d\n", "overdue:", len(agenda.Overdue(tasks, a.store.Today())))
			fmt.Fprintf(w, "  %-14s %d\n", "high priority:", up.HighPriority)

			fmt.Fprintln(w, headerStyle.Render("Completed"))
			fmt.Fprintf(w, "  %-14s %d\n", "total:", done.Total)
			fmt.Fprintf(w, "  %-14s %d\n", "today:", done.Today)
			fmt.Fprintf(w, "  %-14s %d\n", "this week:", done.ThisWeek)
			fmt.Fprintf(w, "  %-14s %d\n", "high priority:", done.HighPriority)

			fmt.Fprintln(w)
			fmt.Fprintln(w, agenda.Motivation(done.Total).Message())
			if agenda.Achievement(done.Total) {
				fmt.Fprintf(w, "Achievement unlocked: %d tasks completed!\n", done.Total)
			}
			return nil
		},
	}
}
