package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/task"
)

func newListCmd(a *app) *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in one of the views",
		Long: `List tasks. Views:
  all        every task in insertion order
  today      tasks due today, done or not
  upcoming   tasks due after today, earliest first
  completed  completed tasks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if view == "" {
				view = a.cfg.DefaultView
			}
			var tasks []task.Task
			switch view {
			case config.ViewAll, config.ViewCalendar:
				tasks = a.store.AllTasks()
			case config.ViewToday:
				tasks = a.store.TodayTasks()
			case config.ViewUpcoming:
				tasks = a.store.UpcomingTasks()
			case config.ViewCompleted:
				tasks = a.store.CompletedTasks()
			default:
				return fmt.Errorf("unknown view %q", view)
			}
			renderTasks(cmd.OutOrStdout(), tasks, a.store.Today())
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "view to list: all, today, upcoming, completed (default from config)")
	return cmd
}
