package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/task"
)

func newAddCmd(a *app) *cobra.Command {
	var description, priority, project, due, dueTime, color string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Example: `  taskboard add Buy milk --due today
  taskboard add "Quarterly review" -p high --project Work --due 2026-11-02 --time "2:00 PM"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := task.NewTask{
				Title:        strings.Join(args, " "),
				Description:  description,
				Project:      project,
				ProjectColor: color,
				DueTime:      dueTime,
			}
			if in.Project == "" {
				in.Project = a.cfg.DefaultProject
			}
			p := priority
			if p == "" {
				p = a.cfg.DefaultPriority
			}
			var err error
			if in.Priority, err = task.ParsePriority(p); err != nil {
				return err
			}
			if in.DueDate, err = a.resolveDue(due); err != nil {
				return err
			}
			if err := checkDueTime(dueTime); err != nil {
				return err
			}

			t, err := a.store.AddTask(in)
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", shortID(t.ID))
			renderTask(cmd.OutOrStdout(), t, a.store.Today())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&description, "description", "d", "", "task description")
	f.StringVarP(&priority, "priority", "p", "", "low, medium or high (default from config)")
	f.StringVar(&project, "project", "", "project name (default from config)")
	f.StringVar(&color, "color", "", "project color token (default: the project's color)")
	f.StringVar(&due, "due", "", "due date: today, tomorrow, yesterday or YYYY-MM-DD")
	f.StringVar(&dueTime, "time", "", `due time, e.g. "2:00 PM" or 14:00`)
	return cmd
}

func checkDueTime(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if _, ok := task.ParseDueTime(v); !ok {
		return fmt.Errorf("invalid due time %q", v)
	}
	return nil
}
