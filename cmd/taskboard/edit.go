package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/task"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags given are changed.
Pass --due "" to clear the due date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveID(args[0])
			if err != nil {
				return err
			}
			patch, err := patchFromFlags(cmd, a.store.Today())
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change; pass at least one flag")
			}
			t, err := a.store.UpdateTask(id, patch)
			if err != nil {
				return fmt.Errorf("edit task: %w", err)
			}
			renderTask(cmd.OutOrStdout(), t, a.store.Today())
			return nil
		},
	}

	f := cmd.Flags()
	f.String("title", "", "new title")
	f.StringP("description", "d", "", "new description")
	f.StringP("priority", "p", "", "low, medium or high")
	f.String("project", "", "move to project")
	f.String("color", "", "project color token")
	f.String("due", "", "due date: today, tomorrow, yesterday, YYYY-MM-DD or empty to clear")
	f.String("time", "", "due time")
	f.Bool("done", false, "set the completed flag")
	return cmd
}

// patchFromFlags turns the flags the user set into a Patch. Flags left
// unset stay nil so the task keeps its value.
func patchFromFlags(cmd *cobra.Command, today task.Date) (task.Patch, error) {
	var p task.Patch
	f := cmd.Flags()

	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	p.Title = str("title")
	p.Description = str("description")
	p.Project = str("project")
	p.ProjectColor = str("color")

	if v := str("priority"); v != nil {
		pr, err := task.ParsePriority(*v)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if v := str("due"); v != nil {
		d, err := task.ResolveDue(*v, today)
		if err != nil {
			return p, err
		}
		p.DueDate = &d
	}
	if v := str("time"); v != nil {
		if err := checkDueTime(*v); err != nil {
			return p, err
		}
		p.DueTime = v
	}
	if f.Changed("done") {
		done, _ := f.GetBool("done")
		p.Completed = &done
	}
	return p, nil
}
