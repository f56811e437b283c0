package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task between completed and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveID(args[0])
			if err != nil {
				return err
			}
			t, err := a.store.ToggleComplete(id)
			if err != nil {
				return err
			}
			state := "Reopened"
			if t.Completed {
				state = "Completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", state, t.Title)
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveID(args[0])
			if err != nil {
				return err
			}
			removed, err := a.store.DeleteTask(id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No task %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
			return nil
		},
	}
}

func newClearCompletedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.ClearCompleted()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", n)
			return nil
		},
	}
}
