package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "List and add projects",
	}
	cmd.AddCommand(newProjectListCmd(a), newProjectAddCmd(a))
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{}
			for _, p := range a.store.Projects() {
				rows = append(rows, []string{p.Name, p.Color, fmt.Sprint(p.TaskCount)})
			}
			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("PROJECT", "COLOR", "TASKS").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
			return nil
		},
	}
}

func newProjectAddCmd(a *app) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if _, exists := a.store.ProjectByName(name); exists {
				return fmt.Errorf("project %q already exists", name)
			}
			p, err := a.store.AddProject(name, color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added project %s (%d tasks)\n", p.Name, p.TaskCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "color token such as bg-accent (default bg-primary)")
	return cmd
}
