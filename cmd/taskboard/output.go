package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskboard/internal/task"
)

const shortIDLen = 8

var headerStyle = lipgloss.NewStyle().Bold(true)

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dueText(t task.Task, today task.Date) string {
	due := task.DueLabel(t.DueDate, today)
	if t.DueTime != "" {
		if due == "" {
			return t.DueTime
		}
		due += " " + t.DueTime
	}
	return due
}

func renderTasks(w io.Writer, tasks []task.Task, today task.Date) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			checkbox(t.Completed),
			t.Title,
			string(t.Priority),
			t.Project,
			dueText(t, today),
		})
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "", "TITLE", "PRIORITY", "PROJECT", "DUE").
		Rows(rows...)
	fmt.Fprintln(w, tbl.String())
}

func renderTask(w io.Writer, t task.Task, today task.Date) {
	fmt.Fprintf(w, "%s %s %s\n", checkbox(t.Completed), t.Title, headerStyle.Render("("+t.ID+")"))
	if t.Description != "" {
		fmt.Fprintf(w, "  %s\n", t.Description)
	}
	fmt.Fprintf(w, "  priority: %s  project: %s", t.Priority, t.Project)
	if due := dueText(t, today); due != "" {
		fmt.Fprintf(w, "  due: %s", due)
	}
	fmt.Fprintln(w)
}
