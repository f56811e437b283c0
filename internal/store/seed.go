package store

import (
	"time"

	"taskboard/internal/task"
)

// DefaultProjects are installed when no project table has been stored yet.
func DefaultProjects() []task.Project {
	return []task.Project{
		{ID: "1", Name: "Personal", Color: "bg-primary"},
		{ID: "2", Name: "Work", Color: "bg-success"},
		{ID: "3", Name: "Shopping", Color: "bg-destructive"},
	}
}

// seedTasks is the sample data written on first run.
func seedTasks(now time.Time) []task.Task {
	today := task.DateOf(now)
	sample := []task.Task{
		{
			ID:           "1",
			Title:        "Review project proposals",
			Description:  "Go through the quarterly project proposals and prepare feedback",
			Priority:     task.PriorityHigh,
			Project:      "Work",
			ProjectColor: "bg-success",
			DueDate:      today,
			DueTime:      "2:00 PM",
		},
		{
			ID:           "2",
			Title:        "Buy groceries",
			Description:  "Milk, eggs, bread, and vegetables for the week",
			Priority:     task.PriorityMedium,
			Project:      "Personal",
			ProjectColor: "bg-primary",
			DueDate:      today,
		},
		{
			ID:           "3",
			Title:        "Call dentist",
			Description:  "Schedule annual checkup appointment",
			Completed:    true,
			Priority:     task.PriorityLow,
			Project:      "Personal",
			ProjectColor: "bg-primary",
			DueDate:      today,
		},
		{
			ID:           "4",
			Title:        "Prepare presentation slides",
			Description:  "Create slides for Monday's client meeting",
			Priority:     task.PriorityHigh,
			Project:      "Work",
			ProjectColor: "bg-success",
			DueDate:      today.AddDays(1),
			DueTime:      "9:00 AM",
		},
		{
			ID:           "5",
			Title:        "Team meeting",
			Description:  "Weekly standup with the development team",
			Priority:     task.PriorityMedium,
			Project:      "Work",
			ProjectColor: "bg-success",
			DueDate:      task.Date{Year: 2024, Month: time.January, Day: 15},
			DueTime:      "10:00 AM",
		},
		{
			ID:           "6",
			Title:        "Gym workout",
			Description:  "Cardio and strength training session",
			Completed:    true,
			Priority:     task.PriorityLow,
			Project:      "Personal",
			ProjectColor: "bg-primary",
			DueDate:      today.AddDays(-1),
		},
	}
	for i := range sample {
		sample[i].CreatedAt = now
		sample[i].UpdatedAt = now
	}
	return sample
}
