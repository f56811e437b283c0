package store

import (
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/task"
)

// Keys of the two entries the store mirrors itself into.
const (
	KeyTasks    = "tasks"
	KeyProjects = "projects"
)

// taskRecord is the stored shape of a task. Field names match the layout
// older mirrors were written with.
type taskRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Completed    bool      `json:"completed"`
	Priority     string    `json:"priority"`
	Project      string    `json:"project"`
	ProjectColor string    `json:"projectColor"`
	DueDate      string    `json:"dueDate,omitempty"`
	DueTime      string    `json:"dueTime,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toRecord(t task.Task) taskRecord {
	return taskRecord{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Completed:    t.Completed,
		Priority:     string(t.Priority),
		Project:      t.Project,
		ProjectColor: t.ProjectColor,
		DueDate:      t.DueDate.String(),
		DueTime:      t.DueTime,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// fromRecord converts a stored task. Due dates written as relative words
// ("Today", "Tomorrow", ...) by older mirrors are resolved against today.
func fromRecord(r taskRecord, today task.Date) (task.Task, error) {
	priority, err := task.ParsePriority(r.Priority)
	if err != nil {
		return task.Task{}, err
	}
	due, err := task.ResolveDue(r.DueDate, today)
	if err != nil {
		return task.Task{}, err
	}
	return task.Task{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Completed:    r.Completed,
		Priority:     priority,
		Project:      r.Project,
		ProjectColor: r.ProjectColor,
		DueDate:      due,
		DueTime:      r.DueTime,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func encodeTasks(tasks []task.Task) (string, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toRecord(t))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeTasks(data string, today task.Date) ([]task.Task, error) {
	var records []taskRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	tasks := make([]task.Task, 0, len(records))
	for i, r := range records {
		t, err := fromRecord(r, today)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, r.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func encodeProjects(projects []task.Project) (string, error) {
	if projects == nil {
		projects = []task.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeProjects(data string) ([]task.Project, error) {
	projects := []task.Project{}
	if err := json.Unmarshal([]byte(data), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
