package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"taskboard/internal/kv"
	"taskboard/internal/store"
	"taskboard/internal/task"
)

type env struct {
	t          *testing.T
	configPath string
	dbPath     string
}

func newEnv(t *testing.T) *env {
	dir := t.TempDir()
	return &env{
		t:          t,
		configPath: filepath.Join(dir, "config.toml"),
		dbPath:     filepath.Join(dir, "tasks.db"),
	}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config", e.configPath, "--db", e.dbPath, "--log-level", "error"}, args...)
	err := run(full, &stdout, &stderr)
	return stdout.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "taskboard %v", args)
	return out
}

func (e *env) snapshot() store.Snapshot {
	e.t.Helper()
	var snap store.Snapshot
	require.NoError(e.t, json.Unmarshal([]byte(e.mustRun("export", "--format", "json")), &snap))
	return snap
}

func findByTitle(tasks []task.Task, title string) (task.Task, bool) {
	for _, t := range tasks {
		if t.Title == title {
			return t, true
		}
	}
	return task.Task{}, false
}

func TestVersionSkipsStore(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("version")
	assert.Equal(t, "taskboard version dev\n", out)
	assert.NoFileExists(t, e.configPath)
	assert.NoFileExists(t, e.dbPath)
}

func TestFirstRunListsSampleTasks(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("list", "--view", "today")

	assert.FileExists(t, e.configPath)
	assert.FileExists(t, e.dbPath)
	assert.Contains(t, out, "Review project proposals")
	assert.Contains(t, out, "Buy groceries")
	assert.Contains(t, out, "Call dentist")
	assert.NotContains(t, out, "Gym workout")
	assert.NotContains(t, out, "Prepare presentation slides")

	out = e.mustRun("list", "--view", "upcoming")
	assert.Contains(t, out, "Prepare presentation slides")
	assert.Contains(t, out, "Tomorrow 9:00 AM")

	_, err := e.run("list", "--view", "someday")
	assert.Error(t, err)
}

func TestAddPersistsAcrossRuns(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("add", "Buy", "milk", "--due", "today", "-p", "high", "--project", "Shopping")
	assert.Contains(t, out, "Added task")

	out = e.mustRun("list", "--view", "today")
	assert.Contains(t, out, "Buy milk")

	milk, ok := findByTitle(e.snapshot().Tasks, "Buy milk")
	require.True(t, ok)
	assert.Equal(t, task.PriorityHigh, milk.Priority)
	assert.Equal(t, "bg-destructive", milk.ProjectColor)
	assert.Equal(t, milk.CreatedAt, milk.UpdatedAt)

	_, err := e.run("add", "Bad", "--priority", "urgent")
	assert.ErrorIs(t, err, task.ErrInvalidPriority)
	_, err = e.run("add", "Bad", "--due", "someday")
	assert.ErrorIs(t, err, task.ErrInvalidDueDate)
	_, err = e.run("add", "Bad", "--time", "noonish")
	assert.Error(t, err)
	assert.Len(t, e.snapshot().Tasks, 7)
}

func TestDoneToggles(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, "Completed \"Buy groceries\"\n", e.mustRun("done", "2"))
	assert.Equal(t, "Reopened \"Buy groceries\"\n", e.mustRun("done", "2"))

	_, err := e.run("done", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRmAndClearCompleted(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, "Deleted task 4\n", e.mustRun("rm", "4"))
	assert.Equal(t, "Cleared 2 completed task(s)\n", e.mustRun("clear-completed"))
	assert.Equal(t, "Cleared 0 completed task(s)\n", e.mustRun("clear-completed"))

	snap := e.snapshot()
	assert.Len(t, snap.Tasks, 3)
	for _, p := range snap.Projects {
		n := 0
		for _, tk := range snap.Tasks {
			if tk.Project == p.Name {
				n++
			}
		}
		assert.Equal(t, n, p.TaskCount, p.Name)
	}
}

func TestEditOnlyChangesGivenFlags(t *testing.T) {
	e := newEnv(t)
	e.mustRun("edit", "1", "--priority", "low", "--due", "", "--project", "Shopping")

	got, ok := findByTitle(e.snapshot().Tasks, "Review project proposals")
	require.True(t, ok)
	assert.Equal(t, task.PriorityLow, got.Priority)
	assert.False(t, got.HasDue())
	assert.Equal(t, "Shopping", got.Project)
	assert.Equal(t, "bg-destructive", got.ProjectColor)
	assert.Equal(t, "2:00 PM", got.DueTime)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	_, err := e.run("edit", "1")
	assert.Error(t, err)
	_, err = e.run("edit", "1", "--title", "  ")
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
}

func TestPatchFromFlags(t *testing.T) {
	today := task.Date{Year: 2026, Month: 10, Day: 19}
	cmd := newEditCmd(&app{})
	require.NoError(t, cmd.ParseFlags([]string{"--title", "Renamed", "--due", "tomorrow", "--done", "-p", "HIGH"}))

	p, err := patchFromFlags(cmd, today)
	require.NoError(t, err)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Renamed", *p.Title)
	require.NotNil(t, p.DueDate)
	assert.Equal(t, today.AddDays(1), *p.DueDate)
	require.NotNil(t, p.Completed)
	assert.True(t, *p.Completed)
	require.NotNil(t, p.Priority)
	assert.Equal(t, task.PriorityHigh, *p.Priority)
	assert.Nil(t, p.Description)
	assert.Nil(t, p.Project)
	assert.Nil(t, p.DueTime)

	cmd = newEditCmd(&app{})
	require.NoError(t, cmd.ParseFlags(nil))
	p, err = patchFromFlags(cmd, today)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	cmd = newEditCmd(&app{})
	require.NoError(t, cmd.ParseFlags([]string{"--due", "next week"}))
	_, err = patchFromFlags(cmd, today)
	assert.ErrorIs(t, err, task.ErrInvalidDueDate)
}

func TestProjects(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("project", "list")
	assert.Contains(t, out, "Personal")
	assert.Contains(t, out, "Shopping")

	assert.Equal(t, "Added project Garden (0 tasks)\n", e.mustRun("project", "add", "Garden", "--color", "bg-accent"))
	_, err := e.run("project", "add", "Garden")
	assert.Error(t, err)

	e.mustRun("add", "Plant tulips", "--project", "Garden")
	out = e.mustRun("project", "list")
	assert.Contains(t, out, "Garden")
	assert.Contains(t, out, "bg-accent")

	got, ok := findByTitle(e.snapshot().Tasks, "Plant tulips")
	require.True(t, ok)
	assert.Equal(t, "bg-accent", got.ProjectColor)
}

func TestExportYAML(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("export")

	var doc struct {
		Tasks []struct {
			ID      string `yaml:"id"`
			Title   string `yaml:"title"`
			DueDate string `yaml:"due_date"`
		} `yaml:"tasks"`
		Projects []struct {
			Name      string `yaml:"name"`
			TaskCount int    `yaml:"task_count"`
		} `yaml:"projects"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Tasks, 6)
	assert.Equal(t, "Review project proposals", doc.Tasks[0].Title)
	assert.Equal(t, "2024-01-15", doc.Tasks[4].DueDate)
	require.Len(t, doc.Projects, 3)
	assert.Equal(t, 3, doc.Projects[1].TaskCount)

	_, err := e.run("export", "--format", "xml")
	assert.Error(t, err)
}

func TestCalendarAndStats(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun("calendar", "--month", "2024-01")
	assert.Contains(t, out, "January 2024")
	assert.Contains(t, out, "Jan 15: Team meeting")

	out = e.mustRun("calendar", "--month", "1999-02")
	assert.Contains(t, out, "No tasks due this month.")

	_, err := e.run("calendar", "--month", "Jan")
	assert.Error(t, err)

	out = e.mustRun("stats")
	assert.Contains(t, out, "in progress:")
	assert.Contains(t, out, "Great start! Keep the momentum going!")
}

func TestEphemeralWritesNothing(t *testing.T) {
	e := newEnv(t)
	e.mustRun("--ephemeral", "add", "Scratch")
	out := e.mustRun("--ephemeral", "list", "--view", "all")
	assert.NotContains(t, out, "Scratch")
	assert.Contains(t, out, "Gym workout")
	assert.NoFileExists(t, e.dbPath)
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc1", "abc2", "xyz"}
	n := 0
	s, err := store.Open(kv.NewMemory(), store.WithSeed(false), store.WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))
	require.NoError(t, err)
	for range ids {
		_, err := s.AddTask(task.NewTask{Title: "t"})
		require.NoError(t, err)
	}
	a := &app{store: s}

	id, err := a.resolveID("abc1")
	require.NoError(t, err)
	assert.Equal(t, "abc1", id)

	id, err = a.resolveID("x")
	require.NoError(t, err)
	assert.Equal(t, "xyz", id)

	_, err = a.resolveID("ab")
	assert.ErrorContains(t, err, "matches 2 tasks")

	_, err = a.resolveID("q")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
