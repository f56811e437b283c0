package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/kv"
	"taskboard/internal/task"
)

var baseTime = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, backend kv.Store, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: baseTime}
	all := append([]Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}, opts...)
	s, err := Open(backend, all...)
	require.NoError(t, err)
	return s, clock
}

func ptr[T any](v T) *T { return &v }

// requireCountsMatch checks that every project's TaskCount equals the number
// of tasks naming it.
func requireCountsMatch(t *testing.T, s *Store) {
	t.Helper()
	tasks := s.AllTasks()
	for _, p := range s.Projects() {
		n := 0
		for _, tk := range tasks {
			if tk.Project == p.Name {
				n++
			}
		}
		require.Equal(t, n, p.TaskCount, "project %q count", p.Name)
	}
}

func requireSameTasks(t *testing.T, want, got []task.Task) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "task %s createdAt %v != %v", w.ID, w.CreatedAt, g.CreatedAt)
		assert.True(t, w.UpdatedAt.Equal(g.UpdatedAt), "task %s updatedAt %v != %v", w.ID, w.UpdatedAt, g.UpdatedAt)
		w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
		w.UpdatedAt, g.UpdatedAt = time.Time{}, time.Time{}
		assert.Equal(t, w, g)
	}
}

func findTask(tasks []task.Task, id string) (task.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func TestOpenSeedsOnFirstRun(t *testing.T) {
	backend := kv.NewMemory()
	s, _ := newTestStore(t, backend)

	tasks := s.AllTasks()
	require.Len(t, tasks, 6)
	assert.Equal(t, "Review project proposals", tasks[0].Title)
	assert.Equal(t, task.DateOf(baseTime), tasks[0].DueDate)
	assert.Equal(t, task.DateOf(baseTime).AddDays(1), tasks[3].DueDate)
	assert.Equal(t, task.Date{Year: 2024, Month: time.January, Day: 15}, tasks[4].DueDate)
	assert.Equal(t, task.DateOf(baseTime).AddDays(-1), tasks[5].DueDate)

	projects := s.Projects()
	require.Len(t, projects, 3)
	assert.Equal(t, []string{"Personal", "Work", "Shopping"}, []string{projects[0].Name, projects[1].Name, projects[2].Name})
	assert.Equal(t, 3, projects[0].TaskCount)
	assert.Equal(t, 3, projects[1].TaskCount)
	assert.Equal(t, 0, projects[2].TaskCount)

	assert.Equal(t, []string{KeyProjects, KeyTasks}, backend.Keys(), "seed data is persisted")
}

func TestOpenWithoutSeed(t *testing.T) {
	backend := kv.NewMemory()
	s, _ := newTestStore(t, backend, WithSeed(false))

	assert.Empty(t, s.AllTasks())
	assert.NotNil(t, s.AllTasks())
	assert.Len(t, s.Projects(), 3)
	assert.Empty(t, backend.Keys())
}

func TestOpenDoesNotReseedEmptyMirror(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(KeyTasks, "[]"))

	s, _ := newTestStore(t, backend)
	assert.Empty(t, s.AllTasks())
}

func TestOpenLoadsLegacyMirror(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(KeyTasks, `[
		{"id":"a","title":"Buy milk","completed":false,"priority":"medium","project":"Personal",
		 "projectColor":"bg-primary","dueDate":"Today","createdAt":"2026-10-18T08:00:00.000Z","updatedAt":"2026-10-18T09:30:00.000Z"},
		{"id":"b","title":"File taxes","completed":true,"priority":"high","project":"Errands",
		 "projectColor":"bg-warning","dueDate":"2026-11-02","dueTime":"5:00 PM",
		 "createdAt":"2026-10-01T08:00:00Z","updatedAt":"2026-10-02T08:00:00Z"}
	]`))
	require.NoError(t, backend.Set(KeyProjects, `[{"id":"p1","name":"Errands","color":"bg-warning","taskCount":7}]`))

	s, _ := newTestStore(t, backend)

	tasks := s.AllTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, task.DateOf(baseTime), tasks[0].DueDate, "relative words resolve at load time")
	assert.True(t, tasks[0].CreatedAt.Equal(time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)))
	assert.True(t, tasks[0].UpdatedAt.Equal(time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, task.Date{Year: 2026, Month: time.November, Day: 2}, tasks[1].DueDate)
	assert.Equal(t, task.PriorityHigh, tasks[1].Priority)

	projects := s.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, 1, projects[0].TaskCount, "stored counts are recomputed")
}

func TestOpenRejectsCorruptMirror(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(KeyTasks, `[{"id":`))
	_, err := Open(backend)
	assert.Error(t, err)

	backend = kv.NewMemory()
	require.NoError(t, backend.Set(KeyTasks, `[{"id":"x","title":"t","priority":"urgent"}]`))
	_, err = Open(backend)
	assert.ErrorIs(t, err, task.ErrInvalidPriority)

	_, err = Open(nil)
	assert.Error(t, err)
}

func TestAddTask(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	before := s.AllTasks()

	got, err := s.AddTask(task.NewTask{Title: "  Write report  ", Project: "Work", DueDate: s.Today()})
	require.NoError(t, err)

	_, existed := findTask(before, got.ID)
	assert.False(t, existed, "new id must not already be in the store")
	after := s.AllTasks()
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, got, after[len(after)-1], "new tasks are appended")

	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Equal(t, "bg-success", got.ProjectColor, "color is copied from the project")
	assert.False(t, got.Completed)
	assert.Equal(t, baseTime, got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	requireCountsMatch(t, s)

	got, err = s.AddTask(task.NewTask{Title: "Walk", Project: "Hobbies"})
	require.NoError(t, err)
	assert.Equal(t, task.DefaultProjectColor, got.ProjectColor)
	assert.False(t, got.HasDue())
}

func TestAddTaskValidation(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	n := len(s.AllTasks())

	_, err := s.AddTask(task.NewTask{Title: "   "})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	_, err = s.AddTask(task.NewTask{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, task.ErrInvalidPriority)

	assert.Len(t, s.AllTasks(), n)
}

func TestAddTaskRejectsDuplicateID(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), WithIDGenerator(func() string { return "1" }))
	_, err := s.AddTask(task.NewTask{Title: "clash"})
	assert.Error(t, err)
	assert.Len(t, s.AllTasks(), 6)
}

func TestToggleCompleteIsItsOwnInverse(t *testing.T) {
	s, clock := newTestStore(t, kv.NewMemory())
	orig, err := s.Task("2")
	require.NoError(t, err)

	first, err := s.ToggleComplete("2")
	require.NoError(t, err)
	assert.Equal(t, !orig.Completed, first.Completed)
	assert.True(t, first.UpdatedAt.After(orig.UpdatedAt))
	assert.Equal(t, orig.CreatedAt, first.CreatedAt)

	// The clock has not moved; updatedAt must still strictly increase.
	second, err := s.ToggleComplete("2")
	require.NoError(t, err)
	assert.Equal(t, orig.Completed, second.Completed)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, orig.CreatedAt, second.CreatedAt)

	clock.Advance(time.Minute)
	third, err := s.ToggleComplete("2")
	require.NoError(t, err)
	assert.Equal(t, baseTime.Add(time.Minute), third.UpdatedAt)
}

func TestToggleCompleteUnknown(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	_, err := s.ToggleComplete("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	backend := kv.NewMemory()
	s, _ := newTestStore(t, backend)

	before := s.AllTasks()
	removed, err := s.DeleteTask("does-not-exist")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, s.AllTasks())

	removed, err = s.DeleteTask("4")
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = s.Task("4")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, s.AllTasks(), 5)
	requireCountsMatch(t, s)

	reopened, _ := newTestStore(t, backend)
	assert.Len(t, reopened.AllTasks(), 5, "deletion is persisted")
}

func TestUpdateTask(t *testing.T) {
	s, clock := newTestStore(t, kv.NewMemory())
	clock.Advance(time.Hour)

	got, err := s.UpdateTask("2", task.Patch{
		Title:    ptr("Buy groceries and flowers"),
		Priority: ptr(task.PriorityHigh),
		Project:  ptr("Shopping"),
		DueTime:  ptr("6:00 PM"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy groceries and flowers", got.Title)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, "Shopping", got.Project)
	assert.Equal(t, "bg-destructive", got.ProjectColor, "reassigning a project copies its color")
	assert.Equal(t, "6:00 PM", got.DueTime)
	assert.Equal(t, "Milk, eggs, bread, and vegetables for the week", got.Description, "unset fields are kept")
	assert.Equal(t, baseTime, got.CreatedAt)
	assert.Equal(t, baseTime.Add(time.Hour), got.UpdatedAt)
	requireCountsMatch(t, s)

	stored, err := s.Task("2")
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	got, err = s.UpdateTask("2", task.Patch{Project: ptr("Work"), ProjectColor: ptr("bg-custom")})
	require.NoError(t, err)
	assert.Equal(t, "bg-custom", got.ProjectColor)

	got, err = s.UpdateTask("2", task.Patch{DueDate: ptr(task.Date{})})
	require.NoError(t, err)
	assert.False(t, got.HasDue())
}

func TestUpdateTaskFailures(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	before := s.AllTasks()

	_, err := s.UpdateTask("missing", task.Patch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateTask("1", task.Patch{Title: ptr(" "), Project: ptr("Shopping")})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	assert.Equal(t, before, s.AllTasks(), "failed updates change nothing")
	requireCountsMatch(t, s)
}

func TestProjectCountsAfterEveryMutation(t *testing.T) {
	s, clock := newTestStore(t, kv.NewMemory())
	requireCountsMatch(t, s)

	steps := []func() error{
		func() error { _, err := s.AddTask(task.NewTask{Title: "a", Project: "Shopping"}); return err },
		func() error { _, err := s.AddTask(task.NewTask{Title: "b", Project: "Garden"}); return err },
		func() error { _, err := s.AddProject("Garden", "bg-accent"); return err },
		func() error { _, err := s.UpdateTask("1", task.Patch{Project: ptr("Garden")}); return err },
		func() error { _, err := s.ToggleComplete("2"); return err },
		func() error { _, err := s.DeleteTask("3"); return err },
		func() error { _, err := s.ClearCompleted(); return err },
		func() error { _, err := s.AddProject("Garden", "bg-muted"); return err },
	}
	for i, step := range steps {
		clock.Advance(time.Second)
		require.NoError(t, step(), "step %d", i)
		requireCountsMatch(t, s)
	}

	garden, ok := s.ProjectByName("Garden")
	require.True(t, ok)
	assert.Equal(t, 2, garden.TaskCount)
}

func TestAllTasksReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())

	tasks := s.AllTasks()
	tasks[0].Title = "mutated"

	projects := s.Projects()
	projects[0].Name = "mutated"

	got, err := s.Task("1")
	require.NoError(t, err)
	assert.Equal(t, "Review project proposals", got.Title)
	assert.Len(t, s.AllTasks(), 6)
	assert.Equal(t, "Personal", s.Projects()[0].Name)
}

func TestRoundTripThroughBackend(t *testing.T) {
	backend := kv.NewMemory()
	s, clock := newTestStore(t, backend)

	clock.Advance(90 * time.Minute)
	_, err := s.AddTask(task.NewTask{
		Title:       "Renew passport",
		Description: "photos first",
		Priority:    task.PriorityHigh,
		Project:     "Personal",
		DueDate:     s.Today().AddDays(30),
		DueTime:     "11:15 AM",
	})
	require.NoError(t, err)
	_, err = s.ToggleComplete("1")
	require.NoError(t, err)
	_, err = s.AddProject("Travel", "bg-accent")
	require.NoError(t, err)

	reopened, _ := newTestStore(t, backend)
	requireSameTasks(t, s.AllTasks(), reopened.AllTasks())
	assert.Equal(t, s.Projects(), reopened.Projects())
}

func TestRoundTripThroughSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.db")
	db, err := kv.OpenSQLite(path)
	require.NoError(t, err)

	s, _ := newTestStore(t, db)
	_, err = s.AddTask(task.NewTask{Title: "Buy milk", DueDate: s.Today()})
	require.NoError(t, err)
	want, wantProjects := s.AllTasks(), s.Projects()
	require.NoError(t, db.Close())

	db, err = kv.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	reopened, _ := newTestStore(t, db)
	requireSameTasks(t, want, reopened.AllTasks())
	assert.Equal(t, wantProjects, reopened.Projects())
}

func TestFlushTo(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	_, err := s.AddProject("Reading", "")
	require.NoError(t, err)

	dst := &plainKV{m: map[string]string{}}
	require.NoError(t, s.FlushTo(dst))
	require.NoError(t, s.Flush())

	copied, _ := newTestStore(t, dst)
	requireSameTasks(t, s.AllTasks(), copied.AllTasks())
	assert.Equal(t, s.Projects(), copied.Projects())
}

func TestBuyMilkScenario(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), WithSeed(false))

	milk, err := s.AddTask(task.NewTask{Title: "Buy milk", DueDate: s.Today()})
	require.NoError(t, err)

	_, ok := findTask(s.TodayTasks(), milk.ID)
	assert.True(t, ok, "today view includes the task")
	_, ok = findTask(s.CompletedTasks(), milk.ID)
	assert.False(t, ok)

	_, err = s.ToggleComplete(milk.ID)
	require.NoError(t, err)

	_, ok = findTask(s.CompletedTasks(), milk.ID)
	assert.True(t, ok, "completed view includes the task")
	_, ok = findTask(s.TodayTasks(), milk.ID)
	assert.True(t, ok, "today-ness does not depend on completion")
}

func TestUpcomingScenario(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())

	twoWeeks, err := task.ResolveDue(s.Today().AddDays(14).String(), s.Today())
	require.NoError(t, err)
	oneWeek, err := task.ResolveDue(s.Today().AddDays(7).String(), s.Today())
	require.NoError(t, err)

	far, err := s.AddTask(task.NewTask{Title: "Dentist", DueDate: twoWeeks})
	require.NoError(t, err)
	near, err := s.AddTask(task.NewTask{Title: "Car service", DueDate: oneWeek})
	require.NoError(t, err)

	up := s.UpcomingTasks()
	var order []string
	for _, tk := range up {
		order = append(order, tk.ID)
	}
	// Seed task 4 is due tomorrow; seeds due today or earlier are excluded.
	assert.Equal(t, []string{"4", near.ID, far.ID}, order)
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())
	assert.Equal(t, task.Stats{Total: 6, Completed: 2, InProgress: 4, HighPriority: 2}, s.Stats())
}

func TestClearCompleted(t *testing.T) {
	backend := kv.NewMemory()
	s, _ := newTestStore(t, backend)

	n, err := s.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, s.CompletedTasks())
	assert.Len(t, s.AllTasks(), 4)

	n, err = s.ClearCompleted()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAddProject(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory())

	p, err := s.AddProject("  Side project ", "")
	require.NoError(t, err)
	assert.Equal(t, "Side project", p.Name)
	assert.Equal(t, task.DefaultProjectColor, p.Color)
	assert.Zero(t, p.TaskCount)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, s.Projects(), 4)

	_, err = s.AddProject(" ", "bg-x")
	assert.ErrorIs(t, err, task.ErrEmptyProjectName)

	_, err = s.AddProject("Side project", "bg-y")
	require.NoError(t, err, "duplicate names are the caller's concern")
	assert.Len(t, s.Projects(), 5)
}

var errBoom = errors.New("disk full")

// plainKV implements kv.Store without kv.Batcher and can be told to fail.
type plainKV struct {
	m    map[string]string
	fail bool
}

func (p *plainKV) Get(key string) (string, bool, error) {
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *plainKV) Set(key, value string) error {
	if p.fail {
		return errBoom
	}
	p.m[key] = value
	return nil
}

func TestPersistFailureRollsBack(t *testing.T) {
	backend := &plainKV{m: map[string]string{}}
	s, _ := newTestStore(t, backend)
	tasksBefore, projectsBefore := s.AllTasks(), s.Projects()

	backend.fail = true

	_, err := s.AddTask(task.NewTask{Title: "lost", Project: "Work"})
	assert.ErrorIs(t, err, errBoom)
	_, err = s.ToggleComplete("1")
	assert.ErrorIs(t, err, errBoom)
	_, err = s.UpdateTask("1", task.Patch{Project: ptr("Shopping")})
	assert.ErrorIs(t, err, errBoom)
	_, err = s.DeleteTask("1")
	assert.ErrorIs(t, err, errBoom)
	_, err = s.AddProject("Garden", "")
	assert.ErrorIs(t, err, errBoom)
	_, err = s.ClearCompleted()
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, tasksBefore, s.AllTasks())
	assert.Equal(t, projectsBefore, s.Projects())

	backend.fail = false
	_, err = s.ToggleComplete("1")
	require.NoError(t, err)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	clock := &fakeClock{t: baseTime}
	s, err := Open(kv.NewMemory(), WithClock(clock.Now), WithSeed(false))
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tk, err := s.AddTask(task.NewTask{Title: fmt.Sprintf("t%d", i)})
		require.NoError(t, err)
		require.False(t, seen[tk.ID], "duplicate id %s", tk.ID)
		seen[tk.ID] = true
	}
}
