// Package store owns the authoritative task and project tables. The tables
// live in memory and are mirrored to a kv.Store after every mutation.
//
// A Store is built once by the process entry point with Open and handed to
// whatever front end needs it. All operations are synchronous.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/agenda"
	"taskboard/internal/kv"
	"taskboard/internal/logging"
	"taskboard/internal/task"
)

// ErrNotFound is returned when an operation names a task id the store does not hold.
var ErrNotFound = errors.New("task not found")

type Store struct {
	mu       sync.Mutex
	backend  kv.Store
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	seed     bool
	tasks    []task.Task
	projects []task.Project
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator used for new tasks and projects.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeed controls whether sample tasks are written on first run. Default true.
func WithSeed(seed bool) Option {
	return func(s *Store) { s.seed = seed }
}

// Open loads the tables from backend. When no task table has been stored yet
// it installs the sample tasks (unless disabled) and persists them.
func Open(backend kv.Store, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("store: backend is nil")
	}
	s := &Store{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logging.Discard(),
		seed:    true,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	log := logging.WithOperation(s.logger, "store.load")

	tasksData, haveTasks, err := s.backend.Get(KeyTasks)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyTasks, err)
	}
	projectsData, haveProjects, err := s.backend.Get(KeyProjects)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyProjects, err)
	}

	s.projects = DefaultProjects()
	if haveProjects {
		if s.projects, err = decodeProjects(projectsData); err != nil {
			return fmt.Errorf("decode %s: %w", KeyProjects, err)
		}
	}

	s.tasks = []task.Task{}
	if haveTasks {
		if s.tasks, err = decodeTasks(tasksData, task.DateOf(s.now())); err != nil {
			return fmt.Errorf("decode %s: %w", KeyTasks, err)
		}
	}
	s.recount()

	if !haveTasks && s.seed {
		s.tasks = seedTasks(s.now())
		s.recount()
		if err := s.persist(s.backend); err != nil {
			return fmt.Errorf("persist sample data: %w", err)
		}
		log.Info("installed sample tasks", logging.Count(len(s.tasks)))
		return nil
	}
	log.Debug("loaded", logging.Count(len(s.tasks)), slog.Int("projects", len(s.projects)))
	return nil
}

// Flush writes both tables to the backend the store was opened with.
func (s *Store) Flush() error {
	return s.FlushTo(s.backend)
}

// FlushTo writes both tables to dst.
func (s *Store) FlushTo(dst kv.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(dst)
}

func (s *Store) persist(dst kv.Store) error {
	tasksData, err := encodeTasks(s.tasks)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyTasks, err)
	}
	projectsData, err := encodeProjects(s.projects)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyProjects, err)
	}
	if b, ok := dst.(kv.Batcher); ok {
		return b.SetMany(map[string]string{KeyTasks: tasksData, KeyProjects: projectsData})
	}
	if err := dst.Set(KeyTasks, tasksData); err != nil {
		return err
	}
	return dst.Set(KeyProjects, projectsData)
}

// mutate runs fn against the tables, recomputes project counts and persists.
// If fn or the persist fails the tables are restored, so a mutation either
// fully applies or leaves nothing behind. The caller holds s.mu.
func (s *Store) mutate(op string, fn func() error) error {
	prevTasks := cloneTasks(s.tasks)
	prevProjects := cloneProjects(s.projects)
	restore := func() {
		s.tasks = prevTasks
		s.projects = prevProjects
	}

	if err := fn(); err != nil {
		restore()
		return err
	}
	s.recount()
	if err := s.persist(s.backend); err != nil {
		restore()
		logging.WithOperation(s.logger, op).Error("persist failed", logging.Err(err))
		return fmt.Errorf("%s: persist: %w", op, err)
	}
	return nil
}

// recount sets every project's TaskCount from scratch.
func (s *Store) recount() {
	counts := make(map[string]int, len(s.projects))
	for _, t := range s.tasks {
		counts[t.Project]++
	}
	for i := range s.projects {
		s.projects[i].TaskCount = counts[s.projects[i].Name]
	}
}

// stamp returns the current time, nudged forward so it is strictly after prev.
func (s *Store) stamp(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) colorFor(project string) string {
	for _, p := range s.projects {
		if p.Name == project {
			return p.Color
		}
	}
	return task.DefaultProjectColor
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Today returns the store clock's current calendar day.
func (s *Store) Today() task.Date {
	return task.DateOf(s.now())
}

func (s *Store) AllTasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Task(id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.tasks[i], nil
}

// TodayTasks returns the tasks due today, completed or not.
func (s *Store) TodayTasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return agenda.Today(s.tasks, s.Today())
}

// UpcomingTasks returns the tasks due after today, earliest first.
func (s *Store) UpcomingTasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return agenda.Upcoming(s.tasks, s.Today())
}

func (s *Store) CompletedTasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return agenda.Completed(s.tasks)
}

func (s *Store) Stats() task.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return agenda.Stats(s.tasks)
}

func (s *Store) AddTask(in task.NewTask) (task.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return task.Task{}, task.ErrEmptyTitle
	}
	priority := in.Priority
	if priority == "" {
		priority = task.PriorityMedium
	}
	if !priority.Valid() {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrInvalidPriority, in.Priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Task{
		ID:           s.newID(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Completed:    in.Completed,
		Priority:     priority,
		Project:      in.Project,
		ProjectColor: in.ProjectColor,
		DueDate:      in.DueDate,
		DueTime:      strings.TrimSpace(in.DueTime),
	}
	if t.ProjectColor == "" {
		t.ProjectColor = s.colorFor(t.Project)
	}
	if s.indexOf(t.ID) >= 0 {
		return task.Task{}, fmt.Errorf("task id %q already exists", t.ID)
	}
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt

	err := s.mutate("task.add", func() error {
		s.tasks = append(s.tasks, t)
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Debug("task added", logging.TaskID(t.ID), logging.Project(t.Project))
	return t, nil
}

// UpdateTask merges patch into the task with the given id. Assigning a new
// project without an explicit color copies that project's color.
func (s *Store) UpdateTask(id string, patch task.Patch) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated task.Task
	err := s.mutate("task.update", func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		t, err := patch.ApplyTo(s.tasks[i])
		if err != nil {
			return err
		}
		if patch.Project != nil && patch.ProjectColor == nil {
			t.ProjectColor = s.colorFor(t.Project)
		}
		t.UpdatedAt = s.stamp(t.UpdatedAt)
		s.tasks[i] = t
		updated = t
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Debug("task updated", logging.TaskID(id))
	return updated, nil
}

// DeleteTask removes the task with the given id and reports whether one was removed.
func (s *Store) DeleteTask(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate("task.delete", func() error {
		i := s.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug("delete of unknown task", logging.TaskID(id), logging.Status(logging.StatusNotFound))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Debug("task deleted", logging.TaskID(id))
	return true, nil
}

// ToggleComplete flips the completed flag. CreatedAt is never touched.
func (s *Store) ToggleComplete(id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toggled task.Task
	err := s.mutate("task.toggle", func() error {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		s.tasks[i].Completed = !s.tasks[i].Completed
		s.tasks[i].UpdatedAt = s.stamp(s.tasks[i].UpdatedAt)
		toggled = s.tasks[i]
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Debug("task toggled", logging.TaskID(id), slog.Bool("completed", toggled.Completed))
	return toggled, nil
}

// ClearCompleted deletes every completed task and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	err := s.mutate("task.clear_completed", func() error {
		s.tasks = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("cleared completed tasks", logging.Count(removed))
	return removed, nil
}

func (s *Store) Projects() []task.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProjects(s.projects)
}

func (s *Store) ProjectByName(name string) (task.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.Name == name {
			return p, true
		}
	}
	return task.Project{}, false
}

// AddProject appends a project. Names are not checked for uniqueness; callers
// that care use ProjectByName first.
func (s *Store) AddProject(name, color string) (task.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return task.Project{}, task.ErrEmptyProjectName
	}
	if color == "" {
		color = task.DefaultProjectColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := task.Project{ID: s.newID(), Name: name, Color: color}
	err := s.mutate("project.add", func() error {
		s.projects = append(s.projects, p)
		return nil
	})
	if err != nil {
		return task.Project{}, err
	}
	p = s.projects[len(s.projects)-1]
	s.logger.Debug("project added", logging.Project(name))
	return p, nil
}

// Snapshot is a copy of both tables.
type Snapshot struct {
	Tasks    []task.Task    `json:"tasks" yaml:"tasks"`
	Projects []task.Project `json:"projects" yaml:"projects"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Tasks: cloneTasks(s.tasks), Projects: cloneProjects(s.projects)}
}

func cloneTasks(in []task.Task) []task.Task {
	out := make([]task.Task, len(in))
	copy(out, in)
	return out
}

func cloneProjects(in []task.Project) []task.Project {
	out := make([]task.Project, len(in))
	copy(out, in)
	return out
}
