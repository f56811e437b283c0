package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/kv"
	"taskboard/internal/logging"
	"taskboard/internal/store"
	"taskboard/internal/task"
	"taskboard/internal/ui"
)

// app carries the state shared by every subcommand: resolved config, the
// open store and the backend it mirrors to.
type app struct {
	configPath string
	dbPath     string
	ephemeral  bool
	logLevel   string

	stderr  io.Writer
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	closers []io.Closer
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stderr: stderr}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Personal task manager with today, upcoming and calendar views",
		Long: `taskboard keeps a list of tasks grouped into projects and shows them as
today's work, upcoming work, completed work and a month calendar.

Run without a subcommand to open the interactive board.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["store"] == "none" || cmd.Name() == "help" {
				return nil
			}
			return a.open(isInteractive(cmd))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(a.store, a.cfg)
		},
	}
	root.SetVersionTemplate(`{{printf "taskboard version %s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $TASKBOARD_CONFIG or <config dir>/taskboard/config.toml)")
	pf.StringVar(&a.dbPath, "db", "", "database file, overrides db_path from the config")
	pf.BoolVar(&a.ephemeral, "ephemeral", false, "keep tasks in memory only; nothing is written to disk")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error), overrides log_level")

	root.AddCommand(
		newTUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDoneCmd(a),
		newRmCmd(a),
		newClearCompletedCmd(a),
		newStatsCmd(a),
		newCalendarCmd(a),
		newProjectCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

// open loads the config, builds the logger and opens the store.
func (a *app) open(interactive bool) error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.ResolveConfigPath(); err != nil {
			return err
		}
	}
	cfg, created, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	if a.logger, err = a.newLogger(interactive); err != nil {
		return err
	}
	if created {
		a.logger.Info("wrote default config", slog.String("path", path))
	}

	var backend kv.Store
	if a.ephemeral {
		backend = kv.NewMemory()
	} else {
		db, err := kv.OpenSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, db)
		backend = db
	}

	a.store, err = store.Open(backend,
		store.WithLogger(a.logger),
		store.WithSeed(cfg.SeedSampleData),
	)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	return nil
}

// newLogger writes to log_file when set. Otherwise interactive runs discard
// logs and other commands write them to stderr.
func (a *app) newLogger(interactive bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if a.cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		return logging.New(f, level), nil
	}
	if interactive {
		return logging.Discard(), nil
	}
	return logging.New(a.stderr, level), nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// resolveID accepts a full task id or a unique prefix of one.
func (a *app) resolveID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("task id is required")
	}
	if _, err := a.store.Task(arg); err == nil {
		return arg, nil
	}
	var matches []string
	for _, t := range a.store.AllTasks() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, arg)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id prefix %q matches %d tasks", arg, len(matches))
}

func (a *app) resolveDue(v string) (task.Date, error) {
	return task.ResolveDue(v, a.store.Today())
}
