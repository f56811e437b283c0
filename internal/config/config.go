package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"taskboard/internal/logging"
	"taskboard/internal/task"
)

const (
	AppName               = "taskboard"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskboard.db"
	EnvConfigPath         = "TASKBOARD_CONFIG"
)

// Views the TUI and the list command can open on.
const (
	ViewAll       = "all"
	ViewToday     = "today"
	ViewUpcoming  = "upcoming"
	ViewCompleted = "completed"
	ViewCalendar  = "calendar"
)

var Views = []string{ViewAll, ViewToday, ViewUpcoming, ViewCompleted, ViewCalendar}

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	ViewAll        string `toml:"view_all"`
	ViewToday      string `toml:"view_today"`
	ViewUpcoming   string `toml:"view_upcoming"`
	ViewCompleted  string `toml:"view_completed"`
	ViewCalendar   string `toml:"view_calendar"`
	PrevMonth      string `toml:"prev_month"`
	NextMonth      string `toml:"next_month"`
	ClearCompleted string `toml:"clear_completed"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	DefaultView     string `toml:"default_view"`
	DefaultProject  string `toml:"default_project"`
	DefaultPriority string `toml:"default_priority"`
	SeedSampleData  bool   `toml:"seed_sample_data"`
	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TASKBOARD_CONFIG if set, otherwise
// <user config dir>/taskboard/config.toml.
func ResolveConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path. A missing file is created with the
// defaults; created reports whether that happened.
func LoadOrCreate(path string) (cfg Config, created bool, err error) {
	cfg = Default(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, false, err
		}
		return cfg, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultKeymap())
	if err := cfg.Validate(); err != nil {
		return cfg, false, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, false, nil
}

// Validate rejects unknown views, priorities and log levels.
func (c Config) Validate() error {
	if !validView(c.DefaultView) {
		return fmt.Errorf("default_view %q: want one of %s", c.DefaultView, strings.Join(Views, ", "))
	}
	if _, err := task.ParsePriority(c.DefaultPriority); err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func validView(v string) bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration written on first launch, with the
// database placed in dir.
func Default(dir string) Config {
	return Config{
		DBPath:          filepath.Join(dir, DefaultDBName),
		DefaultView:     ViewToday,
		DefaultProject:  "Personal",
		DefaultPriority: string(task.PriorityMedium),
		SeedSampleData:  true,
		LogLevel:        "info",
		Keys:            defaultKeymap(),
	}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Add:            "a",
		Up:             "k",
		Down:           "j",
		Toggle:         " ",
		Delete:         "d",
		Detail:         "i",
		Confirm:        "enter",
		Cancel:         "esc",
		Edit:           "e",
		ViewAll:        "1",
		ViewToday:      "2",
		ViewUpcoming:   "3",
		ViewCompleted:  "4",
		ViewCalendar:   "5",
		PrevMonth:      "[",
		NextMonth:      "]",
		ClearCompleted: "X",
	}
}

// withDefaults fills bindings left empty in a hand-edited file.
func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Detail, d.Detail)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Edit, d.Edit)
	fill(&k.ViewAll, d.ViewAll)
	fill(&k.ViewToday, d.ViewToday)
	fill(&k.ViewUpcoming, d.ViewUpcoming)
	fill(&k.ViewCompleted, d.ViewCompleted)
	fill(&k.ViewCalendar, d.ViewCalendar)
	fill(&k.PrevMonth, d.PrevMonth)
	fill(&k.NextMonth, d.NextMonth)
	fill(&k.ClearCompleted, d.ClearCompleted)
	return k
}
