package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/flakeref"
	"github.com/bianoble/flakeref/internal/lock"
)

// Output streams. Tests swap them for buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// logger receives engine diagnostics; --verbose lowers it to debug.
var logger = slog.New(slog.DiscardHandler)

func setupOutput() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	setupStyles()
}

// loadConfigHierarchical merges the system, user and project configs
// unless FLAKEREF_NO_INHERIT is set.
func loadConfigHierarchical() (*config.HierarchicalResult, error) {
	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: configPath,
		NoInherit:   config.EnvNoInherit(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return hr, nil
}

// loadConfig reads and validates the merged config.
func loadConfig() (*config.Config, error) {
	hr, err := loadConfigHierarchical()
	if err != nil {
		return nil, err
	}
	for _, l := range hr.Layers {
		if l.Loaded {
			logger.Debug("config layer loaded", "level", l.Level, "path", l.Path)
		}
	}
	return hr.Config, nil
}

// loadLockfile reads the lockfile if it exists. Returns an empty lockfile if missing.
func loadLockfile() (*lock.Lockfile, error) {
	lf, err := lock.Load(lockfilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return &lock.Lockfile{Version: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading lockfile %s: %w", lockfilePath, err)
	}
	return lf, nil
}

// saveLockfile writes the lockfile atomically.
func saveLockfile(lf *lock.Lockfile) error {
	return lock.Save(lockfilePath, lf)
}

// saveConfig writes the project config atomically.
func saveConfig(cfg *config.Config) error {
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("saving config %s: %w", configPath, err)
	}
	return nil
}

func kindNames() []string {
	kinds := flakeref.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, errorStyle.Render("error:")+" "+format+"\n", args...)
}
