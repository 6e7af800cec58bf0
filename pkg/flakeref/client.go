package flakeref

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/engine"
	"github.com/bianoble/flakeref/internal/lock"
)

// Result types of the project operations.
type (
	InputError   = engine.InputError
	InputDelta   = engine.InputDelta
	CheckedInput = engine.CheckedInput
	CheckResult  = engine.CheckResult
	VerifyResult = engine.VerifyResult
	InputStatus  = engine.InputStatus
	PruneResult  = engine.PruneResult
)

// Checker validates the references of configured inputs.
type Checker interface {
	Check(ctx context.Context) (*CheckResult, error)
}

// Verifier compares configured inputs against the lockfile.
type Verifier interface {
	Verify(ctx context.Context, inputNames []string) (*VerifyResult, error)
}

// Updater records the canonical form of inputs in the lockfile.
type Updater interface {
	Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error)
}

// Pruner removes lockfile entries for inputs no longer configured.
type Pruner interface {
	Prune(ctx context.Context, opts PruneOptions) (*PruneResult, error)
}

// UpdateOptions configures an update operation.
type UpdateOptions struct {
	InputNames []string // empty = update all
	DryRun     bool
}

// PruneOptions configures a prune operation.
type PruneOptions struct {
	DryRun bool
}

// UpdateResult holds the outcome of an update operation.
type UpdateResult struct {
	Updated []InputUpdate
	Failed  []InputError
}

// InputUpdate records what changed for a single input during update.
type InputUpdate struct {
	Name    string
	Before  string // canonical reference, or "(new)"
	After   string
	Changed bool
}

// Options configures a Client.
type Options struct {
	// ConfigPath is the path to the config file. Default: "flakeref.yaml".
	ConfigPath string

	// LockfilePath is the path to the lockfile. Default: "flakeref.lock".
	LockfilePath string

	// Logger receives debug diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Client is the main entry point for working with a project's inputs.
// It implements Checker, Verifier, Updater and Pruner. Only the project
// config is read; system and user layers are a CLI concern.
type Client struct {
	logger       *slog.Logger
	configPath   string
	lockfilePath string
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.FileName
	}
	if opts.LockfilePath == "" {
		opts.LockfilePath = lock.FileName
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		logger:       logger,
		configPath:   opts.ConfigPath,
		lockfilePath: opts.LockfilePath,
	}
}

func (c *Client) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

func (c *Client) loadLockfile() (*lock.Lockfile, error) {
	lf, err := lock.Load(c.lockfilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return &lock.Lockfile{Version: 1}, nil
	}
	return lf, err
}

// Check parses every configured input.
func (c *Client) Check(ctx context.Context) (*CheckResult, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	eng := &engine.CheckEngine{Logger: c.logger}
	return eng.Check(ctx, *cfg)
}

// Verify reports inputs whose canonical form differs from the lockfile.
func (c *Client) Verify(ctx context.Context, inputNames []string) (*VerifyResult, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}
	eng := &engine.VerifyEngine{Logger: c.logger}
	return eng.Verify(ctx, *lf, *cfg, inputNames)
}

// Status returns the lock state of all (or named) inputs.
func (c *Client) Status(ctx context.Context, inputNames []string) ([]InputStatus, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}
	eng := &engine.StatusEngine{Logger: c.logger}
	return eng.Status(ctx, *lf, *cfg, inputNames)
}

// Prune removes lockfile entries for inputs no longer configured.
func (c *Client) Prune(ctx context.Context, opts PruneOptions) (*PruneResult, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}

	eng := &engine.PruneEngine{Logger: c.logger}
	result, err := eng.Prune(ctx, *lf, *cfg, engine.PruneOptions{DryRun: opts.DryRun})
	if err != nil {
		return nil, err
	}
	if result.Lockfile != nil && len(result.Removed) > 0 {
		if err := lock.Save(c.lockfilePath, result.Lockfile); err != nil {
			return nil, fmt.Errorf("saving lockfile: %w", err)
		}
	}
	return result, nil
}

// Update writes the canonical form of the selected inputs to the lockfile.
func (c *Client) Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	lf, err := c.loadLockfile()
	if err != nil {
		return nil, err
	}

	eng := &engine.UpdateEngine{Logger: c.logger}
	result, err := eng.Update(ctx, *cfg, lf, engine.UpdateOptions{
		DryRun:     opts.DryRun,
		InputNames: opts.InputNames,
	})
	if err != nil {
		return nil, err
	}

	// Convert engine result to public API result.
	out := &UpdateResult{Failed: result.Failed}
	for _, u := range result.Updated {
		iu := InputUpdate{Name: u.Name, Before: "(new)", After: u.After.Ref.String(), Changed: u.Changed()}
		if u.Before != nil {
			iu.Before = u.Before.Ref.String()
		}
		out.Updated = append(out.Updated, iu)
	}

	if result.Lockfile != nil {
		if err := lock.Save(c.lockfilePath, result.Lockfile); err != nil {
			return nil, fmt.Errorf("saving lockfile: %w", err)
		}
	}
	return out, nil
}
