package engine

import (
	"context"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

// PruneEngine removes lockfile entries that are no longer configured.
type PruneEngine struct {
	Logger *slog.Logger
}

// PruneOptions configures a prune operation.
type PruneOptions struct {
	DryRun bool
}

// PruneResult holds the outcome of a prune operation.
type PruneResult struct {
	Removed  []string
	Lockfile *lock.Lockfile // nil if dry-run
}

// Prune drops every locked input whose name is absent from cfg.
func (e *PruneEngine) Prune(ctx context.Context, lf lock.Lockfile, cfg config.Config, opts PruneOptions) (*PruneResult, error) {
	log := loggerOrDiscard(e.Logger)
	result := &PruneResult{}
	kept := &lock.Lockfile{Version: lf.Version}

	for _, li := range lf.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := cfg.Input(li.Name); ok {
			kept.Inputs = append(kept.Inputs, li)
			continue
		}
		log.Debug("pruning input", "input", li.Name)
		result.Removed = append(result.Removed, li.Name)
	}

	if !opts.DryRun {
		result.Lockfile = kept
	}
	return result, nil
}
