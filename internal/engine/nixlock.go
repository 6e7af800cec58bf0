package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

// ImportEngine converts the root inputs of a Nix flake.lock into a
// flakeref config and lockfile.
type ImportEngine struct {
	Logger *slog.Logger
}

// ImportResult holds the outcome of an import. Config lists each root
// input with its original reference. Lockfile records the same reference
// with the resolved state of the locked one, so verify passes and the
// pins survive later updates.
type ImportResult struct {
	Config   *config.Config
	Lockfile *lock.Lockfile
	Failed   []InputError
}

// Import walks the root inputs of nl in name order.
func (e *ImportEngine) Import(ctx context.Context, nl *lock.NixLock) (*ImportResult, error) {
	log := loggerOrDiscard(e.Logger)
	result := &ImportResult{
		Config:   &config.Config{Version: 1},
		Lockfile: &lock.Lockfile{Version: 1},
	}

	root := nl.Nodes[nl.Root]
	names := make([]string, 0, len(root.Inputs))
	for name := range root.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		nodeName, node, err := nl.Resolve(name)
		if err != nil {
			result.Failed = append(result.Failed, InputError{Input: name, Err: err})
			continue
		}
		if node.Original == nil || node.Locked == nil {
			result.Failed = append(result.Failed, InputError{
				Input: name,
				Err:   fmt.Errorf("node %q lacks an original or locked reference", nodeName),
			})
			continue
		}

		result.Config.Inputs = append(result.Config.Inputs, config.Input{
			Name: name,
			Ref:  node.Original.String(),
		})
		li := lock.Lock(name, *node.Original)
		li.Resolved = lock.Resolve(*node.Locked)
		result.Lockfile.Inputs = append(result.Lockfile.Inputs, li)
		log.Debug("imported input", "input", name, "node", nodeName, "locked", node.Locked.String())
	}

	return result, nil
}
