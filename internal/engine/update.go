package engine

import (
	"context"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

// UpdateEngine records the canonical form of inputs in the lockfile.
type UpdateEngine struct {
	Logger *slog.Logger
}

// UpdateOptions configures an update operation.
type UpdateOptions struct {
	DryRun     bool
	InputNames []string // empty = update all
}

// InputUpdate records what changed for a single input.
type InputUpdate struct {
	Name   string
	Before *lock.LockedInput
	After  *lock.LockedInput
}

// Changed reports whether the locked canonical form differs.
func (u InputUpdate) Changed() bool {
	return u.Before == nil || u.Before.Ref.String() != u.After.Ref.String()
}

// UpdateResult holds the outcome of an update operation.
type UpdateResult struct {
	Updated  []InputUpdate
	Failed   []InputError
	Lockfile *lock.Lockfile // nil if dry-run
}

// Update parses the selected inputs and builds the new lockfile. Inputs
// whose canonical form is unchanged keep their previous entry, including
// any resolved state. Inputs that fail keep their previous entry; new
// inputs that fail are left out.
func (e *UpdateEngine) Update(ctx context.Context, cfg config.Config, currentLock *lock.Lockfile, opts UpdateOptions) (*UpdateResult, error) {
	log := loggerOrDiscard(e.Logger)
	result := &UpdateResult{}

	inputs, errs := selectInputs(cfg, opts.InputNames)
	result.Failed = append(result.Failed, errs...)

	current := lockedByName(currentLock)
	updated := make(map[string]lock.LockedInput)
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ref, err := in.Reference()
		if err != nil {
			result.Failed = append(result.Failed, InputError{Input: in.Name, Err: err})
			continue
		}

		li := lock.Lock(in.Name, ref)
		var before *lock.LockedInput
		if prev, ok := current[in.Name]; ok {
			before = &prev
			if prev.Ref.String() == ref.String() {
				li = prev
			}
		}
		result.Updated = append(result.Updated, InputUpdate{Name: in.Name, Before: before, After: &li})
		updated[in.Name] = li
		log.Debug("input locked", "input", in.Name, "ref", ref.String())
	}

	if opts.DryRun {
		return result, nil
	}

	newLock := &lock.Lockfile{Version: 1}
	for _, in := range cfg.Inputs {
		if li, ok := updated[in.Name]; ok {
			newLock.Inputs = append(newLock.Inputs, li)
		} else if li, ok := current[in.Name]; ok {
			newLock.Inputs = append(newLock.Inputs, li)
		}
	}

	result.Lockfile = newLock
	return result, nil
}
