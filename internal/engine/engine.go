// Package engine implements the flakeref commands that operate on a
// project's configured inputs and its lockfile.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// selectInputs returns the named inputs in the order given, or every
// input when names is empty. Unknown names are reported as errors.
func selectInputs(cfg config.Config, names []string) ([]config.Input, []InputError) {
	if len(names) == 0 {
		return cfg.Inputs, nil
	}

	var (
		selected []config.Input
		errs     []InputError
	)
	for _, name := range names {
		in, ok := cfg.Input(name)
		if !ok {
			errs = append(errs, InputError{Input: name, Err: fmt.Errorf("input '%s' not found in config", name)})
			continue
		}
		selected = append(selected, in)
	}
	return selected, errs
}

func lockedByName(lf *lock.Lockfile) map[string]lock.LockedInput {
	m := make(map[string]lock.LockedInput)
	if lf == nil {
		return m
	}
	for _, li := range lf.Inputs {
		m[li.Name] = li
	}
	return m
}

// summarizeLocked is the short "pinned at" text of a locked input.
func summarizeLocked(li lock.LockedInput) string {
	r := li.Resolved
	switch {
	case r.Rev != "":
		return shorten(r.Rev)
	case r.NarHash != "":
		return "narHash:" + shorten(r.NarHash)
	case r.Ref != "":
		return r.Ref
	}
	return "(unpinned)"
}

func shorten(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
