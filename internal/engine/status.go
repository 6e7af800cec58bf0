package engine

import (
	"context"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

// StatusEngine computes the lock state of configured inputs.
type StatusEngine struct {
	Logger *slog.Logger
}

// InputStatus describes the current state of an input.
type InputStatus struct {
	Name     string
	Kind     string
	Ref      string
	PinnedAt string
	State    string // "locked", "stale", "pending", "invalid"
}

// Status returns the state of all (or named) inputs. Unknown names are
// skipped.
func (e *StatusEngine) Status(ctx context.Context, lf lock.Lockfile, cfg config.Config, inputNames []string) ([]InputStatus, error) {
	log := loggerOrDiscard(e.Logger)
	inputs, errs := selectInputs(cfg, inputNames)
	for _, err := range errs {
		log.Warn("skipping input", "input", err.Input, "error", err.Err)
	}
	locked := lockedByName(&lf)

	var statuses []InputStatus
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s := InputStatus{Name: in.Name, Ref: in.Ref, PinnedAt: "(not locked)"}
		ref, err := in.Reference()
		if err == nil {
			s.Kind = ref.Kind().String()
			s.Ref = ref.String()
		}

		li, isLocked := locked[in.Name]
		if isLocked {
			s.PinnedAt = summarizeLocked(li)
		}

		switch {
		case err != nil:
			s.State = "invalid"
		case !isLocked:
			s.State = "pending"
		case li.Ref.String() != ref.String():
			s.State = "stale"
		default:
			s.State = "locked"
		}
		statuses = append(statuses, s)
	}

	return statuses, nil
}
