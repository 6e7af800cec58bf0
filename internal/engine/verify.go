package engine

import (
	"context"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

// VerifyEngine compares configured inputs against the lockfile.
type VerifyEngine struct {
	Logger *slog.Logger
}

// Verify reports inputs whose canonical reference differs from the one
// recorded in lf.
func (e *VerifyEngine) Verify(ctx context.Context, lf lock.Lockfile, cfg config.Config, inputNames []string) (*VerifyResult, error) {
	log := loggerOrDiscard(e.Logger)
	result := &VerifyResult{}

	inputs, errs := selectInputs(cfg, inputNames)
	result.Errors = append(result.Errors, errs...)
	locked := lockedByName(&lf)

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ref, err := in.Reference()
		if err != nil {
			result.Errors = append(result.Errors, InputError{Input: in.Name, Err: err})
			continue
		}

		li, ok := locked[in.Name]
		if !ok {
			result.Changed = append(result.Changed, InputDelta{
				Input:  in.Name,
				Before: "(not locked)",
				After:  ref.String(),
			})
			continue
		}

		if li.Ref.String() != ref.String() {
			log.Debug("input changed", "input", in.Name, "locked", li.Ref.String(), "current", ref.String())
			result.Changed = append(result.Changed, InputDelta{
				Input:  in.Name,
				Before: li.Ref.String(),
				After:  ref.String(),
			})
			continue
		}
		result.UpToDate = append(result.UpToDate, in.Name)
	}

	return result, nil
}
