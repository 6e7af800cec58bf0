package engine

import (
	"context"
	"log/slog"

	"github.com/bianoble/flakeref/internal/config"
)

// CheckEngine validates the references of configured inputs.
type CheckEngine struct {
	Logger *slog.Logger
}

// Check parses every input's reference. Clean is true when all parse.
func (e *CheckEngine) Check(ctx context.Context, cfg config.Config) (*CheckResult, error) {
	log := loggerOrDiscard(e.Logger)
	result := &CheckResult{Clean: true}

	for _, in := range cfg.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ref, err := in.Reference()
		if err != nil {
			log.Debug("input rejected", "input", in.Name, "error", err)
			result.Invalid = append(result.Invalid, InputError{Input: in.Name, Err: err})
			result.Clean = false
			continue
		}
		log.Debug("input parsed", "input", in.Name, "kind", ref.Kind().String(), "canonical", ref.String())
		result.Valid = append(result.Valid, CheckedInput{Name: in.Name, Ref: ref})
	}

	return result, nil
}
