package engine

import (
	"context"
	"testing"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

func TestVerifyEngineAllUpToDate(t *testing.T) {
	lf := lock.Lockfile{
		Version: 1,
		Inputs: []lock.LockedInput{
			lockedFor(t, "nixpkgs", "flake:nixpkgs/nixos-23.05"),
			lockedFor(t, "runix", "github:flox/runix/"+testRev),
			lockedFor(t, "local", "path:/src/flake"),
		},
	}

	eng := &VerifyEngine{Logger: testLogger()}
	result, err := eng.Verify(context.Background(), lf, testConfig(), nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(result.UpToDate) != 3 {
		t.Errorf("up-to-date = %d, want 3", len(result.UpToDate))
	}
	if len(result.Changed) != 0 || len(result.Errors) != 0 {
		t.Errorf("changed = %v, errors = %v", result.Changed, result.Errors)
	}
}

func TestVerifyEngineChanged(t *testing.T) {
	lf := lock.Lockfile{
		Version: 1,
		Inputs: []lock.LockedInput{
			lockedFor(t, "nixpkgs", "flake:nixpkgs"),
			lockedFor(t, "runix", "github:flox/runix/"+testRev),
		},
	}

	eng := &VerifyEngine{}
	result, err := eng.Verify(context.Background(), lf, testConfig(), nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(result.Changed) != 2 {
		t.Fatalf("changed = %d, want 2", len(result.Changed))
	}

	byInput := make(map[string]InputDelta)
	for _, d := range result.Changed {
		byInput[d.Input] = d
	}
	if d := byInput["nixpkgs"]; d.Before != "flake:nixpkgs" || d.After != "flake:nixpkgs/nixos-23.05" {
		t.Errorf("nixpkgs delta = %+v", d)
	}
	if d := byInput["local"]; d.Before != "(not locked)" {
		t.Errorf("local delta = %+v", d)
	}
}

func TestVerifyEngineErrors(t *testing.T) {
	cfg := config.Config{
		Version: 1,
		Inputs:  []config.Input{{Name: "bad", Ref: "github:flox"}},
	}

	eng := &VerifyEngine{}
	result, err := eng.Verify(context.Background(), lock.Lockfile{Version: 1}, cfg, []string{"bad", "ghost"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v, want 2", result.Errors)
	}
}
