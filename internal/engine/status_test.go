package engine

import (
	"context"
	"testing"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

func TestStatusEngineStates(t *testing.T) {
	cfg := testConfig()
	cfg.Inputs = append(cfg.Inputs, config.Input{Name: "broken", Ref: "github:flox"})

	lf := lock.Lockfile{
		Version: 1,
		Inputs: []lock.LockedInput{
			lockedFor(t, "nixpkgs", "flake:nixpkgs"),
			lockedFor(t, "runix", "github:flox/runix/"+testRev),
		},
	}

	eng := &StatusEngine{Logger: testLogger()}
	statuses, err := eng.Status(context.Background(), lf, cfg, nil)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 4 {
		t.Fatalf("statuses = %d, want 4", len(statuses))
	}

	want := map[string]string{
		"nixpkgs": "stale",
		"runix":   "locked",
		"local":   "pending",
		"broken":  "invalid",
	}
	for _, s := range statuses {
		if s.State != want[s.Name] {
			t.Errorf("%s: state = %q, want %q", s.Name, s.State, want[s.Name])
		}
	}

	runix := statuses[1]
	if runix.Kind != "github" || runix.PinnedAt != "01234567" {
		t.Errorf("runix = %+v", runix)
	}
	if statuses[2].PinnedAt != "(not locked)" {
		t.Errorf("local pinned at %q", statuses[2].PinnedAt)
	}
	if statuses[3].Ref != "github:flox" || statuses[3].Kind != "" {
		t.Errorf("broken = %+v", statuses[3])
	}
}

func TestStatusEngineSkipsUnknown(t *testing.T) {
	eng := &StatusEngine{}
	statuses, err := eng.Status(context.Background(), lock.Lockfile{Version: 1}, testConfig(), []string{"runix", "ghost"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Name != "runix" {
		t.Errorf("statuses = %+v", statuses)
	}
}
