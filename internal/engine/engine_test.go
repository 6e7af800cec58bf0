package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/flakeref"
	"github.com/bianoble/flakeref/internal/lock"
)

const testRev = "0123456789abcdef0123456789abcdef01234567"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{
		Version: 1,
		Inputs: []config.Input{
			{Name: "nixpkgs", Ref: "nixpkgs/nixos-23.05"},
			{Name: "runix", Ref: "github:flox/runix/" + testRev},
			{Name: "local", Ref: "path:/src/flake"},
		},
	}
}

func lockedFor(t *testing.T, name, ref string) lock.LockedInput {
	t.Helper()
	r, err := flakeref.Parse(ref)
	if err != nil {
		t.Fatalf("Parse(%q): %v", ref, err)
	}
	return lock.Lock(name, r)
}

func TestSummarizeLocked(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"github:flox/runix/" + testRev, "01234567"},
		{"path:/x?narHash=sha256-abcdefghij", "narHash:sha256-a"},
		{"github:flox/runix/main", "main"},
		{"github:flox/runix", "(unpinned)"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := summarizeLocked(lockedFor(t, "x", tt.ref)); got != tt.want {
				t.Errorf("summarizeLocked = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectInputs(t *testing.T) {
	cfg := testConfig()

	all, errs := selectInputs(cfg, nil)
	if len(all) != 3 || len(errs) != 0 {
		t.Fatalf("all = %d, errs = %d", len(all), len(errs))
	}

	some, errs := selectInputs(cfg, []string{"local", "missing"})
	if len(some) != 1 || some[0].Name != "local" {
		t.Errorf("selected = %+v", some)
	}
	if len(errs) != 1 || errs[0].Input != "missing" {
		t.Errorf("errs = %+v", errs)
	}
}

func TestInputErrorUnwrap(t *testing.T) {
	err := errors.New("boom")
	ie := InputError{Input: "x", Err: err}
	if !errors.Is(ie, err) {
		t.Error("Unwrap should return the wrapped error")
	}
	if ie.Error() != "x: "+err.Error() {
		t.Errorf("Error() = %q", ie.Error())
	}
}
