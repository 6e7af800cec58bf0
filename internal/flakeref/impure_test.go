package flakeref

import (
	"path/filepath"
	"testing"
)

func TestParseImpure(t *testing.T) {
	tests := []struct {
		input string
		pure  bool
	}{
		{"github:flox/runix", true},
		{"path:/somewhere", true},
		{"flake:nixpkgs", true},
		{".", false},
		{"./sub/flake", false},
		{"/abs/flake", false},
		{"nixpkgs", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseImpure(tt.input)
			if err != nil {
				t.Fatalf("ParseImpure: %v", err)
			}
			if r.IsPure() != tt.pure {
				t.Errorf("IsPure() = %v, want %v", r.IsPure(), tt.pure)
			}
			if r.String() != tt.input {
				t.Errorf("String() = %q", r.String())
			}
		})
	}
}

func TestParseImpureRejectsBadPureForm(t *testing.T) {
	if _, err := ParseImpure("github:1flox/runix"); err == nil {
		t.Error("expected error for invalid pure reference")
	}
}

func TestImpureResolvePath(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work", "project")

	r, _ := ParseImpure("./sub/../flake")
	resolved, err := r.ResolvePath(base)
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if resolved.Kind() != KindPath {
		t.Fatalf("kind = %s", resolved.Kind())
	}
	want := filepath.Join(base, "flake")
	if got := resolved.Ref().(PathRef).Path; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	pure, _ := ParseImpure("github:flox/runix")
	resolved, err = pure.ResolvePath(base)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.String() != "github:flox/runix" {
		t.Errorf("pure ResolvePath = %q", resolved)
	}
}
