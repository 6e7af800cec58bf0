package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/flakeref/internal/flakeref"
)

func TestLoadValidLockfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(exampleLockfile), 0644); err != nil {
		t.Fatal(err)
	}

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lf.Version != 1 {
		t.Errorf("version = %d, want 1", lf.Version)
	}
	if len(lf.Inputs) != 3 {
		t.Errorf("inputs = %d, want 3", len(lf.Inputs))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/flakeref.lock")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadInvalidReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "version: 1\ninputs:\n  - name: x\n    kind: github\n    ref: github:1flox/runix\n    status: ok\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var ie *flakeref.IdentifierError
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v, want *IdentifierError", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	original := &Lockfile{
		Version: 1,
		Inputs: []LockedInput{
			Lock("runix", flakeref.MustParse("git+https://github.com/flox/runix?ref=main&shallow=true")),
		},
	}
	if err := Save(path, original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if len(loaded.Inputs) != 1 {
		t.Fatalf("inputs = %d, want 1", len(loaded.Inputs))
	}
	in := loaded.Inputs[0]
	if in.Ref.String() != original.Inputs[0].Ref.String() {
		t.Errorf("ref = %q, want %q", in.Ref, original.Inputs[0].Ref)
	}
	if in.Resolved.URL != "https://github.com/flox/runix" || in.Resolved.Ref != "main" {
		t.Errorf("resolved = %+v", in.Resolved)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file should not exist after save")
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	for _, name := range []string{"first", "second"} {
		lf := &Lockfile{Version: 1, Inputs: []LockedInput{Lock(name, flakeref.MustParse("path:/x"))}}
		if err := Save(path, lf); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Inputs[0].Name != "second" {
		t.Errorf("name = %q, want second", loaded.Inputs[0].Name)
	}
}

func TestValidate(t *testing.T) {
	gh := flakeref.MustParse("github:flox/runix")
	tests := []struct {
		name string
		lf   Lockfile
		want []string
	}{
		{
			name: "version",
			lf:   Lockfile{Version: 99},
			want: []string{"unsupported version 99"},
		},
		{
			name: "duplicate",
			lf:   Lockfile{Version: 1, Inputs: []LockedInput{Lock("a", gh), Lock("a", gh)}},
			want: []string{"duplicate input name 'a'"},
		},
		{
			name: "missing fields",
			lf:   Lockfile{Version: 1, Inputs: []LockedInput{{}}},
			want: []string{"'name' is required", "'ref' is required", "'kind' is required", "'status' is required"},
		},
		{
			name: "unknown kind",
			lf:   Lockfile{Version: 1, Inputs: []LockedInput{{Name: "a", Kind: "svn", Ref: gh, Status: "ok"}}},
			want: []string{"unknown reference kind"},
		},
		{
			name: "kind mismatch",
			lf:   Lockfile{Version: 1, Inputs: []LockedInput{{Name: "a", Kind: "gitlab", Ref: gh, Status: "ok"}}},
			want: []string{"does not match ref kind 'github'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.lf)
			for _, want := range tt.want {
				if !containsSubstring(errs, want) {
					t.Errorf("expected %q in %v", want, errs)
				}
			}
		})
	}
}

func TestValidateValidLockfile(t *testing.T) {
	lf := &Lockfile{
		Version: 1,
		Inputs: []LockedInput{
			Lock("a", flakeref.MustParse("github:flox/runix")),
			Lock("b", flakeref.MustParse("https://example.com/x.zip")),
		},
	}
	if errs := Validate(lf); len(errs) > 0 {
		t.Errorf("expected no errors for valid lockfile, got: %v", errs)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	verr := &ValidationError{Errors: []string{"error one", "error two"}}
	msg := verr.Error()
	if !strings.Contains(msg, "error one") || !strings.Contains(msg, "error two") {
		t.Errorf("error message missing details: %s", msg)
	}
}

func containsSubstring(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
