package lock

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/flakeref/internal/flakeref"
)

// Load reads and validates a flakeref.lock file.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lockfile %s: %w", path, err)
	}

	if errs := Validate(&lf); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &lf, nil
}

// Save writes a lockfile atomically using a temp file and rename.
func Save(path string, lf *Lockfile) error {
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lockfile: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp lockfile %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp lockfile to %s: %w", path, err)
	}

	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lockfile validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Lockfile for semantic correctness and returns every
// problem found.
func Validate(lf *Lockfile) []string {
	var errs []string

	if lf.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d: only version 1 is supported", lf.Version))
	}

	names := make(map[string]bool)
	for i, in := range lf.Inputs {
		prefix := fmt.Sprintf("locked_input[%d]", i)
		if in.Name != "" {
			prefix = fmt.Sprintf("locked input '%s'", in.Name)
		}

		switch {
		case in.Name == "":
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		case names[in.Name]:
			errs = append(errs, fmt.Sprintf("%s: duplicate input name '%s'", prefix, in.Name))
		default:
			names[in.Name] = true
		}

		if in.Ref.IsZero() {
			errs = append(errs, fmt.Sprintf("%s: 'ref' is required", prefix))
		}
		if in.Kind == "" {
			errs = append(errs, fmt.Sprintf("%s: 'kind' is required", prefix))
		} else if kind, err := flakeref.ParseKind(in.Kind); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
		} else if !in.Ref.IsZero() && kind != in.Ref.Kind() {
			errs = append(errs, fmt.Sprintf("%s: kind '%s' does not match ref kind '%s'", prefix, in.Kind, in.Ref.Kind()))
		}

		if in.Status == "" {
			errs = append(errs, fmt.Sprintf("%s: 'status' is required", prefix))
		}
	}

	return errs
}
