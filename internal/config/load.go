package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/flakeref/internal/flakeref"
)

// Parse reads and unmarshals a config file without validating it.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Load reads and validates a single flakeref.yaml file.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

// Save validates cfg and writes it atomically using a temp file and rename.
func Save(path string, cfg *Config) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp config %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp config to %s: %w", path, err)
	}
	return nil
}

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit loads the project config only.
	NoInherit bool
}

// HierarchicalResult is the merged config and the layers it came from.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical merges the system, user and project configs. System
// and user layers are optional; the project layer is required. The merged
// result is validated once.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	if opts.NoInherit {
		cfg, err := Load(opts.ProjectPath)
		if err != nil {
			return nil, err
		}
		return &HierarchicalResult{
			Config: cfg,
			Layers: []ConfigLayerInfo{{Path: opts.ProjectPath, Level: LevelProject, Loaded: true}},
		}, nil
	}

	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      opts.ProjectPath,
		SystemConfigPath: opts.SystemConfigPath,
		UserConfigPath:   opts.UserConfigPath,
	})

	var configs []*Config
	for i := range layers {
		layer := &layers[i]
		cfg, err := Parse(layer.Path)
		if err != nil {
			if layer.Level != LevelProject && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			layer.Err = err
			return nil, fmt.Errorf("%s config: %w", layer.Level, err)
		}
		layer.Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, err
	}
	if errs := Validate(merged); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness and returns every
// problem found.
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d: only version 1 is supported", cfg.Version))
	}
	if len(cfg.Inputs) == 0 {
		errs = append(errs, "at least one input is required")
	}

	names := make(map[string]bool)
	for i, in := range cfg.Inputs {
		prefix := fmt.Sprintf("input[%d]", i)
		if in.Name != "" {
			prefix = fmt.Sprintf("input '%s'", in.Name)
		}

		switch {
		case in.Name == "":
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		case names[in.Name]:
			errs = append(errs, fmt.Sprintf("%s: duplicate input name '%s'", prefix, in.Name))
		default:
			names[in.Name] = true
			if err := flakeref.ValidateIdentifier(in.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
			}
		}

		if in.Ref == "" {
			errs = append(errs, fmt.Sprintf("%s: 'ref' is required, e.g. 'ref: github:owner/repo'", prefix))
			continue
		}
		if _, err := in.Reference(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
		}
	}
	return errs
}
