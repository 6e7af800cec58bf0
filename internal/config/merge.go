package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base.
// Versions must agree when both are declared. Inputs merge by name: an
// overlay input replaces the base input of the same name.
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}
	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}
	result.Inputs = mergeInputs(base.Inputs, overlay.Inputs)
	return result, nil
}

// MergeAll merges configs in order, lowest precedence first.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for _, next := range configs[1:] {
		var err error
		if result, err = Merge(result, next); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0:
		*out = overlay
	case overlay == 0, base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d", base, overlay)
	}
	return nil
}

func mergeInputs(base, overlay []Input) []Input {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	replaced := make(map[string]bool, len(overlay))
	for _, in := range overlay {
		replaced[in.Name] = true
	}

	var result []Input
	for _, in := range base {
		if !replaced[in.Name] {
			result = append(result, in)
		}
	}
	return append(result, overlay...)
}
