package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FileName is the name of a flakeref input manifest at every level.
const FileName = "flakeref.yaml"

const configDirName = "flakeref"

// Environment variables read during discovery.
const (
	EnvSystemConfig = "FLAKEREF_SYSTEM_CONFIG"
	EnvUserConfig   = "FLAKEREF_USER_CONFIG"
	envNoInherit    = "FLAKEREF_NO_INHERIT"
)

// ConfigLevel names the layer a manifest was read from. Inputs declared
// at a higher level replace same-named inputs from lower ones.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"  // machine-wide pins, e.g. a shared nixpkgs
	LevelUser    ConfigLevel = "user"    // per-user pins and registry shortcuts
	LevelProject ConfigLevel = "project" // the manifest next to the lockfile
)

// ConfigLayerInfo is one manifest considered by LoadHierarchical.
type ConfigLayerInfo struct {
	Err    error // set when the file exists but could not be parsed
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions selects the manifests to layer. An empty system or user
// path falls back to the environment and then to the platform location;
// pointing one at a missing file disables that layer.
type DiscoverOptions struct {
	ProjectPath      string
	SystemConfigPath string
	UserConfigPath   string
}

// DiscoverPaths lists the manifests to merge, system first and project
// last. A file reachable from two levels is kept only at the lower one.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	candidates := []ConfigLayerInfo{
		{Level: LevelSystem, Path: firstNonEmpty(opts.SystemConfigPath, os.Getenv(EnvSystemConfig), systemLayerPath())},
		{Level: LevelUser, Path: firstNonEmpty(opts.UserConfigPath, os.Getenv(EnvUserConfig), userLayerPath())},
		{Level: LevelProject, Path: opts.ProjectPath},
	}

	layers := make([]ConfigLayerInfo, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Path == "" {
			continue
		}
		key := c.Path
		if abs, err := filepath.Abs(c.Path); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		layers = append(layers, c)
	}
	return layers
}

func firstNonEmpty(paths ...string) string {
	for _, p := range paths {
		if p != "" {
			return p
		}
	}
	return ""
}

// systemLayerPath is where a machine administrator pins shared inputs.
func systemLayerPath() string {
	root := "/etc"
	if runtime.GOOS == "windows" {
		root = os.Getenv("ProgramData")
		if root == "" {
			root = `C:\ProgramData`
		}
	}
	return filepath.Join(root, configDirName, FileName)
}

// userLayerPath honours XDG_CONFIG_HOME through os.UserConfigDir.
func userLayerPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, FileName)
}

// EnvNoInherit reports whether FLAKEREF_NO_INHERIT asks for the project
// manifest alone. Only "1" and "true" (any case) count.
func EnvNoInherit() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envNoInherit))) {
	case "1", "true":
		return true
	}
	return false
}
