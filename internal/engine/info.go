package engine

import (
	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/flakeref"
)

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds tool information for the info command.
type InfoResult struct {
	Version     string
	ConfigPath  string
	LockPath    string
	Grammars    []GrammarInfo
	ConfigChain []ConfigLayerStatus
	LockVersion int
}

// GrammarInfo describes one entry of the parser dispatch table.
type GrammarInfo struct {
	Kind   string
	Family string
}

// Info gathers tool information.
func Info(version string, layers []config.ConfigLayerInfo, configPath, lockPath string) *InfoResult {
	r := &InfoResult{
		Version:     version,
		LockVersion: 1,
		ConfigPath:  configPath,
		LockPath:    lockPath,
	}

	for _, l := range layers {
		r.ConfigChain = append(r.ConfigChain, ConfigLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	for _, g := range flakeref.Grammars() {
		r.Grammars = append(r.Grammars, GrammarInfo{
			Kind:   g.Kind().String(),
			Family: string(g.Kind().Family()),
		})
	}

	return r
}
