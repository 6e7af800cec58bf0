package config

import "github.com/bianoble/flakeref/internal/flakeref"

// Config represents a flakeref.yaml file: a named set of flake inputs.
type Config struct {
	Version int     `yaml:"version"`
	Inputs  []Input `yaml:"inputs"`
}

// Input is one named flake reference.
type Input struct {
	Name        string `yaml:"name"`
	Ref         string `yaml:"ref"`
	Description string `yaml:"description,omitempty"`
}

// Reference parses the input's ref.
func (in Input) Reference() (flakeref.Reference, error) {
	return flakeref.Parse(in.Ref)
}

// Input returns the input with the given name.
func (c *Config) Input(name string) (Input, bool) {
	for _, in := range c.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}
