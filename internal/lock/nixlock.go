package lock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/jsonc"

	"github.com/bianoble/flakeref/internal/flakeref"
)

// NixLock is the content of a Nix flake.lock file.
type NixLock struct {
	Nodes   map[string]NixNode `json:"nodes"`
	Root    string             `json:"root"`
	Version int                `json:"version"`
}

// NixNode is one node of the lock graph. The root node carries only
// Inputs; every other node carries the reference it was locked to and the
// reference it was written as.
type NixNode struct {
	Locked   *flakeref.Reference  `json:"locked,omitempty"`
	Original *flakeref.Reference  `json:"original,omitempty"`
	Inputs   map[string]NodeInput `json:"inputs,omitempty"`
	Flake    *bool                `json:"flake,omitempty"`
}

// NodeInput is an edge of the lock graph: either the name of a node, or
// a "follows" path of input names starting at the root.
type NodeInput struct {
	Node    string
	Follows []string
}

func (in NodeInput) MarshalJSON() ([]byte, error) {
	if in.Follows != nil {
		return json.Marshal(in.Follows)
	}
	return json.Marshal(in.Node)
}

func (in *NodeInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var path []string
		if err := json.Unmarshal(data, &path); err != nil {
			return fmt.Errorf("input follows path: %w", err)
		}
		*in = NodeInput{Follows: path}
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("input must be a node name or a follows path: %w", err)
	}
	*in = NodeInput{Node: name}
	return nil
}

// ParseNixLock decodes a flake.lock document. Comments and trailing
// commas are accepted.
func ParseNixLock(data []byte) (*NixLock, error) {
	var nl NixLock
	if err := json.Unmarshal(jsonc.ToJSON(data), &nl); err != nil {
		return nil, err
	}
	if nl.Root == "" {
		return nil, errors.New("flake.lock has no root node")
	}
	root, ok := nl.Nodes[nl.Root]
	if !ok {
		return nil, fmt.Errorf("flake.lock root node %q is missing", nl.Root)
	}
	for name, in := range root.Inputs {
		if in.Follows == nil {
			if _, ok := nl.Nodes[in.Node]; !ok {
				return nil, fmt.Errorf("root input %q points at missing node %q", name, in.Node)
			}
		}
	}
	return &nl, nil
}

// LoadNixLock reads and decodes a flake.lock file.
func LoadNixLock(path string) (*NixLock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flake.lock %s: %w", path, err)
	}
	nl, err := ParseNixLock(data)
	if err != nil {
		return nil, fmt.Errorf("parsing flake.lock %s: %w", path, err)
	}
	return nl, nil
}

// NodeNames returns the names of all non-root nodes, sorted.
func (nl *NixLock) NodeNames() []string {
	names := make([]string, 0, len(nl.Nodes))
	for name := range nl.Nodes {
		if name != nl.Root {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve follows a root input to the node it names. Follows paths are
// walked input by input from the root.
func (nl *NixLock) Resolve(input string) (string, NixNode, error) {
	return nl.resolve([]string{input}, 0)
}

// maxFollows bounds follows chains so that a cyclic graph cannot loop.
const maxFollows = 64

func (nl *NixLock) resolve(path []string, depth int) (string, NixNode, error) {
	if depth > maxFollows {
		return "", NixNode{}, fmt.Errorf("follows chain %v is too deep", path)
	}
	current := nl.Root
	for _, step := range path {
		node := nl.Nodes[current]
		in, ok := node.Inputs[step]
		if !ok {
			return "", NixNode{}, fmt.Errorf("node %q has no input %q", current, step)
		}
		if in.Follows != nil {
			name, _, err := nl.resolve(in.Follows, depth+1)
			if err != nil {
				return "", NixNode{}, err
			}
			current = name
			continue
		}
		current = in.Node
	}
	node, ok := nl.Nodes[current]
	if !ok {
		return "", NixNode{}, fmt.Errorf("missing node %q", current)
	}
	return current, node, nil
}
