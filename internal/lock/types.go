package lock

import "github.com/bianoble/flakeref/internal/flakeref"

// FileName is the lockfile written next to flakeref.yaml.
const FileName = "flakeref.lock"

// Lockfile represents the flakeref.lock file.
type Lockfile struct {
	Inputs  []LockedInput `yaml:"inputs"`
	Version int           `yaml:"version"`
}

// LockedInput records the canonical form of one configured input.
type LockedInput struct {
	Name     string             `yaml:"name"`
	Kind     string             `yaml:"kind"`
	Ref      flakeref.Reference `yaml:"ref"`
	Resolved ResolvedState      `yaml:"resolved,omitempty"`
	Status   string             `yaml:"status"`
}

// ResolvedState is the location and pinning data extracted from a
// reference. Fields are populated based on the variant.
type ResolvedState struct {
	// URL-based variants.
	URL string `yaml:"url,omitempty"`

	// Git services.
	Host  string `yaml:"host,omitempty"`
	Owner string `yaml:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty"`

	// Path and indirect.
	Path string `yaml:"path,omitempty"`
	ID   string `yaml:"id,omitempty"`

	Ref          string `yaml:"ref,omitempty"`
	Rev          string `yaml:"rev,omitempty"`
	NarHash      string `yaml:"nar_hash,omitempty"`
	LastModified int64  `yaml:"last_modified,omitempty"`
}

// Pinned reports whether the reference names a commit or a content hash.
func (s ResolvedState) Pinned() bool {
	return s.Rev != "" || s.NarHash != ""
}

// Resolve extracts the ResolvedState of ref.
func Resolve(ref flakeref.Reference) ResolvedState {
	var s ResolvedState
	switch r := ref.Ref().(type) {
	case flakeref.FileRef:
		s.URL = r.URL
	case flakeref.TarballRef:
		s.URL = r.URL
	case flakeref.GitRef:
		s.URL = r.URL
	case flakeref.GitServiceRef:
		s.Host = r.EffectiveHost()
		s.Owner = r.Owner
		s.Repo = r.Repo
	case flakeref.PathRef:
		s.Path = r.Path
	case flakeref.IndirectRef:
		s.ID = r.ID
	case nil:
		return s
	}

	attrs := ref.Ref().Attrs()
	s.Ref = attrs.Ref
	s.Rev = attrs.Rev
	s.NarHash = attrs.NarHash
	if attrs.LastModified != nil {
		s.LastModified = attrs.LastModified.Unix()
	}
	return s
}

// Lock builds the LockedInput for a named reference.
func Lock(name string, ref flakeref.Reference) LockedInput {
	return LockedInput{
		Name:     name,
		Kind:     ref.Kind().String(),
		Ref:      ref,
		Resolved: Resolve(ref),
		Status:   "ok",
	}
}

// Input returns the locked input with the given name.
func (lf *Lockfile) Input(name string) (LockedInput, bool) {
	for _, in := range lf.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return LockedInput{}, false
}
