package flakeref

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const gitQualifier = "git"

// GitRef is a git repository reached over file, ssh, http or https.
// Ref, Rev, Shallow and Submodules travel in Attributes.
type GitRef struct {
	Transport  Transport
	URL        string
	Attributes Attributes
}

func (GitRef) isRef() {}

func (r GitRef) Kind() Kind {
	switch r.Transport {
	case TransportSSH:
		return KindGitSSH
	case TransportHTTPS:
		return KindGitHTTPS
	case TransportHTTP:
		return KindGitHTTP
	}
	return KindGitFile
}

func (r GitRef) Attrs() Attributes { return r.Attributes }

func (r GitRef) String() string {
	var b strings.Builder
	b.WriteString(gitQualifier)
	b.WriteByte('+')
	b.WriteString(r.URL)
	writeQuery(&b, r.Attributes.values())
	return b.String()
}

// ReferenceName returns the ref as a fully qualified git reference name.
// Short names are taken to be branches. Empty when no ref is set.
func (r GitRef) ReferenceName() plumbing.ReferenceName {
	return referenceName(r.Attributes.Ref)
}

func referenceName(ref string) plumbing.ReferenceName {
	switch {
	case ref == "":
		return ""
	case ref == "HEAD":
		return plumbing.HEAD
	case strings.HasPrefix(ref, "refs/"):
		return plumbing.ReferenceName(ref)
	}
	return plumbing.NewBranchReferenceName(ref)
}

func (r GitRef) MarshalJSON() ([]byte, error) {
	return marshalLocation("git", r.URL, r.Attributes)
}

type gitGrammar struct {
	transport Transport
}

func (g gitGrammar) Kind() Kind { return GitRef{Transport: g.transport}.Kind() }

func (g gitGrammar) Recognize(s string) bool {
	return strings.HasPrefix(s, gitQualifier+"+"+g.transport.Scheme()+":")
}

func (g gitGrammar) Parse(s string) (Ref, error) {
	location, attrs, err := parseLocation(strings.TrimPrefix(s, gitQualifier+"+"), g.transport)
	if err != nil {
		return nil, err
	}
	return GitRef{Transport: g.transport, URL: location, Attributes: attrs}, nil
}

func decodeGit(fields map[string]json.RawMessage, t Transport) (Ref, error) {
	rawURL, err := decodeURLField(fields, "git", t)
	if err != nil {
		return nil, err
	}
	location, attrs, err := parseLocation(rawURL, t)
	if err != nil {
		return nil, err
	}
	if !attrs.IsZero() {
		return nil, fmt.Errorf("url %q must not carry a query", rawURL)
	}
	attrs, err = decodeAttributes(fields, "type", "url")
	if err != nil {
		return nil, err
	}
	return GitRef{Transport: t, URL: location, Attributes: attrs}, nil
}
