package flakeref

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// Service is a git hosting service with a shorthand reference form.
type Service int

const (
	ServiceGithub Service = iota + 1
	ServiceGitlab
)

// Scheme returns the shorthand prefix without the colon.
func (s Service) Scheme() string {
	switch s {
	case ServiceGithub:
		return "github"
	case ServiceGitlab:
		return "gitlab"
	}
	return ""
}

// DefaultHost is the host used when a reference carries no override.
func (s Service) DefaultHost() string {
	switch s {
	case ServiceGithub:
		return "github.com"
	case ServiceGitlab:
		return "gitlab.com"
	}
	return ""
}

func (s Service) String() string { return s.Scheme() }

const attrHost = "host"

// GitServiceRef is the shorthand "<service>:<owner>/<repo>[/<ref-or-rev>]".
// Ref or Rev, never both, travel in Attributes. Host is empty unless the
// reference overrides the service's default host.
type GitServiceRef struct {
	Service    Service
	Owner      string
	Repo       string
	Host       string
	Attributes Attributes
}

func (GitServiceRef) isRef() {}

func (r GitServiceRef) Kind() Kind {
	if r.Service == ServiceGitlab {
		return KindGitlab
	}
	return KindGithub
}

func (r GitServiceRef) Attrs() Attributes { return r.Attributes }

// EffectiveHost returns Host, or the service default.
func (r GitServiceRef) EffectiveHost() string {
	if r.Host != "" {
		return r.Host
	}
	return r.Service.DefaultHost()
}

func (r GitServiceRef) String() string {
	var b strings.Builder
	b.WriteString(r.Service.Scheme())
	b.WriteByte(':')
	b.WriteString(r.Owner)
	b.WriteByte('/')
	b.WriteString(r.Repo)

	query := writeRefOrRev(&b, r.Attributes)
	if r.Host != "" {
		query.Set(attrHost, r.Host)
	}
	writeQuery(&b, query)
	return b.String()
}

func (r GitServiceRef) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	r.Attributes.fields(m)
	m["type"] = r.Service.Scheme()
	m["owner"] = r.Owner
	m["repo"] = r.Repo
	if r.Host != "" {
		m[attrHost] = r.Host
	}
	return json.Marshal(m)
}

type serviceGrammar struct {
	service Service
}

func (g serviceGrammar) Kind() Kind { return GitServiceRef{Service: g.service}.Kind() }

func (g serviceGrammar) Recognize(s string) bool {
	return strings.HasPrefix(s, g.service.Scheme()+":")
}

func (g serviceGrammar) Parse(s string) (Ref, error) {
	body, rawQuery := splitQuery(strings.TrimPrefix(s, g.service.Scheme()+":"))
	if strings.Contains(body, "#") {
		return nil, errors.New("fragment is not part of a flake reference")
	}

	segments := strings.Split(body, "/")
	if len(segments) < 2 {
		return nil, fmt.Errorf("expected %s:<owner>/<repo>[/<ref-or-rev>]", g.service)
	}
	if err := validateIdentifier(segments[0], "owner"); err != nil {
		return nil, err
	}
	if err := validateIdentifier(segments[1], "repo"); err != nil {
		return nil, err
	}
	if len(segments) > 3 {
		return nil, fmt.Errorf("too many path segments in %q: expected <owner>/<repo>[/<ref-or-rev>]", body)
	}

	attrs, err := ParseAttributes(rawQuery)
	if err != nil {
		return nil, err
	}
	host, hasHost := attrs.take(attrHost)
	if hasHost && host == "" {
		return nil, &AttributeError{Key: attrHost, Err: errors.New("empty value")}
	}
	if len(segments) == 3 {
		if err := placeRefOrRev(&attrs, segments[2]); err != nil {
			return nil, err
		}
	}
	if attrs.Ref != "" && attrs.Rev != "" {
		return nil, errors.New("reference names both a ref and a rev")
	}

	return GitServiceRef{
		Service:    g.service,
		Owner:      segments[0],
		Repo:       segments[1],
		Host:       host,
		Attributes: attrs,
	}, nil
}

// placeRefOrRev stores a positional segment as a rev when it is a full
// commit hash and as a ref otherwise.
func placeRefOrRev(attrs *Attributes, segment string) error {
	if segment == "" {
		return errors.New("empty ref-or-rev segment")
	}
	if plumbing.IsHash(segment) {
		if attrs.Rev != "" {
			return &AttributeError{Key: attrRev, Err: ErrDuplicateAttribute}
		}
		attrs.Rev = segment
		return nil
	}
	if err := validateRefName(segment); err != nil {
		return err
	}
	if attrs.Ref != "" {
		return &AttributeError{Key: attrRef, Err: ErrDuplicateAttribute}
	}
	attrs.Ref = segment
	return nil
}

// writeRefOrRev writes the rev, or else a ref that fits in a path
// segment, as "/<value>" and returns the remaining query values.
func writeRefOrRev(b *strings.Builder, attrs Attributes) url.Values {
	query := attrs.values()
	switch {
	case attrs.Rev != "" && plumbing.IsHash(attrs.Rev):
		b.WriteByte('/')
		b.WriteString(attrs.Rev)
		query.Del(attrRev)
	case attrs.Ref != "" && refPattern.MatchString(attrs.Ref) && !plumbing.IsHash(attrs.Ref):
		b.WriteByte('/')
		b.WriteString(attrs.Ref)
		query.Del(attrRef)
	}
	return query
}

func decodeGitService(fields map[string]json.RawMessage, service Service) (Ref, error) {
	if fieldType(fields) != service.Scheme() {
		return nil, errMismatch
	}
	owner, err := stringField(fields, "owner")
	if err != nil {
		return nil, err
	}
	repo, err := stringField(fields, "repo")
	if err != nil {
		return nil, err
	}
	if err := validateIdentifier(owner, "owner"); err != nil {
		return nil, err
	}
	if err := validateIdentifier(repo, "repo"); err != nil {
		return nil, err
	}

	var host string
	if _, ok := fields[attrHost]; ok {
		if host, err = stringField(fields, attrHost); err != nil {
			return nil, err
		}
	}
	attrs, err := decodeAttributes(fields, "type", "owner", "repo", attrHost)
	if err != nil {
		return nil, err
	}
	if attrs.Ref != "" && attrs.Rev != "" {
		return nil, errors.New("reference names both a ref and a rev")
	}
	return GitServiceRef{Service: service, Owner: owner, Repo: repo, Host: host, Attributes: attrs}, nil
}
