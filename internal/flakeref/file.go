package flakeref

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	fileQualifier    = "file"
	tarballQualifier = "tarball"
)

// FileRef is a plain file fetched over the file, http or https transport.
//
// Qualified records whether the reference is spelled with the explicit
// "file+" qualifier. A bare URL whose path ends in an archive extension
// would be read back as a TarballRef, so such URLs always render
// qualified.
//
// The attribute-set (JSON) form has no qualifier field: it keeps the kind,
// URL and attributes, and decoding sets Qualified only where the bare
// spelling would change the kind. "file+file:///x" therefore decodes back
// as the equivalent "file:///x".
type FileRef struct {
	Transport  Transport
	URL        string
	Qualified  bool
	Attributes Attributes
}

// TarballRef is an archive fetched and unpacked over the file, http or
// https transport. Bare URLs without an archive extension render with the
// "tarball+" qualifier. As with FileRef, the JSON form keeps the kind but
// not a redundant qualifier.
type TarballRef struct {
	Transport  Transport
	URL        string
	Qualified  bool
	Attributes Attributes
}

func (FileRef) isRef()    {}
func (TarballRef) isRef() {}

func (r FileRef) Kind() Kind {
	switch r.Transport {
	case TransportHTTP:
		return KindFileHTTP
	case TransportHTTPS:
		return KindFileHTTPS
	}
	return KindFileFile
}

func (r TarballRef) Kind() Kind {
	switch r.Transport {
	case TransportHTTP:
		return KindTarballHTTP
	case TransportHTTPS:
		return KindTarballHTTPS
	}
	return KindTarballFile
}

func (r FileRef) Attrs() Attributes    { return r.Attributes }
func (r TarballRef) Attrs() Attributes { return r.Attributes }

func (r FileRef) String() string {
	return renderFileBased(fileQualifier, r.URL, r.Qualified || hasArchiveExtension(r.URL), r.Attributes)
}

func (r TarballRef) String() string {
	return renderFileBased(tarballQualifier, r.URL, r.Qualified || !hasArchiveExtension(r.URL), r.Attributes)
}

func renderFileBased(qualifier, rawURL string, qualified bool, attrs Attributes) string {
	var b strings.Builder
	if qualified {
		b.WriteString(qualifier)
		b.WriteByte('+')
	}
	b.WriteString(rawURL)
	writeQuery(&b, attrs.values())
	return b.String()
}

func (r FileRef) MarshalJSON() ([]byte, error) {
	return marshalLocation("file", r.URL, r.Attributes)
}

func (r TarballRef) MarshalJSON() ([]byte, error) {
	return marshalLocation("tarball", r.URL, r.Attributes)
}

func marshalLocation(typeName, rawURL string, attrs Attributes) ([]byte, error) {
	m := map[string]any{}
	attrs.fields(m)
	m["type"] = typeName
	m["url"] = rawURL
	return json.Marshal(m)
}

// fileGrammar parses FileRef and TarballRef for one transport, either
// in the qualified "file+<t>:"/"tarball+<t>:" spelling or in the bare
// "<t>:" spelling classified by extension.
type fileGrammar struct {
	transport Transport
	tarball   bool
	qualified bool
}

func (g fileGrammar) qualifier() string {
	if g.tarball {
		return tarballQualifier
	}
	return fileQualifier
}

func (g fileGrammar) Kind() Kind {
	if g.tarball {
		return TarballRef{Transport: g.transport}.Kind()
	}
	return FileRef{Transport: g.transport}.Kind()
}

func (g fileGrammar) Recognize(s string) bool {
	if g.qualified {
		return strings.HasPrefix(s, g.qualifier()+"+"+g.transport.Scheme()+":")
	}
	if !strings.HasPrefix(s, g.transport.Scheme()+":") {
		return false
	}
	return hasArchiveExtension(s) == g.tarball
}

func (g fileGrammar) Parse(s string) (Ref, error) {
	raw := s
	if g.qualified {
		raw = strings.TrimPrefix(s, g.qualifier()+"+")
	}
	location, attrs, err := parseLocation(raw, g.transport)
	if err != nil {
		return nil, err
	}
	if g.tarball {
		return TarballRef{Transport: g.transport, URL: location, Qualified: g.qualified, Attributes: attrs}, nil
	}
	return FileRef{Transport: g.transport, URL: location, Qualified: g.qualified, Attributes: attrs}, nil
}

// decodeFileBased decodes {"type": typeName, "url": ...} for transport t.
// The qualifier is set only where the bare spelling would read back as
// the other variant.
func decodeFileBased(fields map[string]json.RawMessage, tarball bool, t Transport) (Ref, error) {
	typeName := "file"
	if tarball {
		typeName = "tarball"
	}
	rawURL, err := decodeURLField(fields, typeName, t)
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

	archive := hasArchiveExtension(location)
	if tarball {
		return TarballRef{Transport: t, URL: location, Qualified: !archive, Attributes: attrs}, nil
	}
	return FileRef{Transport: t, URL: location, Qualified: archive, Attributes: attrs}, nil
}
