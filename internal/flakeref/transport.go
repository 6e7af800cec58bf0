package flakeref

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Transport is the access method behind a URL-based reference.
type Transport int

const (
	TransportFile Transport = iota + 1
	TransportHTTP
	TransportHTTPS
	TransportSSH
)

// Scheme returns the URL scheme of the transport.
func (t Transport) Scheme() string {
	switch t {
	case TransportFile:
		return "file"
	case TransportHTTP:
		return "http"
	case TransportHTTPS:
		return "https"
	case TransportSSH:
		return "ssh"
	}
	return ""
}

func (t Transport) String() string {
	if s := t.Scheme(); s != "" {
		return s
	}
	return fmt.Sprintf("Transport(%d)", int(t))
}

// ParseTransport maps a URL scheme onto its transport.
func ParseTransport(scheme string) (Transport, error) {
	switch scheme {
	case "file":
		return TransportFile, nil
	case "http":
		return TransportHTTP, nil
	case "https":
		return TransportHTTPS, nil
	case "ssh":
		return TransportSSH, nil
	}
	return 0, fmt.Errorf("unknown transport %q: expected file, http, https or ssh", scheme)
}

// parseLocation parses rawURL for transport t and splits off its query.
// The returned URL string carries no query.
func parseLocation(rawURL string, t Transport) (string, Attributes, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Attributes{}, err
	}
	if u.Scheme != t.Scheme() {
		return "", Attributes{}, fmt.Errorf("expected a %s URL, got scheme %q", t, u.Scheme)
	}
	if err := validateLocation(u, t); err != nil {
		return "", Attributes{}, err
	}

	attrs, err := ParseAttributes(u.RawQuery)
	if err != nil {
		return "", Attributes{}, err
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return u.String(), attrs, nil
}

// validateLocation applies the transport-specific shape rules to u.
func validateLocation(u *url.URL, t Transport) error {
	if u.Opaque != "" {
		return fmt.Errorf("%s URL %q must use a hierarchical path", t, u.String())
	}
	if u.Fragment != "" {
		return fmt.Errorf("fragment %q is not part of a flake reference", u.Fragment)
	}

	switch t {
	case TransportFile:
		if u.Host != "" {
			return fmt.Errorf("file URL must not name a host, got %q", u.Host)
		}
		if !strings.HasPrefix(u.Path, "/") {
			return errors.New("file URL needs an absolute path")
		}
	default:
		if u.Host == "" {
			return fmt.Errorf("%s URL needs a host", t)
		}
	}
	return nil
}
