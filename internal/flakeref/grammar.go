package flakeref

import (
	"net/url"
	"strings"
)

// Grammar is the parser/printer contract of one reference variant.
// Recognize is a cheap shape check used only for dispatch; Parse is
// authoritative and may fail after Recognize accepted the input.
type Grammar interface {
	Kind() Kind
	Recognize(s string) bool
	Parse(s string) (Ref, error)
}

// grammars is the dispatch table. Order matters: explicitly qualified
// schemes first, then bare schemes that need extension sniffing, then
// shorthands, then the indirect fallback. A qualifier always wins over
// sniffing because qualified entries come first and bare entries only
// recognize unqualified input.
var grammars = []Grammar{
	fileGrammar{transport: TransportFile, qualified: true},
	fileGrammar{transport: TransportHTTP, qualified: true},
	fileGrammar{transport: TransportHTTPS, qualified: true},
	fileGrammar{transport: TransportFile, qualified: true, tarball: true},
	fileGrammar{transport: TransportHTTP, qualified: true, tarball: true},
	fileGrammar{transport: TransportHTTPS, qualified: true, tarball: true},
	gitGrammar{transport: TransportFile},
	gitGrammar{transport: TransportSSH},
	gitGrammar{transport: TransportHTTPS},
	gitGrammar{transport: TransportHTTP},

	fileGrammar{transport: TransportFile, tarball: true},
	fileGrammar{transport: TransportFile},
	fileGrammar{transport: TransportHTTP, tarball: true},
	fileGrammar{transport: TransportHTTP},
	fileGrammar{transport: TransportHTTPS, tarball: true},
	fileGrammar{transport: TransportHTTPS},

	serviceGrammar{service: ServiceGithub},
	serviceGrammar{service: ServiceGitlab},

	pathGrammar{},

	indirectGrammar{},
}

// Grammars returns the dispatch table in priority order.
func Grammars() []Grammar {
	out := make([]Grammar, len(grammars))
	copy(out, grammars)
	return out
}

// archiveExtensions are the URL suffixes that make a bare file:, http: or
// https: URL a tarball.
var archiveExtensions = []string{".zip", ".tar", ".tgz", ".tar.gz", ".tar.xz", ".tar.bz2", ".tar.zst"}

// hasArchiveExtension reports whether the path component of rawURL ends
// in an archive extension. The host, query and fragment are ignored, so
// "https://example.zip" is not an archive.
func hasArchiveExtension(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// splitQuery cuts s at the first '?'.
func splitQuery(s string) (body, rawQuery string) {
	body, rawQuery, _ = strings.Cut(s, "?")
	return body, rawQuery
}
