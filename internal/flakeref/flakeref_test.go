package flakeref

import (
	"errors"
	"strings"
	"testing"
)

const testRev = "0123456789abcdef0123456789abcdef01234567"

func TestParseCanonicalRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"file+file:///somewhere/there", KindFileFile},
		{"file:///somewhere/there", KindFileFile},
		{"file+http://my.de/path/to/file", KindFileHTTP},
		{"http://my.de/path/to/file", KindFileHTTP},
		{"file+https://my.de/path/to/file", KindFileHTTPS},
		{"https://my.de/path/to/file", KindFileHTTPS},
		{"tarball+file:///somewhere/there", KindTarballFile},
		{"file:///somewhere/there.tar.gz", KindTarballFile},
		{"http://my.de/path/to/file.tar.gz", KindTarballHTTP},
		{"tarball+https://my.de/path/to/file", KindTarballHTTPS},
		{"https://my.de/path/to/file.zip", KindTarballHTTPS},
		{"github:flox/runix", KindGithub},
		{"gitlab:flox/runix", KindGitlab},
		{"path:/somewhere/there", KindPath},
		{"git+file:///somewhere/there", KindGitFile},
		{"git+ssh://github.com/flox/runix", KindGitSSH},
		{"git+https://github.com/flox/runix", KindGitHTTPS},
		{"git+http://github.com/flox/runix", KindGitHTTP},
		{"flake:nixpkgs", KindIndirect},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if ref.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", ref.Kind(), tt.kind)
			}
			if got := ref.String(); got != tt.input {
				t.Errorf("String() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestParseRenderIdempotent(t *testing.T) {
	inputs := []string{
		"nixpkgs",
		"nixpkgs/nixos-23.05",
		"flake:nixpkgs/nixos-23.05/" + testRev,
		"nixpkgs/" + testRev,
		"github:flox/runix/main",
		"github:flox/runix/" + testRev,
		"github:flox/runix?ref=feature/x",
		"github:flox/runix?host=git.example.com&dir=sub",
		"gitlab:flox/runix/v1.0.0?narHash=sha256-abc",
		"git+https://github.com/flox/runix?shallow=true&ref=main",
		"git+ssh://git@github.com/flox/runix?submodules=false&rev=" + testRev,
		"https://my.de/f.tar.gz?narHash=sha256-abc&dir=sub",
		"file+https://my.de/f.tar.gz",
		"tarball+http://my.de/f",
		"path:./relative/dir?lastModified=1700000000",
		"git+file:///repo?revCount=12&custom=x",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Parse(input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", input, err)
			}
			canonical := first.String()
			second, err := Parse(canonical)
			if err != nil {
				t.Fatalf("Parse(canonical %q): %v", canonical, err)
			}
			if second.String() != canonical {
				t.Errorf("render not idempotent: %q then %q", canonical, second.String())
			}
			if second.Kind() != first.Kind() {
				t.Errorf("kind changed across round trip: %s then %s", first.Kind(), second.Kind())
			}
		})
	}
}

func TestParseBareIndirectRendersQualified(t *testing.T) {
	ref := MustParse("nixpkgs")
	if got := ref.String(); got != "flake:nixpkgs" {
		t.Errorf("String() = %q", got)
	}
	ind, ok := ref.Ref().(IndirectRef)
	if !ok {
		t.Fatalf("Ref() = %T, want IndirectRef", ref.Ref())
	}
	if ind.ID != "nixpkgs" {
		t.Errorf("ID = %q", ind.ID)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "1-not-a-ref", "foo bar", "ftp://my.de/file", "ssh://host/repo"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalid", input, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is %T, want *ParseError", err)
			}
			if pe.Family != "" {
				t.Errorf("family = %q, want empty", pe.Family)
			}
			if pe.Hint == "" {
				t.Error("expected a hint for unrecognized input")
			}
		})
	}
}

func TestParseVariantErrors(t *testing.T) {
	tests := []struct {
		input  string
		family Family
		want   string
	}{
		{"github:1flox/runix", FamilyGitService, "owner"},
		{"github:flox", FamilyGitService, "expected github:<owner>/<repo>"},
		{"gitlab:flox/runix/a/b", FamilyGitService, "too many path segments"},
		{"github:flox/runix/main?rev=" + testRev, FamilyGitService, "both a ref and a rev"},
		{"github:flox/runix?host=", FamilyGitService, "empty value"},
		{"github:flox/runix#frag", FamilyGitService, "fragment"},
		{"path:", FamilyPath, "path is empty"},
		{"path:/a#b", FamilyPath, "fragment"},
		{"file+file://host/x", FamilyFile, "must not name a host"},
		{"file+file:relative", FamilyFile, "hierarchical"},
		{"https://my.de/a.tar.gz#frag", FamilyFile, "fragment"},
		{"git+https:///no-host", FamilyGit, "needs a host"},
		{"git+https://github.com/flox/runix?dir=/abs", FamilyGit, "relative path"},
		{"git+https://github.com/flox/runix?dir=../up", FamilyGit, "escapes"},
		{"flake:nixpkgs/a/b/c", FamilyIndirect, "too many path segments"},
		{"flake:nixpkgs/main/notahash", FamilyIndirect, "not a commit hash"},
		{"flake:9pkgs", FamilyIndirect, "flake id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is %T, want *ParseError", err)
			}
			if pe.Family != tt.family {
				t.Errorf("family = %q, want %q", pe.Family, tt.family)
			}
			if errors.Is(err, ErrInvalid) {
				t.Error("variant error must not be reported as ErrInvalid")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseIdentifierValidation(t *testing.T) {
	if _, err := Parse("github:fl0x-/runix"); err != nil {
		t.Errorf("github:fl0x-/runix: %v", err)
	}
	_, err := Parse("github:1flox/runix")
	var ie *IdentifierError
	if !errors.As(err, &ie) {
		t.Fatalf("github:1flox/runix error = %v, want *IdentifierError", err)
	}
	if ie.Value != "1flox" {
		t.Errorf("value = %q", ie.Value)
	}
}

func TestParseTarballPriority(t *testing.T) {
	for _, input := range []string{
		"https://my.de/f.tar.gz",
		"https://my.de/f.tar.gz?narHash=sha256-abc",
		"https://my.de/f.tar.gz?dir=sub&unpack=false",
		"https://my.de/f.tar.gz?rev=" + testRev,
	} {
		ref, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if ref.Kind() != KindTarballHTTPS {
			t.Errorf("Parse(%q) kind = %s, want tarball+https", input, ref.Kind())
		}
	}
}

func TestParseSniffsPathOnly(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		want  string
	}{
		{"https://example.zip", KindFileHTTPS, "https://example.zip"},
		{"https://example.tar.gz/f", KindFileHTTPS, "https://example.tar.gz/f"},
		{"http://mirror.tgz/f", KindFileHTTP, "http://mirror.tgz/f"},
		{"https://example.zip/x.tar.gz", KindTarballHTTPS, "https://example.zip/x.tar.gz"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if ref.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", ref.Kind(), tt.kind)
			}
			if got := ref.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseQualifierWinsOverSniffing(t *testing.T) {
	ref := MustParse("file+https://my.de/f.tar.gz")
	if ref.Kind() != KindFileHTTPS {
		t.Fatalf("kind = %s", ref.Kind())
	}
	ref = MustParse("tarball+https://my.de/f")
	if ref.Kind() != KindTarballHTTPS {
		t.Fatalf("kind = %s", ref.Kind())
	}
}

func TestRenderQualifiesAmbiguousBareForms(t *testing.T) {
	file := FileRef{Transport: TransportHTTPS, URL: "https://my.de/f.tar.gz"}
	if got := file.String(); got != "file+https://my.de/f.tar.gz" {
		t.Errorf("FileRef.String() = %q", got)
	}
	tarball := TarballRef{Transport: TransportHTTPS, URL: "https://my.de/f"}
	if got := tarball.String(); got != "tarball+https://my.de/f" {
		t.Errorf("TarballRef.String() = %q", got)
	}
}

func TestParseGitServiceRefOrRev(t *testing.T) {
	ref := MustParse("github:flox/runix/main")
	gs := ref.Ref().(GitServiceRef)
	if gs.Attributes.Ref != "main" || gs.Attributes.Rev != "" {
		t.Errorf("ref/rev = %q/%q", gs.Attributes.Ref, gs.Attributes.Rev)
	}
	if gs.EffectiveHost() != "github.com" {
		t.Errorf("host = %q", gs.EffectiveHost())
	}

	ref = MustParse("gitlab:flox/runix/" + testRev + "?host=gitlab.example.com")
	gs = ref.Ref().(GitServiceRef)
	if gs.Attributes.Rev != testRev || gs.Attributes.Ref != "" {
		t.Errorf("ref/rev = %q/%q", gs.Attributes.Ref, gs.Attributes.Rev)
	}
	if gs.Host != "gitlab.example.com" {
		t.Errorf("host = %q", gs.Host)
	}
	if len(gs.Attributes.Extra) != 0 {
		t.Errorf("host leaked into extra attributes: %v", gs.Attributes.Extra)
	}
}

func TestParseIndirectRefAndRev(t *testing.T) {
	ref := MustParse("flake:nixpkgs/nixos-23.05/" + testRev)
	ind := ref.Ref().(IndirectRef)
	if ind.Attributes.Ref != "nixos-23.05" || ind.Attributes.Rev != testRev {
		t.Errorf("ref/rev = %q/%q", ind.Attributes.Ref, ind.Attributes.Rev)
	}
}

func TestGitRefReferenceName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"git+https://github.com/flox/runix", ""},
		{"git+https://github.com/flox/runix?ref=main", "refs/heads/main"},
		{"git+https://github.com/flox/runix?ref=refs/tags/v1", "refs/tags/v1"},
		{"git+https://github.com/flox/runix?ref=HEAD", "HEAD"},
	}
	for _, tt := range tests {
		g := MustParse(tt.input).Ref().(GitRef)
		if got := g.ReferenceName().String(); got != tt.want {
			t.Errorf("%s: ReferenceName() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGrammarOrderMatchesKinds(t *testing.T) {
	seen := map[Kind]bool{}
	var order []Kind
	for _, g := range Grammars() {
		if !seen[g.Kind()] {
			seen[g.Kind()] = true
			order = append(order, g.Kind())
		}
	}
	kinds := Kinds()
	if len(order) != len(kinds) {
		t.Fatalf("grammars cover %d kinds, want %d", len(order), len(kinds))
	}
	for i := range kinds {
		if order[i] != kinds[i] {
			t.Errorf("position %d: grammar kind %s, Kinds() has %s", i, order[i], kinds[i])
		}
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %s", k, parsed)
		}
		if k.Family() == "" {
			t.Errorf("%s has no family", k)
		}
	}
	if _, err := ParseKind("svn"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestReferenceZeroValue(t *testing.T) {
	var r Reference
	if !r.IsZero() {
		t.Error("zero value should be unset")
	}
	if r.String() != "" || r.Kind() != 0 || r.Args() != nil {
		t.Errorf("zero value renders %q kind %d args %v", r.String(), r.Kind(), r.Args())
	}
}

func TestReferenceArgs(t *testing.T) {
	args := MustParse("github:flox/runix/main").Args()
	if len(args) != 1 || args[0] != "github:flox/runix/main" {
		t.Errorf("Args() = %v", args)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("ftp://nope")
}

func TestTextRoundTrip(t *testing.T) {
	var r Reference
	if err := r.UnmarshalText([]byte("github:flox/runix")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	text, err := r.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "github:flox/runix" {
		t.Errorf("text = %q", text)
	}
	if err := r.UnmarshalText(nil); err != nil || !r.IsZero() {
		t.Errorf("empty text: err=%v zero=%v", err, r.IsZero())
	}
}
