// Package flakeref parses and renders flake references.
//
// A flake reference is a single string naming where a flake lives and how
// it is fetched. Parse classifies the string into exactly one typed
// variant and String renders the variant back into its canonical form:
//
//	file+file:///somewhere/there      FileRef    (file, http, https)
//	https://my.de/file.tar.gz         TarballRef (sniffed by extension)
//	github:flox/runix/main            GitServiceRef (github, gitlab)
//	git+ssh://github.com/flox/runix   GitRef     (file, ssh, http, https)
//	path:/somewhere/there             PathRef
//	flake:nixpkgs                     IndirectRef
//
// Parsing is pure: nothing here touches the network or the filesystem.
// Every parsed Reference round-trips: parsing its String yields an
// identical value.
//
// References also decode from the Nix attribute-set form used in
// flake.lock files ({"type":"github","owner":"flox",...}). Decoding tries
// each variant in the same priority order as Parse and keeps the first
// structural match.
package flakeref
