// Package flakeref provides the public Go library API for parsing Nix flake
// references and pinning a project's named inputs.
//
// # Basic Usage
//
//	ref, err := flakeref.Parse("github:NixOS/nixpkgs/nixos-23.05")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ref.Kind(), ref)
//
//	// Attribute sets, as found in flake.lock, decode the same way.
//	ref, err = flakeref.Decode([]byte(`{"type":"indirect","id":"nixpkgs"}`))
//
// A Client works on a flakeref.yaml and its lockfile:
//
//	client := flakeref.New(flakeref.Options{ConfigPath: "flakeref.yaml"})
//	result, err := client.Update(ctx, flakeref.UpdateOptions{})
package flakeref

import (
	core "github.com/bianoble/flakeref/internal/flakeref"
)

type (
	Reference  = core.Reference
	Ref        = core.Ref
	Kind       = core.Kind
	Family     = core.Family
	Attributes = core.Attributes
	Timestamp  = core.Timestamp
	ImpureRef  = core.ImpureRef
	Transport  = core.Transport
	Service    = core.Service
	Grammar    = core.Grammar

	FileRef       = core.FileRef
	TarballRef    = core.TarballRef
	GitRef        = core.GitRef
	GitServiceRef = core.GitServiceRef
	PathRef       = core.PathRef
	IndirectRef   = core.IndirectRef

	ParseError      = core.ParseError
	DecodeError     = core.DecodeError
	AttributeError  = core.AttributeError
	IdentifierError = core.IdentifierError
	TimestampError  = core.TimestampError
	BoolError       = core.BoolError
)

// Reference kinds, in dispatch priority order.
const (
	KindFileFile     = core.KindFileFile
	KindFileHTTP     = core.KindFileHTTP
	KindFileHTTPS    = core.KindFileHTTPS
	KindTarballFile  = core.KindTarballFile
	KindTarballHTTP  = core.KindTarballHTTP
	KindTarballHTTPS = core.KindTarballHTTPS
	KindGitFile      = core.KindGitFile
	KindGitSSH       = core.KindGitSSH
	KindGitHTTPS     = core.KindGitHTTPS
	KindGitHTTP      = core.KindGitHTTP
	KindGithub       = core.KindGithub
	KindGitlab       = core.KindGitlab
	KindPath         = core.KindPath
	KindIndirect     = core.KindIndirect
)

var (
	ErrInvalid             = core.ErrInvalid
	ErrNoVariant           = core.ErrNoVariant
	ErrDuplicateAttribute  = core.ErrDuplicateAttribute
	ErrBoolDecode          = core.ErrBoolDecode
	ErrTimestampFromInt    = core.ErrTimestampFromInt
	ErrTimestampFromString = core.ErrTimestampFromString
)

// Parse parses any accepted string form of a flake reference.
func Parse(s string) (Reference, error) { return core.Parse(s) }

// MustParse is like Parse but panics on error.
func MustParse(s string) Reference { return core.MustParse(s) }

// ParseImpure accepts the impure forms (".", "./dir", "/abs") in
// addition to every pure one.
func ParseImpure(s string) (ImpureRef, error) { return core.ParseImpure(s) }

// Decode decodes a JSON attribute set or JSON string.
func Decode(data []byte) (Reference, error) { return core.Decode(data) }

// Kinds returns every kind in dispatch priority order.
func Kinds() []Kind { return core.Kinds() }

// ValidateIdentifier checks s against the flake identifier grammar.
func ValidateIdentifier(s string) error { return core.ValidateIdentifier(s) }
