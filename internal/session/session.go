// Package session models the compile request: the session/compile-request
// collaborator treated as external to the semantic core. It owns the
// standard library module, the source-language mode, the diagnostic sink,
// and the module import service, and exposes the single TranslationUnit
// the checker consumes.
package session

import (
	"github.com/shade-lang/shadec/internal/ast"
	"github.com/shade-lang/shadec/internal/diag"
)

// SourceLanguage selects which dialect's rules the checker applies: GLSL
// `const` vs HLSL `static const` folding, and other dialect-sensitive
// checks.
type SourceLanguage int

const (
	HLSL SourceLanguage = iota
	GLSL
	Unified
)

func (l SourceLanguage) String() string {
	switch l {
	case HLSL:
		return "HLSL"
	case GLSL:
		return "GLSL"
	case Unified:
		return "Unified"
	default:
		return "SourceLanguage(?)"
	}
}

// ImportLoader synchronously loads and checks another translation unit on
// behalf of an ImportDecl. Import resolution calls an external loader
// that may synchronously load and check another translation unit; the
// loader is responsible for its own re-entrancy.
type ImportLoader interface {
	LoadModule(path []string) (*ast.ModuleDecl, error)
}

// Session is the compile request: the name pool is represented only as
// plain Go strings (interning itself is out of scope here), the standard
// library module is pre-populated by NewSession (see stdlib.go), and the
// import loader is supplied by the embedding application.
type Session struct {
	Stdlib   *ast.ModuleDecl
	Language SourceLanguage
	Loader   ImportLoader

	// conformance caches declaration -> interface conformance once
	// computed, so repeated coercion checks don't re-walk the inheritance
	// chain.
	conformance map[conformanceKey]bool
}

type conformanceKey struct {
	decl  ast.Decl
	iface *ast.InterfaceDecl
}

// NewSession builds a session with the standard library module seeded
// (builtin scalar/vector/matrix types and intrinsic operators) and the
// given language mode and import loader.
func NewSession(lang SourceLanguage, loader ImportLoader) *Session {
	return &Session{
		Stdlib:      BuildStdlib(),
		Language:    lang,
		Loader:      loader,
		conformance: make(map[conformanceKey]bool),
	}
}

// CachedConformance returns a memoized interface-conformance result, and
// whether one was cached.
func (s *Session) CachedConformance(d ast.Decl, iface *ast.InterfaceDecl) (bool, bool) {
	v, ok := s.conformance[conformanceKey{d, iface}]
	return v, ok
}

// CacheConformance stores an interface-conformance result.
func (s *Session) CacheConformance(d ast.Decl, iface *ast.InterfaceDecl, ok bool) {
	s.conformance[conformanceKey{d, iface}] = ok
}

// TranslationUnit is the checker's sole input: the parsed module root plus
// the compile flags that gate diagnostics and dialect rules.
type TranslationUnit struct {
	Module     *ast.ModuleDecl
	Session    *Session
	NoChecking bool // enables the "no-checking" rewrite mode
	Sink       diag.Sink
}

func NewTranslationUnit(module *ast.ModuleDecl, sess *Session, sink diag.Sink) *TranslationUnit {
	return &TranslationUnit{Module: module, Session: sess, Sink: sink}
}
