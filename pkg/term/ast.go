// Package term implements the in-memory AST of the front-end compiler: the
// book of function definitions, the pattern-matching rules that define
// them, and the lambda-like expression language their bodies are written
// in. All Term and Pattern values are immutable once built; passes produce
// fresh trees rather than mutating shared subtrees in place.
package term

import "fmt"

// Term is the sum type of the compiler's expression language. Each
// constructor in spec.md §3 has exactly one implementing struct below.
type Term interface {
	isTerm()
}

// NumOp enumerates primitive numeric operators usable in Opx.
type NumOp int

const (
	OpAdd NumOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpGt
	OpAnd
	OpOr
	OpXor
)

func (op NumOp) String() string {
	names := [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "&", "|", "^"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// AppTag distinguishes plain application from the erased/marked forms the
// lowerer and reader need to tell apart.
type AppTag int

const (
	AppNone AppTag = iota
	AppErased
	AppMarked
)

// DupTag names a duplicator family. Duplicators sharing a tag annihilate;
// duplicators with distinct tags commute instead. A nil *DupTag means "no
// tag" (untagged/Scott-style duplication).
type DupTag struct {
	Name string
}

// Var is a bound-variable reference.
type Var struct{ Name string }

// Lnk is a global, unscoped link used to share a value across net
// boundaries (e.g. between a definition and a detached supercombinator).
type Lnk struct{ Name string }

// Ref is a reference to a top-level definition.
type Ref struct{ Name string }

// Lam is a lambda abstraction. Name is nil for an erased argument.
type Lam struct {
	Name *string
	Body Term
}

// Chn is a lambda whose parameter is bound to a global link name rather
// than a local variable.
type Chn struct {
	Name string
	Body Term
}

// App is function application, optionally tagged erased/marked.
type App struct {
	Tag AppTag
	Fun Term
	Arg Term
}

// Dup introduces two fresh binders Fst/Snd bound to two copies of Val,
// scoped over Nxt.
type Dup struct {
	Tag *DupTag
	Fst *string
	Snd *string
	Val Term
	Nxt Term
}

// Sup is a superposition, dual to Dup.
type Sup struct {
	Tag *DupTag
	Fst Term
	Snd Term
}

// Tup is a literal pair.
type Tup struct{ Fst, Snd Term }

// Num is a numeric literal.
type Num struct{ Val uint64 }

// Str is a string literal.
type Str struct{ Val string }

// Lst is a list literal.
type Lst struct{ Items []Term }

// Opx is a primitive numeric operator application.
type Opx struct {
	Op       NumOp
	Fst, Snd Term
}

// MatchArm is one (pattern, body) arm of a Mat expression.
type MatchArm struct {
	Pat  Pattern
	Body Term
}

// Mat is a match expression over a single scrutinee.
type Mat struct {
	Matched Term
	Arms    []MatchArm
}

// Let is a (possibly destructuring) local binding.
type Let struct {
	Pat Pattern
	Val Term
	Nxt Term
}

// Era is the erasure term.
type Era struct{}

// Err is a sentinel marking a compilation error at this site. It must
// never reach the lowerer; the validator/match-compiler/linearizer all
// abort before that point whenever an Err has been produced.
type Err struct{ Reason string }

func (Var) isTerm() {}
func (Lnk) isTerm() {}
func (Ref) isTerm() {}
func (Lam) isTerm() {}
func (Chn) isTerm() {}
func (App) isTerm() {}
func (Dup) isTerm() {}
func (Sup) isTerm() {}
func (Tup) isTerm() {}
func (Num) isTerm() {}
func (Str) isTerm() {}
func (Lst) isTerm() {}
func (Opx) isTerm() {}
func (Mat) isTerm() {}
func (Let) isTerm() {}
func (Era) isTerm() {}
func (Err) isTerm() {}

// Pattern is the sum type of rule/let-binder patterns.
type Pattern interface {
	isPattern()
}

// PatVar is a variable pattern; Name is nil for a wildcard `_`.
type PatVar struct{ Name *string }

// PatNum matches an exact numeric literal.
type PatNum struct{ Val uint64 }

// PatCtr matches a declared constructor applied to sub-patterns.
type PatCtr struct {
	Name string
	Args []Pattern
}

// PatTup matches a pair.
type PatTup struct{ Fst, Snd Pattern }

// PatLst matches a fixed-length list shape.
type PatLst struct{ Items []Pattern }

func (PatVar) isPattern() {}
func (PatNum) isPattern() {}
func (PatCtr) isPattern() {}
func (PatTup) isPattern() {}
func (PatLst) isPattern() {}

// PatternVarName returns the bound name of a variable pattern, or ("", false)
// if pat is not a (non-wildcard) variable pattern.
func PatternVarName(pat Pattern) (string, bool) {
	if v, ok := pat.(PatVar); ok && v.Name != nil {
		return *v.Name, true
	}
	return "", false
}

// IsWildcard reports whether pat is a catch-all: a variable pattern
// (named or `_`).
func IsWildcard(pat Pattern) bool {
	_, ok := pat.(PatVar)
	return ok
}

func str(s string) *string { return &s }

// NewLam builds a named lambda abstraction.
func NewLam(name string, body Term) Lam { return Lam{Name: str(name), Body: body} }

// NewErasedLam builds a lambda with an erased (unused) argument.
func NewErasedLam(body Term) Lam { return Lam{Name: nil, Body: body} }

func (t Lam) String() string { return fmt.Sprintf("λ%s. %v", namePtr(t.Name), t.Body) }

func namePtr(p *string) string {
	if p == nil {
		return "*"
	}
	return *p
}
