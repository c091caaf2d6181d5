package desugar

import "github.com/inkc/inkc/pkg/term"

// AdtEncoding selects which lambda encoding encode_adts uses for
// constructors.
type AdtEncoding int

const (
	Scott AdtEncoding = iota
	TaggedScott
)

func (e AdtEncoding) String() string {
	if e == TaggedScott {
		return "tagged-scott"
	}
	return "scott"
}

// AdtEncoder builds the lambda encoding of one ADT's constructors. Only
// the desugarer uses it: the reader has no re-sugaring step, so encoded
// constructor values read back as plain lambdas.
type AdtEncoder interface {
	// Encode rewrites a saturated Ctr application's field terms into the
	// ADT's case-lambda encoding, given the ADT's name, the constructor's
	// field index, and the ADT's full constructor list (in declared
	// order).
	Encode(adtName string, ctrIndex int, ctrs []string, fields []term.Term) term.Term
	// Tag returns the DupTag the encoding attaches to constructor
	// applications of this ADT, or nil under plain Scott encoding. Two
	// calls with the same adtName return the same *DupTag, so every
	// constructor site of one ADT shares one net-level label.
	Tag(adtName string) *term.DupTag
}

// scottEncoder implements plain Scott encoding: Ctr_i(x1..xk) becomes
// λc1…λcn. c_i x1 … xk, with no tag to protect against commutation.
type scottEncoder struct{}

// NewScottEncoder returns the untagged Scott AdtEncoder.
func NewScottEncoder() AdtEncoder { return scottEncoder{} }

func (scottEncoder) Encode(adtName string, ctrIndex int, ctrs []string, fields []term.Term) term.Term {
	return buildCaseLambda(ctrIndex, ctrs, fields)
}

func (scottEncoder) Tag(string) *term.DupTag { return nil }

// taggedScottEncoder augments Scott encoding with a per-ADT DupTag, one
// tag shared by every constructor site of that ADT, so the duplicators it
// adds annihilate only against duplicators carrying the same ADT's tag,
// per spec.md §9's "tagged-scott" design note. It wraps
// every constructor site's case-lambda in a Dup/Era pair carrying that
// ADT's tag: the Dup clones the case-lambda once and immediately
// discards the clone, so the encoded value is unchanged, but the tagged
// Dup node survives into the lowered net where later duplication of this
// value picks up a tag scoped to this ADT instead of an untagged or
// foreign one.
type taggedScottEncoder struct {
	tags map[string]*term.DupTag
}

// NewTaggedScottEncoder returns the tagged-Scott AdtEncoder.
func NewTaggedScottEncoder() AdtEncoder {
	return &taggedScottEncoder{tags: make(map[string]*term.DupTag)}
}

func (e *taggedScottEncoder) Encode(adtName string, ctrIndex int, ctrs []string, fields []term.Term) term.Term {
	body := buildCaseLambda(ctrIndex, ctrs, fields)
	name := "$adt.tag"
	return term.Dup{Tag: e.Tag(adtName), Fst: &name, Snd: nil, Val: body, Nxt: term.Var{Name: name}}
}

func (e *taggedScottEncoder) Tag(adtName string) *term.DupTag {
	if tag, ok := e.tags[adtName]; ok {
		return tag
	}
	tag := &term.DupTag{Name: "adt:" + adtName}
	e.tags[adtName] = tag
	return tag
}

// buildCaseLambda constructs λc1…λcn. (c_i x1 … xk), naming each case
// parameter c0..c{n-1} so the reader can recognize the shape positionally
// rather than by name collision risk.
func buildCaseLambda(ctrIndex int, ctrs []string, fields []term.Term) term.Term {
	var body term.Term = term.Var{Name: caseParamName(ctrIndex)}
	for _, f := range fields {
		body = term.App{Fun: body, Arg: f}
	}
	for i := len(ctrs) - 1; i >= 0; i-- {
		body = term.NewLam(caseParamName(i), body)
	}
	return body
}

func caseParamName(i int) string {
	return "_case$" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}
