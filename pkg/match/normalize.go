// Package match implements pattern-match compilation: flattening
// multi-column, multi-rule function definitions down to the single-rule,
// all-variable-parameter shape the linearizer and lowerer require, with
// native numeric matches chained into zero/successor form along the way.
package match

import (
	"github.com/inkc/inkc/pkg/diagnostics"
	"github.com/inkc/inkc/pkg/term"
)

// NormalizeNativeMatches rewrites every Mat expression whose arms include
// numeric-literal patterns into the chained zero/successor form spec.md
// §4.3 describes: `mat n { 0: …; +: λpred. … }`, nesting one level per
// literal so later passes only ever see a two-arm (zero, successor)
// native match.
func NormalizeNativeMatches(ctx *term.Ctx) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = normalizeTerm(ctx, def.Rules[i].Body)
		}
	}
}

func normalizeTerm(ctx *term.Ctx, t term.Term) term.Term {
	switch n := t.(type) {
	case term.Mat:
		matched := normalizeTerm(ctx, n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: normalizeTerm(ctx, arm.Body)}
		}
		if isNumericMatch(arms) {
			return normalizeNumericMat(ctx, matched, arms)
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: n.Pat, Val: normalizeTerm(ctx, n.Val), Nxt: normalizeTerm(ctx, n.Nxt)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: normalizeTerm(ctx, n.Fun), Arg: normalizeTerm(ctx, n.Arg)}
	case term.Lam:
		return term.Lam{Name: n.Name, Body: normalizeTerm(ctx, n.Body)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: normalizeTerm(ctx, n.Body)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: normalizeTerm(ctx, n.Val), Nxt: normalizeTerm(ctx, n.Nxt)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: normalizeTerm(ctx, n.Fst), Snd: normalizeTerm(ctx, n.Snd)}
	case term.Tup:
		return term.Tup{Fst: normalizeTerm(ctx, n.Fst), Snd: normalizeTerm(ctx, n.Snd)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = normalizeTerm(ctx, it)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: normalizeTerm(ctx, n.Fst), Snd: normalizeTerm(ctx, n.Snd)}
	default:
		return t
	}
}

func isNumericMatch(arms []term.MatchArm) bool {
	sawNum := false
	for _, a := range arms {
		if _, ok := a.Pat.(term.PatNum); ok {
			sawNum = true
		}
	}
	return sawNum
}

// normalizeNumericMat sorts a copy of the arms by ascending literal value
// (PatNum arms first, any catch-all PatVar arm after them) and builds the
// nested zero/successor chain. A gap in the literal sequence
// (e.g. matching 0 and 2 but not 1) is reported as a match-compile
// diagnostic: the native representation only supports a contiguous chain
// starting at zero.
func normalizeNumericMat(ctx *term.Ctx, matched term.Term, arms []term.MatchArm) term.Term {
	sorted := append([]term.MatchArm(nil), arms...)
	sortNumericArms(sorted)

	return buildNumericChain(ctx, matched, sorted, 0)
}

func buildNumericChain(ctx *term.Ctx, matched term.Term, arms []term.MatchArm, expect uint64) term.Term {
	if len(arms) == 0 {
		ctx.Diag.Error(diagnostics.MatchCompile, "", "non-exhaustive numeric match: no arm covers value %d", expect)
		return term.Err{Reason: "non-exhaustive numeric match"}
	}
	head := arms[0]
	if pv, ok := head.Pat.(term.PatVar); ok {
		if pv.Name != nil {
			return term.Let{Pat: pv, Val: matched, Nxt: head.Body}
		}
		return head.Body
	}
	lit, ok := head.Pat.(term.PatNum)
	if !ok {
		return head.Body
	}
	if lit.Val != expect {
		ctx.Diag.Error(diagnostics.MatchCompile, "", "numeric match arms must form a contiguous chain from 0: expected %d, found %d", expect, lit.Val)
		return term.Err{Reason: "non-contiguous numeric match"}
	}
	predName := ctx.Fresh.Fresh("pred")
	succBody := buildNumericChain(ctx, term.Var{Name: predName}, arms[1:], expect+1)
	return term.Mat{
		Matched: matched,
		Arms: []term.MatchArm{
			{Pat: term.PatNum{Val: 0}, Body: head.Body},
			{Pat: term.PatVar{Name: nil}, Body: term.NewLam(predName, succBody)},
		},
	}
}

func sortNumericArms(arms []term.MatchArm) {
	// Insertion sort: arm counts per definition are small, and this keeps
	// the pass free of an extra stdlib sort import for what's usually a
	// 2-3 element slice. Wildcard/default arms sort last.
	for i := 1; i < len(arms); i++ {
		for j := i; j > 0 && arity(arms[j]) < arity(arms[j-1]); j-- {
			arms[j], arms[j-1] = arms[j-1], arms[j]
		}
	}
}

func arity(arm term.MatchArm) uint64 {
	if lit, ok := arm.Pat.(term.PatNum); ok {
		return lit.Val
	}
	return ^uint64(0)
}
