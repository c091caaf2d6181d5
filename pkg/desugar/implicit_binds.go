package desugar

import "github.com/inkc/inkc/pkg/term"

// DesugarImplicitMatchBinds fills in a name for every constructor-pattern
// field that has no explicit binder (a bare `_` or a bare constructor
// reference with no argument list at all), using a systematically
// generated name `<ctr>.<fieldIndex>` the way spec.md §4.2 describes.
// This keeps later passes (free-variable/use counting, linearization)
// total: every pattern position has a name to reason about, even when the
// surface program never binds it.
func DesugarImplicitMatchBinds(ctx *term.Ctx) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			for j := range def.Rules[i].Pats {
				def.Rules[i].Pats[j] = fillPattern(ctx.Book, def.Rules[i].Pats[j])
			}
			def.Rules[i].Body = fillMatchBinds(ctx.Book, def.Rules[i].Body)
		}
	}
}

func fillMatchBinds(book *term.Book, t term.Term) term.Term {
	switch n := t.(type) {
	case term.Mat:
		matched := fillMatchBinds(book, n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: fillPattern(book, arm.Pat), Body: fillMatchBinds(book, arm.Body)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: fillPattern(book, n.Pat), Val: fillMatchBinds(book, n.Val), Nxt: fillMatchBinds(book, n.Nxt)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: fillMatchBinds(book, n.Fun), Arg: fillMatchBinds(book, n.Arg)}
	case term.Lam:
		return term.Lam{Name: n.Name, Body: fillMatchBinds(book, n.Body)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: fillMatchBinds(book, n.Body)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: fillMatchBinds(book, n.Val), Nxt: fillMatchBinds(book, n.Nxt)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: fillMatchBinds(book, n.Fst), Snd: fillMatchBinds(book, n.Snd)}
	case term.Tup:
		return term.Tup{Fst: fillMatchBinds(book, n.Fst), Snd: fillMatchBinds(book, n.Snd)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = fillMatchBinds(book, it)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: fillMatchBinds(book, n.Fst), Snd: fillMatchBinds(book, n.Snd)}
	default:
		return t
	}
}

// fillPattern replaces a bare constructor reference (no argument list,
// arity > 0) with a fully-applied pattern of wildcard args, then names
// every wildcard field with a systematic `<ctr>.<i>` binder.
func fillPattern(book *term.Book, p term.Pattern) term.Pattern {
	ctr, ok := p.(term.PatCtr)
	if !ok {
		return p
	}
	args := ctr.Args
	if info, ok2 := book.Ctrs[ctr.Name]; ok2 && len(args) == 0 && info.Arity > 0 {
		args = make([]term.Pattern, info.Arity)
		for i := range args {
			args[i] = term.PatVar{Name: nil}
		}
	}
	filled := make([]term.Pattern, len(args))
	for i, a := range args {
		if v, isVar := a.(term.PatVar); isVar && v.Name == nil {
			name := fieldBindName(ctr.Name, i)
			filled[i] = term.PatVar{Name: &name}
			continue
		}
		filled[i] = fillPattern(book, a)
	}
	return term.PatCtr{Name: ctr.Name, Args: filled}
}

func fieldBindName(ctrName string, i int) string {
	return ctrName + "." + itoa(i)
}
