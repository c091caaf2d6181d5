package desugar

import "github.com/inkc/inkc/pkg/term"

// DesugarLetDestructors rewrites every destructuring Let in the book:
// `let (a, b) = v; body` becomes `dup a b = v; body` for tuple patterns
// (spec.md §4.2), and `let C(x, y) = v; body` for a single declared
// constructor becomes a one-arm match, `match v { C(x, y): body }`. Plain
// variable lets are left untouched; the lowerer handles those directly.
func DesugarLetDestructors(ctx *term.Ctx) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = desugarLets(def.Rules[i].Body)
		}
	}
}

func desugarLets(t term.Term) term.Term {
	switch n := t.(type) {
	case term.Let:
		val := desugarLets(n.Val)
		nxt := desugarLets(n.Nxt)
		switch pat := n.Pat.(type) {
		case term.PatVar:
			return term.Let{Pat: pat, Val: val, Nxt: nxt}
		case term.PatTup:
			fstName, fstOk := term.PatternVarName(pat.Fst)
			sndName, sndOk := term.PatternVarName(pat.Snd)
			if fstOk && sndOk {
				f, s := fstName, sndName
				return term.Dup{Fst: &f, Snd: &s, Val: val, Nxt: nxt}
			}
			// Nested tuple pattern: bind fresh names then recurse on each
			// half via nested lets, preserving left-to-right evaluation.
			tmpFst, tmpSnd := "_let$fst", "_let$snd"
			inner := term.Let{Pat: pat.Fst, Val: term.Var{Name: tmpFst}, Nxt: term.Let{Pat: pat.Snd, Val: term.Var{Name: tmpSnd}, Nxt: nxt}}
			return term.Dup{Fst: &tmpFst, Snd: &tmpSnd, Val: val, Nxt: desugarLets(inner)}
		case term.PatCtr:
			return term.Mat{Matched: val, Arms: []term.MatchArm{{Pat: pat, Body: nxt}}}
		default:
			return term.Mat{Matched: val, Arms: []term.MatchArm{{Pat: pat, Body: nxt}}}
		}
	case term.App:
		return term.App{Tag: n.Tag, Fun: desugarLets(n.Fun), Arg: desugarLets(n.Arg)}
	case term.Lam:
		return term.Lam{Name: n.Name, Body: desugarLets(n.Body)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: desugarLets(n.Body)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: desugarLets(n.Val), Nxt: desugarLets(n.Nxt)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: desugarLets(n.Fst), Snd: desugarLets(n.Snd)}
	case term.Tup:
		return term.Tup{Fst: desugarLets(n.Fst), Snd: desugarLets(n.Snd)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = desugarLets(it)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: desugarLets(n.Fst), Snd: desugarLets(n.Snd)}
	case term.Mat:
		matched := desugarLets(n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: desugarLets(arm.Body)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	default:
		return t
	}
}
