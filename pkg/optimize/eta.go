// Package optimize implements the term-level optimizer: a fixed pipeline
// of closed rewrites (eta, ref_to_ref, simplify_main, supercombinators,
// inline, merge, prune) run over a Book after linearization and before
// lowering to nets.
package optimize

import "github.com/inkc/inkc/pkg/term"

// Eta is the eta pass: it rewrites λx.(f x) to f wherever x does not occur
// free in f, bottom-up so a reduction at one level can expose another
// above it (λx.λy.((f x) y) first eta-reduces the inner redex to
// λx.(f x), then the outer one to f).
func Eta(ctx *term.Ctx) error {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = etaTerm(def.Rules[i].Body)
		}
	}
	return nil
}

func etaTerm(t term.Term) term.Term {
	switch n := t.(type) {
	case term.Lam:
		body := etaTerm(n.Body)
		if n.Name != nil {
			if app, ok := body.(term.App); ok {
				if v, ok := app.Arg.(term.Var); ok && v.Name == *n.Name {
					if !term.FreeVars(app.Fun)[*n.Name] {
						return app.Fun
					}
				}
			}
		}
		return term.Lam{Name: n.Name, Body: body}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: etaTerm(n.Body)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: etaTerm(n.Fun), Arg: etaTerm(n.Arg)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: etaTerm(n.Val), Nxt: etaTerm(n.Nxt)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: etaTerm(n.Fst), Snd: etaTerm(n.Snd)}
	case term.Tup:
		return term.Tup{Fst: etaTerm(n.Fst), Snd: etaTerm(n.Snd)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = etaTerm(it)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: etaTerm(n.Fst), Snd: etaTerm(n.Snd)}
	case term.Mat:
		matched := etaTerm(n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: etaTerm(arm.Body)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: n.Pat, Val: etaTerm(n.Val), Nxt: etaTerm(n.Nxt)}
	default:
		return t
	}
}
