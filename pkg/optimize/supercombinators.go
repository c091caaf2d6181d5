package optimize

import "github.com/inkc/inkc/pkg/term"

// Supercombinators is the supercombinators pass: every closed lambda
// subterm (one whose free variables are empty, i.e. it captures nothing
// from its enclosing scope) is detached into a fresh top-level
// definition and replaced at its original site with a reference to it.
// This matters only in strict/eager mode, where the runtime otherwise
// re-expands the same closed lambda on every reduction of its
// surrounding redex instead of sharing one compiled definition.
func Supercombinators(ctx *term.Ctx) error {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = liftClosedLambdas(ctx, name, def.Rules[i].Body, true)
		}
	}
	return nil
}

func liftClosedLambdas(ctx *term.Ctx, origin string, t term.Term, top bool) term.Term {
	switch n := t.(type) {
	case term.Lam:
		body := liftClosedLambdas(ctx, origin, n.Body, false)
		rebuilt := term.Lam{Name: n.Name, Body: body}
		return maybeDetach(ctx, origin, rebuilt, top)
	case term.Chn:
		return term.Chn{Name: n.Name, Body: liftClosedLambdas(ctx, origin, n.Body, false)}
	case term.App:
		return term.App{
			Tag: n.Tag,
			Fun: liftClosedLambdas(ctx, origin, n.Fun, false),
			Arg: liftClosedLambdas(ctx, origin, n.Arg, false),
		}
	case term.Dup:
		return term.Dup{
			Tag: n.Tag, Fst: n.Fst, Snd: n.Snd,
			Val: liftClosedLambdas(ctx, origin, n.Val, false),
			Nxt: liftClosedLambdas(ctx, origin, n.Nxt, false),
		}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: liftClosedLambdas(ctx, origin, n.Fst, false), Snd: liftClosedLambdas(ctx, origin, n.Snd, false)}
	case term.Tup:
		return term.Tup{Fst: liftClosedLambdas(ctx, origin, n.Fst, false), Snd: liftClosedLambdas(ctx, origin, n.Snd, false)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = liftClosedLambdas(ctx, origin, it, false)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: liftClosedLambdas(ctx, origin, n.Fst, false), Snd: liftClosedLambdas(ctx, origin, n.Snd, false)}
	case term.Mat:
		matched := liftClosedLambdas(ctx, origin, n.Matched, false)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: liftClosedLambdas(ctx, origin, arm.Body, false)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{
			Pat: n.Pat,
			Val: liftClosedLambdas(ctx, origin, n.Val, false),
			Nxt: liftClosedLambdas(ctx, origin, n.Nxt, false),
		}
	default:
		return t
	}
}

// maybeDetach hoists lam into a fresh top-level definition when it is not
// already sitting at a definition's root and has no free variables.
func maybeDetach(ctx *term.Ctx, origin string, lam term.Lam, top bool) term.Term {
	if top {
		return lam
	}
	if len(term.FreeVars(lam)) != 0 {
		return lam
	}
	name := ctx.Fresh.Fresh(origin + ".sc")
	ctx.Book.Defs[name] = &term.Definition{Name: name, Rules: []term.Rule{{Body: lam}}}
	return term.Ref{Name: name}
}
