// Package linearize enforces interaction nets' core invariant — every
// bound variable is used exactly once — by alpha-renaming every binder to
// a fresh name and then inserting explicit Dup/Era nodes wherever a
// binder is used more or fewer than once.
package linearize

import "github.com/inkc/inkc/pkg/term"

// MakeVarNamesUnique is make_var_names_unique: it alpha-renames every
// binder across the whole book so no two binders anywhere in a
// definition's body ever share a name, letting linearize_vars reason
// about a single name's use count without tracking shadowing.
func MakeVarNamesUnique(ctx *term.Ctx) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = term.AlphaRename(def.Rules[i].Body, ctx.Fresh)
		}
	}
}

// LinearizeVars is linearize_vars: it walks every definition's body,
// rewriting each binder so it is used exactly once downstream — a 0-use
// binder becomes an explicit erasure, a 1-use binder is left alone, and
// an N-use (N>1) binder gets an N-way Dup chain whose duplicators all
// share one tag (so they annihilate against each other and commute
// against any unrelated duplicator, per spec.md §4.4/§9).
func LinearizeVars(ctx *term.Ctx) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = linearizeTerm(ctx, def.Rules[i].Body)
		}
	}
}

// prepareBinder decides, from name's use count in body, how many
// occurrence names the binder needs downstream and renames those
// occurrences. An empty result means the binder is unused; a
// single-element result (equal to name) means it's already linear.
func prepareBinder(ctx *term.Ctx, name string, body term.Term) ([]string, term.Term) {
	uses := term.CountVarUses(name, body)
	if uses == 0 {
		return nil, body
	}
	if uses == 1 {
		return []string{name}, body
	}
	names := make([]string, uses)
	for i := range names {
		names[i] = ctx.Fresh.Fresh(name)
	}
	return names, term.RenameUses(body, name, names)
}

// wrapBinder wraps an already-linearized body with whatever's needed to
// feed valExpr into the given occurrence names: nothing removed (names
// empty) means an explicit erasure of valExpr, a single name is a plain
// rebinding, and 2+ names become a Dup chain under one fresh tag.
func wrapBinder(ctx *term.Ctx, names []string, valExpr term.Term, body term.Term) term.Term {
	switch len(names) {
	case 0:
		return term.Let{Pat: term.PatVar{Name: nil}, Val: valExpr, Nxt: body}
	case 1:
		n := names[0]
		return term.Let{Pat: term.PatVar{Name: &n}, Val: valExpr, Nxt: body}
	default:
		tag := &term.DupTag{Name: ctx.Fresh.Fresh("dup")}
		return buildDupChain(tag, ctx.Fresh, names, valExpr, body)
	}
}

// buildDupChain splits val into len(names) linear copies: each Dup peels
// one name off the front and threads the rest through its second output,
// and the last Dup binds the final two names directly, so k names need
// exactly k-1 Dup nodes.
func buildDupChain(tag *term.DupTag, fresh *term.NameSource, names []string, val term.Term, body term.Term) term.Term {
	if len(names) == 1 {
		n := names[0]
		return term.Let{Pat: term.PatVar{Name: &n}, Val: val, Nxt: body}
	}
	if len(names) == 2 {
		h, s := names[0], names[1]
		return term.Dup{Tag: tag, Fst: &h, Snd: &s, Val: val, Nxt: body}
	}
	head := names[0]
	tailVar := fresh.Fresh("dup.tail")
	t := tailVar
	rest := buildDupChain(tag, fresh, names[1:], term.Var{Name: tailVar}, body)
	h := head
	return term.Dup{Tag: tag, Fst: &h, Snd: &t, Val: val, Nxt: rest}
}

func linearizeTerm(ctx *term.Ctx, t term.Term) term.Term {
	switch n := t.(type) {
	case term.Lam:
		if n.Name == nil {
			return term.NewErasedLam(linearizeTerm(ctx, n.Body))
		}
		names, body := prepareBinder(ctx, *n.Name, n.Body)
		linBody := linearizeTerm(ctx, body)
		switch len(names) {
		case 0:
			return term.NewErasedLam(linBody)
		case 1:
			return term.NewLam(names[0], linBody)
		default:
			wrapped := wrapBinder(ctx, names, term.Var{Name: *n.Name}, linBody)
			return term.NewLam(*n.Name, wrapped)
		}
	case term.Chn:
		// Global link binders are out of the ordinary use-counted binder
		// model (the name denotes a net-wide wire, not a locally scoped
		// value); they pass through unlinearized.
		return term.Chn{Name: n.Name, Body: linearizeTerm(ctx, n.Body)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: linearizeTerm(ctx, n.Fun), Arg: linearizeTerm(ctx, n.Arg)}
	case term.Dup:
		valLin := linearizeTerm(ctx, n.Val)
		namesF, nxt1 := prepareBinderOpt(ctx, n.Fst, n.Nxt)
		namesS, nxt2 := prepareBinderOpt(ctx, n.Snd, nxt1)
		linNxt := linearizeTerm(ctx, nxt2)
		if n.Snd != nil {
			linNxt = wrapBinder(ctx, namesS, term.Var{Name: *n.Snd}, linNxt)
		}
		if n.Fst != nil {
			linNxt = wrapBinder(ctx, namesF, term.Var{Name: *n.Fst}, linNxt)
		}
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: valLin, Nxt: linNxt}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: linearizeTerm(ctx, n.Fst), Snd: linearizeTerm(ctx, n.Snd)}
	case term.Tup:
		return term.Tup{Fst: linearizeTerm(ctx, n.Fst), Snd: linearizeTerm(ctx, n.Snd)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = linearizeTerm(ctx, it)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: linearizeTerm(ctx, n.Fst), Snd: linearizeTerm(ctx, n.Snd)}
	case term.Mat:
		matched := linearizeTerm(ctx, n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = linearizeMatchArm(ctx, arm)
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return linearizeLet(ctx, n)
	default:
		return t
	}
}

// prepareBinderOpt is prepareBinder for a Dup's possibly-absent Fst/Snd
// binder (nil means the slot was already erased upstream).
func prepareBinderOpt(ctx *term.Ctx, name *string, body term.Term) ([]string, term.Term) {
	if name == nil {
		return nil, body
	}
	return prepareBinder(ctx, *name, body)
}

func linearizeLet(ctx *term.Ctx, n term.Let) term.Term {
	v, ok := n.Pat.(term.PatVar)
	if !ok || v.Name == nil {
		// Non-variable/wildcard let patterns should not survive past the
		// match compiler; pass through structurally rather than guessing.
		return term.Let{Pat: n.Pat, Val: linearizeTerm(ctx, n.Val), Nxt: linearizeTerm(ctx, n.Nxt)}
	}
	valLin := linearizeTerm(ctx, n.Val)
	names, nxt := prepareBinder(ctx, *v.Name, n.Nxt)
	linNxt := linearizeTerm(ctx, nxt)
	return wrapBinder(ctx, names, valLin, linNxt)
}

func linearizeMatchArm(ctx *term.Ctx, arm term.MatchArm) term.MatchArm {
	ctr, ok := arm.Pat.(term.PatCtr)
	if !ok {
		return term.MatchArm{Pat: arm.Pat, Body: linearizeTerm(ctx, arm.Body)}
	}
	currentBody := arm.Body
	type pendingWrap struct {
		names []string
		val   term.Term
	}
	var pending []pendingWrap
	for _, a := range ctr.Args {
		v, ok := a.(term.PatVar)
		if !ok || v.Name == nil {
			continue
		}
		names, nb := prepareBinder(ctx, *v.Name, currentBody)
		currentBody = nb
		pending = append(pending, pendingWrap{names: names, val: term.Var{Name: *v.Name}})
	}
	linBody := linearizeTerm(ctx, currentBody)
	for i := len(pending) - 1; i >= 0; i-- {
		linBody = wrapBinder(ctx, pending[i].names, pending[i].val, linBody)
	}
	return term.MatchArm{Pat: ctr, Body: linBody}
}
