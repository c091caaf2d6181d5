package optimize

import "github.com/inkc/inkc/pkg/term"

// smallTermBudget bounds how large a definition's body may be and still
// count as "small" for inlining, measured in term nodes by termSize: a
// bare literal, a reference, or a one-argument application of one fits,
// and so does any other body of at most this many nodes, whatever its
// node kinds.
const smallTermBudget = 3

// Inline is the inline pass: a definition used from exactly one call site
// and whose body is small (a literal, a reference, or a shallow
// constructor application) is substituted directly into that call site
// and then dropped, trading one extra indirection for a slightly larger
// caller body.
func Inline(ctx *term.Ctx) error {
	entry := ctx.Book.HvmcEntrypoint()
	for iter := 0; iter < len(ctx.Book.Defs)+1; iter++ {
		name, ok := findInlineCandidate(ctx.Book, entry)
		if !ok {
			return nil
		}
		target := ctx.Book.Defs[name]
		body := target.Rules[0].Body
		inlineOnce(ctx.Book, name, body)
		delete(ctx.Book.Defs, name)
	}
	return nil
}

func findInlineCandidate(book *term.Book, entry string) (string, bool) {
	for _, name := range book.SortedDefNames() {
		if name == entry {
			continue
		}
		def := book.Defs[name]
		if !isSmallDef(def) {
			continue
		}
		if countRefUses(book, name, name) != 1 {
			continue
		}
		return name, true
	}
	return "", false
}

func isSmallDef(def *term.Definition) bool {
	if len(def.Rules) != 1 || def.Arity() != 0 {
		return false
	}
	return termSize(def.Rules[0].Body) <= smallTermBudget
}

// countRefUses counts Ref{name} occurrences across every definition in
// the book except skip itself (a definition's own recursive self-calls
// must not count toward its external use count).
func countRefUses(book *term.Book, name, skip string) int {
	total := 0
	for _, defName := range book.SortedDefNames() {
		if defName == skip {
			continue
		}
		total += countRefsInTerm(book.Defs[defName].Rules[0].Body, name)
	}
	return total
}

func countRefsInTerm(t term.Term, name string) int {
	switch n := t.(type) {
	case term.Ref:
		if n.Name == name {
			return 1
		}
		return 0
	case term.Lam:
		return countRefsInTerm(n.Body, name)
	case term.Chn:
		return countRefsInTerm(n.Body, name)
	case term.App:
		return countRefsInTerm(n.Fun, name) + countRefsInTerm(n.Arg, name)
	case term.Dup:
		return countRefsInTerm(n.Val, name) + countRefsInTerm(n.Nxt, name)
	case term.Sup:
		return countRefsInTerm(n.Fst, name) + countRefsInTerm(n.Snd, name)
	case term.Tup:
		return countRefsInTerm(n.Fst, name) + countRefsInTerm(n.Snd, name)
	case term.Lst:
		total := 0
		for _, it := range n.Items {
			total += countRefsInTerm(it, name)
		}
		return total
	case term.Opx:
		return countRefsInTerm(n.Fst, name) + countRefsInTerm(n.Snd, name)
	case term.Mat:
		total := countRefsInTerm(n.Matched, name)
		for _, arm := range n.Arms {
			total += countRefsInTerm(arm.Body, name)
		}
		return total
	case term.Let:
		return countRefsInTerm(n.Val, name) + countRefsInTerm(n.Nxt, name)
	default:
		return 0
	}
}

func termSize(t term.Term) int {
	switch n := t.(type) {
	case term.Lam:
		return 1 + termSize(n.Body)
	case term.Chn:
		return 1 + termSize(n.Body)
	case term.App:
		return 1 + termSize(n.Fun) + termSize(n.Arg)
	case term.Dup:
		return 1 + termSize(n.Val) + termSize(n.Nxt)
	case term.Sup:
		return 1 + termSize(n.Fst) + termSize(n.Snd)
	case term.Tup:
		return 1 + termSize(n.Fst) + termSize(n.Snd)
	case term.Lst:
		total := 1
		for _, it := range n.Items {
			total += termSize(it)
		}
		return total
	case term.Opx:
		return 1 + termSize(n.Fst) + termSize(n.Snd)
	case term.Mat:
		total := 1 + termSize(n.Matched)
		for _, arm := range n.Arms {
			total += termSize(arm.Body)
		}
		return total
	case term.Let:
		return 1 + termSize(n.Val) + termSize(n.Nxt)
	default:
		return 1
	}
}

// inlineOnce rewrites every Ref{name} appearing in the book (other than
// within name's own definition, already dropped by the caller) to a copy
// of body.
func inlineOnce(book *term.Book, name string, body term.Term) {
	for _, defName := range book.SortedDefNames() {
		if defName == name {
			continue
		}
		def := book.Defs[defName]
		def.Rules[0].Body = substRef(def.Rules[0].Body, name, body)
	}
}

func substRef(t term.Term, name string, body term.Term) term.Term {
	switch n := t.(type) {
	case term.Ref:
		if n.Name == name {
			return body
		}
		return n
	case term.Lam:
		return term.Lam{Name: n.Name, Body: substRef(n.Body, name, body)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: substRef(n.Body, name, body)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: substRef(n.Fun, name, body), Arg: substRef(n.Arg, name, body)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: substRef(n.Val, name, body), Nxt: substRef(n.Nxt, name, body)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: substRef(n.Fst, name, body), Snd: substRef(n.Snd, name, body)}
	case term.Tup:
		return term.Tup{Fst: substRef(n.Fst, name, body), Snd: substRef(n.Snd, name, body)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = substRef(it, name, body)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: substRef(n.Fst, name, body), Snd: substRef(n.Snd, name, body)}
	case term.Mat:
		matched := substRef(n.Matched, name, body)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: substRef(arm.Body, name, body)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: n.Pat, Val: substRef(n.Val, name, body), Nxt: substRef(n.Nxt, name, body)}
	default:
		return t
	}
}
