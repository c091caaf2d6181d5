package desugar

import "github.com/inkc/inkc/pkg/term"

// ListAdtName/NilCtr/ConsCtr name the built-in List ADT that string and
// list literals desugar into.
const (
	ListAdtName = "List"
	NilCtr      = "List.nil"
	ConsCtr     = "List.cons"
)

// EnsureListAdt registers the builtin List ADT (Nil, Cons) on book if it
// is not already present, so encode_builtins has a constructor table to
// encode against even when the surface program never declares its own
// list ADT.
func EnsureListAdt(book *term.Book) {
	if _, ok := book.Adts[ListAdtName]; ok {
		return
	}
	book.AddAdt(ListAdtName, map[string]int{NilCtr: 0, ConsCtr: 2}, []string{NilCtr, ConsCtr})
}

// EncodeBuiltins rewrites Str and Lst literals into successive cons
// applications over Nil, using enc's encoding for the List ADT. String
// literals become lists of Num terms (one per byte), matching the
// "church-like lists of numeric characters" design note in spec.md §4.2.
func EncodeBuiltins(ctx *term.Ctx, enc AdtEncoder) {
	EnsureListAdt(ctx.Book)
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = encodeBuiltinsTerm(enc, def.Rules[i].Body)
		}
	}
}

func encodeBuiltinsTerm(enc AdtEncoder, t term.Term) term.Term {
	switch n := t.(type) {
	case term.Str:
		return encodeStringLit(enc, n.Val)
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = encodeBuiltinsTerm(enc, it)
		}
		return encodeListLit(enc, items)
	case term.App:
		return term.App{Tag: n.Tag, Fun: encodeBuiltinsTerm(enc, n.Fun), Arg: encodeBuiltinsTerm(enc, n.Arg)}
	case term.Lam:
		return term.Lam{Name: n.Name, Body: encodeBuiltinsTerm(enc, n.Body)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: encodeBuiltinsTerm(enc, n.Body)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: encodeBuiltinsTerm(enc, n.Val), Nxt: encodeBuiltinsTerm(enc, n.Nxt)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: encodeBuiltinsTerm(enc, n.Fst), Snd: encodeBuiltinsTerm(enc, n.Snd)}
	case term.Tup:
		return term.Tup{Fst: encodeBuiltinsTerm(enc, n.Fst), Snd: encodeBuiltinsTerm(enc, n.Snd)}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: encodeBuiltinsTerm(enc, n.Fst), Snd: encodeBuiltinsTerm(enc, n.Snd)}
	case term.Mat:
		matched := encodeBuiltinsTerm(enc, n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: encodeBuiltinsTerm(enc, arm.Body)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: n.Pat, Val: encodeBuiltinsTerm(enc, n.Val), Nxt: encodeBuiltinsTerm(enc, n.Nxt)}
	default:
		return t
	}
}

func encodeStringLit(enc AdtEncoder, s string) term.Term {
	items := make([]term.Term, len(s))
	for i := 0; i < len(s); i++ {
		items[i] = term.Num{Val: uint64(s[i])}
	}
	return encodeListLit(enc, items)
}

func encodeListLit(enc AdtEncoder, items []term.Term) term.Term {
	ctrs := []string{NilCtr, ConsCtr}
	tail := enc.Encode(ListAdtName, 0, ctrs, nil)
	for i := len(items) - 1; i >= 0; i-- {
		tail = enc.Encode(ListAdtName, 1, ctrs, []term.Term{items[i], tail})
	}
	return tail
}
