package desugar

import "github.com/inkc/inkc/pkg/term"

// EncodeAdts rewrites every PatCtr/Ctr-application site in the book to
// use enc's lambda encoding, turning constructor references into plain
// lambda terms so downstream passes (linearization, lowering) never need
// to know about ADTs at all. Concretely, this rewrites each `Ref{Name:
// ctrName}` application chain saturated to the constructor's declared
// arity into enc.Encode(...), leaving partial applications as curried
// lambdas that build the same value once fully applied.
func EncodeAdts(ctx *term.Ctx, enc AdtEncoder) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = encodeAdtsTerm(ctx.Book, enc, def.Rules[i].Body)
		}
	}
}

func encodeAdtsTerm(book *term.Book, enc AdtEncoder, t term.Term) term.Term {
	switch n := t.(type) {
	case term.Ref:
		if info, ok := book.Ctrs[n.Name]; ok && info.Arity == 0 {
			adt := book.Adts[info.Adt]
			return enc.Encode(info.Adt, info.FieldIndex, adt.Ctrs, nil)
		}
		if info, ok := book.Ctrs[n.Name]; ok {
			adt := book.Adts[info.Adt]
			fields := make([]term.Term, info.Arity)
			for i := range fields {
				fields[i] = term.Var{Name: n.Name + "$" + itoa(i)}
			}
			body := enc.Encode(info.Adt, info.FieldIndex, adt.Ctrs, fields)
			for i := info.Arity - 1; i >= 0; i-- {
				body = term.NewLam(n.Name+"$"+itoa(i), body)
			}
			return body
		}
		return n
	case term.App:
		fun, args := flattenApp(n)
		if ref, ok := fun.(term.Ref); ok {
			if info, ok2 := book.Ctrs[ref.Name]; ok2 && info.Arity == len(args) {
				adt := book.Adts[info.Adt]
				encodedArgs := make([]term.Term, len(args))
				for i, a := range args {
					encodedArgs[i] = encodeAdtsTerm(book, enc, a)
				}
				return enc.Encode(info.Adt, info.FieldIndex, adt.Ctrs, encodedArgs)
			}
		}
		return term.App{Tag: n.Tag, Fun: encodeAdtsTerm(book, enc, n.Fun), Arg: encodeAdtsTerm(book, enc, n.Arg)}
	case term.Lam:
		return term.Lam{Name: n.Name, Body: encodeAdtsTerm(book, enc, n.Body)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: encodeAdtsTerm(book, enc, n.Body)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: encodeAdtsTerm(book, enc, n.Val), Nxt: encodeAdtsTerm(book, enc, n.Nxt)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: encodeAdtsTerm(book, enc, n.Fst), Snd: encodeAdtsTerm(book, enc, n.Snd)}
	case term.Tup:
		return term.Tup{Fst: encodeAdtsTerm(book, enc, n.Fst), Snd: encodeAdtsTerm(book, enc, n.Snd)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = encodeAdtsTerm(book, enc, it)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: encodeAdtsTerm(book, enc, n.Fst), Snd: encodeAdtsTerm(book, enc, n.Snd)}
	case term.Mat:
		matched := encodeAdtsTerm(book, enc, n.Matched)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: encodeAdtsTerm(book, enc, arm.Body)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: n.Pat, Val: encodeAdtsTerm(book, enc, n.Val), Nxt: encodeAdtsTerm(book, enc, n.Nxt)}
	default:
		return t
	}
}

// flattenApp decomposes a left-nested chain of App nodes into its head
// function and argument list in source order.
func flattenApp(t term.Term) (term.Term, []term.Term) {
	var args []term.Term
	cur := t
	for {
		app, ok := cur.(term.App)
		if !ok {
			break
		}
		args = append([]term.Term{app.Arg}, args...)
		cur = app.Fun
	}
	return cur, args
}
