package desugar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/term"
)

func strp(s string) *string { return &s }

func boolBook() *term.Book {
	book := term.NewBook()
	book.AddAdt("Bool", map[string]int{"True": 0, "False": 0}, []string{"True", "False"})
	return book
}

func TestScottEncodeNullaryCtr(t *testing.T) {
	enc := NewScottEncoder()
	encoded := enc.Encode("Bool", 0, []string{"True", "False"}, nil)
	// λ_case$0. λ_case$1. _case$0
	lam1, ok := encoded.(term.Lam)
	require.True(t, ok)
	lam2, ok := lam1.Body.(term.Lam)
	require.True(t, ok)
	v, ok := lam2.Body.(term.Var)
	require.True(t, ok)
	assert.Equal(t, "_case$0", v.Name)
}

func TestTaggedScottHasTag(t *testing.T) {
	enc := NewTaggedScottEncoder()
	tag := enc.Tag("Bool")
	require.NotNil(t, tag)
	assert.Equal(t, "adt:Bool", tag.Name)
	assert.Nil(t, NewScottEncoder().Tag("Bool"))
}

func TestTaggedScottEncodeWrapsTagBearingDup(t *testing.T) {
	enc := NewTaggedScottEncoder()
	encoded := enc.Encode("Bool", 0, []string{"True", "False"}, nil)

	dup, ok := encoded.(term.Dup)
	require.True(t, ok, "tagged-scott must wrap the case-lambda in a tagged Dup, unlike plain Scott")
	require.NotNil(t, dup.Tag)
	assert.Equal(t, "adt:Bool", dup.Tag.Name)
	assert.Same(t, enc.Tag("Bool"), dup.Tag, "every constructor site of one ADT must share one *DupTag pointer")

	require.NotNil(t, dup.Fst)
	assert.Nil(t, dup.Snd, "the cloned copy is discarded, not bound")
	nxt, ok := dup.Nxt.(term.Var)
	require.True(t, ok)
	assert.Equal(t, *dup.Fst, nxt.Name)

	lam1, ok := dup.Val.(term.Lam)
	require.True(t, ok)
	lam2, ok := lam1.Body.(term.Lam)
	require.True(t, ok)
	v, ok := lam2.Body.(term.Var)
	require.True(t, ok)
	assert.Equal(t, "_case$0", v.Name)

	plain := NewScottEncoder().Encode("Bool", 0, []string{"True", "False"}, nil)
	_, plainIsLam := plain.(term.Lam)
	assert.True(t, plainIsLam, "untagged Scott must stay a bare case-lambda, not a Dup wrapper")
}

func TestTaggedScottEncodeSharesTagAcrossCtrsOfSameAdt(t *testing.T) {
	enc := NewTaggedScottEncoder()
	trueEnc := enc.Encode("Bool", 0, []string{"True", "False"}, nil).(term.Dup)
	falseEnc := enc.Encode("Bool", 1, []string{"True", "False"}, nil).(term.Dup)
	assert.Same(t, trueEnc.Tag, falseEnc.Tag, "both constructors of one ADT must carry the same *DupTag")
}

func TestEncodeAdtsRewritesNullaryRef(t *testing.T) {
	book := boolBook()
	book.Defs["not"] = &term.Definition{
		Name: "not",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatVar{Name: strp("b")}}, Body: term.Ref{Name: "True"}},
		},
	}
	ctx := term.NewCtx(book)
	EncodeAdts(ctx, NewScottEncoder())
	body := book.Defs["not"].Rules[0].Body
	_, ok := body.(term.Lam)
	assert.True(t, ok, "expected nullary constructor ref to become a case-lambda")
}

func TestEncodeBuiltinsListLit(t *testing.T) {
	book := term.NewBook()
	book.Defs["xs"] = &term.Definition{
		Name:  "xs",
		Rules: []term.Rule{{Body: term.Lst{Items: []term.Term{term.Num{Val: 1}, term.Num{Val: 2}}}}},
	}
	ctx := term.NewCtx(book)
	EncodeBuiltins(ctx, NewScottEncoder())
	body := book.Defs["xs"].Rules[0].Body
	_, ok := body.(term.Lam)
	assert.True(t, ok, "expected list literal to become Cons-lambda chain")
	assert.Contains(t, book.Adts, ListAdtName)
}

func TestDesugarLetTuple(t *testing.T) {
	book := term.NewBook()
	let := term.Let{
		Pat: term.PatTup{Fst: term.PatVar{Name: strp("a")}, Snd: term.PatVar{Name: strp("b")}},
		Val: term.Var{Name: "p"},
		Nxt: term.Var{Name: "a"},
	}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{Body: let}}}
	DesugarLetDestructors(term.NewCtx(book))
	dup, ok := book.Defs["f"].Rules[0].Body.(term.Dup)
	require.True(t, ok)
	assert.Equal(t, "a", *dup.Fst)
	assert.Equal(t, "b", *dup.Snd)
}

func TestDesugarLetCtr(t *testing.T) {
	book := boolBook()
	let := term.Let{
		Pat: term.PatCtr{Name: "True"},
		Val: term.Var{Name: "p"},
		Nxt: term.Num{Val: 1},
	}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{Body: let}}}
	DesugarLetDestructors(term.NewCtx(book))
	mat, ok := book.Defs["f"].Rules[0].Body.(term.Mat)
	require.True(t, ok)
	assert.Len(t, mat.Arms, 1)
}

func TestDesugarImplicitMatchBindsNamesWildcards(t *testing.T) {
	book := term.NewBook()
	book.AddAdt("Pair", map[string]int{"Mk": 2}, []string{"Mk"})
	rule := term.Rule{
		Pats: []term.Pattern{term.PatCtr{Name: "Mk", Args: []term.Pattern{term.PatVar{Name: nil}, term.PatVar{Name: nil}}}},
		Body: term.Num{Val: 0},
	}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{rule}}
	DesugarImplicitMatchBinds(term.NewCtx(book))
	pat := book.Defs["f"].Rules[0].Pats[0].(term.PatCtr)
	for _, a := range pat.Args {
		v := a.(term.PatVar)
		require.NotNil(t, v.Name)
	}
	assert.Equal(t, "Mk.0", *pat.Args[0].(term.PatVar).Name)
	assert.Equal(t, "Mk.1", *pat.Args[1].(term.PatVar).Name)
}

func TestDesugarImplicitMatchBindsBareCtr(t *testing.T) {
	book := term.NewBook()
	book.AddAdt("Pair", map[string]int{"Mk": 2}, []string{"Mk"})
	rule := term.Rule{
		Pats: []term.Pattern{term.PatCtr{Name: "Mk"}},
		Body: term.Num{Val: 0},
	}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{rule}}
	DesugarImplicitMatchBinds(term.NewCtx(book))
	pat := book.Defs["f"].Rules[0].Pats[0].(term.PatCtr)
	assert.Len(t, pat.Args, 2)
}
