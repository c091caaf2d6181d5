package match

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

func TestCompilePatternMatchingAdt(t *testing.T) {
	book := boolBook()
	book.Defs["not"] = &term.Definition{
		Name: "not",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatCtr{Name: "True"}}, Body: term.Ref{Name: "False"}},
			{Pats: []term.Pattern{term.PatCtr{Name: "False"}}, Body: term.Ref{Name: "True"}},
		},
	}
	ctx := term.NewCtx(book)
	CompilePatternMatching(ctx)
	require.False(t, ctx.Diag.HasErrors())

	def := book.Defs["not"]
	assert.True(t, def.IsCompiled())
	mat, ok := def.Rules[0].Body.(term.Mat)
	require.True(t, ok)
	assert.Len(t, mat.Arms, 2)
}

func TestCompilePatternMatchingWildcardFallback(t *testing.T) {
	book := boolBook()
	book.Defs["isTrue"] = &term.Definition{
		Name: "isTrue",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatCtr{Name: "True"}}, Body: term.Ref{Name: "True"}},
			{Pats: []term.Pattern{term.PatVar{Name: strp("x")}}, Body: term.Ref{Name: "False"}},
		},
	}
	ctx := term.NewCtx(book)
	CompilePatternMatching(ctx)
	require.False(t, ctx.Diag.HasErrors())
	mat := book.Defs["isTrue"].Rules[0].Body.(term.Mat)
	assert.Len(t, mat.Arms, 2)
}

func TestCompileNumColumnZeroSucc(t *testing.T) {
	book := term.NewBook()
	book.Defs["isZero"] = &term.Definition{
		Name: "isZero",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatNum{Val: 0}}, Body: term.Num{Val: 1}},
			{Pats: []term.Pattern{term.PatVar{Name: strp("n")}}, Body: term.Num{Val: 0}},
		},
	}
	ctx := term.NewCtx(book)
	CompilePatternMatching(ctx)
	require.False(t, ctx.Diag.HasErrors())
	mat := book.Defs["isZero"].Rules[0].Body.(term.Mat)
	require.Len(t, mat.Arms, 2)
	assert.Equal(t, uint64(0), mat.Arms[0].Pat.(term.PatNum).Val)
	_, ok := mat.Arms[1].Body.(term.Lam)
	assert.True(t, ok, "successor arm body should be a lambda over the predecessor")
}

func TestNormalizeNativeMatchesChain(t *testing.T) {
	book := term.NewBook()
	book.Defs["f"] = &term.Definition{
		Name: "f",
		Rules: []term.Rule{{Body: term.Mat{
			Matched: term.Var{Name: "n"},
			Arms: []term.MatchArm{
				{Pat: term.PatNum{Val: 0}, Body: term.Num{Val: 100}},
				{Pat: term.PatNum{Val: 1}, Body: term.Num{Val: 200}},
				{Pat: term.PatVar{Name: nil}, Body: term.Num{Val: 300}},
			},
		}}},
	}
	ctx := term.NewCtx(book)
	NormalizeNativeMatches(ctx)
	require.False(t, ctx.Diag.HasErrors())
	top := book.Defs["f"].Rules[0].Body.(term.Mat)
	assert.Len(t, top.Arms, 2)
	lam := top.Arms[1].Body.(term.Lam)
	inner := lam.Body.(term.Mat)
	assert.Len(t, inner.Arms, 2)
}

func TestCompileTupColumn(t *testing.T) {
	book := term.NewBook()
	book.Defs["fst"] = &term.Definition{
		Name: "fst",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatTup{Fst: term.PatVar{Name: strp("a")}, Snd: term.PatVar{Name: strp("b")}}}, Body: term.Var{Name: "a"}},
		},
	}
	ctx := term.NewCtx(book)
	CompilePatternMatching(ctx)
	require.False(t, ctx.Diag.HasErrors())
	dup, ok := book.Defs["fst"].Rules[0].Body.(term.Dup)
	require.True(t, ok)
	assert.NotNil(t, dup.Fst)
	assert.NotNil(t, dup.Snd)
}

func TestDesugarListPatterns(t *testing.T) {
	book := term.NewBook()
	book.Defs["head"] = &term.Definition{
		Name: "head",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatLst{Items: []term.Pattern{term.PatVar{Name: strp("x")}}}}, Body: term.Var{Name: "x"}},
			{Pats: []term.Pattern{term.PatVar{Name: strp("_")}}, Body: term.Num{Val: 0}},
		},
	}
	ctx := term.NewCtx(book)
	CompilePatternMatching(ctx)
	require.False(t, ctx.Diag.HasErrors())
	assert.Contains(t, book.Adts, "List")
}
