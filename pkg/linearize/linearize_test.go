package linearize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/term"
)

func strp(s string) *string { return &s }

func TestMakeVarNamesUniqueRenamesBinders(t *testing.T) {
	book := term.NewBook()
	// λx. λx. x — inner x shadows outer; after renaming they must differ.
	body := term.NewLam("x", term.NewLam("x", term.Var{Name: "x"}))
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{Body: body}}}
	ctx := term.NewCtx(book)
	MakeVarNamesUnique(ctx)

	outer := book.Defs["f"].Rules[0].Body.(term.Lam)
	inner := outer.Body.(term.Lam)
	assert.NotEqual(t, *outer.Name, *inner.Name)
}

func TestLinearizeVarsUnusedBecomesErased(t *testing.T) {
	book := term.NewBook()
	body := term.NewLam("x", term.Num{Val: 1})
	book.Defs["const1"] = &term.Definition{Name: "const1", Rules: []term.Rule{{Body: body}}}
	ctx := term.NewCtx(book)
	LinearizeVars(ctx)

	lam := book.Defs["const1"].Rules[0].Body.(term.Lam)
	assert.Nil(t, lam.Name)
}

func TestLinearizeVarsSingleUseUnchanged(t *testing.T) {
	book := term.NewBook()
	body := term.NewLam("x", term.Var{Name: "x"})
	book.Defs["id"] = &term.Definition{Name: "id", Rules: []term.Rule{{Body: body}}}
	ctx := term.NewCtx(book)
	LinearizeVars(ctx)

	lam := book.Defs["id"].Rules[0].Body.(term.Lam)
	require.NotNil(t, lam.Name)
	v, ok := lam.Body.(term.Var)
	require.True(t, ok)
	assert.Equal(t, *lam.Name, v.Name)
}

func TestLinearizeVarsMultiUseInsertsDup(t *testing.T) {
	book := term.NewBook()
	// λx. (x x) — x used twice, needs one Dup.
	body := term.NewLam("x", term.App{Fun: term.Var{Name: "x"}, Arg: term.Var{Name: "x"}})
	book.Defs["dbl"] = &term.Definition{Name: "dbl", Rules: []term.Rule{{Body: body}}}
	ctx := term.NewCtx(book)
	LinearizeVars(ctx)

	lam := book.Defs["dbl"].Rules[0].Body.(term.Lam)
	dup, ok := lam.Body.(term.Dup)
	require.True(t, ok)
	require.NotNil(t, dup.Tag)
	app, ok := dup.Nxt.(term.App)
	require.True(t, ok)
	fst := app.Fun.(term.Var)
	snd := app.Arg.(term.Var)
	assert.Equal(t, *dup.Fst, fst.Name)
	assert.Equal(t, *dup.Snd, snd.Name)
	assert.NotEqual(t, fst.Name, snd.Name)
}

func TestLinearizeMatchArmFields(t *testing.T) {
	book := term.NewBook()
	book.AddAdt("Pair", map[string]int{"Mk": 2}, []string{"Mk"})
	x, y := "x", "y"
	mat := term.Mat{
		Matched: term.Var{Name: "p"},
		Arms: []term.MatchArm{
			{
				Pat: term.PatCtr{Name: "Mk", Args: []term.Pattern{term.PatVar{Name: &x}, term.PatVar{Name: &y}}},
				// x used twice, y used zero times.
				Body: term.App{Fun: term.Var{Name: "x"}, Arg: term.Var{Name: "x"}},
			},
		},
	}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{Body: mat}}}
	ctx := term.NewCtx(book)
	LinearizeVars(ctx)

	result := book.Defs["f"].Rules[0].Body.(term.Mat)
	armBody := result.Arms[0].Body
	// x used twice -> outer Dup; y unused -> inner wildcard-erasing Let.
	dup, ok := armBody.(term.Dup)
	require.True(t, ok)
	letY, ok := dup.Nxt.(term.Let)
	require.True(t, ok)
	assert.Nil(t, letY.Pat.(term.PatVar).Name)
}

func TestLinearizeLetSingleUse(t *testing.T) {
	book := term.NewBook()
	n := "n"
	let := term.Let{Pat: term.PatVar{Name: &n}, Val: term.Num{Val: 5}, Nxt: term.Var{Name: "n"}}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{Body: let}}}
	ctx := term.NewCtx(book)
	LinearizeVars(ctx)
	result := book.Defs["f"].Rules[0].Body.(term.Let)
	assert.Equal(t, "n", *result.Pat.(term.PatVar).Name)
}
