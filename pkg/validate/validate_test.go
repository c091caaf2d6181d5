package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/term"
)

func strp(s string) *string { return &s }

func boolAdt() *term.Book {
	book := term.NewBook()
	book.AddAdt("Bool", map[string]int{"True": 0, "False": 0}, []string{"True", "False"})
	return book
}

func TestCheckArityMismatch(t *testing.T) {
	book := boolAdt()
	book.Defs["not"] = &term.Definition{
		Name: "not",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatCtr{Name: "True", Args: []term.Pattern{term.PatVar{Name: strp("x")}}}}, Body: term.Ref{Name: "False"}},
		},
	}
	ctx := term.NewCtx(book)
	err := CheckArity(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity mismatch")
}

func TestCheckArityOk(t *testing.T) {
	book := boolAdt()
	book.Defs["not"] = &term.Definition{
		Name: "not",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatCtr{Name: "True"}}, Body: term.Ref{Name: "False"}},
			{Pats: []term.Pattern{term.PatCtr{Name: "False"}}, Body: term.Ref{Name: "True"}},
		},
	}
	ctx := term.NewCtx(book)
	assert.NoError(t, CheckArity(ctx))
}

func TestCheckUnboundPats(t *testing.T) {
	book := boolAdt()
	book.Defs["f"] = &term.Definition{
		Name: "f",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatCtr{Name: "Nope"}}, Body: term.Num{Val: 0}},
		},
	}
	ctx := term.NewCtx(book)
	err := CheckUnboundPats(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound constructor")
}

func TestCheckUnboundVars(t *testing.T) {
	book := term.NewBook()
	book.Defs["f"] = &term.Definition{
		Name: "f",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatVar{Name: strp("x")}}, Body: term.Var{Name: "y"}},
		},
	}
	ctx := term.NewCtx(book)
	err := CheckUnboundVars(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound variable")
}

func TestCheckUnboundVarsOk(t *testing.T) {
	book := term.NewBook()
	book.Defs["id"] = &term.Definition{
		Name: "id",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatVar{Name: strp("x")}}, Body: term.Var{Name: "x"}},
		},
	}
	ctx := term.NewCtx(book)
	assert.NoError(t, CheckUnboundVars(ctx))
}

func TestCheckExhaustivePatternsMissingArm(t *testing.T) {
	book := boolAdt()
	book.Defs["not"] = &term.Definition{
		Name: "not",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatCtr{Name: "True"}}, Body: term.Ref{Name: "False"}},
		},
	}
	ctx := term.NewCtx(book)
	err := CheckExhaustivePatterns(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-exhaustive")
}

func TestCheckExhaustivePatternsCatchAll(t *testing.T) {
	book := boolAdt()
	book.Defs["id"] = &term.Definition{
		Name: "id",
		Rules: []term.Rule{
			{Pats: []term.Pattern{term.PatVar{Name: strp("x")}}, Body: term.Var{Name: "x"}},
		},
	}
	ctx := term.NewCtx(book)
	assert.NoError(t, CheckExhaustivePatterns(ctx))
}

func TestCheckSharedNamesConflict(t *testing.T) {
	book := boolAdt()
	book.Defs["True"] = &term.Definition{Name: "True", Rules: []term.Rule{{Body: term.Num{Val: 1}}}}
	ctx := term.NewCtx(book)
	err := CheckSharedNames(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated name")
}

func TestRecordWarningsUnusedDefinition(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{Body: term.Num{Val: 1}}}}
	book.Defs["dead"] = &term.Definition{Name: "dead", Rules: []term.Rule{{Body: term.Num{Val: 2}}}}
	ctx := term.NewCtx(book)
	RecordWarnings(ctx)
	found := false
	for _, w := range ctx.Diag.Warnings() {
		if w.DefName == "dead" {
			found = true
		}
	}
	assert.True(t, found)
}
