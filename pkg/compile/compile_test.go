package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/term"
)

// boolBook builds a tiny program: a Bool ADT, a `not` definition that
// matches on it, and a `main` entry point applying `not` to `True`.
func boolBook() *term.Book {
	book := term.NewBook()
	book.AddAdt("Bool", map[string]int{"True": 0, "False": 0}, []string{"True", "False"})
	book.Defs["not"] = &term.Definition{Name: "not", Rules: []term.Rule{
		{Pats: []term.Pattern{term.PatCtr{Name: "True"}}, Body: term.Ref{Name: "False"}},
		{Pats: []term.Pattern{term.PatCtr{Name: "False"}}, Body: term.Ref{Name: "True"}},
	}}
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{
		{Body: term.App{Fun: term.Ref{Name: "not"}, Arg: term.Ref{Name: "True"}}},
	}}
	return book
}

func TestCheckBookAcceptsWellFormedProgram(t *testing.T) {
	book := boolBook()
	book.SetEntrypoint()
	_, err := CheckBook(book)
	assert.NoError(t, err)
}

func TestCheckBookRejectsUnboundVariable(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{
		{Body: term.Var{Name: "nowhere"}},
	}}
	book.SetEntrypoint()
	_, err := CheckBook(book)
	assert.Error(t, err)
}

func TestCompileBookLightProducesANetForMain(t *testing.T) {
	book := boolBook()
	nb, names, _, err := CompileBook(book, Light())
	require.NoError(t, err)
	require.Contains(t, nb.Nets, "main")
	assert.Contains(t, names.HvmlToHvmc, "main")
}

func TestCompileBookHeavyPrunesUnreachableDefinitions(t *testing.T) {
	book := boolBook()
	book.Defs["dead"] = &term.Definition{Name: "dead", Rules: []term.Rule{{Body: term.Num{Val: 1}}}}
	nb, _, _, err := CompileBook(book, Heavy())
	require.NoError(t, err)
	require.Contains(t, nb.Nets, "main")
	assert.NotContains(t, nb.Nets, "dead", "Heavy() runs Prune, which should drop an unreferenced definition")
}

func TestApplyLazyModeDisablesSupercombinators(t *testing.T) {
	opts := Heavy()
	require.True(t, opts.RunSupercombs)
	opts.ApplyLazyMode()
	assert.False(t, opts.RunSupercombs)
	assert.False(t, opts.Eager)
}

func TestCompileBookIsDeterministic(t *testing.T) {
	nb1, _, _, err := CompileBook(boolBook(), Heavy())
	require.NoError(t, err)
	nb2, _, _, err := CompileBook(boolBook(), Heavy())
	require.NoError(t, err)

	// BuildID is a fresh uuid per call by design; compare the nets
	// themselves rather than the NetBook as a whole.
	assert.Equal(t, nb1.Nets, nb2.Nets)
}

func TestResolveWarningsEscalatesConfiguredKind(t *testing.T) {
	book := term.NewBook()
	book.Defs["unused"] = &term.Definition{Name: "unused", Rules: []term.Rule{{Body: term.Num{Val: 1}}}}
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{Body: term.Num{Val: 2}}}}
	book.SetEntrypoint()
	ctx, err := CheckBook(book)
	require.NoError(t, err)

	lenient := ResolveWarnings(ctx, WarningOpts{})
	assert.False(t, lenient.Fatal)

	strict := ResolveWarnings(ctx, WarningOpts{UnusedDefinitionFatal: true})
	assert.True(t, strict.Fatal)
}
