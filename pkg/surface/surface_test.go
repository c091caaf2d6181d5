package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/term"
)

func TestParseSimpleDefinitionBuildsIdentityLambda(t *testing.T) {
	book, err := Parse(`id x = x`)
	require.NoError(t, err)
	require.Contains(t, book.Defs, "id")
	def := book.Defs["id"]
	require.Len(t, def.Rules, 1)
	rule := def.Rules[0]
	require.Len(t, rule.Pats, 1)
	pv, ok := rule.Pats[0].(term.PatVar)
	require.True(t, ok)
	require.NotNil(t, pv.Name)
	assert.Equal(t, "x", *pv.Name)
	v, ok := rule.Body.(term.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestParseDataDeclRegistersConstructors(t *testing.T) {
	book, err := Parse(`data Bool = True | False`)
	require.NoError(t, err)
	require.Contains(t, book.Adts, "Bool")
	assert.Equal(t, []string{"True", "False"}, book.Adts["Bool"].Ctrs)
	assert.Equal(t, 0, book.Ctrs["True"].Arity)
	assert.Equal(t, 0, book.Ctrs["False"].Arity)
}

func TestParseDataDeclWithFieldsRecordsArity(t *testing.T) {
	book, err := Parse(`data List = Nil | Cons head tail`)
	require.NoError(t, err)
	assert.Equal(t, 2, book.Ctrs["Cons"].Arity)
	assert.Equal(t, 0, book.Ctrs["Nil"].Arity)
}

func TestParseMultipleRulesAccumulateOnSameDefinition(t *testing.T) {
	src := `data Bool = True | False
not (True) = False
not (False) = True
`
	book, err := Parse(src)
	require.NoError(t, err)
	def := book.Defs["not"]
	require.Len(t, def.Rules, 2)
	pc0, ok := def.Rules[0].Pats[0].(term.PatCtr)
	require.True(t, ok)
	assert.Equal(t, "True", pc0.Name)
	body0, ok := def.Rules[0].Body.(term.Ref)
	require.True(t, ok)
	assert.Equal(t, "False", body0.Name)
}

func TestParseBareCtrRefResolvesAsValue(t *testing.T) {
	src := `data Bool = True | False
main = True
`
	book, err := Parse(src)
	require.NoError(t, err)
	ref, ok := book.Defs["main"].Rules[0].Body.(term.Ref)
	require.True(t, ok)
	assert.Equal(t, "True", ref.Name)
}

func TestParseApplicationIsLeftAssociative(t *testing.T) {
	book, err := Parse(`main = f x y`)
	require.NoError(t, err)
	app, ok := book.Defs["main"].Rules[0].Body.(term.App)
	require.True(t, ok)
	inner, ok := app.Fun.(term.App)
	require.True(t, ok)
	assert.Equal(t, "f", inner.Fun.(term.Ref).Name)
	assert.Equal(t, "x", inner.Arg.(term.Ref).Name)
	assert.Equal(t, "y", app.Arg.(term.Ref).Name)
}

func TestParseOperatorPrecedenceMulBindsTighterThanAdd(t *testing.T) {
	book, err := Parse(`main = 1 + 2 * 3`)
	require.NoError(t, err)
	add, ok := book.Defs["main"].Rules[0].Body.(term.Opx)
	require.True(t, ok)
	assert.Equal(t, term.OpAdd, add.Op)
	mul, ok := add.Snd.(term.Opx)
	require.True(t, ok)
	assert.Equal(t, term.OpMul, mul.Op)
}

func TestParseLambdaBindsParameterInScope(t *testing.T) {
	book, err := Parse(`main = \x. x`)
	require.NoError(t, err)
	lam, ok := book.Defs["main"].Rules[0].Body.(term.Lam)
	require.True(t, ok)
	require.NotNil(t, lam.Name)
	v, ok := lam.Body.(term.Var)
	require.True(t, ok)
	assert.Equal(t, *lam.Name, v.Name)
}

func TestParseErasedLambdaHasNilName(t *testing.T) {
	book, err := Parse(`main = \_. 1`)
	require.NoError(t, err)
	lam, ok := book.Defs["main"].Rules[0].Body.(term.Lam)
	require.True(t, ok)
	assert.Nil(t, lam.Name)
}

func TestParseLetDestructuresTuple(t *testing.T) {
	book, err := Parse(`main = let (a, b) = (1, 2); a`)
	require.NoError(t, err)
	let, ok := book.Defs["main"].Rules[0].Body.(term.Let)
	require.True(t, ok)
	_, ok = let.Pat.(term.PatTup)
	require.True(t, ok)
	_, ok = let.Val.(term.Tup)
	require.True(t, ok)
	v, ok := let.Nxt.(term.Var)
	require.True(t, ok)
	assert.Equal(t, "a", v.Name)
}

func TestParseDupWiresBothBindersAndTag(t *testing.T) {
	book, err := Parse(`main = dup#lvl a b = 1; a`)
	require.NoError(t, err)
	dup, ok := book.Defs["main"].Rules[0].Body.(term.Dup)
	require.True(t, ok)
	require.NotNil(t, dup.Tag)
	assert.Equal(t, "lvl", dup.Tag.Name)
	require.NotNil(t, dup.Fst)
	require.NotNil(t, dup.Snd)
	assert.Equal(t, "a", *dup.Fst)
	assert.Equal(t, "b", *dup.Snd)
}

func TestParseSupLiteral(t *testing.T) {
	book, err := Parse(`main = {1, 2}`)
	require.NoError(t, err)
	sup, ok := book.Defs["main"].Rules[0].Body.(term.Sup)
	require.True(t, ok)
	assert.Nil(t, sup.Tag)
	assert.Equal(t, uint64(1), sup.Fst.(term.Num).Val)
}

func TestParseMatchExpression(t *testing.T) {
	src := `data Bool = True | False
not b = match b {
  True => False;
  False => True
}
`
	book, err := Parse(src)
	require.NoError(t, err)
	mat, ok := book.Defs["not"].Rules[0].Body.(term.Mat)
	require.True(t, ok)
	assert.Equal(t, "b", mat.Matched.(term.Var).Name)
	require.Len(t, mat.Arms, 2)
	pc, ok := mat.Arms[0].Pat.(term.PatCtr)
	require.True(t, ok)
	assert.Equal(t, "True", pc.Name)
}

func TestParseListLiteral(t *testing.T) {
	book, err := Parse(`main = [1, 2, 3]`)
	require.NoError(t, err)
	lst, ok := book.Defs["main"].Rules[0].Body.(term.Lst)
	require.True(t, ok)
	require.Len(t, lst.Items, 3)
	assert.Equal(t, uint64(3), lst.Items[2].(term.Num).Val)
}

func TestParseStringLiteral(t *testing.T) {
	book, err := Parse(`main = "hello"`)
	require.NoError(t, err)
	s, ok := book.Defs["main"].Rules[0].Body.(term.Str)
	require.True(t, ok)
	assert.Equal(t, "hello", s.Val)
}

func TestParseLineCommentIsIgnored(t *testing.T) {
	src := `-- this is a comment
main = 1 -- trailing comment
`
	book, err := Parse(src)
	require.NoError(t, err)
	n, ok := book.Defs["main"].Rules[0].Body.(term.Num)
	require.True(t, ok)
	assert.Equal(t, uint64(1), n.Val)
}
