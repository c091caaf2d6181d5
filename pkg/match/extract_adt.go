package match

import (
	"github.com/inkc/inkc/pkg/diagnostics"
	"github.com/inkc/inkc/pkg/term"
)

// DesugarListPatterns rewrites every PatLst rule pattern into the nested
// Cons/Nil PatCtr chain the builtin List ADT uses, registering that ADT
// on the book if needed. It runs before the decision-tree compiler (both
// compileBook and CompilePatternMatching call it; a second run finds no
// PatLst left), so compile() never has to special-case fixed-length list
// shapes: a list pattern is just ordinary ADT constructor nesting once
// desugared.
func DesugarListPatterns(ctx *term.Ctx, ensureListAdt func(*term.Book), nilCtr, consCtr string) {
	ensureListAdt(ctx.Book)
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			for j := range def.Rules[i].Pats {
				def.Rules[i].Pats[j] = desugarListPat(def.Rules[i].Pats[j], nilCtr, consCtr)
			}
		}
	}
}

func desugarListPat(p term.Pattern, nilCtr, consCtr string) term.Pattern {
	switch pp := p.(type) {
	case term.PatLst:
		tail := term.Pattern(term.PatCtr{Name: nilCtr})
		for i := len(pp.Items) - 1; i >= 0; i-- {
			item := desugarListPat(pp.Items[i], nilCtr, consCtr)
			tail = term.PatCtr{Name: consCtr, Args: []term.Pattern{item, tail}}
		}
		return tail
	case term.PatCtr:
		args := make([]term.Pattern, len(pp.Args))
		for i, a := range pp.Args {
			args[i] = desugarListPat(a, nilCtr, consCtr)
		}
		return term.PatCtr{Name: pp.Name, Args: args}
	case term.PatTup:
		return term.PatTup{Fst: desugarListPat(pp.Fst, nilCtr, consCtr), Snd: desugarListPat(pp.Snd, nilCtr, consCtr)}
	default:
		return p
	}
}

// compileCtrColumn is extract_adt_matches: it builds one Mat arm per
// declared constructor of the ADT ranging over col, recursing into each
// arm with that constructor's fields spliced in as new occurrences.
func compileCtrColumn(ctx *term.Ctx, rows []row, params []string, col int) term.Term {
	adtName, ok := InferColumnAdt(ctx.Book, rows, col)
	if !ok {
		ctx.Diag.Error(diagnostics.MatchCompile, "", "cannot infer ADT for pattern column")
		return term.Err{Reason: "unresolvable constructor column"}
	}
	adt := ctx.Book.Adts[adtName]
	occ := params[col]

	arms := make([]term.MatchArm, 0, len(adt.Ctrs))
	for _, ctr := range adt.Ctrs {
		info := ctx.Book.Ctrs[ctr]
		fieldParams := make([]string, info.Arity)
		for i := range fieldParams {
			fieldParams[i] = ctx.Fresh.Fresh(ctr + ".f" + itoa(i))
		}

		var subRows []row
		for _, r := range rows {
			switch p := r.pats[col].(type) {
			case term.PatCtr:
				if p.Name != ctr {
					continue
				}
				subRows = append(subRows, row{
					pats: spliceColumn(r.pats, col, p.Args),
					body: r.body,
				})
			case term.PatVar:
				wildcards := make([]term.Pattern, info.Arity)
				for i := range wildcards {
					wildcards[i] = term.PatVar{Name: nil}
				}
				body := r.body
				if p.Name != nil {
					n := *p.Name
					body = term.Let{Pat: term.PatVar{Name: &n}, Val: term.Var{Name: occ}, Nxt: body}
				}
				subRows = append(subRows, row{
					pats: spliceColumn(r.pats, col, wildcards),
					body: body,
				})
			}
		}

		np := make([]string, 0, len(params)-1+info.Arity)
		np = append(np, params[:col]...)
		np = append(np, fieldParams...)
		np = append(np, params[col+1:]...)

		var armBody term.Term
		if len(subRows) == 0 {
			ctx.Diag.Error(diagnostics.MatchCompile, "", "non-exhaustive patterns: missing case for constructor '%s'", ctr)
			armBody = term.Err{Reason: "non-exhaustive constructor"}
		} else {
			armBody = compile(ctx, subRows, np)
		}

		argPats := make([]term.Pattern, info.Arity)
		for i, fp := range fieldParams {
			n := fp
			argPats[i] = term.PatVar{Name: &n}
		}
		arms = append(arms, term.MatchArm{Pat: term.PatCtr{Name: ctr, Args: argPats}, Body: armBody})
	}

	return term.Mat{Matched: term.Var{Name: occ}, Arms: arms}
}

// spliceColumn replaces pats[col] with the (possibly multi-element)
// replacement slice, preserving every other column in place.
func spliceColumn(pats []term.Pattern, col int, replacement []term.Pattern) []term.Pattern {
	out := make([]term.Pattern, 0, len(pats)-1+len(replacement))
	out = append(out, pats[:col]...)
	out = append(out, replacement...)
	out = append(out, pats[col+1:]...)
	return out
}
