package match

import "github.com/inkc/inkc/pkg/term"

// compileTupColumn handles a tuple-pattern column. Tuples have exactly
// one shape, so no Mat is needed: the column is spliced into two fresh
// field occurrences and the whole subtree is wrapped in a Dup, the same
// destructuring primitive desugar_let_destructors uses for `let (a,b) =
// v`.
func compileTupColumn(ctx *term.Ctx, rows []row, params []string, col int) term.Term {
	occ := params[col]
	fst := ctx.Fresh.Fresh(occ + ".fst")
	snd := ctx.Fresh.Fresh(occ + ".snd")

	newRows := make([]row, 0, len(rows))
	for _, r := range rows {
		switch p := r.pats[col].(type) {
		case term.PatTup:
			newRows = append(newRows, row{pats: spliceColumn(r.pats, col, []term.Pattern{p.Fst, p.Snd}), body: r.body})
		case term.PatVar:
			body := r.body
			if p.Name != nil {
				n := *p.Name
				body = term.Let{Pat: term.PatVar{Name: &n}, Val: term.Var{Name: occ}, Nxt: body}
			}
			wildcards := []term.Pattern{term.PatVar{Name: nil}, term.PatVar{Name: nil}}
			newRows = append(newRows, row{pats: spliceColumn(r.pats, col, wildcards), body: body})
		}
	}

	np := make([]string, 0, len(params)+1)
	np = append(np, params[:col]...)
	np = append(np, fst, snd)
	np = append(np, params[col+1:]...)

	rest := compile(ctx, newRows, np)
	return term.Dup{Fst: &fst, Snd: &snd, Val: term.Var{Name: occ}, Nxt: rest}
}

// compileNumColumn handles a numeric-literal column: it splits rows into
// the zero case and the successor case (testing col == 0 vs. binding a
// fresh predecessor), mirroring the `mat n { 0: …; +: λpred. … }` shape
// of normalize.go's NormalizeNativeMatches, applied here at rule-argument
// level instead of to an already-written surface Mat.
func compileNumColumn(ctx *term.Ctx, rows []row, params []string, col int) term.Term {
	occ := params[col]

	var zeroRows, succRows []row
	for _, r := range rows {
		switch p := r.pats[col].(type) {
		case term.PatNum:
			if p.Val == 0 {
				zeroRows = append(zeroRows, row{pats: dropPatColumn(r.pats, col), body: r.body})
			} else {
				dec := term.PatNum{Val: p.Val - 1}
				pats := append([]term.Pattern(nil), r.pats...)
				pats[col] = dec
				succRows = append(succRows, row{pats: pats, body: r.body})
			}
		case term.PatVar:
			zBody, sBody := r.body, r.body
			if p.Name != nil {
				n := *p.Name
				zBody = term.Let{Pat: term.PatVar{Name: &n}, Val: term.Var{Name: occ}, Nxt: zBody}
				sBody = term.Let{Pat: term.PatVar{Name: &n}, Val: term.Var{Name: occ}, Nxt: sBody}
			}
			zeroRows = append(zeroRows, row{pats: dropPatColumn(r.pats, col), body: zBody})
			pats := append([]term.Pattern(nil), r.pats...)
			pats[col] = term.PatVar{Name: nil}
			succRows = append(succRows, row{pats: pats, body: sBody})
		}
	}

	zeroParams := dropColumn(params, col)
	zeroBody := compile(ctx, zeroRows, zeroParams)

	predVar := ctx.Fresh.Fresh(occ + ".pred")
	succParams := append([]string(nil), params...)
	succParams[col] = predVar
	succBody := term.NewLam(predVar, compile(ctx, succRows, succParams))

	return term.Mat{
		Matched: term.Var{Name: occ},
		Arms: []term.MatchArm{
			{Pat: term.PatNum{Val: 0}, Body: zeroBody},
			{Pat: term.PatVar{Name: nil}, Body: succBody},
		},
	}
}
