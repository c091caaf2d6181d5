// Package validate implements the compiler's diagnostic passes: arity,
// unbound-name, shared-name, and exhaustiveness checks. Every check
// returns (or appends to) a diagnostics.Batch, never aborting on the
// first failure so the caller can surface the complete defect report.
package validate

import (
	"fmt"

	"github.com/inkc/inkc/pkg/diagnostics"
	"github.com/inkc/inkc/pkg/term"
)

// CheckSharedNames fails if any two definitions, constructors, or ADTs
// share a name.
func CheckSharedNames(ctx *term.Ctx) error {
	ctx.StartBatch()
	seen := make(map[string]string) // name -> kind of first sighting

	record := func(name, kind string) {
		if prev, ok := seen[name]; ok {
			ctx.Diag.Error(diagnostics.DuplicateName, "", "'%s' is declared as both %s and %s", name, prev, kind)
			return
		}
		seen[name] = kind
	}

	for _, n := range ctx.Book.SortedDefNames() {
		record(n, "a definition")
	}
	for _, n := range ctx.Book.SortedAdtNames() {
		record(n, "an ADT")
	}
	for _, n := range ctx.Book.SortedCtrNames() {
		record(n, "a constructor")
	}
	return ctx.CheckFatal()
}

// CheckArity fails if any Ctr pattern's argument count differs from the
// constructor's declared arity.
func CheckArity(ctx *term.Ctx) error {
	ctx.StartBatch()
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for _, rule := range def.Rules {
			for _, p := range rule.Pats {
				checkPatternArity(ctx, name, p)
			}
			checkTermArity(ctx, name, rule.Body)
		}
	}
	return ctx.CheckFatal()
}

func checkPatternArity(ctx *term.Ctx, defName string, p term.Pattern) {
	switch pp := p.(type) {
	case term.PatCtr:
		if info, ok := ctx.Book.Ctrs[pp.Name]; ok {
			if info.Arity != len(pp.Args) {
				ctx.Diag.Error(diagnostics.Arity, defName, "constructor '%s' expects %d argument(s), pattern has %d", pp.Name, info.Arity, len(pp.Args))
			}
		}
		for _, a := range pp.Args {
			checkPatternArity(ctx, defName, a)
		}
	case term.PatTup:
		checkPatternArity(ctx, defName, pp.Fst)
		checkPatternArity(ctx, defName, pp.Snd)
	case term.PatLst:
		for _, it := range pp.Items {
			checkPatternArity(ctx, defName, it)
		}
	}
}

func checkTermArity(ctx *term.Ctx, defName string, t term.Term) {
	switch n := t.(type) {
	case term.Mat:
		checkTermArity(ctx, defName, n.Matched)
		for _, arm := range n.Arms {
			checkPatternArity(ctx, defName, arm.Pat)
			checkTermArity(ctx, defName, arm.Body)
		}
	case term.Let:
		checkPatternArity(ctx, defName, n.Pat)
		checkTermArity(ctx, defName, n.Val)
		checkTermArity(ctx, defName, n.Nxt)
	case term.App:
		checkTermArity(ctx, defName, n.Fun)
		checkTermArity(ctx, defName, n.Arg)
	case term.Lam:
		checkTermArity(ctx, defName, n.Body)
	case term.Chn:
		checkTermArity(ctx, defName, n.Body)
	case term.Dup:
		checkTermArity(ctx, defName, n.Val)
		checkTermArity(ctx, defName, n.Nxt)
	case term.Sup:
		checkTermArity(ctx, defName, n.Fst)
		checkTermArity(ctx, defName, n.Snd)
	case term.Tup:
		checkTermArity(ctx, defName, n.Fst)
		checkTermArity(ctx, defName, n.Snd)
	case term.Lst:
		for _, it := range n.Items {
			checkTermArity(ctx, defName, it)
		}
	case term.Opx:
		checkTermArity(ctx, defName, n.Fst)
		checkTermArity(ctx, defName, n.Snd)
	}
}

// CheckUnboundPats fails if any constructor name appearing in a rule's
// parameter patterns is not declared. Patterns of match expressions in
// rule bodies are not checked.
func CheckUnboundPats(ctx *term.Ctx) error {
	ctx.StartBatch()
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for _, rule := range def.Rules {
			for _, p := range rule.Pats {
				walkCtrPatterns(ctx, name, p)
			}
		}
	}
	return ctx.CheckFatal()
}

func walkCtrPatterns(ctx *term.Ctx, defName string, p term.Pattern) {
	switch pp := p.(type) {
	case term.PatCtr:
		if _, ok := ctx.Book.Ctrs[pp.Name]; !ok {
			ctx.Diag.Error(diagnostics.UnboundCtr, defName, "constructor '%s' is not declared", pp.Name)
		}
		for _, a := range pp.Args {
			walkCtrPatterns(ctx, defName, a)
		}
	case term.PatTup:
		walkCtrPatterns(ctx, defName, pp.Fst)
		walkCtrPatterns(ctx, defName, pp.Snd)
	case term.PatLst:
		for _, it := range pp.Items {
			walkCtrPatterns(ctx, defName, it)
		}
	}
}

// CheckUnboundVars fails if any Var is not bound by an enclosing binder
// or rule pattern, or any Ref does not name a declared definition or
// constructor.
func CheckUnboundVars(ctx *term.Ctx) error {
	ctx.StartBatch()
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for _, rule := range def.Rules {
			scope := make(map[string]bool)
			for _, p := range rule.Pats {
				for _, b := range term.PatternBinders(p) {
					scope[b] = true
				}
			}
			checkScope(ctx, name, rule.Body, scope)
		}
	}
	return ctx.CheckFatal()
}

func checkScope(ctx *term.Ctx, defName string, t term.Term, scope map[string]bool) {
	switch n := t.(type) {
	case term.Var:
		if !scope[n.Name] {
			ctx.Diag.Error(diagnostics.UnboundVar, defName, "unbound variable '%s'", n.Name)
		}
	case term.Ref:
		_, isDef := ctx.Book.Defs[n.Name]
		_, isCtr := ctx.Book.Ctrs[n.Name]
		if !isDef && !isCtr {
			ctx.Diag.Error(diagnostics.UnboundVar, defName, "reference to undefined definition '%s'", n.Name)
		}
	case term.Lam:
		child := cloneScope(scope)
		if n.Name != nil {
			child[*n.Name] = true
		}
		checkScope(ctx, defName, n.Body, child)
	case term.Chn:
		child := cloneScope(scope)
		child[n.Name] = true
		checkScope(ctx, defName, n.Body, child)
	case term.App:
		checkScope(ctx, defName, n.Fun, scope)
		checkScope(ctx, defName, n.Arg, scope)
	case term.Dup:
		checkScope(ctx, defName, n.Val, scope)
		child := cloneScope(scope)
		if n.Fst != nil {
			child[*n.Fst] = true
		}
		if n.Snd != nil {
			child[*n.Snd] = true
		}
		checkScope(ctx, defName, n.Nxt, child)
	case term.Sup:
		checkScope(ctx, defName, n.Fst, scope)
		checkScope(ctx, defName, n.Snd, scope)
	case term.Tup:
		checkScope(ctx, defName, n.Fst, scope)
		checkScope(ctx, defName, n.Snd, scope)
	case term.Lst:
		for _, it := range n.Items {
			checkScope(ctx, defName, it, scope)
		}
	case term.Opx:
		checkScope(ctx, defName, n.Fst, scope)
		checkScope(ctx, defName, n.Snd, scope)
	case term.Mat:
		checkScope(ctx, defName, n.Matched, scope)
		for _, arm := range n.Arms {
			child := cloneScope(scope)
			for _, b := range term.PatternBinders(arm.Pat) {
				child[b] = true
			}
			checkScope(ctx, defName, arm.Body, child)
		}
	case term.Let:
		checkScope(ctx, defName, n.Val, scope)
		child := cloneScope(scope)
		for _, b := range term.PatternBinders(n.Pat) {
			child[b] = true
		}
		checkScope(ctx, defName, n.Nxt, child)
	}
}

func cloneScope(scope map[string]bool) map[string]bool {
	out := make(map[string]bool, len(scope)+2)
	for k, v := range scope {
		out[k] = v
	}
	return out
}

// CheckExhaustivePatterns fails if, for some definition, the union of
// rule patterns at some parameter position does not cover every
// constructor of the inferred ADT and no catch-all variable pattern is
// present. Only rule parameter patterns are checked: match expressions in
// rule bodies, including ones with no arms, are not.
func CheckExhaustivePatterns(ctx *term.Ctx) error {
	ctx.StartBatch()
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		arity := def.Arity()
		for col := 0; col < arity; col++ {
			checkColumnExhaustive(ctx, name, def, col)
		}
	}
	return ctx.CheckFatal()
}

func checkColumnExhaustive(ctx *term.Ctx, defName string, def *term.Definition, col int) {
	var adtName string
	seenCtrs := make(map[string]bool)
	hasCatchAll := false
	hasCtrPattern := false

	for _, rule := range def.Rules {
		if col >= len(rule.Pats) {
			continue
		}
		switch p := rule.Pats[col].(type) {
		case term.PatCtr:
			hasCtrPattern = true
			if info, ok := ctx.Book.Ctrs[p.Name]; ok {
				adtName = info.Adt
			}
			seenCtrs[p.Name] = true
		case term.PatVar:
			hasCatchAll = true
		}
	}

	if !hasCtrPattern || adtName == "" || hasCatchAll {
		return
	}

	adt, ok := ctx.Book.Adts[adtName]
	if !ok {
		return
	}
	var missing []string
	for _, ctr := range adt.Ctrs {
		if !seenCtrs[ctr] {
			missing = append(missing, ctr)
		}
	}
	if len(missing) > 0 {
		ctx.Diag.Error(diagnostics.NonExhaustive, defName, "non-exhaustive patterns at argument %d: missing %v", col, missing)
	}
}

// RecordWarnings records the two non-fatal warning kinds described in
// spec.md §4.3/§7: a match whose every arm is a variable pattern
// (suggesting dead code), and an unused top-level definition.
func RecordWarnings(ctx *term.Ctx) {
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for _, rule := range def.Rules {
			recordMatchOnlyVars(ctx, name, rule.Body)
		}
	}
	recordUnusedDefs(ctx)
}

func recordMatchOnlyVars(ctx *term.Ctx, defName string, t term.Term) {
	switch n := t.(type) {
	case term.Mat:
		allVars := len(n.Arms) > 0
		for _, arm := range n.Arms {
			if !term.IsWildcard(arm.Pat) {
				allVars = false
			}
			recordMatchOnlyVars(ctx, defName, arm.Body)
		}
		if allVars {
			ctx.Diag.Warn(diagnostics.MatchOnlyVars, defName, "match expression's arms are all variable patterns")
		}
		recordMatchOnlyVars(ctx, defName, n.Matched)
	case term.App:
		recordMatchOnlyVars(ctx, defName, n.Fun)
		recordMatchOnlyVars(ctx, defName, n.Arg)
	case term.Lam:
		recordMatchOnlyVars(ctx, defName, n.Body)
	case term.Chn:
		recordMatchOnlyVars(ctx, defName, n.Body)
	case term.Dup:
		recordMatchOnlyVars(ctx, defName, n.Val)
		recordMatchOnlyVars(ctx, defName, n.Nxt)
	case term.Let:
		recordMatchOnlyVars(ctx, defName, n.Val)
		recordMatchOnlyVars(ctx, defName, n.Nxt)
	}
}

func recordUnusedDefs(ctx *term.Ctx) {
	refCounts := make(map[string]int)
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for _, rule := range def.Rules {
			countRefs(rule.Body, refCounts)
		}
	}
	for _, name := range ctx.Book.SortedDefNames() {
		if name == ctx.Book.Entrypoint {
			continue
		}
		if refCounts[name] == 0 {
			ctx.Diag.Warn(diagnostics.UnusedDefinition, name, "definition '%s' is never referenced", name)
		}
	}
}

func countRefs(t term.Term, out map[string]int) {
	switch n := t.(type) {
	case term.Ref:
		out[n.Name]++
	case term.App:
		countRefs(n.Fun, out)
		countRefs(n.Arg, out)
	case term.Lam:
		countRefs(n.Body, out)
	case term.Chn:
		countRefs(n.Body, out)
	case term.Dup:
		countRefs(n.Val, out)
		countRefs(n.Nxt, out)
	case term.Sup:
		countRefs(n.Fst, out)
		countRefs(n.Snd, out)
	case term.Tup:
		countRefs(n.Fst, out)
		countRefs(n.Snd, out)
	case term.Lst:
		for _, it := range n.Items {
			countRefs(it, out)
		}
	case term.Opx:
		countRefs(n.Fst, out)
		countRefs(n.Snd, out)
	case term.Mat:
		countRefs(n.Matched, out)
		for _, arm := range n.Arms {
			countRefs(arm.Body, out)
		}
	case term.Let:
		countRefs(n.Val, out)
		countRefs(n.Nxt, out)
	}
}

// ErrMsg is a small helper so callers can wrap a formatted message as an
// error without importing fmt directly at the call site.
func ErrMsg(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
