// Package compile orchestrates the whole front end: validation,
// desugaring, pattern-match compilation, linearization, optimization,
// and lowering, in the fixed order spec.md §4 lays out.
package compile

import (
	"fmt"

	"github.com/inkc/inkc/pkg/desugar"
	"github.com/inkc/inkc/pkg/diagnostics"
	"github.com/inkc/inkc/pkg/linearize"
	"github.com/inkc/inkc/pkg/lower"
	"github.com/inkc/inkc/pkg/match"
	"github.com/inkc/inkc/pkg/netir"
	"github.com/inkc/inkc/pkg/optimize"
	"github.com/inkc/inkc/pkg/term"
	"github.com/inkc/inkc/pkg/validate"
)

// WarningOpts controls which warning categories a compile run escalates
// to a fatal error instead of merely reporting.
type WarningOpts struct {
	MatchOnlyVarsFatal   bool
	UnusedDefinitionFatal bool
}

// WarnState is the resolved outcome of applying WarningOpts to a batch
// of accumulated warnings: the warnings to print, and whether any of
// them must abort the compile.
type WarnState struct {
	Warnings []*diagnosticWarning
	Fatal    bool
}

type diagnosticWarning struct {
	Kind    string
	DefName string
	Message string
}

// CompileOpts selects which optimizer passes run and which ADT encoding
// the desugarer uses. Eager must be true whenever the target runtime
// cannot tolerate unbounded inlining of recursive definitions, per
// spec.md §9's note that eager/strict evaluation requires the
// supercombinators pass to bound the size of any one reduction step.
type CompileOpts struct {
	AdtEncoding desugar.AdtEncoding
	Eager       bool

	RunEta            bool
	RunRefToRef       bool
	RunSimplifyMain   bool
	RunSupercombs     bool
	RunInline         bool
	RunMerge          bool
	RunPrune          bool

	Warn WarningOpts
}

// Light returns the conservative preset: only supercombinator detachment
// enabled, per spec.md §9's "light (only supercombinators enabled)".
func Light() CompileOpts {
	return CompileOpts{
		AdtEncoding:   desugar.Scott,
		RunSupercombs: true,
	}
}

// Heavy returns the full preset: every optimizer pass, tagged-Scott ADT
// encoding (so duplication introduced by linearization cannot commute
// across distinct constructor applications), for a release-shaped
// build.
func Heavy() CompileOpts {
	return CompileOpts{
		AdtEncoding:     desugar.TaggedScott,
		RunEta:          true,
		RunRefToRef:     true,
		RunSimplifyMain: true,
		RunSupercombs:   true,
		RunInline:       true,
		RunMerge:        true,
		RunPrune:        true,
	}
}

// ApplyLazyMode adjusts opts for a lazy-evaluating target runtime: the
// supercombinators pass exists only to bound eager unfolding, so a lazy
// runtime gets it switched off (it would only add indirection for no
// safety benefit).
func (o *CompileOpts) ApplyLazyMode() {
	o.Eager = false
	o.RunSupercombs = false
}

// runValidation runs every validation pass over book and returns the
// Ctx it accumulated diagnostics into, without desugaring or compiling
// anything.
func runValidation(book *term.Book) (*term.Ctx, error) {
	ctx := term.NewCtx(book)
	ctx.StartBatch()
	if err := validate.CheckSharedNames(ctx); err != nil {
		return ctx, err
	}
	if err := validate.CheckArity(ctx); err != nil {
		return ctx, err
	}
	if err := validate.CheckUnboundPats(ctx); err != nil {
		return ctx, err
	}
	if err := validate.CheckUnboundVars(ctx); err != nil {
		return ctx, err
	}
	if err := validate.CheckExhaustivePatterns(ctx); err != nil {
		return ctx, err
	}
	validate.RecordWarnings(ctx)
	return ctx, ctx.CheckFatal()
}

// CheckBook is a thin wrapper around CompileBook run with the Light()
// preset, discarding the resulting net book: the check mode adds no new
// logic of its own, per spec.md's "check mode currently runs a full
// compile."
func CheckBook(book *term.Book) (*term.Ctx, error) {
	ctx, _, _, _, err := compileBook(book, Light())
	return ctx, err
}

// DesugarBook runs the desugaring stage in place: ADT/builtin encoding,
// implicit match-bind naming, and let-destructor rewriting.
func DesugarBook(ctx *term.Ctx, opts CompileOpts) {
	var enc desugar.AdtEncoder
	if opts.AdtEncoding == desugar.TaggedScott {
		enc = desugar.NewTaggedScottEncoder()
	} else {
		enc = desugar.NewScottEncoder()
	}
	desugar.EnsureListAdt(ctx.Book)
	desugar.EncodeAdts(ctx, enc)
	desugar.EncodeBuiltins(ctx, enc)
	desugar.DesugarImplicitMatchBinds(ctx)
	desugar.DesugarLetDestructors(ctx)
}

// CompileBook runs the full pipeline — check, desugar, match-compile,
// linearize, optimize, lower — and returns the resulting net book.
func CompileBook(book *term.Book, opts CompileOpts) (*netir.NetBook, *netir.HvmcNames, *netir.Labels, error) {
	_, nb, names, labels, err := compileBook(book, opts)
	return nb, names, labels, err
}

// compileBook is the shared implementation behind CompileBook and
// CheckBook: it also returns the Ctx so CheckBook can report warnings
// and diagnostics without exposing a second, divergent code path.
func compileBook(book *term.Book, opts CompileOpts) (*term.Ctx, *netir.NetBook, *netir.HvmcNames, *netir.Labels, error) {
	book.SetEntrypoint()
	ctx, err := runValidation(book)
	if err != nil {
		return ctx, nil, nil, nil, err
	}
	checkStrictModeGuard(ctx, opts)
	if state := ResolveWarnings(ctx, opts.Warn); state.Fatal {
		return ctx, nil, nil, nil, fmt.Errorf("compile: a configured warning was escalated to a fatal error")
	}

	DesugarBook(ctx, opts)
	if err := ctx.CheckFatal(); err != nil {
		return ctx, nil, nil, nil, err
	}

	match.DesugarListPatterns(ctx, desugar.EnsureListAdt, desugar.NilCtr, desugar.ConsCtr)
	match.NormalizeNativeMatches(ctx)
	match.CompilePatternMatching(ctx)
	if err := ctx.CheckFatal(); err != nil {
		return ctx, nil, nil, nil, err
	}

	linearize.MakeVarNamesUnique(ctx)
	linearize.LinearizeVars(ctx)
	if err := ctx.CheckFatal(); err != nil {
		return ctx, nil, nil, nil, err
	}

	if err := runOptimizer(ctx, opts); err != nil {
		return ctx, nil, nil, nil, err
	}

	nb, names, labels, err := lower.Lower(ctx.Book)
	return ctx, nb, names, labels, err
}

// checkStrictModeGuard warns when strict (eager) mode is requested
// without supercombinator detachment: without it, eager reduction can
// unfold a recursive definition without bound. Mirrors spec.md §9's
// "emitting a warning when strict mode is selected without
// supercombinator detachment."
func checkStrictModeGuard(ctx *term.Ctx, opts CompileOpts) {
	if opts.Eager && !opts.RunSupercombs {
		ctx.Diag.Warn(diagnostics.StrictWithoutSupercombs, "", "strict mode is selected without supercombinator detachment: eager reduction may not terminate")
	}
}

// runOptimizer runs whichever passes opts selects, in spec.md §4.5's
// fixed order.
func runOptimizer(ctx *term.Ctx, opts CompileOpts) error {
	type step struct {
		enabled bool
		run     func(*term.Ctx) error
	}
	steps := []step{
		{opts.RunEta, optimize.Eta},
		{opts.RunRefToRef, optimize.RefToRef},
		{opts.RunSimplifyMain, optimize.SimplifyMain},
		{opts.RunSupercombs, optimize.Supercombinators},
		{opts.RunInline, optimize.Inline},
		{opts.RunMerge, optimize.Merge},
		{opts.RunPrune, optimize.Prune},
	}
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if err := s.run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ResolveWarnings applies opts to a Ctx's accumulated warnings, deciding
// which are merely printed and whether any must abort the run.
func ResolveWarnings(ctx *term.Ctx, opts WarningOpts) WarnState {
	var state WarnState
	for _, w := range ctx.Diag.Warnings() {
		state.Warnings = append(state.Warnings, &diagnosticWarning{
			Kind:    w.Kind.String(),
			DefName: w.DefName,
			Message: w.Message,
		})
		switch w.Kind.String() {
		case "match-only-vars":
			if opts.MatchOnlyVarsFatal {
				state.Fatal = true
			}
		case "unused-definition":
			if opts.UnusedDefinitionFatal {
				state.Fatal = true
			}
		}
	}
	return state
}
