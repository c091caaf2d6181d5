package optimize

import "github.com/inkc/inkc/pkg/term"

// SimplifyMain is the simplify_main pass: if the entry point's body is
// nothing but a reference to another definition, the entry point is
// aliased directly to that definition's body, so the runtime does not pay
// for an extra indirection on its very first reduction step.
func SimplifyMain(ctx *term.Ctx) error {
	main, ok := ctx.Book.Defs[ctx.Book.HvmcEntrypoint()]
	if !ok {
		return nil
	}
	target, ok := aliasTarget(main)
	if !ok {
		return nil
	}
	targetDef, ok := ctx.Book.Defs[target]
	if !ok || len(targetDef.Rules) != 1 {
		return nil
	}
	main.Rules[0].Body = targetDef.Rules[0].Body
	return nil
}
