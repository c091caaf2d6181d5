package optimize

import "github.com/inkc/inkc/pkg/term"

// Prune is the prune pass: it computes the transitive closure of
// definitions reachable from the entry point over Ref edges and deletes
// everything else, the final cleanup after ref_to_ref/inline/merge have
// left behind definitions nothing points to anymore.
func Prune(ctx *term.Ctx) error {
	entry := ctx.Book.HvmcEntrypoint()
	if _, ok := ctx.Book.Defs[entry]; !ok {
		return nil
	}
	reachable := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		def, ok := ctx.Book.Defs[name]
		if !ok {
			return
		}
		reachable[name] = true
		for _, rule := range def.Rules {
			for _, ref := range collectRefs(rule.Body) {
				visit(ref)
			}
		}
	}
	visit(entry)

	for _, name := range ctx.Book.SortedDefNames() {
		if !reachable[name] {
			delete(ctx.Book.Defs, name)
		}
	}
	return nil
}

func collectRefs(t term.Term) []string {
	var out []string
	var walk func(term.Term)
	walk = func(t term.Term) {
		switch n := t.(type) {
		case term.Ref:
			out = append(out, n.Name)
		case term.Lam:
			walk(n.Body)
		case term.Chn:
			walk(n.Body)
		case term.App:
			walk(n.Fun)
			walk(n.Arg)
		case term.Dup:
			walk(n.Val)
			walk(n.Nxt)
		case term.Sup:
			walk(n.Fst)
			walk(n.Snd)
		case term.Tup:
			walk(n.Fst)
			walk(n.Snd)
		case term.Lst:
			for _, it := range n.Items {
				walk(it)
			}
		case term.Opx:
			walk(n.Fst)
			walk(n.Snd)
		case term.Mat:
			walk(n.Matched)
			for _, arm := range n.Arms {
				walk(arm.Body)
			}
		case term.Let:
			walk(n.Val)
			walk(n.Nxt)
		}
	}
	walk(t)
	return out
}
