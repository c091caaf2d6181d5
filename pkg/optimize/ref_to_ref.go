package optimize

import "github.com/inkc/inkc/pkg/term"

// RefToRef is the ref_to_ref pass: when a definition's body is nothing but
// a reference to another definition (`a = b`), every use of the first is
// rewritten to use the second directly, repeating to a fixpoint so chains
// collapse in one pass (`a = b; b = c; c = λx.x` turns every use of `a`
// and `b` into a use of `c`). Cycles in the alias graph (`a = b; b = a`)
// are detected with Tarjan's SCC and left untouched rather than followed
// forever.
func RefToRef(ctx *term.Ctx) error {
	alias := make(map[string]string)
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		if target, ok := aliasTarget(def); ok {
			alias[name] = target
		}
	}
	if len(alias) == 0 {
		return nil
	}

	inCycle := tarjanCycleNodes(alias)

	resolved := make(map[string]string, len(alias))
	for name := range alias {
		if inCycle[name] {
			continue
		}
		resolved[name] = followChain(alias, inCycle, name)
	}
	if len(resolved) == 0 {
		return nil
	}

	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		for i := range def.Rules {
			def.Rules[i].Body = rewriteRefs(def.Rules[i].Body, resolved)
		}
	}
	return nil
}

// aliasTarget reports whether def is a zero-argument definition whose
// single rule's body is exactly a reference to another definition.
func aliasTarget(def *term.Definition) (string, bool) {
	if len(def.Rules) != 1 || def.Arity() != 0 {
		return "", false
	}
	ref, ok := def.Rules[0].Body.(term.Ref)
	if !ok {
		return "", false
	}
	return ref.Name, true
}

// followChain walks the alias graph from name to its ultimate non-alias
// (or cyclic) target.
func followChain(alias map[string]string, inCycle map[string]bool, name string) string {
	cur := name
	seen := make(map[string]bool)
	for {
		next, ok := alias[cur]
		if !ok || inCycle[cur] {
			return cur
		}
		if seen[cur] {
			return cur
		}
		seen[cur] = true
		cur = next
	}
}

// tarjanCycleNodes runs Tarjan's strongly-connected-components algorithm
// over the alias graph (each node has at most one outgoing edge) and
// returns the set of nodes belonging to a nontrivial SCC: either a
// multi-node cycle, or a single node with a self-loop.
func tarjanCycleNodes(alias map[string]string) map[string]bool {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	inCycle := make(map[string]bool)

	var names []string
	for n := range alias {
		names = append(names, n)
	}
	// Deterministic order for reproducible diagnostics, matching the
	// book's sorted-iteration convention elsewhere.
	sortStrings(names)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		if w, ok := alias[v]; ok {
			if _, seen := indices[w]; !seen {
				if _, isAlias := alias[w]; isAlias {
					strongConnect(w)
					if lowlink[w] < lowlink[v] {
						lowlink[v] = lowlink[w]
					}
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			if len(scc) > 1 {
				for _, w := range scc {
					inCycle[w] = true
				}
			} else if len(scc) == 1 && alias[scc[0]] == scc[0] {
				inCycle[scc[0]] = true
			}
		}
	}

	for _, n := range names {
		if _, seen := indices[n]; !seen {
			strongConnect(n)
		}
	}
	return inCycle
}

func sortStrings(xs []string) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func rewriteRefs(t term.Term, resolved map[string]string) term.Term {
	switch n := t.(type) {
	case term.Ref:
		if target, ok := resolved[n.Name]; ok {
			return term.Ref{Name: target}
		}
		return n
	case term.Lam:
		return term.Lam{Name: n.Name, Body: rewriteRefs(n.Body, resolved)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: rewriteRefs(n.Body, resolved)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: rewriteRefs(n.Fun, resolved), Arg: rewriteRefs(n.Arg, resolved)}
	case term.Dup:
		return term.Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: rewriteRefs(n.Val, resolved), Nxt: rewriteRefs(n.Nxt, resolved)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: rewriteRefs(n.Fst, resolved), Snd: rewriteRefs(n.Snd, resolved)}
	case term.Tup:
		return term.Tup{Fst: rewriteRefs(n.Fst, resolved), Snd: rewriteRefs(n.Snd, resolved)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = rewriteRefs(it, resolved)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: rewriteRefs(n.Fst, resolved), Snd: rewriteRefs(n.Snd, resolved)}
	case term.Mat:
		matched := rewriteRefs(n.Matched, resolved)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = term.MatchArm{Pat: arm.Pat, Body: rewriteRefs(arm.Body, resolved)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		return term.Let{Pat: n.Pat, Val: rewriteRefs(n.Val, resolved), Nxt: rewriteRefs(n.Nxt, resolved)}
	default:
		return t
	}
}
