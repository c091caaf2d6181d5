package optimize

import (
	"fmt"

	"github.com/inkc/inkc/pkg/term"
)

// Merge is the merge pass: definitions whose bodies are alpha-equivalent
// (identical up to consistent renaming of bound variables and rule
// parameters) are coalesced into one, and every reference to the
// discarded duplicates is redirected to the kept definition.
func Merge(ctx *term.Ctx) error {
	entry := ctx.Book.HvmcEntrypoint()
	groups := make(map[string][]string)
	for _, name := range ctx.Book.SortedDefNames() {
		def := ctx.Book.Defs[name]
		if len(def.Rules) != 1 {
			continue
		}
		key := canonicalForm(def)
		groups[key] = append(groups[key], name)
	}

	resolved := make(map[string]string)
	for _, names := range groups {
		if len(names) < 2 {
			continue
		}
		keep := names[0]
		for _, n := range names {
			if n == entry {
				keep = n
				break
			}
		}
		for _, n := range names {
			if n != keep {
				resolved[n] = keep
			}
		}
	}
	if len(resolved) == 0 {
		return nil
	}

	for _, name := range ctx.Book.SortedDefNames() {
		if _, dropped := resolved[name]; dropped {
			continue
		}
		def := ctx.Book.Defs[name]
		def.Rules[0].Body = rewriteRefs(def.Rules[0].Body, resolved)
	}
	for old := range resolved {
		delete(ctx.Book.Defs, old)
	}
	return nil
}

// canonicalForm renders a definition's body into a string that is equal
// for two definitions exactly when they are alpha-equivalent: rule
// parameters and every binder encountered are replaced by sequential
// placeholder names assigned in traversal order, independent of their
// original spelling.
func canonicalForm(def *term.Definition) string {
	body := def.Rules[0].Body
	for i, p := range def.Rules[0].Pats {
		if name, ok := term.PatternVarName(p); ok {
			body = term.Subst(body, name, term.Var{Name: fmt.Sprintf("$param%d", i)})
		}
	}
	counter := 0
	canon := canonicalizeBinders(body, map[string]string{}, &counter)
	return fmt.Sprintf("%d:%s", len(def.Rules[0].Pats), term.Display(canon))
}

func canonicalizeBinders(t term.Term, env map[string]string, counter *int) term.Term {
	switch n := t.(type) {
	case term.Var:
		if mapped, ok := env[n.Name]; ok {
			return term.Var{Name: mapped}
		}
		return n
	case term.Lam:
		if n.Name == nil {
			return term.Lam{Name: nil, Body: canonicalizeBinders(n.Body, env, counter)}
		}
		child, fresh := bindCanonical(env, *n.Name, counter)
		return term.Lam{Name: &fresh, Body: canonicalizeBinders(n.Body, child, counter)}
	case term.Chn:
		return term.Chn{Name: n.Name, Body: canonicalizeBinders(n.Body, env, counter)}
	case term.App:
		return term.App{Tag: n.Tag, Fun: canonicalizeBinders(n.Fun, env, counter), Arg: canonicalizeBinders(n.Arg, env, counter)}
	case term.Dup:
		val := canonicalizeBinders(n.Val, env, counter)
		child := env
		var newFst, newSnd *string
		if n.Fst != nil {
			var f string
			child, f = bindCanonical(child, *n.Fst, counter)
			newFst = &f
		}
		if n.Snd != nil {
			var s string
			child, s = bindCanonical(child, *n.Snd, counter)
			newSnd = &s
		}
		return term.Dup{Tag: n.Tag, Fst: newFst, Snd: newSnd, Val: val, Nxt: canonicalizeBinders(n.Nxt, child, counter)}
	case term.Sup:
		return term.Sup{Tag: n.Tag, Fst: canonicalizeBinders(n.Fst, env, counter), Snd: canonicalizeBinders(n.Snd, env, counter)}
	case term.Tup:
		return term.Tup{Fst: canonicalizeBinders(n.Fst, env, counter), Snd: canonicalizeBinders(n.Snd, env, counter)}
	case term.Lst:
		items := make([]term.Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = canonicalizeBinders(it, env, counter)
		}
		return term.Lst{Items: items}
	case term.Opx:
		return term.Opx{Op: n.Op, Fst: canonicalizeBinders(n.Fst, env, counter), Snd: canonicalizeBinders(n.Snd, env, counter)}
	case term.Mat:
		matched := canonicalizeBinders(n.Matched, env, counter)
		arms := make([]term.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			child, pat := canonicalizePattern(arm.Pat, env, counter)
			arms[i] = term.MatchArm{Pat: pat, Body: canonicalizeBinders(arm.Body, child, counter)}
		}
		return term.Mat{Matched: matched, Arms: arms}
	case term.Let:
		val := canonicalizeBinders(n.Val, env, counter)
		child, pat := canonicalizePattern(n.Pat, env, counter)
		return term.Let{Pat: pat, Val: val, Nxt: canonicalizeBinders(n.Nxt, child, counter)}
	default:
		return t
	}
}

func bindCanonical(env map[string]string, name string, counter *int) (map[string]string, string) {
	fresh := fmt.Sprintf("$v%d", *counter)
	*counter++
	child := make(map[string]string, len(env)+1)
	for k, v := range env {
		child[k] = v
	}
	child[name] = fresh
	return child, fresh
}

func canonicalizePattern(p term.Pattern, env map[string]string, counter *int) (map[string]string, term.Pattern) {
	child := env
	var rename func(term.Pattern) term.Pattern
	rename = func(p term.Pattern) term.Pattern {
		switch pp := p.(type) {
		case term.PatVar:
			if pp.Name == nil {
				return pp
			}
			var fresh string
			child, fresh = bindCanonical(child, *pp.Name, counter)
			return term.PatVar{Name: &fresh}
		case term.PatNum:
			return pp
		case term.PatCtr:
			args := make([]term.Pattern, len(pp.Args))
			for i, a := range pp.Args {
				args[i] = rename(a)
			}
			return term.PatCtr{Name: pp.Name, Args: args}
		case term.PatTup:
			return term.PatTup{Fst: rename(pp.Fst), Snd: rename(pp.Snd)}
		case term.PatLst:
			items := make([]term.Pattern, len(pp.Items))
			for i, it := range pp.Items {
				items[i] = rename(it)
			}
			return term.PatLst{Items: items}
		}
		return p
	}
	out := rename(p)
	return child, out
}
