package term

// RenameUses rewrites t, replacing the successive (left-to-right, scope
// respecting) occurrences of Var{Name: name} with Var{Name: newNames[i]}
// for i = 0, 1, .... It is the linearizer's core primitive: once a binder's
// use-count is known, each occurrence gets its own fresh name so a
// duplicator chain can feed them independently. len(newNames) must equal
// CountVarUses(name, t).
func RenameUses(t Term, name string, newNames []string) Term {
	idx := 0
	return renameUses(t, name, newNames, &idx)
}

func renameUses(t Term, name string, newNames []string, idx *int) Term {
	switch n := t.(type) {
	case Var:
		if n.Name == name {
			repl := newNames[*idx]
			*idx++
			return Var{Name: repl}
		}
		return n
	case Lnk, Ref, Num, Str, Era, Err:
		return t
	case Lam:
		if n.Name != nil && *n.Name == name {
			return n
		}
		return Lam{Name: n.Name, Body: renameUses(n.Body, name, newNames, idx)}
	case Chn:
		if n.Name == name {
			return n
		}
		return Chn{Name: n.Name, Body: renameUses(n.Body, name, newNames, idx)}
	case App:
		return App{Tag: n.Tag, Fun: renameUses(n.Fun, name, newNames, idx), Arg: renameUses(n.Arg, name, newNames, idx)}
	case Dup:
		val := renameUses(n.Val, name, newNames, idx)
		if (n.Fst != nil && *n.Fst == name) || (n.Snd != nil && *n.Snd == name) {
			return Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: val, Nxt: n.Nxt}
		}
		return Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: val, Nxt: renameUses(n.Nxt, name, newNames, idx)}
	case Sup:
		return Sup{Tag: n.Tag, Fst: renameUses(n.Fst, name, newNames, idx), Snd: renameUses(n.Snd, name, newNames, idx)}
	case Tup:
		return Tup{Fst: renameUses(n.Fst, name, newNames, idx), Snd: renameUses(n.Snd, name, newNames, idx)}
	case Lst:
		items := make([]Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = renameUses(it, name, newNames, idx)
		}
		return Lst{Items: items}
	case Opx:
		return Opx{Op: n.Op, Fst: renameUses(n.Fst, name, newNames, idx), Snd: renameUses(n.Snd, name, newNames, idx)}
	case Mat:
		matched := renameUses(n.Matched, name, newNames, idx)
		arms := make([]MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			if containsString(patternBinders(arm.Pat), name) {
				arms[i] = arm
				continue
			}
			arms[i] = MatchArm{Pat: arm.Pat, Body: renameUses(arm.Body, name, newNames, idx)}
		}
		return Mat{Matched: matched, Arms: arms}
	case Let:
		val := renameUses(n.Val, name, newNames, idx)
		if containsString(patternBinders(n.Pat), name) {
			return Let{Pat: n.Pat, Val: val, Nxt: n.Nxt}
		}
		return Let{Pat: n.Pat, Val: val, Nxt: renameUses(n.Nxt, name, newNames, idx)}
	}
	return t
}

// Subst replaces every free occurrence of Var{Name: name} in t with val.
// Its caller is the optimizer's merge pass, whose canonicalForm uses it
// to replace parameter names with placeholder variables.
func Subst(t Term, name string, val Term) Term {
	switch n := t.(type) {
	case Var:
		if n.Name == name {
			return val
		}
		return n
	case Lnk, Ref, Num, Str, Era, Err:
		return t
	case Lam:
		if n.Name != nil && *n.Name == name {
			return n
		}
		return Lam{Name: n.Name, Body: Subst(n.Body, name, val)}
	case Chn:
		if n.Name == name {
			return n
		}
		return Chn{Name: n.Name, Body: Subst(n.Body, name, val)}
	case App:
		return App{Tag: n.Tag, Fun: Subst(n.Fun, name, val), Arg: Subst(n.Arg, name, val)}
	case Dup:
		newVal := Subst(n.Val, name, val)
		if (n.Fst != nil && *n.Fst == name) || (n.Snd != nil && *n.Snd == name) {
			return Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: newVal, Nxt: n.Nxt}
		}
		return Dup{Tag: n.Tag, Fst: n.Fst, Snd: n.Snd, Val: newVal, Nxt: Subst(n.Nxt, name, val)}
	case Sup:
		return Sup{Tag: n.Tag, Fst: Subst(n.Fst, name, val), Snd: Subst(n.Snd, name, val)}
	case Tup:
		return Tup{Fst: Subst(n.Fst, name, val), Snd: Subst(n.Snd, name, val)}
	case Lst:
		items := make([]Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = Subst(it, name, val)
		}
		return Lst{Items: items}
	case Opx:
		return Opx{Op: n.Op, Fst: Subst(n.Fst, name, val), Snd: Subst(n.Snd, name, val)}
	case Mat:
		matched := Subst(n.Matched, name, val)
		arms := make([]MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			if containsString(patternBinders(arm.Pat), name) {
				arms[i] = arm
				continue
			}
			arms[i] = MatchArm{Pat: arm.Pat, Body: Subst(arm.Body, name, val)}
		}
		return Mat{Matched: matched, Arms: arms}
	case Let:
		newVal := Subst(n.Val, name, val)
		if containsString(patternBinders(n.Pat), name) {
			return Let{Pat: n.Pat, Val: newVal, Nxt: n.Nxt}
		}
		return Let{Pat: n.Pat, Val: newVal, Nxt: Subst(n.Nxt, name, val)}
	}
	return t
}

// AlphaRename recursively renames every binder in t to a fresh name drawn
// from fresh, keeping all references consistent. Used by
// make_var_names_unique.
func AlphaRename(t Term, fresh *NameSource) Term {
	return alphaRename(t, fresh, map[string]string{})
}

func alphaRename(t Term, fresh *NameSource, env map[string]string) Term {
	switch n := t.(type) {
	case Var:
		if mapped, ok := env[n.Name]; ok {
			return Var{Name: mapped}
		}
		return n
	case Lnk, Ref, Num, Str, Era, Err:
		return t
	case Lam:
		if n.Name == nil {
			return Lam{Name: nil, Body: alphaRename(n.Body, fresh, env)}
		}
		fresh2 := fresh.Fresh(*n.Name)
		child := cloneEnv(env)
		child[*n.Name] = fresh2
		return Lam{Name: &fresh2, Body: alphaRename(n.Body, fresh, child)}
	case Chn:
		return Chn{Name: n.Name, Body: alphaRename(n.Body, fresh, env)}
	case App:
		return App{Tag: n.Tag, Fun: alphaRename(n.Fun, fresh, env), Arg: alphaRename(n.Arg, fresh, env)}
	case Dup:
		val := alphaRename(n.Val, fresh, env)
		child := cloneEnv(env)
		var newFst, newSnd *string
		if n.Fst != nil {
			f := fresh.Fresh(*n.Fst)
			child[*n.Fst] = f
			newFst = &f
		}
		if n.Snd != nil {
			s := fresh.Fresh(*n.Snd)
			child[*n.Snd] = s
			newSnd = &s
		}
		return Dup{Tag: n.Tag, Fst: newFst, Snd: newSnd, Val: val, Nxt: alphaRename(n.Nxt, fresh, child)}
	case Sup:
		return Sup{Tag: n.Tag, Fst: alphaRename(n.Fst, fresh, env), Snd: alphaRename(n.Snd, fresh, env)}
	case Tup:
		return Tup{Fst: alphaRename(n.Fst, fresh, env), Snd: alphaRename(n.Snd, fresh, env)}
	case Lst:
		items := make([]Term, len(n.Items))
		for i, it := range n.Items {
			items[i] = alphaRename(it, fresh, env)
		}
		return Lst{Items: items}
	case Opx:
		return Opx{Op: n.Op, Fst: alphaRename(n.Fst, fresh, env), Snd: alphaRename(n.Snd, fresh, env)}
	case Mat:
		matched := alphaRename(n.Matched, fresh, env)
		arms := make([]MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			child, pat := alphaRenamePattern(arm.Pat, fresh, env)
			arms[i] = MatchArm{Pat: pat, Body: alphaRename(arm.Body, fresh, child)}
		}
		return Mat{Matched: matched, Arms: arms}
	case Let:
		val := alphaRename(n.Val, fresh, env)
		child, pat := alphaRenamePattern(n.Pat, fresh, env)
		return Let{Pat: pat, Val: val, Nxt: alphaRename(n.Nxt, fresh, child)}
	}
	return t
}

func cloneEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env)+2)
	for k, v := range env {
		out[k] = v
	}
	return out
}

func alphaRenamePattern(p Pattern, fresh *NameSource, env map[string]string) (map[string]string, Pattern) {
	child := cloneEnv(env)
	var rename func(Pattern) Pattern
	rename = func(p Pattern) Pattern {
		switch pp := p.(type) {
		case PatVar:
			if pp.Name == nil {
				return pp
			}
			f := fresh.Fresh(*pp.Name)
			child[*pp.Name] = f
			return PatVar{Name: &f}
		case PatNum:
			return pp
		case PatCtr:
			args := make([]Pattern, len(pp.Args))
			for i, a := range pp.Args {
				args[i] = rename(a)
			}
			return PatCtr{Name: pp.Name, Args: args}
		case PatTup:
			return PatTup{Fst: rename(pp.Fst), Snd: rename(pp.Snd)}
		case PatLst:
			items := make([]Pattern, len(pp.Items))
			for i, it := range pp.Items {
				items[i] = rename(it)
			}
			return PatLst{Items: items}
		}
		return p
	}
	return child, rename(p)
}
