package term

// FreeVars returns the set of variable names referenced in t that are not
// bound by an enclosing Lam/Chn/Dup/Let/Mat-arm binder within t itself.
func FreeVars(t Term) map[string]bool {
	out := make(map[string]bool)
	freeVars(t, out)
	return out
}

func freeVars(t Term, out map[string]bool) {
	switch n := t.(type) {
	case Var:
		out[n.Name] = true
	case Lnk, Ref, Num, Str, Era, Err:
		// no bound variables
	case Lam:
		inner := FreeVars(n.Body)
		if n.Name != nil {
			delete(inner, *n.Name)
		}
		mergeInto(out, inner)
	case Chn:
		inner := FreeVars(n.Body)
		delete(inner, n.Name)
		mergeInto(out, inner)
	case App:
		freeVars(n.Fun, out)
		freeVars(n.Arg, out)
	case Dup:
		freeVars(n.Val, out)
		inner := FreeVars(n.Nxt)
		if n.Fst != nil {
			delete(inner, *n.Fst)
		}
		if n.Snd != nil {
			delete(inner, *n.Snd)
		}
		mergeInto(out, inner)
	case Sup:
		freeVars(n.Fst, out)
		freeVars(n.Snd, out)
	case Tup:
		freeVars(n.Fst, out)
		freeVars(n.Snd, out)
	case Lst:
		for _, it := range n.Items {
			freeVars(it, out)
		}
	case Opx:
		freeVars(n.Fst, out)
		freeVars(n.Snd, out)
	case Mat:
		freeVars(n.Matched, out)
		for _, arm := range n.Arms {
			inner := FreeVars(arm.Body)
			for _, b := range patternBinders(arm.Pat) {
				delete(inner, b)
			}
			mergeInto(out, inner)
		}
	case Let:
		freeVars(n.Val, out)
		inner := FreeVars(n.Nxt)
		for _, b := range patternBinders(n.Pat) {
			delete(inner, b)
		}
		mergeInto(out, inner)
	}
}

func mergeInto(dst, src map[string]bool) {
	for k := range src {
		dst[k] = true
	}
}

// patternBinders returns every variable name a pattern binds.
func patternBinders(p Pattern) []string {
	switch pp := p.(type) {
	case PatVar:
		if pp.Name != nil {
			return []string{*pp.Name}
		}
		return nil
	case PatNum:
		return nil
	case PatCtr:
		var out []string
		for _, a := range pp.Args {
			out = append(out, patternBinders(a)...)
		}
		return out
	case PatTup:
		return append(patternBinders(pp.Fst), patternBinders(pp.Snd)...)
	case PatLst:
		var out []string
		for _, it := range pp.Items {
			out = append(out, patternBinders(it)...)
		}
		return out
	}
	return nil
}

// PatternBinders is the exported form of patternBinders, used by other
// packages (validator, match compiler, linearizer).
func PatternBinders(p Pattern) []string { return patternBinders(p) }

// CountVarUses counts the occurrences of Var{Name: name} in t that are not
// shadowed by a closer rebinding of the same name.
func CountVarUses(name string, t Term) int {
	return countVarUses(name, t)
}

func countVarUses(name string, t Term) int {
	switch n := t.(type) {
	case Var:
		if n.Name == name {
			return 1
		}
		return 0
	case Lnk, Ref, Num, Str, Era, Err:
		return 0
	case Lam:
		if n.Name != nil && *n.Name == name {
			return 0
		}
		return countVarUses(name, n.Body)
	case Chn:
		if n.Name == name {
			return 0
		}
		return countVarUses(name, n.Body)
	case App:
		return countVarUses(name, n.Fun) + countVarUses(name, n.Arg)
	case Dup:
		c := countVarUses(name, n.Val)
		if (n.Fst != nil && *n.Fst == name) || (n.Snd != nil && *n.Snd == name) {
			return c
		}
		return c + countVarUses(name, n.Nxt)
	case Sup:
		return countVarUses(name, n.Fst) + countVarUses(name, n.Snd)
	case Tup:
		return countVarUses(name, n.Fst) + countVarUses(name, n.Snd)
	case Lst:
		total := 0
		for _, it := range n.Items {
			total += countVarUses(name, it)
		}
		return total
	case Opx:
		return countVarUses(name, n.Fst) + countVarUses(name, n.Snd)
	case Mat:
		total := countVarUses(name, n.Matched)
		for _, arm := range n.Arms {
			if containsString(patternBinders(arm.Pat), name) {
				continue
			}
			total += countVarUses(name, arm.Body)
		}
		return total
	case Let:
		total := countVarUses(name, n.Val)
		if containsString(patternBinders(n.Pat), name) {
			return total
		}
		return total + countVarUses(name, n.Nxt)
	}
	return 0
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
