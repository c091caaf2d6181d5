package term

import "sort"

// CtrInfo records a constructor's owning ADT, declared arity, and its
// index within the ADT's constructor list (used by the ADT encoders).
type CtrInfo struct {
	Adt        string
	Arity      int
	FieldIndex int
}

// AdtInfo records an ADT's declared constructors in source (insertion)
// order.
type AdtInfo struct {
	Name string
	Ctrs []string
}

// Rule is one pattern-matching clause of a Definition: an ordered list of
// patterns (one per parameter) plus a body term.
type Rule struct {
	Pats []Pattern
	Body Term
}

// Definition is a named set of Rules. After match compilation a
// definition has at most one rule, whose patterns are all fresh
// variables.
type Definition struct {
	Name  string
	Rules []Rule
}

// IsCompiled reports whether this definition has already been reduced to
// the match compiler's output shape: a single rule of all-variable
// patterns.
func (d *Definition) IsCompiled() bool {
	if len(d.Rules) != 1 {
		return false
	}
	for _, p := range d.Rules[0].Pats {
		if !IsWildcard(p) {
			return false
		}
	}
	return true
}

// Arity returns the definition's parameter count, taken from its first
// rule. The validator does not check that the other rules agree with it.
func (d *Definition) Arity() int {
	if len(d.Rules) == 0 {
		return 0
	}
	return len(d.Rules[0].Pats)
}

// Book is the top-level compilation unit: every user definition, the
// constructor/ADT tables used to resolve patterns, and the designated
// entry point.
type Book struct {
	Defs       map[string]*Definition
	Ctrs       map[string]CtrInfo
	Adts       map[string]*AdtInfo
	Entrypoint string
}

// NewBook returns an empty book with the default entry point name.
func NewBook() *Book {
	return &Book{
		Defs:       make(map[string]*Definition),
		Ctrs:       make(map[string]CtrInfo),
		Adts:       make(map[string]*AdtInfo),
		Entrypoint: "main",
	}
}

// SortedDefNames returns definition names in a stable (lexicographic)
// order. Passes that must iterate a Book's definitions and produce a
// byte-identical output across runs (Testable Property 6, determinism)
// use this instead of ranging over the map directly.
func (b *Book) SortedDefNames() []string {
	names := make([]string, 0, len(b.Defs))
	for n := range b.Defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedAdtNames returns ADT names in a stable order.
func (b *Book) SortedAdtNames() []string {
	names := make([]string, 0, len(b.Adts))
	for n := range b.Adts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedCtrNames returns constructor names in a stable order.
func (b *Book) SortedCtrNames() []string {
	names := make([]string, 0, len(b.Ctrs))
	for n := range b.Ctrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddAdt declares an ADT and its constructors, registering each
// constructor's CtrInfo. It does not check for name clashes; that is the
// validator's job (check_shared_names).
func (b *Book) AddAdt(name string, ctrArities map[string]int, order []string) {
	adt := &AdtInfo{Name: name, Ctrs: append([]string(nil), order...)}
	b.Adts[name] = adt
	for i, ctr := range order {
		b.Ctrs[ctr] = CtrInfo{Adt: name, Arity: ctrArities[ctr], FieldIndex: i}
	}
}

// HvmcEntrypoint returns the low-level name the lowerer/runtime use for
// the entry point. Today this is simply the Book's Entrypoint, but it is
// a named accessor (mirroring the original compiler's
// `book.hvmc_entrypoint()`) so callers never hardcode the field.
func (b *Book) HvmcEntrypoint() string {
	return b.Entrypoint
}

// SetEntrypoint designates the entry point definition, recognizing both
// the modern `main` name and the legacy `Main` name (remapped to `main`
// on load), per spec.md §6.
func (b *Book) SetEntrypoint() {
	const modern = "main"
	const legacy = "Main"
	if _, ok := b.Defs[modern]; ok {
		b.Entrypoint = modern
		return
	}
	if def, ok := b.Defs[legacy]; ok {
		def.Name = modern
		b.Defs[modern] = def
		delete(b.Defs, legacy)
		b.Entrypoint = modern
		return
	}
	b.Entrypoint = modern
}
