// Package lower implements the term-to-net lowerer: it turns each
// definition's compiled, linearized body into an interaction net, one
// agent per term node, wiring Var references back to their binder's
// port and numbering Dup/Sup tags per definition so two definitions can
// share small integer labels without collision after composition.
package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inkc/inkc/pkg/netir"
	"github.com/inkc/inkc/pkg/term"
)

// lowerCtx carries the per-definition state a single net construction
// needs: the net being built, the shared label allocator, the binder
// environment (variable name -> the port that stands for its value), and
// a cache so every Dup/Sup node sharing one *term.DupTag gets the same
// net-level label.
type lowerCtx struct {
	net       *netir.Net
	labels    *netir.Labels
	defName   string
	env       map[string]netir.Port
	tagLabels map[*term.DupTag]uint16
}

// Lower compiles every definition in book into a net, returning the
// resulting NetBook alongside the bidirectional low-level name map and
// the shared label allocator the runtime hand-off needs.
func Lower(book *term.Book) (*netir.NetBook, *netir.HvmcNames, *netir.Labels, error) {
	nb := netir.NewNetBook()
	names := netir.NewHvmcNames()

	for _, defName := range book.SortedDefNames() {
		def := book.Defs[defName]
		if len(def.Rules) != 1 {
			return nil, nil, nil, fmt.Errorf("definition %q reached the lowerer with %d rules; it must be compiled to exactly one", defName, len(def.Rules))
		}
		rule := def.Rules[0]
		body := curryRule(rule)

		net := &netir.Net{}
		lc := &lowerCtx{
			net:       net,
			labels:    nb.Labels,
			defName:   defName,
			env:       make(map[string]netir.Port),
			tagLabels: make(map[*term.DupTag]uint16),
		}
		net.Root = lowerTerm(lc, body)
		nb.Nets[defName] = net

		hvmcName := sanitizeHvmcName(defName)
		names.Add(defName, hvmcName)
	}
	return nb, names, nb.Labels, nil
}

// curryRule turns a compiled rule's (pats, body) pair into the
// equivalent curried term: `f p0 p1 = body` lowers exactly like
// `f = λp0.λp1.body`.
func curryRule(rule term.Rule) term.Term {
	body := rule.Body
	for i := len(rule.Pats) - 1; i >= 0; i-- {
		name, ok := term.PatternVarName(rule.Pats[i])
		if !ok {
			body = term.NewErasedLam(body)
			continue
		}
		body = term.NewLam(name, body)
	}
	return body
}

func sanitizeHvmcName(name string) string {
	return strings.NewReplacer(".", "_", "$", "_").Replace(name)
}

// lowerTerm lowers t and returns the port standing for its value. Most
// shapes create one agent and return its principal port immediately,
// lowering their children with ordinary recursive calls. The Fun spine
// of an application (one head applied to many arguments, `f a0 ... an`)
// is flattened with an explicit loop by lowerAppSpine. Arguments and
// bodies are still lowered recursively, one Go stack frame per nesting
// level, so a list literal's nested tail (`Cons x0 (Cons x1 (... Nil))`)
// costs stack depth in proportion to its length.
func lowerTerm(lc *lowerCtx, t term.Term) netir.Port {
	switch n := t.(type) {
	case term.Var:
		return lc.env[n.Name]
	case term.Lnk:
		// Treated as a local reference within the current definition's
		// net; stitching a link across two different definitions' nets
		// is out of scope (no term this compiler produces binds a Chn
		// across definition boundaries).
		return lc.env[n.Name]
	case term.Ref:
		agent := lc.net.NewAgent(netir.RefAgent, 1)
		agent.Ref = n.Name
		return netir.Port{Agent: agent, Slot: 0}
	case term.Num:
		agent := lc.net.NewAgent(netir.Num, 1)
		agent.Ref = strconv.FormatUint(n.Val, 10)
		return netir.Port{Agent: agent, Slot: 0}
	case term.Era:
		agent := lc.net.NewAgent(netir.Era, 1)
		return netir.Port{Agent: agent, Slot: 0}
	case term.Err:
		// Should never reach the lowerer; every earlier pass aborts the
		// pipeline as soon as it produces one. Lower it to an erasure
		// rather than panic, so a programming-error slip fails loudly
		// downstream instead of crashing the compiler.
		agent := lc.net.NewAgent(netir.Era, 1)
		return netir.Port{Agent: agent, Slot: 0}
	case term.Lam:
		con := lc.net.NewAgent(netir.Con, 3)
		if n.Name != nil {
			lc.env[*n.Name] = netir.Port{Agent: con, Slot: 1}
		} else {
			era := lc.net.NewAgent(netir.Era, 1)
			lc.net.Link(netir.Port{Agent: con, Slot: 1}, netir.Port{Agent: era, Slot: 0})
		}
		bodyPort := lowerTerm(lc, n.Body)
		lc.net.Link(netir.Port{Agent: con, Slot: 2}, bodyPort)
		return netir.Port{Agent: con, Slot: 0}
	case term.Chn:
		con := lc.net.NewAgent(netir.Con, 3)
		lc.env[n.Name] = netir.Port{Agent: con, Slot: 1}
		bodyPort := lowerTerm(lc, n.Body)
		lc.net.Link(netir.Port{Agent: con, Slot: 2}, bodyPort)
		return netir.Port{Agent: con, Slot: 0}
	case term.App:
		return lowerAppSpine(lc, n)
	case term.Dup:
		label := labelForTag(lc, n.Tag)
		dup := lc.net.NewAgent(netir.Dup, 3)
		dup.Label = label
		valPort := lowerTerm(lc, n.Val)
		lc.net.Link(netir.Port{Agent: dup, Slot: 0}, valPort)
		if n.Fst != nil {
			lc.env[*n.Fst] = netir.Port{Agent: dup, Slot: 1}
		} else {
			era := lc.net.NewAgent(netir.Era, 1)
			lc.net.Link(netir.Port{Agent: dup, Slot: 1}, netir.Port{Agent: era, Slot: 0})
		}
		if n.Snd != nil {
			lc.env[*n.Snd] = netir.Port{Agent: dup, Slot: 2}
		} else {
			era := lc.net.NewAgent(netir.Era, 1)
			lc.net.Link(netir.Port{Agent: dup, Slot: 2}, netir.Port{Agent: era, Slot: 0})
		}
		// A Dup binding has no value of its own; the expression's value
		// is whatever Nxt evaluates to.
		return lowerTerm(lc, n.Nxt)
	case term.Sup:
		label := labelForTag(lc, n.Tag)
		sup := lc.net.NewAgent(netir.Dup, 3)
		sup.Label = label
		fstPort := lowerTerm(lc, n.Fst)
		sndPort := lowerTerm(lc, n.Snd)
		lc.net.Link(netir.Port{Agent: sup, Slot: 1}, fstPort)
		lc.net.Link(netir.Port{Agent: sup, Slot: 2}, sndPort)
		return netir.Port{Agent: sup, Slot: 0}
	case term.Tup:
		ctr := lc.net.NewAgent(netir.Ctr, 3)
		ctr.Label = 2
		fstPort := lowerTerm(lc, n.Fst)
		sndPort := lowerTerm(lc, n.Snd)
		lc.net.Link(netir.Port{Agent: ctr, Slot: 1}, fstPort)
		lc.net.Link(netir.Port{Agent: ctr, Slot: 2}, sndPort)
		return netir.Port{Agent: ctr, Slot: 0}
	case term.Lst:
		// encode_builtins rewrites every list literal into Cons/Nil
		// application chains before the lowerer ever sees a book; a
		// surviving Lst here means that pass was skipped. Lower it
		// defensively as a right-nested Ctr chain so output stays
		// well-formed instead of panicking.
		return lowerLstFallback(lc, n)
	case term.Opx:
		op := lc.net.NewAgent(netir.Op, 3)
		op.Label = uint16(n.Op)
		fstPort := lowerTerm(lc, n.Fst)
		sndPort := lowerTerm(lc, n.Snd)
		lc.net.Link(netir.Port{Agent: op, Slot: 1}, fstPort)
		lc.net.Link(netir.Port{Agent: op, Slot: 2}, sndPort)
		return netir.Port{Agent: op, Slot: 0}
	case term.Mat:
		mat := lc.net.NewAgent(netir.Mat, 2+len(n.Arms))
		mat.Label = uint16(len(n.Arms))
		matchedPort := lowerTerm(lc, n.Matched)
		lc.net.Link(netir.Port{Agent: mat, Slot: 1}, matchedPort)
		for i, arm := range n.Arms {
			armPort := lowerMatchArm(lc, arm)
			lc.net.Link(netir.Port{Agent: mat, Slot: 2 + i}, armPort)
		}
		return netir.Port{Agent: mat, Slot: 0}
	case term.Let:
		return lowerLet(lc, n)
	default:
		agent := lc.net.NewAgent(netir.Era, 1)
		return netir.Port{Agent: agent, Slot: 0}
	}
}

// lowerMatchArm lowers one Mat arm's body. A constructor arm's named
// field patterns bind exactly like a curried lambda's parameters — each
// field becomes available inside the body the same way a Lam's
// parameter does — so it is lowered by wrapping the body in the
// equivalent Lam chain first (a throwaway wrapper built only for
// lowering; the book itself is never mutated). A numeric arm's body
// needs no such wrapping: the zero arm binds nothing and the successor
// arm is already a Lam over its predecessor, built that way by the
// match compiler.
func lowerMatchArm(lc *lowerCtx, arm term.MatchArm) netir.Port {
	ctr, ok := arm.Pat.(term.PatCtr)
	if !ok {
		return lowerTerm(lc, arm.Body)
	}
	wrapped := arm.Body
	for i := len(ctr.Args) - 1; i >= 0; i-- {
		v, ok := ctr.Args[i].(term.PatVar)
		if !ok || v.Name == nil {
			wrapped = term.NewErasedLam(wrapped)
			continue
		}
		wrapped = term.NewLam(*v.Name, wrapped)
	}
	return lowerTerm(lc, wrapped)
}

func lowerLet(lc *lowerCtx, n term.Let) netir.Port {
	v, ok := n.Pat.(term.PatVar)
	if !ok {
		// Only PatVar lets should survive desugar_let_destructors; fall
		// back to lowering Val for its effect and continuing into Nxt.
		_ = lowerTerm(lc, n.Val)
		return lowerTerm(lc, n.Nxt)
	}
	valPort := lowerTerm(lc, n.Val)
	if v.Name == nil {
		era := lc.net.NewAgent(netir.Era, 1)
		lc.net.Link(netir.Port{Agent: era, Slot: 0}, valPort)
		return lowerTerm(lc, n.Nxt)
	}
	lc.env[*v.Name] = valPort
	return lowerTerm(lc, n.Nxt)
}

// lowerAppSpine flattens the Fun-spine of nested App nodes (`f a0 a1 ...
// an`, represented as App(App(...App(f,a0)...,an-1),an)) with an
// explicit loop instead of the two-way recursion App's case would
// otherwise need, so a long spine does not grow the Go call stack by one
// frame per argument. Each argument is lowered by an ordinary recursive
// call, so nesting in argument position (such as a list literal's tail)
// still adds one frame per level.
func lowerAppSpine(lc *lowerCtx, top term.App) netir.Port {
	var args []term.Term
	var cur term.Term = top
	for {
		app, ok := cur.(term.App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		cur = app.Fun
	}
	headPort := lowerTerm(lc, cur)
	port := headPort
	for i := len(args) - 1; i >= 0; i-- {
		con := lc.net.NewAgent(netir.Con, 3)
		argPort := lowerTerm(lc, args[i])
		lc.net.Link(netir.Port{Agent: con, Slot: 1}, argPort)
		lc.net.Link(netir.Port{Agent: con, Slot: 2}, port)
		port = netir.Port{Agent: con, Slot: 0}
	}
	return port
}

func lowerLstFallback(lc *lowerCtx, n term.Lst) netir.Port {
	if len(n.Items) == 0 {
		era := lc.net.NewAgent(netir.Era, 1)
		return netir.Port{Agent: era, Slot: 0}
	}
	tail := lowerLstFallback(lc, term.Lst{Items: n.Items[1:]})
	ctr := lc.net.NewAgent(netir.Ctr, 3)
	ctr.Label = 2
	headPort := lowerTerm(lc, n.Items[0])
	lc.net.Link(netir.Port{Agent: ctr, Slot: 1}, headPort)
	lc.net.Link(netir.Port{Agent: ctr, Slot: 2}, tail)
	return netir.Port{Agent: ctr, Slot: 0}
}

func labelForTag(lc *lowerCtx, tag *term.DupTag) uint16 {
	if tag == nil {
		return lc.labels.Next(lc.defName)
	}
	if v, ok := lc.tagLabels[tag]; ok {
		return v
	}
	v := lc.labels.Next(lc.defName)
	lc.tagLabels[tag] = v
	return v
}
