// Package reader implements the net-to-term readback the runtime
// hand-off needs: once an external reducer has normalized a net, this
// package turns it back into a term.Term for printing or further
// resugaring.
//
// Scope: ReadBack assumes net is closed and fully reduced (no free
// variables, no outstanding redexes) — the shape a finished `run`
// produces. Under that assumption every Con agent reached while
// reading really is a Lam: a stuck application of a free variable can
// only arise from an open or partially-reduced net, which this package
// does not attempt to read back. Dup-kind agents are not similarly
// restricted: a fully-reduced closed net can still contain standing
// `dup` agents introduced by linearization (they are not redexes
// themselves), so Con and Dup are not disambiguated the same way.
// Per spec.md §4.7, a Dup-kind agent is read as `Sup` when reached
// through its principal port (the agent's own value is being
// consumed, matching how Lower wires a Sup's output) and as `Dup`
// when reached through one of its auxiliary ports (an aux port is a
// use-site of one of the two bound names, matching how Lower wires a
// Dup's Fst/Snd binders) — the port of entry, not a blanket rule,
// decides which.
package reader

import (
	"fmt"

	"github.com/inkc/inkc/pkg/netir"
	"github.com/inkc/inkc/pkg/term"
)

// ReadbackError reports a net shape readback could not interpret.
type ReadbackError struct {
	Msg string
}

func (e ReadbackError) Error() string { return e.Msg }

// dupBinding tracks one Dup-kind agent discovered through an auxiliary
// port: the fresh names standing for its Fst/Snd uses (nil when that
// side is erased), the value it duplicates, and which open lexical
// scope it must be wrapped around once that scope finishes reading.
type dupBinding struct {
	fstName    *string
	sndName    *string
	val        term.Term
	frameDepth int
	closed     bool
}

// scope is one open lexical binding boundary (a Lam body, a Mat arm
// body, or the net root) that a Dup discovered within it can be
// wrapped around once the boundary's own term is fully built.
type scope struct {
	dups []*dupBinding
}

type readCtx struct {
	adj     map[netir.Port]netir.Port
	binders map[netir.Port]string
	fresh   int
	errs    *[]ReadbackError

	frames  []*scope
	dupInfo map[*netir.Agent]*dupBinding
}

// ReadBack converts a normalized net back into a term. labels is
// threaded through for parity with Lower's signature and for future
// diagnostics that want to report a net's original label space; the
// core algorithm does not need it since every binder gets a fresh name
// at readback time regardless of its original net label.
func ReadBack(net *netir.Net, labels *netir.Labels, linear bool) (term.Term, []ReadbackError) {
	var errs []ReadbackError
	c := &readCtx{
		adj:     buildAdjacency(net),
		binders: make(map[netir.Port]string),
		dupInfo: make(map[*netir.Agent]*dupBinding),
		errs:    &errs,
	}
	if len(net.Redexes) > 0 {
		errs = append(errs, ReadbackError{Msg: fmt.Sprintf("readback: net still has %d pending redexes", len(net.Redexes))})
	}
	c.pushScope()
	t := c.readPort(net.Root)
	t = c.popScope(t)
	return t, errs
}

func buildAdjacency(net *netir.Net) map[netir.Port]netir.Port {
	adj := make(map[netir.Port]netir.Port, len(net.Wires)*2)
	for _, w := range net.Wires {
		adj[w.A] = w.B
		adj[w.B] = w.A
	}
	return adj
}

// pushScope opens a new lexical boundary; any Dup discovered before
// the matching popScope wraps around the term popScope is given,
// unless a later visit to the same Dup promotes it further out.
func (c *readCtx) pushScope() {
	c.frames = append(c.frames, &scope{})
}

// popScope closes the innermost open boundary, wrapping t in a `Dup`
// binding for every Dup agent still owned by this frame, innermost
// discovery nested tightest.
func (c *readCtx) popScope(t term.Term) term.Term {
	depth := len(c.frames) - 1
	frame := c.frames[depth]
	c.frames = c.frames[:depth]
	for i := len(frame.dups) - 1; i >= 0; i-- {
		d := frame.dups[i]
		d.closed = true
		t = term.Dup{Fst: d.fstName, Snd: d.sndName, Val: d.val, Nxt: t}
	}
	return t
}

// follow traverses the wire attached to p and reads whatever is on the
// other end, resolving a Var occurrence if that end turns out to be a
// binder port registered by an enclosing Lam or Dup.
func (c *readCtx) follow(p netir.Port) term.Term {
	target, ok := c.adj[p]
	if !ok {
		return term.Era{}
	}
	if name, ok := c.binders[target]; ok {
		return term.Var{Name: name}
	}
	return c.readPort(target)
}

// readPort reads whatever sits at p, applying the Dup port-of-entry
// rule before falling back to readAgent's agent-kind dispatch: slot 0
// of a Dup-kind agent is its principal port (a Sup value being
// consumed), while slot 1 or 2 is an auxiliary port (a Dup binder's
// use site).
func (c *readCtx) readPort(p netir.Port) term.Term {
	if p.Agent == nil {
		return term.Era{}
	}
	if p.Agent.Kind == netir.Dup && p.Slot != 0 {
		return c.readDupUse(p.Agent, p.Slot)
	}
	return c.readAgent(p.Agent)
}

func (c *readCtx) freshName(prefix string) string {
	c.fresh++
	return fmt.Sprintf("%s%d", prefix, c.fresh)
}

func (c *readCtx) readAgent(a *netir.Agent) term.Term {
	if a == nil {
		return term.Era{}
	}
	switch a.Kind {
	case netir.Con:
		binderPort := netir.Port{Agent: a, Slot: 1}
		if target, ok := c.adj[binderPort]; ok && target.Agent != nil && target.Agent.Kind == netir.Era && target.Slot == 0 {
			c.pushScope()
			body := c.follow(netir.Port{Agent: a, Slot: 2})
			return term.NewErasedLam(c.popScope(body))
		}
		name := c.freshName("x")
		c.binders[binderPort] = name
		c.pushScope()
		body := c.follow(netir.Port{Agent: a, Slot: 2})
		return term.NewLam(name, c.popScope(body))
	case netir.Dup:
		// Reached via its principal port (slot 0): a Sup value, not a
		// Dup binder — see readPort.
		fst := c.follow(netir.Port{Agent: a, Slot: 1})
		snd := c.follow(netir.Port{Agent: a, Slot: 2})
		return term.Sup{Fst: fst, Snd: snd}
	case netir.Era:
		return term.Era{}
	case netir.RefAgent:
		return term.Ref{Name: a.Ref}
	case netir.Num:
		return term.Num{Val: parseNumRef(a.Ref)}
	case netir.Op:
		fst := c.follow(netir.Port{Agent: a, Slot: 1})
		snd := c.follow(netir.Port{Agent: a, Slot: 2})
		return term.Opx{Op: term.NumOp(a.Label), Fst: fst, Snd: snd}
	case netir.Ctr:
		if len(a.Ports) != 3 {
			*c.errs = append(*c.errs, ReadbackError{Msg: fmt.Sprintf("readback: unsupported Ctr arity %d", len(a.Ports)-1)})
			return term.Era{}
		}
		fst := c.follow(netir.Port{Agent: a, Slot: 1})
		snd := c.follow(netir.Port{Agent: a, Slot: 2})
		return term.Tup{Fst: fst, Snd: snd}
	case netir.Mat:
		matched := c.follow(netir.Port{Agent: a, Slot: 1})
		arms := make([]term.MatchArm, 0, len(a.Ports)-2)
		for i := 2; i < len(a.Ports); i++ {
			c.pushScope()
			body := c.follow(netir.Port{Agent: a, Slot: i})
			body = c.popScope(body)
			if i == 2 {
				arms = append(arms, term.MatchArm{Pat: term.PatNum{Val: 0}, Body: body})
			} else {
				arms = append(arms, term.MatchArm{Pat: term.PatVar{Name: nil}, Body: body})
			}
		}
		return term.Mat{Matched: matched, Arms: arms}
	default:
		*c.errs = append(*c.errs, ReadbackError{Msg: fmt.Sprintf("readback: unhandled agent kind %v", a.Kind)})
		return term.Era{}
	}
}

// readDupUse handles a Dup-kind agent reached through its auxiliary
// port 1 or 2 (a use-site of its Fst or Snd binder). The first visit
// to either aux port discovers the agent: it registers fresh names for
// whichever of Fst/Snd are not wired to an Era (erased), reads Val
// through the agent's principal port, and records the binding against
// the currently innermost open scope. A later visit to the agent's
// other aux port, from a shallower scope than the one it is currently
// owned by, promotes the binding out to that shallower scope so the
// eventual `Dup` wraps every use; a later visit from a scope whose
// owning frame has already closed is a genuine readback shape error.
func (c *readCtx) readDupUse(a *netir.Agent, slot int) term.Term {
	d, ok := c.dupInfo[a]
	if !ok {
		d = &dupBinding{frameDepth: len(c.frames) - 1}
		d.fstName = c.registerDupBinder(a, 1, "c")
		d.sndName = c.registerDupBinder(a, 2, "d")
		d.val = c.follow(netir.Port{Agent: a, Slot: 0})
		c.dupInfo[a] = d
		c.frames[d.frameDepth].dups = append(c.frames[d.frameDepth].dups, d)
	} else if depth := len(c.frames) - 1; depth < d.frameDepth {
		if d.closed {
			*c.errs = append(*c.errs, ReadbackError{Msg: "readback: dup used outside its reconstructed scope"})
		} else {
			c.promoteDup(d, depth)
		}
	}
	var name *string
	if slot == 1 {
		name = d.fstName
	} else {
		name = d.sndName
	}
	if name == nil {
		*c.errs = append(*c.errs, ReadbackError{Msg: "readback: dup aux port used but erased"})
		return term.Era{}
	}
	return term.Var{Name: *name}
}

// registerDupBinder assigns a fresh name to a dup's slot (1 or 2)
// unless that slot is wired to an Era agent, in which case the side is
// erased and has no binder.
func (c *readCtx) registerDupBinder(a *netir.Agent, slot int, prefix string) *string {
	port := netir.Port{Agent: a, Slot: slot}
	if target, ok := c.adj[port]; ok && target.Agent != nil && target.Agent.Kind == netir.Era && target.Slot == 0 {
		return nil
	}
	name := c.freshName(prefix)
	c.binders[port] = name
	return &name
}

// promoteDup moves d from its current owning frame to the shallower
// frame at newDepth, removing it from the old frame's pending list.
func (c *readCtx) promoteDup(d *dupBinding, newDepth int) {
	old := c.frames[d.frameDepth]
	for i, cand := range old.dups {
		if cand == d {
			old.dups = append(old.dups[:i], old.dups[i+1:]...)
			break
		}
	}
	d.frameDepth = newDepth
	c.frames[newDepth].dups = append(c.frames[newDepth].dups, d)
}

func parseNumRef(s string) uint64 {
	var v uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return v
		}
		v = v*10 + uint64(r-'0')
	}
	return v
}
