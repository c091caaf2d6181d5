// Package netir implements the untyped interaction-net intermediate
// representation the lowerer produces and the reader consumes: agents,
// ports, wires, and the per-definition nets that make up a compiled book.
package netir

import (
	"sort"

	"github.com/google/uuid"
)

// AgentKind enumerates the interaction-net agent types spec.md §3 defines.
type AgentKind int

const (
	Con AgentKind = iota
	Dup
	Era
	RefAgent
	Num
	Op
	Mat
	Ctr
)

func (k AgentKind) String() string {
	switch k {
	case Con:
		return "con"
	case Dup:
		return "dup"
	case Era:
		return "era"
	case RefAgent:
		return "ref"
	case Num:
		return "num"
	case Op:
		return "op"
	case Mat:
		return "mat"
	case Ctr:
		return "ctr"
	default:
		return "?"
	}
}

// Agent is a single interaction-net node. Label carries a Dup/Ctr tag or a
// numeric operator code depending on Kind; Ref carries a definition name
// for RefAgent or a literal value (stringified) for Num. Ports is ordered:
// slot 0 is always the agent's principal port, and each entry holds the
// port that slot is wired to (filled in by Net.Link).
type Agent struct {
	Kind  AgentKind
	Label uint16
	Ref   string
	Ports []Port
}

// Port addresses one port of one agent.
type Port struct {
	Agent *Agent
	Slot  int
}

// Wire connects two ports. A Wire whose both ends are principal ports is a
// redex: an active pair ready for reduction.
type Wire struct {
	A, B Port
}

// IsRedex reports whether both ends of the wire are principal ports
// (slot 0), meaning the wire denotes an active pair.
func (w Wire) IsRedex() bool {
	return w.A.Slot == 0 && w.B.Slot == 0 && w.A.Agent != nil && w.B.Agent != nil
}

// Net is one definition's compiled interaction net: a root port standing
// for the definition's value, every agent reachable from it, every wire,
// and the subset of wires that are active pairs at construction time.
type Net struct {
	Root    Port
	Agents  []*Agent
	Wires   []Wire
	Redexes []Wire
}

// NewAgent allocates an agent with the given kind and port count,
// appending it to net.Agents, and returns it.
func (n *Net) NewAgent(kind AgentKind, numPorts int) *Agent {
	a := &Agent{Kind: kind, Ports: make([]Port, numPorts)}
	n.Agents = append(n.Agents, a)
	return a
}

// Link wires two ports together: it records the wire, stores each end in
// the other end's Agent.Ports entry, and records an active pair in
// Redexes when both are principal.
func (n *Net) Link(a, b Port) {
	w := Wire{A: a, B: b}
	n.Wires = append(n.Wires, w)
	if a.Agent != nil {
		a.Agent.Ports[a.Slot] = b
	}
	if b.Agent != nil {
		b.Agent.Ports[b.Slot] = a
	}
	if w.IsRedex() {
		n.Redexes = append(n.Redexes, w)
	}
}

// NetBook collects every definition's compiled Net plus the label
// allocator they share. Labels are counted per definition (see Labels),
// so two definitions can use the same Dup/Ctr label numbers.
type NetBook struct {
	Nets   map[string]*Net
	Labels *Labels

	// BuildID tags this NetBook with a run-scoped identifier for debug
	// logging. It is purely cosmetic: two compiles of identical source
	// get distinct BuildIDs, so a determinism check must compare Nets
	// directly rather than the NetBook as a whole.
	BuildID string
}

// NewNetBook returns an empty NetBook with a fresh label allocator and a
// fresh BuildID.
func NewNetBook() *NetBook {
	return &NetBook{Nets: make(map[string]*Net), Labels: NewLabels(), BuildID: uuid.NewString()}
}

// SortedNetNames returns net names in a stable (lexicographic) order, used
// by every pass that must produce byte-identical output across runs.
func (nb *NetBook) SortedNetNames() []string {
	names := make([]string, 0, len(nb.Nets))
	for n := range nb.Nets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Labels is a monotonic per-definition label allocator: each definition
// gets its own counter starting at 0, so labels are unique within one
// definition and the same numbers recur across definitions. Unlike a
// single global counter, this keeps a definition's labels independent of
// the order in which definitions are compiled.
type Labels struct {
	perDef map[string]*uint16
}

// NewLabels returns an empty label allocator.
func NewLabels() *Labels {
	return &Labels{perDef: make(map[string]*uint16)}
}

// Next returns the next unused label for defName, starting at 0.
func (l *Labels) Next(defName string) uint16 {
	ctr, ok := l.perDef[defName]
	if !ok {
		zero := uint16(0)
		ctr = &zero
		l.perDef[defName] = ctr
	}
	v := *ctr
	*ctr = v + 1
	return v
}

// HvmcNames maps between the front-end's human-readable definition/agent
// names and the compact names a low-level net runtime expects, per
// spec.md §6's external-interface note on round-tripping names through an
// hvm-core-shaped backend.
type HvmcNames struct {
	HvmlToHvmc map[string]string
	HvmcToHvml map[string]string
}

// NewHvmcNames returns an empty, bidirectional name mapping.
func NewHvmcNames() *HvmcNames {
	return &HvmcNames{HvmlToHvmc: make(map[string]string), HvmcToHvml: make(map[string]string)}
}

// Add records a name pair in both directions.
func (h *HvmcNames) Add(hvml, hvmc string) {
	h.HvmlToHvmc[hvml] = hvmc
	h.HvmcToHvml[hvmc] = hvml
}
