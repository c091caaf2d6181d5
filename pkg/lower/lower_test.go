package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/netir"
	"github.com/inkc/inkc/pkg/term"
)

func strp(s string) *string { return &s }

func TestLowerIdentityBuildsConAgentWithVarWiredToSelf(t *testing.T) {
	book := term.NewBook()
	book.Defs["id"] = &term.Definition{Name: "id", Rules: []term.Rule{{
		Body: term.NewLam("x", term.Var{Name: "x"}),
	}}}
	book.Entrypoint = "id"

	nb, names, _, err := Lower(book)
	require.NoError(t, err)

	net := nb.Nets["id"]
	require.NotNil(t, net)
	require.Equal(t, netir.Con, net.Root.Agent.Kind)
	require.Equal(t, 0, net.Root.Slot)

	// Var(x) resolves to the Lam's own binder port (slot 1), so the body
	// wire connects the Con agent's own aux port back to itself.
	require.Len(t, net.Wires, 1)
	w := net.Wires[0]
	assert.Equal(t, net.Root.Agent, w.A.Agent)
	assert.Equal(t, 2, w.A.Slot)
	assert.Equal(t, net.Root.Agent, w.B.Agent)
	assert.Equal(t, 1, w.B.Slot)

	assert.Equal(t, "id", names.HvmcToHvml[names.HvmlToHvmc["id"]])
}

func TestLowerAppliedLambdaProducesTwoConAgentsAsRedex(t *testing.T) {
	book := term.NewBook()
	// f = (λx.x) (λy.y)
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{
		Body: term.App{
			Fun: term.NewLam("x", term.Var{Name: "x"}),
			Arg: term.NewLam("y", term.Var{Name: "y"}),
		},
	}}}
	book.Entrypoint = "f"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["f"]

	require.Equal(t, netir.Con, net.Root.Agent.Kind)
	// App's Con agent and Fun's Con agent are both principal-port
	// connected only once the runtime actually reduces; at construction
	// time the App-Con's slot 2 (fun-root) links directly to the Fun
	// lambda's own Con agent principal port, which is a redex already.
	foundRedex := false
	for _, w := range net.Redexes {
		if w.A.Agent.Kind == netir.Con && w.B.Agent.Kind == netir.Con {
			foundRedex = true
		}
	}
	assert.True(t, foundRedex, "applying a lambda literal should form an active pair at construction time")
}

func TestLowerDupWiresBothBindersAndReturnsNxtRoot(t *testing.T) {
	book := term.NewBook()
	tag := &term.DupTag{}
	// main = dup{a,b} = 1; (a, b)
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Dup{
			Tag: tag,
			Fst: strp("a"),
			Snd: strp("b"),
			Val: term.Num{Val: 1},
			Nxt: term.Tup{Fst: term.Var{Name: "a"}, Snd: term.Var{Name: "b"}},
		},
	}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]

	// The net's root is the Tup's Ctr agent, not the Dup agent: Dup has no
	// value of its own, it forwards to Nxt.
	require.Equal(t, netir.Ctr, net.Root.Agent.Kind)

	var dupAgent *netir.Agent
	for _, a := range net.Agents {
		if a.Kind == netir.Dup {
			dupAgent = a
		}
	}
	require.NotNil(t, dupAgent)

	wiredToDupSlot1, wiredToDupSlot2 := false, false
	for _, w := range net.Wires {
		if w.A.Agent == net.Root.Agent && w.B.Agent == dupAgent && w.B.Slot == 1 {
			wiredToDupSlot1 = true
		}
		if w.A.Agent == net.Root.Agent && w.B.Agent == dupAgent && w.B.Slot == 2 {
			wiredToDupSlot2 = true
		}
	}
	assert.True(t, wiredToDupSlot1, "Tup's Fst slot should wire to Dup's a-binding port")
	assert.True(t, wiredToDupSlot2, "Tup's Snd slot should wire to Dup's b-binding port")
}

func TestLowerSharedDupTagReusesSameLabel(t *testing.T) {
	book := term.NewBook()
	tag := &term.DupTag{}
	inner := term.Dup{
		Tag: tag, Fst: strp("c"), Snd: strp("d"),
		Val: term.Var{Name: "a"},
		Nxt: term.Tup{Fst: term.Var{Name: "c"}, Snd: term.Var{Name: "d"}},
	}
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Dup{
			Tag: tag, Fst: strp("a"), Snd: strp("b"),
			Val: term.Num{Val: 1},
			Nxt: inner,
		},
	}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]

	var labels []uint16
	for _, a := range net.Agents {
		if a.Kind == netir.Dup {
			labels = append(labels, a.Label)
		}
	}
	require.Len(t, labels, 2)
	assert.Equal(t, labels[0], labels[1], "both Dup nodes sharing one *DupTag must get the same net label")
}

func TestLowerNumLiteralStoresStringifiedValue(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Num{Val: 42},
	}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]
	require.Equal(t, netir.Num, net.Root.Agent.Kind)
	assert.Equal(t, "42", net.Root.Agent.Ref)
}

func TestLowerOpxCarriesOperatorInLabel(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Opx{Op: term.OpAdd, Fst: term.Num{Val: 1}, Snd: term.Num{Val: 2}},
	}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]
	require.Equal(t, netir.Op, net.Root.Agent.Kind)
	assert.Equal(t, uint16(term.OpAdd), net.Root.Agent.Label)
	assert.Len(t, net.Root.Agent.Ports, 3)
}

func TestLowerRefLeafCarriesDefinitionName(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Ref{Name: "helper"},
	}}}
	book.Defs["helper"] = &term.Definition{Name: "helper", Rules: []term.Rule{{Body: term.Num{Val: 9}}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]
	require.Equal(t, netir.RefAgent, net.Root.Agent.Kind)
	assert.Equal(t, "helper", net.Root.Agent.Ref)
}

func TestLowerMatWiresOneArmPerPortAndCountsInLabel(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Mat{
			Matched: term.Num{Val: 0},
			Arms: []term.MatchArm{
				{Pat: term.PatNum{Val: 0}, Body: term.Num{Val: 10}},
				{Pat: term.PatVar{Name: nil}, Body: term.NewLam("pred", term.Var{Name: "pred"})},
			},
		},
	}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]
	require.Equal(t, netir.Mat, net.Root.Agent.Kind)
	assert.Equal(t, uint16(2), net.Root.Agent.Label)
	assert.Len(t, net.Root.Agent.Ports, 4)
}

func TestLowerCtrArmBindsFieldsLikeCurriedLambda(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{
		Body: term.Mat{
			Matched: term.Ref{Name: "pair"},
			Arms: []term.MatchArm{
				{
					Pat:  term.PatCtr{Name: "Pair", Args: []term.Pattern{term.PatVar{Name: strp("l")}, term.PatVar{Name: strp("r")}}},
					Body: term.Var{Name: "l"},
				},
			},
		},
	}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]

	// The sole arm's port should land on a Con agent (the synthesized
	// curried-lambda wrapper for the field binders), not directly on a Var.
	armPort := net.Root.Agent.Ports[2]
	require.NotNil(t, armPort.Agent)
	assert.Equal(t, netir.Con, armPort.Agent.Kind)
}

func TestLowerCurriesRuleParametersIntoNestedConChain(t *testing.T) {
	book := term.NewBook()
	book.Defs["add"] = &term.Definition{Name: "add", Rules: []term.Rule{{
		Pats: []term.Pattern{term.PatVar{Name: strp("x")}, term.PatVar{Name: strp("y")}},
		Body: term.Opx{Op: term.OpAdd, Fst: term.Var{Name: "x"}, Snd: term.Var{Name: "y"}},
	}}}
	book.Entrypoint = "add"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["add"]

	require.Equal(t, netir.Con, net.Root.Agent.Kind)
	inner := net.Root.Agent.Ports[2].Agent
	require.NotNil(t, inner)
	assert.Equal(t, netir.Con, inner.Kind)
}

func TestLowerLongApplicationSpineDoesNotRecurseNaively(t *testing.T) {
	book := term.NewBook()
	// Build a deep App spine: f a0 a1 ... a1999, one head applied to many
	// arguments.
	var body term.Term = term.Ref{Name: "f"}
	const depth = 2000
	for i := 0; i < depth; i++ {
		body = term.App{Fun: body, Arg: term.Num{Val: uint64(i)}}
	}
	book.Defs["f"] = &term.Definition{Name: "f", Rules: []term.Rule{{Body: term.Ref{Name: "head"}}}}
	book.Defs["head"] = &term.Definition{Name: "head", Rules: []term.Rule{{Body: term.Num{Val: 0}}}}
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{Body: body}}}
	book.Entrypoint = "main"

	nb, _, _, err := Lower(book)
	require.NoError(t, err)
	net := nb.Nets["main"]
	assert.Equal(t, netir.Con, net.Root.Agent.Kind)
	assert.GreaterOrEqual(t, len(net.Agents), depth)
}
