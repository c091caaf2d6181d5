package netir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkDetectsRedex(t *testing.T) {
	n := &Net{}
	a := n.NewAgent(Con, 2)
	b := n.NewAgent(Dup, 3)
	n.Link(Port{Agent: a, Slot: 0}, Port{Agent: b, Slot: 0})
	assert.Len(t, n.Redexes, 1)

	n.Link(Port{Agent: a, Slot: 1}, Port{Agent: b, Slot: 1})
	assert.Len(t, n.Redexes, 1)
	assert.Len(t, n.Wires, 2)
}

func TestLabelsPerDefinitionIndependence(t *testing.T) {
	l := NewLabels()
	assert.Equal(t, uint16(0), l.Next("f"))
	assert.Equal(t, uint16(1), l.Next("f"))
	assert.Equal(t, uint16(0), l.Next("g"))
}

func TestHvmcNamesBidirectional(t *testing.T) {
	h := NewHvmcNames()
	h.Add("main", "a0")
	assert.Equal(t, "a0", h.HvmlToHvmc["main"])
	assert.Equal(t, "main", h.HvmcToHvml["a0"])
}

func TestNetBookSortedNames(t *testing.T) {
	nb := NewNetBook()
	nb.Nets["z"] = &Net{}
	nb.Nets["a"] = &Net{}
	assert.Equal(t, []string{"a", "z"}, nb.SortedNetNames())
}
