package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/inkc/inkc/pkg/netir"
	"github.com/inkc/inkc/pkg/reader"
)

// DebugHook is invoked between rewrite steps by a Reducer that chooses
// to support step-by-step tracing (not every Reducer will; pkg/runtime
// only requires Run to return a final net). step is a 1-based rewrite
// counter.
type DebugHook func(step int, net *netir.Net)

// defaultSeparatorWidth is used when term.GetSize cannot report a
// positive width for the terminal out (the ioctl fails or reports zero).
const defaultSeparatorWidth = 40

// NewDebugHook builds a DebugHook that reads back net at every step and
// prints the resulting term to out, separated by a rule when out is a
// terminal (plain redirection to a file or pipe skips the decoration).
// On a terminal, the rule is sized to the terminal's current width so it
// doesn't wrap or fall short on a resized window.
func NewDebugHook(out *os.File, labels *netir.Labels) DebugHook {
	fancy := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return func(step int, net *netir.Net) {
		t, errs := reader.ReadBack(net, labels, true)
		if fancy {
			printSeparator(out, step)
		} else {
			fmt.Fprintf(out, "step %d: ", step)
		}
		fmt.Fprintf(out, "%v\n", t)
		for _, e := range errs {
			fmt.Fprintf(out, "  (%s)\n", e.Error())
		}
	}
}

func printSeparator(out *os.File, step int) {
	width := defaultSeparatorWidth
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		width = w
	}
	label := fmt.Sprintf(" step %d ", step)
	if len(label) >= width {
		fmt.Fprintf(out, "\x1b[2m%s\x1b[0m\n", label)
		return
	}
	rule := strings.Repeat("-", width-len(label))
	fmt.Fprintf(out, "\x1b[2m%s%s\x1b[0m\n", label, rule)
}
