package term

import (
	"fmt"
	"strings"
)

// Display renders a Term using the compiler's canonical surface notation.
// It is not a parser-inverse (that's the reader's resugaring job) — this
// is purely a debug/test-comparison aid, the same role the teacher's
// Term.String() plays in pkg/lambda/ast.go.
func Display(t Term) string {
	var b strings.Builder
	display(t, &b)
	return b.String()
}

func display(t Term, b *strings.Builder) {
	switch n := t.(type) {
	case Var:
		b.WriteString(n.Name)
	case Lnk:
		b.WriteString("$" + n.Name)
	case Ref:
		b.WriteString("@" + n.Name)
	case Lam:
		b.WriteString("λ")
		b.WriteString(namePtr(n.Name))
		b.WriteString(". ")
		display(n.Body, b)
	case Chn:
		b.WriteString("λ$")
		b.WriteString(n.Name)
		b.WriteString(". ")
		display(n.Body, b)
	case App:
		b.WriteString("(")
		display(n.Fun, b)
		b.WriteString(" ")
		display(n.Arg, b)
		b.WriteString(")")
	case Dup:
		b.WriteString("dup ")
		b.WriteString(namePtr(n.Fst))
		b.WriteString(" ")
		b.WriteString(namePtr(n.Snd))
		b.WriteString(" = ")
		display(n.Val, b)
		b.WriteString("; ")
		display(n.Nxt, b)
	case Sup:
		b.WriteString("{")
		display(n.Fst, b)
		b.WriteString(" ")
		display(n.Snd, b)
		b.WriteString("}")
	case Tup:
		b.WriteString("(")
		display(n.Fst, b)
		b.WriteString(", ")
		display(n.Snd, b)
		b.WriteString(")")
	case Num:
		fmt.Fprintf(b, "%d", n.Val)
	case Str:
		fmt.Fprintf(b, "%q", n.Val)
	case Lst:
		b.WriteString("[")
		for i, it := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			display(it, b)
		}
		b.WriteString("]")
	case Opx:
		b.WriteString("(")
		display(n.Fst, b)
		fmt.Fprintf(b, " %s ", n.Op)
		display(n.Snd, b)
		b.WriteString(")")
	case Mat:
		b.WriteString("match ")
		display(n.Matched, b)
		b.WriteString(" { ")
		for i, arm := range n.Arms {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(displayPattern(arm.Pat))
			b.WriteString(": ")
			display(arm.Body, b)
		}
		b.WriteString(" }")
	case Let:
		b.WriteString("let ")
		b.WriteString(displayPattern(n.Pat))
		b.WriteString(" = ")
		display(n.Val, b)
		b.WriteString("; ")
		display(n.Nxt, b)
	case Era:
		b.WriteString("*")
	case Err:
		fmt.Fprintf(b, "<err: %s>", n.Reason)
	}
}

func displayPattern(p Pattern) string {
	switch pp := p.(type) {
	case PatVar:
		if pp.Name == nil {
			return "_"
		}
		return *pp.Name
	case PatNum:
		return fmt.Sprintf("%d", pp.Val)
	case PatCtr:
		parts := make([]string, len(pp.Args))
		for i, a := range pp.Args {
			parts[i] = displayPattern(a)
		}
		if len(parts) == 0 {
			return pp.Name
		}
		return pp.Name + "(" + strings.Join(parts, ", ") + ")"
	case PatTup:
		return "(" + displayPattern(pp.Fst) + ", " + displayPattern(pp.Snd) + ")"
	case PatLst:
		parts := make([]string, len(pp.Items))
		for i, it := range pp.Items {
			parts[i] = displayPattern(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "?"
}
