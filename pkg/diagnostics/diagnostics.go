// Package diagnostics implements the compiler's error/warning accumulation
// subsystem: each pass opens a batch, appends zero or more diagnostics, and
// checks for fatal errors before the next pass runs.
package diagnostics

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Kind identifies a fatal diagnostic category.
type Kind int

const (
	UnboundVar Kind = iota
	UnboundCtr
	Arity
	NonExhaustive
	DuplicateName
	MatchCompile
	RefCycle
)

func (k Kind) String() string {
	switch k {
	case UnboundVar:
		return "unbound variable"
	case UnboundCtr:
		return "unbound constructor"
	case Arity:
		return "arity mismatch"
	case NonExhaustive:
		return "non-exhaustive patterns"
	case DuplicateName:
		return "duplicated name"
	case MatchCompile:
		return "match compilation failure"
	case RefCycle:
		return "cycle in ref-to-ref"
	default:
		return "unknown"
	}
}

// WarnKind identifies a warning category.
type WarnKind int

const (
	MatchOnlyVars WarnKind = iota
	UnusedDefinition
	StrictWithoutSupercombs
)

func (k WarnKind) String() string {
	switch k {
	case MatchOnlyVars:
		return "match-only-vars"
	case UnusedDefinition:
		return "unused-definition"
	case StrictWithoutSupercombs:
		return "strict-without-supercombinators"
	default:
		return "unknown"
	}
}

// Diagnostic is a single fatal compilation error, optionally scoped to a
// definition name.
type Diagnostic struct {
	Kind    Kind
	DefName string
	Message string
}

func (d *Diagnostic) Error() string {
	if d.DefName != "" {
		return fmt.Sprintf("[%s] in '%s': %s", d.Kind, d.DefName, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// Warning is a single non-fatal diagnostic.
type Warning struct {
	Kind    WarnKind
	DefName string
	Message string
}

func (w *Warning) String() string {
	if w.DefName != "" {
		return fmt.Sprintf("[%s] in '%s': %s", w.Kind, w.DefName, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
}

// Batch accumulates diagnostics across one or more passes. A single
// invocation can surface every detected defect in one report instead of
// aborting on the first.
type Batch struct {
	errs  []*Diagnostic
	warns []*Warning
}

// NewBatch starts a fresh, empty diagnostic batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Error records a fatal diagnostic.
func (b *Batch) Error(kind Kind, defName, format string, args ...interface{}) {
	b.errs = append(b.errs, &Diagnostic{Kind: kind, DefName: defName, Message: fmt.Sprintf(format, args...)})
}

// Warn records a non-fatal diagnostic.
func (b *Batch) Warn(kind WarnKind, defName, format string, args ...interface{}) {
	b.warns = append(b.warns, &Warning{Kind: kind, DefName: defName, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any fatal diagnostic has been recorded.
func (b *Batch) HasErrors() bool {
	return len(b.errs) > 0
}

// Errors returns the accumulated fatal diagnostics.
func (b *Batch) Errors() []*Diagnostic {
	return b.errs
}

// Warnings returns the accumulated warnings.
func (b *Batch) Warnings() []*Warning {
	return b.warns
}

// Merge appends another batch's diagnostics onto this one.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.errs = append(b.errs, other.errs...)
	b.warns = append(b.warns, other.warns...)
}

// Err returns a single consolidated error joining every fatal diagnostic,
// or nil if the batch has no errors.
func (b *Batch) Err() error {
	if len(b.errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, d := range b.errs {
		merr = multierror.Append(merr, d)
	}
	merr.ErrorFormat = func(errs []error) string {
		s := fmt.Sprintf("%d compilation error(s):\n", len(errs))
		for _, e := range errs {
			s += fmt.Sprintf("  - %s\n", e)
		}
		return s
	}
	return merr
}

// CheckFatal returns Err() if the batch has accumulated any fatal
// diagnostic. Passes call this immediately after closing their batch so
// the pipeline can return early, as described in the error-handling design.
func (b *Batch) CheckFatal() error {
	return b.Err()
}
