// Package runtime defines the hand-off boundary between this module
// and an actual interaction-net reducer. Nothing in this package
// reduces a net: it fixes the interfaces a reducer and a net-level
// optimizer implement, plus no-op defaults. The CLI's run command uses
// NoReducer, and no pass in pkg/compile calls a NetOptimizer.
package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/inkc/inkc/pkg/netir"
)

// RunOpts controls how a Reducer normalizes a net book. Mirrors the
// original implementation's RunOpts{single_core, debug, linear,
// lazy_mode}.
type RunOpts struct {
	// Linear disables the non-linear duplication machinery (Dup/Sup),
	// for targets that only ever see linearized nets.
	Linear bool
	// SingleCore forces a sequential reduction strategy, for
	// reproducing a run without a concurrent scheduler's nondeterminism.
	SingleCore bool
	// LazyMode selects lazy (needed) reduction over eager/strict.
	LazyMode bool
	// Debug, when true, asks the Reducer to call StepHook (if set)
	// between rewrite steps.
	Debug bool
	// StepHook is invoked between rewrite steps when Debug is set. A
	// Reducer that cannot support step tracing may ignore it.
	StepHook func(step int, net *netir.Net)
	// Timeout bounds how long a single Run call may take; zero means
	// no bound.
	Timeout time.Duration
}

// Stats reports what a Reducer did, for diagnostics and benchmarking.
type Stats struct {
	Rewrites int64
	Elapsed  time.Duration
}

// Reducer normalizes the net named entry within book and returns the
// resulting net. Implementations live outside this module entirely;
// this interface only fixes the contract. cmd/inkc's run command calls
// it, always with NoReducer.
type Reducer interface {
	Run(ctx context.Context, book *netir.NetBook, entry string, opts RunOpts) (*netir.Net, Stats, error)
}

// NetOptimizer is the interface of a net-level optimizer, for passes
// that only make sense on the wire-level representation (global redex
// scheduling, agent-count-aware pruning) rather than on term.Book. The
// compile pipeline ends at lowering and calls no NetOptimizer.
type NetOptimizer interface {
	// PreReduce runs whatever cheap normalization an implementation
	// wants to apply before handing the book to a Reducer. eager
	// mirrors compile.CompileOpts.Eager.
	PreReduce(book *netir.NetBook, eager bool, entry string) error
	// Prune drops nets unreachable from entry.
	Prune(book *netir.NetBook, entry string)
}

// ErrNoReducer is returned by NoReducer's Run method, for callers that
// want to distinguish "no backend configured" from a real reduction
// failure.
var ErrNoReducer = errors.New("runtime: no reducer configured")

// NoReducer is the default Reducer: every call fails with
// ErrNoReducer. cmd/inkc's run command always uses it, so `inkc run`
// fails with ErrNoReducer, while `inkc check` and `inkc compile` never
// call a Reducer.
type NoReducer struct{}

func (NoReducer) Run(ctx context.Context, book *netir.NetBook, entry string, opts RunOpts) (*netir.Net, Stats, error) {
	return nil, Stats{}, ErrNoReducer
}

// NoOptimizer is the default NetOptimizer: both hooks are no-ops, so a
// pipeline wired with it behaves exactly as if no net-level optimizer
// ran at all.
type NoOptimizer struct{}

func (NoOptimizer) PreReduce(book *netir.NetBook, eager bool, entry string) error { return nil }

func (NoOptimizer) Prune(book *netir.NetBook, entry string) {}
