package term

import (
	"fmt"

	"github.com/inkc/inkc/pkg/diagnostics"
)

// NameSource is a monotonic fresh-name counter. A Ctx holds one
// NameSource for the whole book, so its counters are shared by every
// definition and never reset between them. Each base name has its own
// counter, and a fresh name is the base followed by that count (e.g.
// "x.0", "x.1"), which keeps the original binder name visible.
type NameSource struct {
	counters map[string]int
}

// NewNameSource returns an empty fresh-name allocator.
func NewNameSource() *NameSource {
	return &NameSource{counters: make(map[string]int)}
}

// Fresh returns a new name derived from base, guaranteed unique among all
// names this NameSource has ever produced for that base.
func (ns *NameSource) Fresh(base string) string {
	n := ns.counters[base]
	ns.counters[base] = n + 1
	return fmt.Sprintf("%s.%d", base, n)
}

// Ctx carries a Book, a running diagnostic Batch, and a fresh-name source
// through the pipeline explicitly, per spec.md §9's "no global mutable
// state" design note.
type Ctx struct {
	Book  *Book
	Diag  *diagnostics.Batch
	Fresh *NameSource
}

// NewCtx wraps a Book in a fresh Ctx with an empty diagnostic batch and
// name source.
func NewCtx(book *Book) *Ctx {
	return &Ctx{Book: book, Diag: diagnostics.NewBatch(), Fresh: NewNameSource()}
}

// StartBatch opens a fresh diagnostic batch for the current pass,
// discarding any prior batch's fatal errors (warnings already recorded
// are preserved across passes since they never abort the pipeline).
func (c *Ctx) StartBatch() {
	prevWarns := c.Diag.Warnings()
	c.Diag = diagnostics.NewBatch()
	for _, w := range prevWarns {
		c.Diag.Warn(w.Kind, w.DefName, "%s", w.Message)
	}
}

// CheckFatal returns an error if the current batch has accumulated fatal
// diagnostics, nil otherwise. Each pass calls this immediately after
// running its checks so the pipeline can abort early with every detected
// defect in one report.
func (c *Ctx) CheckFatal() error {
	return c.Diag.CheckFatal()
}
