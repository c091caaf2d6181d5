package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkc/inkc/pkg/netir"
)

func TestNoReducerAlwaysFails(t *testing.T) {
	var r Reducer = NoReducer{}
	net, stats, err := r.Run(context.Background(), netir.NewNetBook(), "main", RunOpts{})
	assert.Nil(t, net)
	assert.Equal(t, Stats{}, stats)
	assert.True(t, errors.Is(err, ErrNoReducer))
}

func TestNoOptimizerIsANoOp(t *testing.T) {
	var o NetOptimizer = NoOptimizer{}
	nb := netir.NewNetBook()
	nb.Nets["main"] = &netir.Net{}
	assert.NoError(t, o.PreReduce(nb, true, "main"))
	o.Prune(nb, "main")
	assert.Contains(t, nb.Nets, "main", "NoOptimizer.Prune must not remove anything")
}
