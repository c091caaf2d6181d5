package driver

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkc/inkc/pkg/lower"
	"github.com/inkc/inkc/pkg/term"
)

func TestNewDebugHookPrintsReadback(t *testing.T) {
	book := term.NewBook()
	book.Defs["main"] = &term.Definition{Name: "main", Rules: []term.Rule{{Body: term.Num{Val: 9}}}}
	book.Entrypoint = "main"
	nb, _, labels, err := lower.Lower(book)
	require.NoError(t, err)

	tmp, err := os.CreateTemp(t.TempDir(), "debug-*.txt")
	require.NoError(t, err)
	defer tmp.Close()

	hook := NewDebugHook(tmp, labels)
	hook(1, nb.Nets["main"])

	data, err := os.ReadFile(tmp.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "9")
}
