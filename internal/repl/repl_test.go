package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/vm"
)

func newTestREPL(in string) (*REPL, *bytes.Buffer) {
	th := vm.New(vm.Rate{SampleRate: 48000, BlockSize: 64})
	var out bytes.Buffer
	r := New(th, strings.NewReader(in), &out, "")
	return r, &out
}

func TestRunEvaluatesEachLineAgainstThePersistentThread(t *testing.T) {
	r, out := newTestREPL("5 3 +\n2 *\n")
	require.NoError(t, r.Run())
	require.Contains(t, out.String(), "16")
}

func TestEvalPrintReportsErrorsWithoutCrashing(t *testing.T) {
	r, out := newTestREPL("")
	r.EvalPrint("nosuchword")
	require.Contains(t, out.String(), "error:")
}

func TestNonInteractiveReaderSuppressesBannerAndPrompt(t *testing.T) {
	r, out := newTestREPL("")
	require.False(t, r.Interactive())
	r.Banner("9.9.9")
	require.Empty(t, out.String())
}
