package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/vm"
)

func TestRunCompilesAndExecutesAgainstThread(t *testing.T) {
	th := vm.New(vm.Rate{SampleRate: 48000, BlockSize: 64})
	p := New(CompileStage{}, ExecStage{Thread: th})

	ctx := p.Run(&PipelineContext{Source: "5 3 +", Line: 1})
	require.NoError(t, ctx.Err)
	require.Len(t, th.Stack, 1)
	require.Equal(t, 8.0, th.Stack[0].Float64())
}

func TestRunSurfacesUndefinedNameAsExecError(t *testing.T) {
	th := vm.New(vm.Rate{SampleRate: 48000, BlockSize: 64})
	p := New(CompileStage{}, ExecStage{Thread: th})

	ctx := p.Run(&PipelineContext{Source: "nosuchword", Line: 1})
	require.Error(t, ctx.Err)
	require.Empty(t, th.Stack)
}

func TestLoadSourceContinuesPastAPerLineError(t *testing.T) {
	th := vm.New(vm.Rate{SampleRate: 48000, BlockSize: 64})
	results := LoadSource(th, []string{
		"5 3 +",
		"nosuchword",
		"2 2 *",
	})
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)

	// Both successful lines ran against the same persistent Thread stack.
	require.Len(t, th.Stack, 2)
	require.Equal(t, 8.0, th.Stack[0].Float64())
	require.Equal(t, 4.0, th.Stack[1].Float64())
}
