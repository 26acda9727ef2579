package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/genlib"
	"github.com/sapfsound/sapf/internal/object"
)

func TestZInFillPullsExactCount(t *testing.T) {
	g := genlib.NByz(10, 1, 1)
	in := NewZIn(g)
	out := make([]float32, 4)
	n, ended := in.Fill(out)
	require.Equal(t, 4, n)
	require.False(t, ended)
	require.Equal(t, []float32{1, 2, 3, 4}, out)

	out2 := make([]float32, 10)
	n2, ended2 := in.Fill(out2)
	require.Equal(t, 6, n2)
	require.True(t, ended2)
}

func TestSinkPullAllEndedWhenExhausted(t *testing.T) {
	g1 := genlib.NByz(8, 0, 1)
	g2 := genlib.NByz(8, 10, 1)
	sink := NewSink(FullMode, []*object.ZGen{g1, g2})
	block, ended := sink.Pull(4)
	require.False(t, ended)
	require.Len(t, block.Channels, 2)

	_, ended2 := sink.Pull(4)
	require.True(t, ended2)
}

func TestSinkPullSelfMarksStoppedOnceExhausted(t *testing.T) {
	g := genlib.NByz(4, 0, 1)
	sink := NewSink(MonoMode, []*object.ZGen{g})
	require.False(t, sink.Stopped())

	sink.Pull(2)
	require.False(t, sink.Stopped(), "not yet exhausted")

	sink.Pull(2)
	require.True(t, sink.Stopped(), "Pull should self-mark once every channel has ended")
}

func TestRunWatchdogSweepsSelfEndedSinkWithoutExplicitStop(t *testing.T) {
	d := NewDriver(48000, 64)
	g := genlib.NByz(1, 0, 1)
	sink := NewSink(MonoMode, []*object.ZGen{g})
	d.Play(sink)
	sink.Pull(1)
	require.True(t, sink.Stopped())
	require.Len(t, d.Sinks(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.RunWatchdog(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return len(d.Sinks()) == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	err := <-done
	require.ErrorIs(t, err, context.Canceled)
}
