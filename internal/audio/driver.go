// Package audio implements SAPF's real-time audio driver contract: a
// Sink pulls one block at a time from a per-channel signal graph and
// hands it to a platform callback as non-interleaved float32, exactly
// the shape zikichombo.org/plug's Processor/Block contract uses,
// generalized here to SAPF's Gen-driven channels instead of a fixed
// Processor graph.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sapfsound/sapf/internal/object"
)

// ChannelMode mirrors plug.ChannelMode: whether a Sink's channels are
// processed as one shared mono signal or as independently pulled full
// channels.
type ChannelMode int

const (
	MonoMode ChannelMode = iota
	FullMode
)

// Block is one pulled chunk of audio: Frames samples per channel,
// channel-deinterleaved (each Channels[c] is its own contiguous run),
// matching plug.Block.Samples' layout.
type Block struct {
	Channels [][]float32
	Frames   int
}

// ZIn is a per-channel pull cursor over a *object.ZGen: it remembers how
// much of the Gen's buffer it has already delivered so repeated block
// pulls don't re-copy already-consumed samples.
type ZIn struct {
	gen     *object.ZGen
	offset  int
}

// NewZIn wraps gen for block-at-a-time consumption.
func NewZIn(gen *object.ZGen) *ZIn {
	return &ZIn{gen: gen}
}

// Fill copies up to len(out) samples starting at this cursor's current
// position into out, pulling more of the underlying Gen as needed. It
// returns the number of samples actually written and whether the
// channel has ended (no more samples will ever be available).
func (z *ZIn) Fill(out []float32) (n int, ended bool) {
	need := z.offset + len(out)
	for !z.gen.Ended && len(z.gen.Buf) < need {
		z.gen.Pull(need - len(z.gen.Buf))
	}
	avail := len(z.gen.Buf) - z.offset
	if avail < 0 {
		avail = 0
	}
	if avail > len(out) {
		avail = len(out)
	}
	for i := 0; i < avail; i++ {
		out[i] = float32(z.gen.Buf[z.offset+i])
	}
	z.offset += avail
	return avail, z.gen.Ended && z.offset >= len(z.gen.Buf)
}

// Sink is one live playback session: a set of per-channel ZIn cursors
// pulled in lockstep by a host audio callback. Each Sink carries a
// uuid.UUID so concurrently playing sinks are distinguishable in the
// REPL's `sinks` diagnostic command and addressable by `stop` without
// relying on pointer identity (the same rationale plug.IO uses session
// tokens for its connections).
type Sink struct {
	ID       uuid.UUID
	Mode     ChannelMode
	channels []*ZIn

	mu      sync.Mutex
	stopped bool
}

// NewSink builds a Sink pulling from the given per-channel generators.
func NewSink(mode ChannelMode, gens []*object.ZGen) *Sink {
	ins := make([]*ZIn, len(gens))
	for i, g := range gens {
		ins[i] = NewZIn(g)
	}
	return &Sink{ID: uuid.New(), Mode: mode, channels: ins}
}

// Pull fills one Block of the given frame count, returning whether every
// channel has ended. A Sink that has ended marks itself stopped right
// here, the same tick it discovers it — it doesn't wait for a watchdog
// pass or a user-issued stop to notice.
func (s *Sink) Pull(frames int) (Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block := Block{Channels: make([][]float32, len(s.channels)), Frames: frames}
	allEnded := true
	for i, in := range s.channels {
		buf := make([]float32, frames)
		_, ended := in.Fill(buf)
		block.Channels[i] = buf
		if !ended {
			allEnded = false
		}
	}
	if allEnded {
		s.stopped = true
	}
	return block, allEnded
}

// Stop marks the sink as stopped; idempotent.
func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

func (s *Sink) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Driver owns the set of currently live sinks and drives their teardown
// through an errgroup.Group — the ecosystem replacement for the
// hand-rolled sync.WaitGroup + error-channel fan-in idiom plug.Graph.Run
// uses for the same "wait for every concurrent worker, surface the first
// error" shape.
type Driver struct {
	SampleRate float64
	BlockSize  int

	mu    sync.Mutex
	sinks map[uuid.UUID]*Sink
}

// NewDriver returns a Driver configured for the given sample rate and
// block size.
func NewDriver(sampleRate float64, blockSize int) *Driver {
	return &Driver{SampleRate: sampleRate, BlockSize: blockSize, sinks: make(map[uuid.UUID]*Sink)}
}

// Play registers sink as live and returns its ID.
func (d *Driver) Play(sink *Sink) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks[sink.ID] = sink
	return sink.ID
}

// Sinks returns the currently live sinks, for the REPL's `sinks` command.
func (d *Driver) Sinks() []*Sink {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Sink, 0, len(d.sinks))
	for _, s := range d.sinks {
		out = append(out, s)
	}
	return out
}

// RunWatchdog is the separate polling loop that tears down done sinks:
// every interval it sweeps the live set, removing any sink Pull has
// already marked stopped (ended on its own, or stopped explicitly). It
// runs until ctx is cancelled, fanning the single poller through an
// errgroup the same way the rest of this package awaits concurrent
// workers; a caller cancels ctx and then awaits RunWatchdog's return to
// shut the watchdog down cleanly. Canceling ctx is the expected way to
// stop this loop, so callers should treat context.Canceled specially
// rather than logging it as a failure.
func (d *Driver) RunWatchdog(ctx context.Context, interval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				d.Sweep()
			}
		}
	})
	return g.Wait()
}

// Sweep removes every stopped sink: one whose channels have all ended or
// one stopped explicitly.
func (d *Driver) Sweep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, s := range d.sinks {
		if s.Stopped() {
			delete(d.sinks, id)
		}
	}
}
