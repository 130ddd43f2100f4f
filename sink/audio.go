//go:build !headless

package sink

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/synaptecltd/funcgen"
)

// Audio plays the DAC stream through the host sound card so the output can be
// heard while the generator runs. The generator loop must be paced to the
// audio sample rate; the ring absorbs jitter and drops the oldest samples if
// the loop runs ahead.
type Audio struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *ring
	full   float32 // max sample as float
	volume float32
	buf    []float32
	mu     sync.Mutex // guards player setup and teardown
}

// NewAudio opens the default output device at sampleRate for a DAC whose full
// scale code is maxSample.
func NewAudio(sampleRate int, maxSample funcgen.Sample) (*Audio, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	if maxSample == 0 {
		return nil, errors.New("max sample must be greater than 0")
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	a := &Audio{
		ctx:    ctx,
		ring:   newRing(max(sampleRate/4, 1024)), // 250 ms at usual rates
		full:   float32(maxSample),
		volume: 0.5,
	}
	a.player = ctx.NewPlayer(a)
	a.player.Play()
	return a, nil
}

// Emit converts the DAC code to a centred float sample.
func (a *Audio) Emit(s funcgen.Sample) {
	a.ring.push((float32(s)/a.full*2 - 1) * a.volume)
}

// Read is called by oto on its own goroutine.
func (a *Audio) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(a.buf) < n {
		a.buf = make([]float32, n)
	}
	samples := a.buf[:n]
	a.ring.pop(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

// Close stops playback.
func (a *Audio) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.player == nil {
		return nil
	}
	err := a.player.Close()
	a.player = nil
	return err
}
