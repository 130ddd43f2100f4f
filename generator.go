// Package funcgen generates sine, square, triangle and sawtooth waveforms as
// a stream of DAC codes, steered by commands arriving on a serial link.
package funcgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/synaptecltd/funcgen/program"
)

// Sink receives every sample the generator produces. Emit must not fail.
type Sink interface {
	Emit(Sample)
}

// CommandSource hands over at most one pending command line without blocking.
type CommandSource interface {
	Poll() (line string, ok bool)
}

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

type discardSink struct{}

func (discardSink) Emit(Sample) {}

// Generator owns the parameters and phase and runs the control loop: drain a
// pending command, then produce one sample.
type Generator struct {
	ID uuid.UUID

	store    *Store
	engine   *Engine
	decoder  Decoder
	sink     Sink
	programs program.Container

	sampleRate float64
	echo       io.Writer // status echoes back to the command channel
	diag       io.Writer // ignored commands, nil when diagnostics are off
	logger     Logger
}

// NewGenerator builds a generator from cfg. A nil sink discards samples.
func NewGenerator(cfg *Config, decoder Decoder, sink Sink) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if decoder == nil {
		return nil, errors.New("decoder is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := NewStore(cfg.Limits, cfg.Initial)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(cfg.Output)
	if err != nil {
		return nil, err
	}
	engine.UseFastSine(cfg.FastSine)

	// a committed waveform change always restarts the cycle
	store.OnWaveformChange(func(Waveform) { engine.ResetPhase() })

	if sink == nil {
		sink = discardSink{}
	}
	id := cfg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	// programs decoded from yaml have no id until they join a container
	var programs program.Container
	for _, p := range cfg.Programs {
		programs.Add(p)
	}

	return &Generator{
		ID:         id,
		store:      store,
		engine:     engine,
		decoder:    decoder,
		sink:       sink,
		programs:   programs,
		sampleRate: cfg.SampleRate,
		echo:       io.Discard,
	}, nil
}

// SetEcho sets where status echoes are written, usually the command channel.
func (g *Generator) SetEcho(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	g.echo = w
}

// SetDiagnostics sets where ignored commands are reported; nil turns the
// reports off.
func (g *Generator) SetDiagnostics(w io.Writer) {
	g.diag = w
}

// SetLogger sets a console logger for accepted commands.
func (g *Generator) SetLogger(l Logger) {
	g.logger = l
}

// AddProgram adds a parameter program and returns its id.
func (g *Generator) AddProgram(p program.ProgramInterface) uuid.UUID {
	return g.programs.Add(p)
}

// RemoveProgram stops and removes the program with the given id.
func (g *Generator) RemoveProgram(id uuid.UUID) bool {
	return g.programs.Remove(id)
}

// Programs returns the parameter programs in step order.
func (g *Generator) Programs() program.Container {
	return g.programs
}

// Params returns a snapshot of the live parameters.
func (g *Generator) Params() Params {
	return g.store.Snapshot()
}

// Phase returns the current phase in radians.
func (g *Generator) Phase() float64 {
	return g.engine.Phase()
}

// Store exposes the parameter store for direct updates.
func (g *Generator) Store() *Store {
	return g.store
}

// HandleCommand decodes line and applies it. It returns the fields that were
// committed; ok is false when nothing was, and the previous state stands.
func (g *Generator) HandleCommand(line string) (Update, bool) {
	u, ok := g.decoder.Decode(line)
	var applied Update
	if ok {
		applied = g.store.Apply(u)
	}
	if applied.Empty() {
		if g.diag != nil {
			fmt.Fprintf(g.diag, "ignored: %s\n", strings.TrimSpace(line))
		}
		return Update{}, false
	}

	p := g.store.Snapshot()
	for _, status := range g.decoder.Status(applied, p) {
		fmt.Fprintln(g.echo, status)
	}
	if g.logger != nil {
		g.logger.Printf("received %q: frequency %.2f Hz, amplitude %.2f V, waveform %s", strings.TrimSpace(line), p.Frequency, p.Amplitude, p.Waveform)
	}
	return applied, true
}

// Apply commits an update that did not come from the decoder, such as a
// program setpoint, and returns the committed fields.
func (g *Generator) Apply(u Update) Update {
	return g.store.Apply(u)
}

// Step advances to now on the microsecond counter, emits one sample and
// returns it.
func (g *Generator) Step(now uint32) Sample {
	return g.advance(g.engine.Elapsed(now))
}

// Sync sets the counter reference without producing a sample, so the first
// Step after start up does not see the whole uptime as one interval.
func (g *Generator) Sync(now uint32) {
	g.engine.Sync(now)
}

func (g *Generator) advance(dt float64) Sample {
	if len(g.programs) > 0 {
		if u := setpointsToUpdate(g.programs.Step(dt)); !u.Empty() {
			g.store.Apply(u)
		}
	}
	sample := g.engine.Advance(dt, g.store.Snapshot())
	g.sink.Emit(sample)
	return sample
}

// Render produces n samples at a fixed sample rate, emitting each to the
// sink. Commands are not drained.
func (g *Generator) Render(n int, sampleRate float64) []Sample {
	if n <= 0 || sampleRate <= 0 {
		return nil
	}
	dt := 1 / sampleRate
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = g.advance(dt)
	}
	return samples
}

// Run is the production loop. It polls source for a command, applies it,
// then steps the engine to the clock, until ctx is cancelled.
func (g *Generator) Run(ctx context.Context, source CommandSource, clock Clock) error {
	if clock == nil {
		return errors.New("clock is required")
	}
	g.Sync(clock.Micros())

	pace := newPacer(g.sampleRate)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if source != nil {
			if line, ok := source.Poll(); ok {
				g.HandleCommand(line)
			}
		}
		g.Step(clock.Micros())
		pace.wait()
	}
}

// Settings returns a printable summary of the live parameters.
func (g *Generator) Settings() string {
	p := g.store.Snapshot()
	var b strings.Builder
	fmt.Fprintln(&b, "=== Settings ===")
	fmt.Fprintf(&b, "Freq: %.2f Hz\n", p.Frequency)
	fmt.Fprintf(&b, "Amp: %.2f V\n", p.Amplitude)
	fmt.Fprintf(&b, "Wave: %s\n", p.Waveform)
	fmt.Fprint(&b, "================")
	return b.String()
}

func setpointsToUpdate(setpoints []program.Setpoint) Update {
	var u Update
	for _, sp := range setpoints {
		switch sp.Param {
		case program.Frequency:
			u = u.WithFrequency(sp.Value)
		case program.Amplitude:
			u = u.WithAmplitude(sp.Value)
		case program.Waveform:
			u = u.WithWaveform(Waveform(int(sp.Value)))
		}
	}
	return u
}

// pacer holds the loop to a sample rate on hosts where the loop would
// otherwise outrun the sink. It sleeps in batches because the scheduler
// cannot resolve one sample period.
type pacer struct {
	period time.Duration
	start  time.Time
	count  int64
}

const paceSlack = time.Millisecond

func newPacer(sampleRate float64) *pacer {
	if sampleRate <= 0 {
		return nil
	}
	return &pacer{
		period: time.Duration(float64(time.Second) / sampleRate),
		start:  time.Now(),
	}
}

func (p *pacer) wait() {
	if p == nil {
		return
	}
	p.count++
	due := p.start.Add(time.Duration(p.count) * p.period)
	if ahead := time.Until(due); ahead > paceSlack {
		time.Sleep(ahead)
	}
}
