// Package sink provides output sinks for generator samples.
package sink

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/synaptecltd/funcgen"
)

// Recorder keeps every sample in memory.
type Recorder struct {
	Samples []funcgen.Sample
}

func (r *Recorder) Emit(s funcgen.Sample) {
	r.Samples = append(r.Samples, s)
}

// Reset drops the recorded samples.
func (r *Recorder) Reset() {
	r.Samples = r.Samples[:0]
}

// Writer streams samples as raw DAC codes: one byte each when the range fits
// in 8 bits, otherwise two bytes little endian. Emit cannot fail, so the first
// write error is kept and later samples are dropped.
type Writer struct {
	w    *bufio.Writer
	wide bool
	buf  [2]byte
	err  error
}

// NewWriter returns a sink for a DAC whose full scale code is maxSample.
func NewWriter(w io.Writer, maxSample funcgen.Sample) *Writer {
	return &Writer{
		w:    bufio.NewWriter(w),
		wide: maxSample > 0xFF,
	}
}

func (w *Writer) Emit(s funcgen.Sample) {
	if w.err != nil {
		return
	}
	if w.wide {
		binary.LittleEndian.PutUint16(w.buf[:], uint16(s))
		_, w.err = w.w.Write(w.buf[:])
		return
	}
	w.err = w.w.WriteByte(byte(s))
}

// Flush writes any buffered samples and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Multi emits every sample to each of its sinks in order.
type Multi []funcgen.Sink

func (m Multi) Emit(s funcgen.Sample) {
	for _, sink := range m {
		sink.Emit(s)
	}
}
