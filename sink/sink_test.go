package sink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/funcgen"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Emit(1)
	r.Emit(255)
	assert.Equal(t, []funcgen.Sample{1, 255}, r.Samples)

	r.Reset()
	assert.Empty(t, r.Samples)
}

func TestWriterNarrow(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 255)
	for _, s := range []funcgen.Sample{0, 128, 255} {
		w.Emit(s)
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{0, 128, 255}, buf.Bytes())
}

func TestWriterWide(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 4095)
	w.Emit(0x0ABC)
	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{0xBC, 0x0A}, buf.Bytes())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestWriterLatchesError(t *testing.T) {
	w := NewWriter(failingWriter{}, 255)
	w.Emit(1)
	assert.NoError(t, w.Err()) // still buffered
	assert.EqualError(t, w.Flush(), "device gone")

	w.Emit(2) // dropped, does not panic
	assert.EqualError(t, w.Err(), "device gone")
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, &b}
	m.Emit(7)
	assert.Equal(t, []funcgen.Sample{7}, a.Samples)
	assert.Equal(t, []funcgen.Sample{7}, b.Samples)
}

func TestRingOverwritesOldest(t *testing.T) {
	r := newRing(3)
	for _, v := range []float32{1, 2, 3, 4} {
		r.push(v)
	}
	assert.Equal(t, 3, r.len())

	dst := make([]float32, 5)
	n := r.pop(dst)
	assert.Equal(t, 3, n)
	// underrun holds the last value
	assert.Equal(t, []float32{2, 3, 4, 4, 4}, dst)
	assert.Equal(t, 0, r.len())
}

func TestRingUnderrunSilence(t *testing.T) {
	r := newRing(4)
	dst := []float32{9, 9}
	assert.Equal(t, 0, r.pop(dst))
	assert.Equal(t, []float32{0, 0}, dst)
}
