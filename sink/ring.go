package sink

import "sync"

// ring is a fixed size float32 FIFO shared between the generator loop and an
// audio callback. When full, the oldest samples are overwritten.
type ring struct {
	mu    sync.Mutex
	buf   []float32
	read  int
	count int
}

func newRing(size int) *ring {
	return &ring{buf: make([]float32, size)}
}

func (r *ring) push(v float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	write := (r.read + r.count) % len(r.buf)
	r.buf[write] = v
	if r.count == len(r.buf) {
		r.read = (r.read + 1) % len(r.buf)
		return
	}
	r.count++
}

// pop fills dst, padding with the last value read (or silence) on underrun,
// and returns how many samples came from the buffer.
func (r *ring) pop(dst []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	var last float32
	for i := range dst {
		if r.count == 0 {
			dst[i] = last
			continue
		}
		last = r.buf[r.read]
		dst[i] = last
		r.read = (r.read + 1) % len(r.buf)
		r.count--
		n++
	}
	return n
}

func (r *ring) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
