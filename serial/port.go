// Package serial carries command lines between a byte stream and the
// generator loop without ever blocking the loop.
package serial

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DefaultQueue is the number of complete lines buffered before the reader
// stops pulling from the stream.
const DefaultQueue = 64

// MaxLine is the longest command accepted. Longer lines are dropped up to
// their terminator and reading carries on with the next line.
const MaxLine = 1024

// Port reads newline or carriage return terminated commands from r on its own
// goroutine and queues them for Poll. Echo lines go to w.
type Port struct {
	lines chan string
	w     io.Writer
	wmu   sync.Mutex

	done chan struct{}
	err  error
}

// NewPort starts reading r. A nil w discards echoes.
func NewPort(r io.Reader, w io.Writer, queue int) *Port {
	if queue <= 0 {
		queue = DefaultQueue
	}
	if w == nil {
		w = io.Discard
	}
	p := &Port{
		lines: make(chan string, queue),
		w:     w,
		done:  make(chan struct{}),
	}
	go p.readLoop(r)
	return p
}

func (p *Port) readLoop(r io.Reader) {
	defer close(p.done)

	scanner := bufio.NewScanner(r)
	scanner.Split(splitCommands(MaxLine))
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	p.err = scanner.Err()
}

// Poll returns the oldest pending command, if there is one.
func (p *Port) Poll() (string, bool) {
	select {
	case line := <-p.lines:
		return line, true
	default:
		return "", false
	}
}

// Inject queues a command from another source, such as a script. It reports
// false if the queue is full and the command was dropped.
func (p *Port) Inject(line string) bool {
	select {
	case p.lines <- line:
		return true
	default:
		return false
	}
}

// Done is closed when the stream has been read to the end or failed.
func (p *Port) Done() <-chan struct{} {
	return p.done
}

// Err returns the read error once Done is closed. End of stream is not an error.
func (p *Port) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Write sends raw bytes on the echo channel; it lets a Port be used as the
// generator's echo writer.
func (p *Port) Write(b []byte) (int, error) {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.w.Write(b)
}

// Println writes one echo line.
func (p *Port) Println(a ...any) {
	fmt.Fprintln(p, a...)
}

// splitCommands returns a split function for '\n' or '\r' terminated lines
// that drops empty lines, so CRLF, bare CR and bare LF terminators all work.
// Lines longer than maxLen are discarded without growing the scan buffer.
func splitCommands(maxLen int) bufio.SplitFunc {
	discarding := false
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		start := 0
		for start < len(data) && (data[start] == '\n' || data[start] == '\r') {
			start++
		}
		if i := bytes.IndexAny(data[start:], "\r\n"); i >= 0 {
			if discarding || i > maxLen {
				discarding = false
				return start + i + 1, nil, nil
			}
			return start + i + 1, data[start : start+i], nil
		}
		if discarding || len(data)-start > maxLen {
			discarding = !atEOF
			return len(data), nil, nil
		}
		if atEOF {
			if start < len(data) {
				return len(data), data[start:], nil
			}
			return len(data), nil, nil
		}
		// request more data, skipping the terminators already seen
		return start, nil, nil
	}
}
