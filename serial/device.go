package serial

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Device is a tty opened for commands, such as a USB serial adapter or a
// paired Bluetooth serial port.
type Device struct {
	*os.File
	oldState *term.State
}

// OpenDevice opens path read/write. A tty is switched to raw mode so the line
// discipline neither echoes nor rewrites the commands; other files (pipes,
// fifos) are used as they are.
func OpenDevice(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	d := &Device{File: f}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("setting raw mode on %s: %w", path, err)
		}
		d.oldState = state
	}
	return d, nil
}

// Close restores the tty mode and closes the file. The file is closed even
// when the mode cannot be restored.
func (d *Device) Close() error {
	var restoreErr error
	if d.oldState != nil {
		if err := term.Restore(int(d.File.Fd()), d.oldState); err != nil {
			restoreErr = fmt.Errorf("restoring mode of %s: %w", d.Name(), err)
		}
		d.oldState = nil
	}
	return errors.Join(restoreErr, d.File.Close())
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
