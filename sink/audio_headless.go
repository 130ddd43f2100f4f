//go:build headless

package sink

import (
	"errors"

	"github.com/synaptecltd/funcgen"
)

// Audio is unavailable in headless builds.
type Audio struct{}

func NewAudio(sampleRate int, maxSample funcgen.Sample) (*Audio, error) {
	return nil, errors.New("audio output not available in headless build")
}

func (a *Audio) Emit(funcgen.Sample) {}

func (a *Audio) Close() error { return nil }
