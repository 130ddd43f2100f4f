package funcgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveformString(t *testing.T) {
	testCases := map[Waveform]string{
		Sine:         "Sine",
		Square:       "Square",
		Triangle:     "Triangle",
		Sawtooth:     "Sawtooth",
		Waveform(4):  "Waveform(4)",
		Waveform(-1): "Waveform(-1)",
	}
	for w, expected := range testCases {
		assert.Equal(t, expected, w.String())
	}
}

func TestWaveformShape(t *testing.T) {
	for w := Sine; w <= Sawtooth; w++ {
		assert.True(t, w.Valid())
		assert.NotNil(t, w.Shape(), w.String())
	}
	assert.False(t, Waveform(4).Valid())
	assert.Nil(t, Waveform(4).Shape())
}

func TestParseWaveform(t *testing.T) {
	testCases := map[string]Waveform{
		"sine":     Sine,
		"SQUARE":   Square,
		"Triangle": Triangle,
		"sawtooth": Sawtooth,
		"0":        Sine,
		"3":        Sawtooth,
	}
	for s, expected := range testCases {
		w, err := ParseWaveform(s)
		require.NoError(t, err, s)
		assert.Equal(t, expected, w, s)
	}

	for _, s := range []string{"", "4", "-1", "noise", "1.0"} {
		_, err := ParseWaveform(s)
		assert.Error(t, err, s)
	}
}

func TestWaveformText(t *testing.T) {
	text, err := Triangle.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Triangle", string(text))

	var w Waveform
	require.NoError(t, w.UnmarshalText(text))
	assert.Equal(t, Triangle, w)

	_, err = Waveform(9).MarshalText()
	assert.EqualError(t, err, "unknown waveform: 9")

	w = Square
	assert.EqualError(t, w.UnmarshalText([]byte("pulse")), `unknown waveform: "pulse"`)
	assert.Equal(t, Square, w)
}
