package command_test

import (
	"strconv"
	"testing"

	"github.com/synaptecltd/funcgen"
	"github.com/synaptecltd/funcgen/command"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestNew(t *testing.T) {
	d, err := command.New(funcgen.EncodingCompact)
	assert.NilError(t, err)
	assert.Equal(t, d, funcgen.Decoder(command.Compact{}))

	d, err = command.New(funcgen.EncodingStructured)
	assert.NilError(t, err)
	assert.Equal(t, d, funcgen.Decoder(command.Structured{}))

	_, err = command.New("morse")
	assert.ErrorContains(t, err, "unknown encoding")
}

func TestCompactDecode(t *testing.T) {
	testCases := []struct {
		line     string
		expected funcgen.Update
		ok       bool
	}{
		{line: "1000", expected: funcgen.Update{}.WithFrequency(1000), ok: true},
		{line: "1", expected: funcgen.Update{}.WithFrequency(1), ok: true},
		{line: "4999", expected: funcgen.Update{}.WithFrequency(4999), ok: true},
		{line: " 440\r", expected: funcgen.Update{}.WithFrequency(440), ok: true},
		{line: "5000", expected: funcgen.Update{}.WithAmplitude(0), ok: true},
		{line: "5017", expected: funcgen.Update{}.WithAmplitude(1.7), ok: true},
		{line: "5033", expected: funcgen.Update{}.WithAmplitude(3.3), ok: true},
		{line: "9000", expected: funcgen.Update{}.WithWaveform(funcgen.Sine), ok: true},
		{line: "9002", expected: funcgen.Update{}.WithWaveform(funcgen.Triangle), ok: true},
		{line: "9003", expected: funcgen.Update{}.WithWaveform(funcgen.Sawtooth), ok: true},
		{line: "0"},
		{line: "-5"},
		{line: "5034"},
		{line: "8999"},
		{line: "9004"},
		{line: ""},
		{line: "abc"},
		{line: "1000abc"},
		{line: "10.5"},
		{line: "99999999999999999999999"},
	}

	for _, tc := range testCases {
		t.Run(strconv.Quote(tc.line), func(t *testing.T) {
			u, ok := command.Compact{}.Decode(tc.line)
			assert.Equal(t, ok, tc.ok)
			assert.DeepEqual(t, u, tc.expected)
		})
	}
}

// Every integer outside the three command ranges decodes to nothing.
func TestCompactOutOfRange(t *testing.T) {
	for n := -100; n <= 10000; n++ {
		inRange := (n >= 1 && n <= 4999) || (n >= 5000 && n <= 5033) || (n >= 9000 && n <= 9003)
		_, ok := command.Compact{}.Decode(strconv.Itoa(n))
		assert.Equal(t, ok, inRange, "command %d", n)
	}
}

func TestCompactStatus(t *testing.T) {
	p := funcgen.Params{Frequency: 1000, Amplitude: 1.7, Waveform: funcgen.Triangle}
	c := command.Compact{}

	assert.DeepEqual(t, c.Status(funcgen.Update{}.WithFrequency(1000), p), []string{"Freq: 1000.00"})
	assert.DeepEqual(t, c.Status(funcgen.Update{}.WithAmplitude(1.7), p), []string{"Amp: 1.70"})
	assert.DeepEqual(t, c.Status(funcgen.Update{}.WithWaveform(funcgen.Triangle), p), []string{"Wave: Triangle"})
	assert.Check(t, is.Len(c.Status(funcgen.Update{}, p), 0))
}

func TestStructuredDecode(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected funcgen.Update
		ok       bool
	}{
		{
			name:     "all fields",
			line:     "F:2000,A:1.65,W:1",
			expected: funcgen.Update{}.WithFrequency(2000).WithAmplitude(1.65).WithWaveform(funcgen.Square),
			ok:       true,
		},
		{
			name:     "any order",
			line:     "W:3,F:50.5",
			expected: funcgen.Update{}.WithFrequency(50.5).WithWaveform(funcgen.Sawtooth),
			ok:       true,
		},
		{
			name:     "single field",
			line:     "A:0",
			expected: funcgen.Update{}.WithAmplitude(0),
			ok:       true,
		},
		{
			name:     "blanks and lower case keys",
			line:     " f : 10000 , a: 3.3 ",
			expected: funcgen.Update{}.WithFrequency(10000).WithAmplitude(3.3),
			ok:       true,
		},
		{
			name: "frequency above bound",
			line: "F:20000",
		},
		{
			name: "frequency zero",
			line: "F:0",
		},
		{
			name:     "malformed field skipped",
			line:     "F:fast,A:2.5,W:x",
			expected: funcgen.Update{}.WithAmplitude(2.5),
			ok:       true,
		},
		{
			name:     "out of range fields skipped",
			line:     "F:1000,A:3.4,W:4",
			expected: funcgen.Update{}.WithFrequency(1000),
			ok:       true,
		},
		{
			name:     "last valid repeat wins",
			line:     "F:100,F:200,F:-1",
			expected: funcgen.Update{}.WithFrequency(200),
			ok:       true,
		},
		{
			name: "nan",
			line: "F:NaN,A:NaN",
		},
		{
			name: "no fields",
			line: "hello",
		},
		{
			name: "empty",
			line: "",
		},
		{
			name: "unknown key",
			line: "X:1",
		},
		{
			name: "waveform not an integer",
			line: "W:1.5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, ok := command.Structured{}.Decode(tc.line)
			assert.Equal(t, ok, tc.ok)
			assert.DeepEqual(t, u, tc.expected)
		})
	}
}

func TestStructuredStatus(t *testing.T) {
	s := command.Structured{}
	p := funcgen.DefaultParams()
	assert.DeepEqual(t, s.Status(funcgen.Update{}.WithFrequency(2000), p), []string{"OK"})
	assert.Check(t, is.Len(s.Status(funcgen.Update{}, p), 0))
}

func TestHelp(t *testing.T) {
	assert.Check(t, len(command.Help(funcgen.EncodingCompact)) > 0)
	assert.Check(t, len(command.Help(funcgen.EncodingStructured)) > 0)
	assert.Check(t, is.Nil(command.Help("morse")))
}
