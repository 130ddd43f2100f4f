package funcgen

// Field identifies a parameter carried by an Update.
type Field uint8

const (
	FieldFrequency Field = 1 << iota
	FieldAmplitude
	FieldWaveform
)

// Update is a request to change some of the parameters. Only the fields
// flagged in Fields are meaningful.
type Update struct {
	Fields    Field
	Frequency float64
	Amplitude float64
	Waveform  Waveform
}

// Has reports whether f is set in u.
func (u Update) Has(f Field) bool {
	return u.Fields&f != 0
}

// Empty reports whether u carries no fields.
func (u Update) Empty() bool {
	return u.Fields == 0
}

func (u Update) WithFrequency(f float64) Update {
	u.Fields |= FieldFrequency
	u.Frequency = f
	return u
}

func (u Update) WithAmplitude(a float64) Update {
	u.Fields |= FieldAmplitude
	u.Amplitude = a
	return u
}

func (u Update) WithWaveform(w Waveform) Update {
	u.Fields |= FieldWaveform
	u.Waveform = w
	return u
}

// Merge returns u with the fields of other layered on top.
func (u Update) Merge(other Update) Update {
	if other.Has(FieldFrequency) {
		u = u.WithFrequency(other.Frequency)
	}
	if other.Has(FieldAmplitude) {
		u = u.WithAmplitude(other.Amplitude)
	}
	if other.Has(FieldWaveform) {
		u = u.WithWaveform(other.Waveform)
	}
	return u
}

// Decoder turns one command line into an Update. Decode never fails: input
// it cannot use yields ok=false.
type Decoder interface {
	Decode(line string) (u Update, ok bool)
	// Status returns the lines echoed back after applied was committed.
	Status(applied Update, p Params) []string
}
