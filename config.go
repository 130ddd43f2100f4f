package funcgen

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/synaptecltd/funcgen/program"
	"gopkg.in/yaml.v2"
)

// Encoding names a command wire format.
type Encoding string

const (
	EncodingCompact    Encoding = "compact"    // single integer commands
	EncodingStructured Encoding = "structured" // F:<float>,A:<float>,W:<int>
)

func (e Encoding) Valid() bool {
	return e == EncodingCompact || e == EncodingStructured
}

// UnmarshalText lets yaml and mapstructure reject unknown encodings early.
func (e *Encoding) UnmarshalText(text []byte) error {
	enc := Encoding(text)
	if !enc.Valid() {
		return fmt.Errorf("unknown encoding: %q", string(text))
	}
	*e = enc
	return nil
}

// Config holds everything needed to build a Generator.
type Config struct {
	ID          uuid.UUID         `yaml:"id"`          // identifies this generator in echoes and logs, random if unset
	Encoding    Encoding          `yaml:"encoding"`    // command wire format
	Initial     Params            `yaml:"initial"`     // power-on parameters
	Limits      Limits            `yaml:"limits"`      // bounds enforced by the store
	Output      Output            `yaml:"output"`      // DAC range
	FastSine    bool              `yaml:"fast_sine"`   // use the table sine
	SampleRate  float64           `yaml:"sample_rate"` // samples per second the run loop is paced to, 0 runs free
	Diagnostics bool              `yaml:"diagnostics"` // report ignored commands
	Programs    program.Container `yaml:"programs"`    // parameter programs stepped with the engine
}

// DefaultConfig returns the configuration of the reference firmware.
func DefaultConfig() *Config {
	return &Config{
		Encoding: EncodingCompact,
		Initial:  DefaultParams(),
		Limits:   DefaultLimits(),
		Output:   DefaultOutput(),
	}
}

// Validate checks the configuration as NewGenerator would.
func (c *Config) Validate() error {
	if !c.Encoding.Valid() {
		return fmt.Errorf("unknown encoding: %q", c.Encoding)
	}
	if err := c.Output.validate(); err != nil {
		return err
	}
	if c.SampleRate < 0 || !isFinite(c.SampleRate) {
		return errors.New("sample rate must be zero or a positive number")
	}
	if c.Limits.MaxAmplitude > c.Output.SupplyVoltage {
		return fmt.Errorf("max amplitude %v exceeds supply voltage %v", c.Limits.MaxAmplitude, c.Output.SupplyVoltage)
	}
	_, err := NewStore(c.Limits, c.Initial)
	return err
}

// LoadConfig reads yaml over the defaults. Unknown keys are an error.
func LoadConfig(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := DefaultConfig()
	decoderConfig := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			sampleRangeHookFunc(),                   // mapstructure truncates out of range integers
			mapstructure.TextUnmarshallerHookFunc(), // parses uuids, waveforms and encodings
			program.GetDecodeHook(),                 // builds programs from their type field
		),
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      cfg,
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// sampleRangeHookFunc rejects numbers that do not fit a Sample.
func sampleRangeHookFunc() mapstructure.DecodeHookFuncType {
	sampleType := reflect.TypeOf(Sample(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != sampleType {
			return data, nil
		}
		v := reflect.ValueOf(data)
		var n float64
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n = float64(v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n = float64(v.Uint())
		case reflect.Float32, reflect.Float64:
			n = v.Float()
		default:
			return data, nil
		}
		if n < 0 || n > math.MaxUint16 {
			return nil, fmt.Errorf("%v outside 0..%d", data, math.MaxUint16)
		}
		return data, nil
	}
}

// LoadConfigFile reads the config at path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(data)
}
