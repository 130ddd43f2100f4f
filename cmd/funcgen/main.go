// Command funcgen runs the waveform generator on a host.
//
// Usage:
//
//	funcgen [flags]
//
// Commands are read from -device, or from stdin when no device is given, and
// status lines are echoed back on the same channel. Samples go to the files
// and devices selected by the flags.
//
// Examples:
//
//	funcgen -device /dev/rfcomm0 -out /dev/spidev0.0
//	funcgen -audio -rate 48000
//	funcgen -render 48000 -rate 48000 -cmd 9001 -cmd 440 -analyze -out square.raw
//	funcgen -config bench.yaml -script sweep.lua -audio
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/synaptecltd/funcgen"
	"github.com/synaptecltd/funcgen/analysis"
	"github.com/synaptecltd/funcgen/command"
	"github.com/synaptecltd/funcgen/script"
	"github.com/synaptecltd/funcgen/serial"
	"github.com/synaptecltd/funcgen/sink"
)

const defaultAudioRate = 48000

// lines collects repeated -cmd flags.
type lines []string

func (l *lines) String() string { return strings.Join(*l, ";") }

func (l *lines) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("funcgen: ")

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {
	var cmds lines
	var (
		configPath = flag.String("config", "", "yaml configuration file")
		device     = flag.String("device", "", "serial device for commands, stdin if empty")
		encoding   = flag.String("encoding", "", "command encoding, compact or structured (overrides config)")
		out        = flag.String("out", "", "file or device receiving raw DAC codes")
		audio      = flag.Bool("audio", false, "play the output on the default sound device")
		rate       = flag.Float64("rate", 0, "sample rate in Hz (overrides config)")
		scriptPath = flag.String("script", "", "Lua script that sends commands")
		render     = flag.Int("render", 0, "render this many samples at -rate and exit")
		analyze    = flag.Bool("analyze", false, "with -render, print the dominant frequency")
		verbose    = flag.Bool("v", false, "log accepted and ignored commands")
	)
	flag.Var(&cmds, "cmd", "command applied before rendering, repeatable")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *encoding != "" {
		if err := cfg.Encoding.UnmarshalText([]byte(*encoding)); err != nil {
			return err
		}
	}
	if *rate > 0 {
		cfg.SampleRate = *rate
	}
	if *audio && cfg.SampleRate == 0 {
		cfg.SampleRate = defaultAudioRate
	}

	decoder, err := command.New(cfg.Encoding)
	if err != nil {
		return err
	}

	var sinks sink.Multi
	var outWriter *sink.Writer
	if *out != "" {
		f, cerr := os.Create(*out)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		outWriter = sink.NewWriter(f, cfg.Output.MaxSample)
		sinks = append(sinks, outWriter)
	}
	if *audio {
		a, aerr := sink.NewAudio(int(cfg.SampleRate), cfg.Output.MaxSample)
		if aerr != nil {
			return aerr
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		sinks = append(sinks, a)
	}

	gen, err := funcgen.NewGenerator(cfg, decoder, sinks)
	if err != nil {
		return err
	}
	if *verbose {
		gen.SetLogger(log.Default())
		gen.SetDiagnostics(os.Stderr)
	}
	log.Printf("generator %s, %s encoding, %d programs", gen.ID, cfg.Encoding, len(gen.Programs()))

	if *render > 0 {
		err = renderOnly(gen, cfg, cmds, *render, *analyze)
	} else {
		err = serve(gen, cfg, *device, *scriptPath)
	}
	if outWriter != nil {
		if ferr := outWriter.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}

func loadConfig(path string) (*funcgen.Config, error) {
	if path == "" {
		cfg := funcgen.DefaultConfig()
		return cfg, cfg.Validate()
	}
	return funcgen.LoadConfigFile(path)
}

func renderOnly(gen *funcgen.Generator, cfg *funcgen.Config, cmds lines, n int, analyze bool) error {
	if cfg.SampleRate <= 0 {
		return errors.New("rendering needs a sample rate, set -rate or sample_rate")
	}
	for _, c := range cmds {
		if _, ok := gen.HandleCommand(c); !ok {
			log.Printf("command %q ignored", c)
		}
	}
	fmt.Fprintln(os.Stderr, gen.Settings())

	samples := gen.Render(n, cfg.SampleRate)
	if !analyze {
		return nil
	}
	f, err := analysis.DominantFrequency(samples, cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("analysing output: %w", err)
	}
	fmt.Printf("dominant frequency: %.2f Hz\n", f)
	return nil
}

func serve(gen *funcgen.Generator, cfg *funcgen.Config, device, scriptPath string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var r io.Reader = os.Stdin
	var w io.Writer = os.Stdout
	terminal := serial.IsTerminal(os.Stdin)
	if device != "" {
		d, derr := serial.OpenDevice(device)
		if derr != nil {
			return derr
		}
		defer func() {
			if cerr := d.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		r, w = d, d
		terminal = serial.IsTerminal(d.File)
	}

	port := serial.NewPort(r, w, serial.DefaultQueue)
	gen.SetEcho(port)
	if cfg.Diagnostics {
		gen.SetDiagnostics(port)
	}

	if terminal {
		for _, line := range command.Help(cfg.Encoding) {
			port.Println(line)
		}
	}
	port.Println(gen.Settings())

	if scriptPath != "" {
		runner, err := script.NewRunner(port.Inject)
		if err != nil {
			return err
		}
		go func() {
			if err := runner.RunFile(ctx, scriptPath); err != nil && ctx.Err() == nil {
				log.Printf("script: %v", err)
				return
			}
			log.Printf("script: %d commands sent", runner.Sent())
		}()
	}

	if err := gen.Run(ctx, port, funcgen.NewMonotonicClock()); err != nil {
		return err
	}
	log.Printf("stopped")
	return port.Err()
}
