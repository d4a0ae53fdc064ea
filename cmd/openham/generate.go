package main

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/sandi2382/openham-modes/internal/audio"
	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/cw"
	"github.com/sandi2382/openham-modes/internal/noise"
)

func runGenerate(logger *log.Logger, args []string) error {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	out := fs.StringP("out", "o", "", "output WAV file (required)")
	signal := fs.StringP("signal", "s", "sine", "signal: sine|noise|sweep|morse")
	freq := fs.Float64P("freq", "f", 1000, "tone/sweep-start frequency in Hz")
	duration := fs.Float64P("duration", "d", 2.0, "duration in seconds")
	sampleRate := fs.Float64("sample-rate", 48000, "audio sample rate in Hz")
	text := fs.String("text", "CQ CQ DE TEST", "text to key for the morse signal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		return core.NewError(core.KindInvalidParameters, "runGenerate", nil)
	}

	n := int(*duration * *sampleRate)
	var real []float64

	switch *signal {
	case "sine":
		real = make([]float64, n)
		for i := range real {
			real[i] = math.Sin(2 * math.Pi * *freq * float64(i) / *sampleRate)
		}
	case "noise":
		gen := noise.NewGenerator(1)
		real = gen.Burst(n, 1.0)
	case "sweep":
		real = make([]float64, n)
		endFreq := *freq * 4
		phase := 0.0
		for i := range real {
			t := float64(i) / *sampleRate
			instFreq := *freq + (endFreq-*freq)*t/ *duration
			real[i] = math.Sin(phase)
			phase += 2 * math.Pi * instFreq / *sampleRate
		}
	case "morse":
		gen := cw.NewGenerator(cw.NewConfig(20, *freq, *sampleRate))
		real = gen.GenerateText(*text)
	default:
		return core.NewError(core.KindInvalidParameters, "runGenerate", nil)
	}

	samples := make([]core.Complex, len(real))
	for i, v := range real {
		samples[i] = core.Complex{Real: v}
	}

	if err := audio.WriteWAV(*out, samples, int(*sampleRate)); err != nil {
		return err
	}
	logger.Info("test signal written", "out", *out, "signal", *signal, "samples", len(samples))
	return nil
}
