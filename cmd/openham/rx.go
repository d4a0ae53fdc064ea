package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/sandi2382/openham-modes/internal/audio"
	"github.com/sandi2382/openham-modes/internal/config"
	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/fec"
	"github.com/sandi2382/openham-modes/internal/modem"
	"github.com/sandi2382/openham-modes/internal/rx"
)

func runRX(logger *log.Logger, args []string) error {
	fs := pflag.NewFlagSet("rx", pflag.ContinueOnError)
	in := fs.StringP("in", "i", "", "input WAV file (required)")
	out := fs.StringP("out", "o", "", "output text file; stdout if empty")
	mode := fs.StringP("mode", "m", "", "modulation: bpsk|fsk|ofdm (exclusive with --auto-detect)")
	autoDetect := fs.Bool("auto-detect", false, "sweep every supported demodulator")
	sampleRate := fs.Float64("sample-rate", 48000, "audio sample rate in Hz")
	symbolRate := fs.Float64("symbol-rate", 125, "symbol rate in baud")
	carrierHz := fs.Float64("carrier", 1500, "carrier frequency in Hz")
	useFEC := fs.Bool("fec", false, "attempt Reed-Solomon payload FEC decode")
	raw := fs.Bool("raw", false, "skip DC-removal/AGC front-end conditioning")
	configPath := fs.String("config", "", "optional JSON defaults file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	defaults, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if !fs.Changed("sample-rate") && defaults.SampleRate != 0 {
		*sampleRate = defaults.SampleRate
	}
	if !fs.Changed("symbol-rate") && defaults.SymbolRate != 0 {
		*symbolRate = defaults.SymbolRate
	}
	if !fs.Changed("carrier") && defaults.CarrierFreqHz != 0 {
		*carrierHz = defaults.CarrierFreqHz
	}
	if !fs.Changed("fec") && defaults.FEC {
		*useFEC = true
	}

	if *in == "" {
		return core.NewError(core.KindInvalidParameters, "runRX", nil)
	}
	if *mode == "" && !*autoDetect {
		*autoDetect = true
	}

	samples, sr, err := audio.ReadWAV(*in)
	if err != nil {
		return err
	}
	if !*raw {
		samples = modem.FrontEndCondition(samples)
	}
	// The WAV header is authoritative for sample rate; --sample-rate only
	// feeds the config-defaults override above, kept for symmetry with tx.
	rf := rateFlags{SampleRate: float64(sr), SymbolRate: *symbolRate, CarrierFreqHz: *carrierHz}

	var demods []modem.Demodulator
	if *autoDetect {
		demods, err = rx.DefaultDemodulators(
			func() modem.Config { c, _ := modem.NewConfig(rf.SampleRate, rf.SymbolRate, rf.CarrierFreqHz); return c }(),
			modem.AmateurRadio64(),
		)
		if err != nil {
			return err
		}
	} else {
		d, err := buildDemodulator(*mode, rf)
		if err != nil {
			return err
		}
		demods = []modem.Demodulator{d}
	}

	var rs *fec.RSEncoder
	if *useFEC {
		rs, err = fec.NewRSEncoder()
		if err != nil {
			return err
		}
	}

	coord := rx.NewCoordinator(logger)
	messages, err := coord.Run(samples, rx.Options{Demodulators: demods, FEC: rs})
	if err != nil {
		return err
	}

	var w *os.File
	if *out != "" {
		w, err = os.Create(*out)
		if err != nil {
			return core.NewError(core.KindEncodingFailed, "runRX", err)
		}
		defer w.Close()
	} else {
		w = os.Stdout
	}

	if len(messages) == 0 {
		logger.Info("No messages decoded")
		fmt.Fprintln(w, "No messages decoded")
		return nil
	}

	for _, m := range messages {
		fmt.Fprintf(w, "[%s] %s\n", m.Demodulator, m.Text)
	}
	return nil
}
