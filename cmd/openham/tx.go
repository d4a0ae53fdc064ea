package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/sandi2382/openham-modes/internal/audio"
	"github.com/sandi2382/openham-modes/internal/config"
	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/fec"
	"github.com/sandi2382/openham-modes/internal/tx"
)

func runTX(logger *log.Logger, args []string) error {
	fs := pflag.NewFlagSet("tx", pflag.ContinueOnError)
	out := fs.StringP("out", "o", "", "output WAV file (required)")
	text := fs.StringP("text", "t", "", "literal text to transmit")
	file := fs.StringP("file", "f", "", "file whose contents to transmit")
	callsign := fs.StringP("callsign", "c", "", "station callsign for the CW preamble")
	mode := fs.StringP("mode", "m", "bpsk", "modulation: bpsk|fsk|ofdm")
	sampleRate := fs.Float64("sample-rate", 48000, "audio sample rate in Hz")
	symbolRate := fs.Float64("symbol-rate", 125, "symbol rate in baud")
	carrierHz := fs.Float64("carrier", 1500, "carrier frequency in Hz")
	useFEC := fs.Bool("fec", false, "enable Reed-Solomon payload FEC")
	power := fs.Float64("power", 1.0, "linear output power scale, 0..1")
	pink := fs.Bool("pink-noise", false, "prepend a pink-noise squelch trigger")
	voiceID := fs.String("voice-id", "", "WAV clip to append as a voice ID")
	configPath := fs.String("config", "", "optional JSON defaults file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	defaults, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if !fs.Changed("callsign") && defaults.Callsign != "" {
		*callsign = defaults.Callsign
	}
	if !fs.Changed("power") && defaults.Power != 0 {
		*power = defaults.Power
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

	if *out == "" {
		return core.NewError(core.KindInvalidParameters, "runTX", nil)
	}

	body := *text
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return core.NewError(core.KindEncodingFailed, "runTX", err)
		}
		body = string(data)
	}

	modulator, err := buildModulator(*mode, rateFlags{SampleRate: *sampleRate, SymbolRate: *symbolRate, CarrierFreqHz: *carrierHz})
	if err != nil {
		return err
	}

	var rs *fec.RSEncoder
	if *useFEC {
		rs, err = fec.NewRSEncoder()
		if err != nil {
			return err
		}
	}

	coord := tx.NewCoordinator(logger)
	result, err := coord.Run(body, tx.Options{
		Modulator:       modulator,
		Callsign:        *callsign,
		Mode:            *mode,
		CarrierFreqHz:   *carrierHz,
		EnablePinkNoise: *pink,
		SampleRate:      *sampleRate,
		VoiceIDPath:     *voiceID,
		FEC:             rs,
		Power:           *power,
	})
	if err != nil {
		return err
	}

	if err := audio.WriteWAV(*out, result.Samples, int(*sampleRate)); err != nil {
		return err
	}

	logger.Info("transmission written", "out", *out, "samples", result.SampleCount)
	return nil
}
