package main

import (
	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/modem"
)

// rateFlags holds the sample/symbol-rate and carrier-frequency flags
// shared by the tx and rx subcommands.
type rateFlags struct {
	SampleRate    float64
	SymbolRate    float64
	CarrierFreqHz float64
}

func buildModulator(mode string, rf rateFlags) (modem.Modulator, error) {
	cfg, err := modem.NewConfig(rf.SampleRate, rf.SymbolRate, rf.CarrierFreqHz)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "bpsk":
		return modem.NewBpskModulator(cfg)
	case "fsk":
		return modem.NewFskModulator(cfg)
	case "ofdm":
		return modem.NewOfdmModulator(modem.AmateurRadio64())
	default:
		return nil, core.NewError(core.KindInvalidParameters, "buildModulator", nil)
	}
}

func buildDemodulator(mode string, rf rateFlags) (modem.Demodulator, error) {
	cfg, err := modem.NewConfig(rf.SampleRate, rf.SymbolRate, rf.CarrierFreqHz)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "bpsk":
		return modem.NewBpskDemodulator(cfg)
	case "fsk":
		return modem.NewFskDemodulator(cfg)
	case "ofdm":
		return modem.NewOfdmDemodulator(modem.AmateurRadio64())
	default:
		return nil, core.NewError(core.KindInvalidParameters, "buildDemodulator", nil)
	}
}
