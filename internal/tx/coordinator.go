// Package tx composes the transmit signal chain: an optional
// pink-noise squelch trigger, an optional CW callsign preamble, an
// optional voice-ID WAV clip, and the data transmission itself
// (text codec -> optional Reed-Solomon -> Frame -> sync preamble ->
// modulator), concatenated and power-scaled. Grounded on the
// composition style of internal/protocol/session.go
// (preprocess -> modulate -> transport), generalized from a live
// duplex session object to a one-shot buffer-producing coordinator
// per the Non-goal that this system never drives a live audio
// device.
package tx

import (
	"github.com/charmbracelet/log"

	"github.com/sandi2382/openham-modes/internal/audio"
	"github.com/sandi2382/openham-modes/internal/codec"
	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/cw"
	"github.com/sandi2382/openham-modes/internal/fec"
	"github.com/sandi2382/openham-modes/internal/frame"
	"github.com/sandi2382/openham-modes/internal/modem"
	"github.com/sandi2382/openham-modes/internal/noise"
)

// pinkBurstSeconds and pinkSilenceSeconds are the squelch-trigger
// burst and trailing-silence durations ahead of the CW preamble.
const (
	pinkBurstSeconds   = 0.5
	pinkAmplitude      = 0.10
	pinkSilenceSeconds = 0.1
)

// Options configures one TX run. Modulator must already be
// constructed for the desired mode (BPSK/FSK/OFDM); Codec defaults
// to a Huffman codec when nil.
type Options struct {
	Modulator modem.Modulator
	Codec     codec.TextCodec

	Callsign        string // non-empty enables the CW preamble
	Mode            string // informational, included in the CW preamble if non-empty
	CarrierFreqHz   float64
	EnablePinkNoise bool
	SampleRate      float64

	VoiceIDPath string // non-empty loads and appends a WAV clip via internal/audio

	FEC *fec.RSEncoder // non-nil enables Reed-Solomon payload coding

	Power float64 // final linear scale factor; 1.0 is unity, and 0 (unset) is treated as 1.0
	Seq   uint16

	Logger *log.Logger
}

// Result is the composed transmission.
type Result struct {
	Samples    []core.Complex
	SampleCount int
}

// Coordinator runs one TX composition per Run call; it holds no
// mutable state between runs.
type Coordinator struct {
	logger *log.Logger
}

func NewCoordinator(logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{logger: logger}
}

// Run composes pink-noise burst, CW preamble, voice ID, and the
// encoded data transmission (in that order), scales the result by
// opts.Power, and returns it. Any error aborts the whole
// transmission; TX errors are fatal, unlike RX's catch-and-discard
// policy.
func (c *Coordinator) Run(text string, opts Options) (*Result, error) {
	if opts.Codec == nil {
		opts.Codec = codec.NewEnglishHuffmanCodec()
	}
	if opts.Power == 0 {
		opts.Power = 1.0
	}

	var samples []core.Complex

	if opts.EnablePinkNoise {
		c.logger.Debug("emitting pink-noise squelch trigger")
		samples = append(samples, pinkBurst(opts.SampleRate)...)
	}

	if opts.Callsign != "" {
		c.logger.Debug("emitting CW preamble", "callsign", opts.Callsign)
		samples = append(samples, cwPreamble(opts)...)
	}

	if opts.VoiceIDPath != "" {
		voice, _, err := audio.ReadWAV(opts.VoiceIDPath)
		if err != nil {
			return nil, core.NewError(core.KindEncodingFailed, "tx.Coordinator.Run", err)
		}
		c.logger.Debug("appending voice ID clip", "path", opts.VoiceIDPath, "samples", len(voice))
		samples = append(samples, voice...)
	}

	dataSamples, err := c.encodeData(text, opts)
	if err != nil {
		return nil, err
	}
	samples = append(samples, dataSamples...)

	buf, err := core.NewSampleBuffer(samples, opts.SampleRate)
	if err != nil {
		return nil, err
	}
	buf.ScaleInPlace(opts.Power)

	c.logger.Info("transmission composed", "samples", buf.Len(), "power", opts.Power)
	return &Result{Samples: buf.Samples, SampleCount: buf.Len()}, nil
}

// encodeData runs the text -> payload -> (optional FEC) -> Frame ->
// preamble -> modulate pipeline.
func (c *Coordinator) encodeData(text string, opts Options) ([]core.Complex, error) {
	payload, err := opts.Codec.Encode(text)
	if err != nil {
		return nil, core.NewError(core.KindEncodingFailed, "tx.Coordinator.encodeData", err)
	}

	if opts.FEC != nil {
		payload, err = opts.FEC.EncodePayload(payload)
		if err != nil {
			return nil, err
		}
	}

	flags := frame.FlagNone
	if _, ok := opts.Codec.(*codec.HuffmanCodec); ok {
		flags = frame.FlagCompressed
	}
	f := frame.NewBuilder(frame.TypeData).Sequence(opts.Seq).Flags(flags).Build(payload)
	wire := frame.WithPreamble(f.ToBytes())

	samples, err := opts.Modulator.Modulate(wire)
	if err != nil {
		return nil, core.NewError(core.KindModulationFailed, "tx.Coordinator.encodeData", err)
	}
	return samples, nil
}

func pinkBurst(sampleRate float64) []core.Complex {
	gen := noise.NewGenerator(1)
	burstLen := int(pinkBurstSeconds * sampleRate)
	silenceLen := int(pinkSilenceSeconds * sampleRate)

	out := make([]core.Complex, 0, burstLen+silenceLen)
	for _, v := range gen.Burst(burstLen, pinkAmplitude) {
		out = append(out, core.Complex{Real: v})
	}
	for i := 0; i < silenceLen; i++ {
		out = append(out, core.Complex{})
	}
	return out
}

func cwPreamble(opts Options) []core.Complex {
	cfg := cw.NewConfig(20, 600.0, opts.SampleRate)
	gen := cw.NewGenerator(cfg)
	real := gen.GeneratePreamble(opts.Callsign, opts.Mode, opts.CarrierFreqHz)

	out := make([]core.Complex, len(real))
	for i, v := range real {
		out[i] = core.Complex{Real: v}
	}
	return out
}
