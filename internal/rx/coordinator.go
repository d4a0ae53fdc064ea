// Package rx composes the receive signal chain: a fixed-order sweep
// of demodulators over the same captured sample buffer, frame sync
// recovery, optional Reed-Solomon decode, and payload decode.
// Grounded on the receive-side dispatch loop of
// internal/protocol/session.go, generalized from a single fixed
// demodulator to a declared demodulator list and adapted to a
// one-shot, buffer-in-messages-out coordinator rather than a live
// session.
package rx

import (
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/sandi2382/openham-modes/internal/codec"
	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/fec"
	"github.com/sandi2382/openham-modes/internal/frame"
	"github.com/sandi2382/openham-modes/internal/modem"
)

// Message is one successfully decoded frame payload, tagged with the
// demodulator that produced it.
type Message struct {
	Demodulator string
	Text        string
}

// Options configures one RX run.
type Options struct {
	Demodulators []modem.Demodulator // build with DefaultDemodulators for the declared fixed-order list
	FEC          *fec.RSEncoder      // non-nil attempts Reed-Solomon decode before text decode
	Logger       *log.Logger
}

// Coordinator sweeps a fixed-order demodulator list over one capture.
type Coordinator struct {
	logger *log.Logger
}

func NewCoordinator(logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{logger: logger}
}

// DefaultDemodulators builds the declared auto-detect list: BPSK,
// FSK, OFDM fully implemented, then QPSK/16-QAM/AFSK stubs that fail
// immediately. The order is fixed so repeated runs over the same
// capture are deterministic.
func DefaultDemodulators(cfg modem.Config, ofdmCfg modem.OfdmConfig) ([]modem.Demodulator, error) {
	bpsk, err := modem.NewBpskDemodulator(cfg)
	if err != nil {
		return nil, err
	}
	fsk, err := modem.NewFskDemodulator(cfg)
	if err != nil {
		return nil, err
	}
	ofdm, err := modem.NewOfdmDemodulator(ofdmCfg)
	if err != nil {
		return nil, err
	}
	return []modem.Demodulator{
		bpsk,
		fsk,
		ofdm,
		modem.NewQpskDemodulator(),
		modem.NewQam16Demodulator(),
		modem.NewAfskDemodulator(),
	}, nil
}

// Run demodulates samples with every configured demodulator in
// order, discarding all per-demodulator failures silently: a capture
// with no recoverable frame in any mode yields zero messages and a
// nil error, never a fatal error, matching a receiver that simply
// heard nothing it understood.
func (c *Coordinator) Run(samples []core.Complex, opts Options) ([]Message, error) {
	demods := opts.Demodulators
	var messages []Message

	for _, d := range demods {
		d.Reset()
		bits, err := d.Demodulate(samples)
		if err != nil {
			c.logger.Debug("demodulator failed", "demod", d.Name(), "err", err)
			continue
		}

		text, ok := c.recoverMessage(bits, opts)
		if !ok {
			continue
		}

		c.logger.Info("message decoded", "demod", d.Name())
		messages = append(messages, Message{Demodulator: d.Name(), Text: text})
	}

	return messages, nil
}

// recoverMessage runs frame sync search, checksum validation (with
// one retry against the bitwise-inverted stream for polarity
// ambiguity), optional Reed-Solomon decode, and payload decode.
func (c *Coordinator) recoverMessage(bits []byte, opts Options) (string, bool) {
	post, ok := frame.Search(bits)
	if !ok {
		return "", false
	}

	f, err := frame.FromBytes(post)
	if err != nil {
		inverted := invertBytes(post)
		f, err = frame.FromBytes(inverted)
		if err != nil {
			return "", false
		}
	}

	payload := f.Payload
	if opts.FEC != nil {
		decoded, err := opts.FEC.DecodePayload(payload)
		if err != nil {
			return "", false
		}
		payload = decoded
	}

	return c.decodePayload(payload, f.Header)
}

// decodePayload tries the Huffman codec when the frame's compressed
// flag is set, otherwise valid UTF-8 text, falling back to a hex dump
// so no successfully-synced frame is silently dropped for want of a
// text encoding.
func (c *Coordinator) decodePayload(payload []byte, h frame.Header) (string, bool) {
	if h.Flags&frame.FlagCompressed != 0 {
		huff := codec.NewEnglishHuffmanCodec()
		if text, err := huff.Decode(payload); err == nil {
			return text, true
		}
	}

	if utf8.Valid(payload) {
		ascii := codec.NewAsciiCodec()
		if text, err := ascii.Decode(payload); err == nil {
			return text, true
		}
		return string(payload), true
	}

	return fmt.Sprintf("hex:%s", hex.EncodeToString(payload)), true
}

func invertBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[i] = ^v
	}
	return out
}
