package modem

import "github.com/sandi2382/openham-modes/internal/core"

// stubDemodulator satisfies Demodulator for modes the RX demodulator
// list declares but does not yet implement: QPSK, 16-QAM and AFSK.
// Grounded on the original's own declared-but-unimplemented mode list
// (original_source/crates/core/src/lib.rs enumerates these three
// alongside BPSK/FSK/OFDM without a working decoder); kept as
// explicit stubs here rather than omitted so the RX coordinator's
// demodulator list shape matches the original one-for-one.
type stubDemodulator struct {
	name string
}

func NewQpskDemodulator() Demodulator  { return &stubDemodulator{name: "qpsk"} }
func NewQam16Demodulator() Demodulator { return &stubDemodulator{name: "16qam"} }
func NewAfskDemodulator() Demodulator  { return &stubDemodulator{name: "afsk"} }

func (s *stubDemodulator) Name() string { return s.name }

func (s *stubDemodulator) Demodulate(samples []core.Complex) ([]byte, error) {
	return nil, core.NewError(core.KindDemodulationFailed, "stubDemodulator.Demodulate", nil)
}

func (s *stubDemodulator) IsSynchronized() bool { return false }

func (s *stubDemodulator) SignalQuality() SignalQuality { return SignalQuality{} }

func (s *stubDemodulator) Reset() {}
