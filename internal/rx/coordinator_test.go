package rx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandi2382/openham-modes/internal/modem"
	"github.com/sandi2382/openham-modes/internal/rx"
	"github.com/sandi2382/openham-modes/internal/tx"
)

// Test_TX_RX_BPSK_RoundTrip checks that a TX'd message is recovered
// by an auto-detecting RX sweep.
func Test_TX_RX_BPSK_RoundTrip(t *testing.T) {
	cfg, err := modem.NewConfig(48000, 125, 1500)
	require.NoError(t, err)

	modulator, err := modem.NewBpskModulator(cfg)
	require.NoError(t, err)

	txCoord := tx.NewCoordinator(nil)
	result, err := txCoord.Run("Hello OpenHam", tx.Options{
		Modulator:  modulator,
		Callsign:   "N0CALL",
		SampleRate: 48000,
		Power:      1.0,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Samples)

	bpskDemod, err := modem.NewBpskDemodulator(cfg)
	require.NoError(t, err)
	fskDemod, err := modem.NewFskDemodulator(cfg)
	require.NoError(t, err)
	ofdmDemod, err := modem.NewOfdmDemodulator(modem.AmateurRadio64())
	require.NoError(t, err)

	demods := []modem.Demodulator{bpskDemod, fskDemod, ofdmDemod}

	rxCoord := rx.NewCoordinator(nil)
	messages, err := rxCoord.Run(result.Samples, rx.Options{Demodulators: demods})
	require.NoError(t, err)

	var found bool
	for _, m := range messages {
		if m.Demodulator == "bpsk" {
			assert.Equal(t, "Hello OpenHam", m.Text)
			found = true
		}
	}
	assert.True(t, found, "expected a bpsk message among %v", messages)
}

func Test_RX_NoMessages_ReturnsEmptyNotError(t *testing.T) {
	cfg, err := modem.NewConfig(48000, 125, 1500)
	require.NoError(t, err)

	bpskDemod, err := modem.NewBpskDemodulator(cfg)
	require.NoError(t, err)

	rxCoord := rx.NewCoordinator(nil)
	messages, err := rxCoord.Run(nil, rx.Options{Demodulators: []modem.Demodulator{bpskDemod}})
	require.NoError(t, err)
	assert.Empty(t, messages)
}
