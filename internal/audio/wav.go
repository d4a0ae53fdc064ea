// Package audio provides the file-backed WAV sink and source this
// modem uses as its sole audio boundary: single-channel 16-bit
// signed little-endian PCM in, complex baseband samples out, and
// back. Grounded on the go-audio/wav + go-audio/audio dependency
// pair the ausocean-av example repo uses for its own WAV
// encode/decode path (internal/exp/flac/decode.go); this replaces
// live-device streaming over a real audio interface, which conflicts
// with the Non-goal that this system never touches a live audio
// device.
package audio

import (
	"os"

	audiopkg "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sandi2382/openham-modes/internal/core"
)

const (
	bitsPerSample = 16
	numChannels   = 1
	wavFormatPCM  = 1
)

// WriteWAV clamps each sample's real part to [-1, 1], scales by
// 32767 and truncates to a signed 16-bit value, then writes a
// single-channel PCM WAV file at sampleRate.
func WriteWAV(path string, samples []core.Complex, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return core.NewError(core.KindEncodingFailed, "WriteWAV", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitsPerSample, numChannels, wavFormatPCM)
	defer enc.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = clampToInt16(s.Real)
	}

	buf := &audiopkg.IntBuffer{
		Format:         &audiopkg.Format{NumChannels: numChannels, SampleRate: sampleRate},
		SourceBitDepth: bitsPerSample,
		Data:           data,
	}
	if err := enc.Write(buf); err != nil {
		return core.NewError(core.KindEncodingFailed, "WriteWAV", err)
	}
	return nil
}

func clampToInt16(v float64) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(v * 32767)
}

// ReadWAV decodes a single-channel 16-bit PCM WAV file into complex
// samples (imaginary part zero) and reports the file's sample rate.
func ReadWAV(path string) ([]core.Complex, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, core.NewError(core.KindDecodingFailed, "ReadWAV", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, core.NewError(core.KindDecodingFailed, "ReadWAV", err)
	}

	maxVal := float64(int(1) << (uint(buf.SourceBitDepth) - 1))
	samples := make([]core.Complex, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = core.Complex{Real: float64(v) / maxVal}
	}
	return samples, int(dec.SampleRate), nil
}
