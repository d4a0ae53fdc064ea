package cw

import (
	"fmt"
	"math"
)

// Config holds Morse timing: words-per-minute rate, tone frequency,
// sample rate and the keying envelope's rise/fall time. Character and
// word spacing are expressed in dot-lengths per the standard
// convention (3 and 7 respectively).
type Config struct {
	WPM              uint32
	ToneFrequency    float64
	SampleRate       float64
	RiseFallTimeMs   float64
	CharacterSpacing float64
	WordSpacing      float64
}

// NewConfig builds the standard configuration: 5ms rise/fall, 3 dot
// lengths between characters, 7 between words.
func NewConfig(wpm uint32, toneFrequency, sampleRate float64) Config {
	return Config{
		WPM:              wpm,
		ToneFrequency:    toneFrequency,
		SampleRate:       sampleRate,
		RiseFallTimeMs:   5.0,
		CharacterSpacing: 3.0,
		WordSpacing:      7.0,
	}
}

// DotLengthSeconds is the standard formula dot = 1.2 / wpm.
func (c Config) DotLengthSeconds() float64 { return 1.2 / float64(c.WPM) }

// DashLengthSeconds is three dot lengths.
func (c Config) DashLengthSeconds() float64 { return 3.0 * c.DotLengthSeconds() }

// ElementSpacingSeconds is one dot length.
func (c Config) ElementSpacingSeconds() float64 { return c.DotLengthSeconds() }

// CharacterSpacingSeconds is CharacterSpacing dot lengths.
func (c Config) CharacterSpacingSeconds() float64 {
	return c.CharacterSpacing * c.DotLengthSeconds()
}

// WordSpacingSeconds is WordSpacing dot lengths.
func (c Config) WordSpacingSeconds() float64 {
	return c.WordSpacing * c.DotLengthSeconds()
}

// Generator renders Morse element sequences as real-valued audio
// samples at the configured sample rate, with a linear-ramp envelope
// at both edges of every tone to avoid keying clicks.
type Generator struct {
	config Config
}

func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

// GenerateAudio renders a flat element sequence to samples. A
// continuous phase accumulator runs across every element so adjacent
// tones at the same frequency never click from a phase jump; it wraps
// modulo sample rate to avoid unbounded growth.
func (g *Generator) GenerateAudio(elements []Element) []float64 {
	var samples []float64
	phase := 0.0

	for _, el := range elements {
		duration, isTone := g.elementTiming(el)
		numSamples := int(duration * g.config.SampleRate)
		riseFallSamples := int(g.config.RiseFallTimeMs * 0.001 * g.config.SampleRate)

		for i := 0; i < numSamples; i++ {
			amplitude := 0.0
			if isTone {
				amplitude = 1.0
				if riseFallSamples > 0 {
					if i < riseFallSamples {
						amplitude *= float64(i) / float64(riseFallSamples)
					} else if i >= numSamples-riseFallSamples {
						fallProgress := float64(numSamples-1-i) / float64(riseFallSamples)
						amplitude *= fallProgress
					}
				}
			}

			sample := 0.0
			if isTone {
				sample = amplitude * math.Sin(2.0*math.Pi*g.config.ToneFrequency*phase/g.config.SampleRate)
			}
			samples = append(samples, sample)

			phase++
			if phase >= g.config.SampleRate {
				phase -= g.config.SampleRate
			}
		}
	}
	return samples
}

func (g *Generator) elementTiming(el Element) (duration float64, isTone bool) {
	switch el {
	case Dot:
		return g.config.DotLengthSeconds(), true
	case Dash:
		return g.config.DashLengthSeconds(), true
	case ElementSpace:
		return g.config.ElementSpacingSeconds(), false
	case CharacterSpace:
		return g.config.CharacterSpacingSeconds(), false
	case WordSpace:
		return g.config.WordSpacingSeconds(), false
	default:
		return 0, false
	}
}

// GenerateText renders text directly to audio via TextToMorse.
func (g *Generator) GenerateText(text string) []float64 {
	return g.GenerateAudio(TextToMorse(text))
}

// GeneratePreamble composes the standard amateur-radio CW preamble:
// "KA KA DE <callsign> [mode] [frequency] AC AR", with frequency
// rendered as NNN.NNN MHZ / NNN.N KHZ / NNN HZ depending on
// magnitude. frequencyHz of 0 omits the frequency clause.
func (g *Generator) GeneratePreamble(callsign, mode string, frequencyHz float64) []float64 {
	text := "^^ "
	text += fmt.Sprintf("DE %s ", callsign)
	if mode != "" {
		text += mode + " "
	}
	if frequencyHz != 0 {
		text += formatFrequency(frequencyHz) + " "
	}
	text += "@ +"
	return g.GenerateText(text)
}

func formatFrequency(freqHz float64) string {
	switch {
	case freqHz >= 1_000_000:
		return fmt.Sprintf("%.3f MHZ", freqHz/1_000_000)
	case freqHz >= 1_000:
		return fmt.Sprintf("%.1f KHZ", freqHz/1_000)
	default:
		return fmt.Sprintf("%.0f HZ", freqHz)
	}
}
