// Package config loads optional JSON defaults for the CLI's
// rate/power/callsign flags. Flags parsed after a config file always
// win; the file only seeds values a user didn't pass explicitly.
// Grounded on the encoding/json usage pattern for HTTP request/
// response bodies (internal/server/handlers.go, since dropped per
// the CLI-only Non-goal) — the same library, applied here to a
// config file instead of an HTTP payload.
package config

import (
	"encoding/json"
	"os"

	"github.com/sandi2382/openham-modes/internal/core"
)

// Defaults holds the subset of CLI flags a config file may seed.
// Zero values mean "not specified" and are left for flag defaults.
type Defaults struct {
	SampleRate    float64 `json:"sample_rate"`
	SymbolRate    float64 `json:"symbol_rate"`
	CarrierFreqHz float64 `json:"carrier_freq_hz"`
	Power         float64 `json:"power"`
	Callsign      string  `json:"callsign"`
	FEC           bool    `json:"fec"`
}

// Load reads and parses a JSON defaults file. A missing file is not
// an error — it simply yields zero-value Defaults, since the config
// file itself is always optional.
func Load(path string) (Defaults, error) {
	var d Defaults
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, core.NewError(core.KindDecodingFailed, "config.Load", err)
	}

	if err := json.Unmarshal(data, &d); err != nil {
		return d, core.NewError(core.KindDecodingFailed, "config.Load", err)
	}
	return d, nil
}
