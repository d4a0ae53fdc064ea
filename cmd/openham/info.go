package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sandi2382/openham-modes/internal/version"
)

func runInfo(logger *log.Logger, args []string) error {
	fmt.Printf("%s %s\n", version.Name, version.String())
	fmt.Println("modes: bpsk, fsk, ofdm (qpsk, 16qam, afsk declared but unimplemented)")
	fmt.Println("audio: file-backed WAV only, no live device support")
	logger.Debug("info printed")
	return nil
}
