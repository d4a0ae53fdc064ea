// Command openham is a file/buffer-backed software modem for
// amateur-radio digital modes: it transmits text to a WAV file and
// receives text back out of one, with no live audio device involved
// anywhere in the pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "tx":
		err = runTX(logger, os.Args[2:])
	case "rx":
		err = runRX(logger, os.Args[2:])
	case "generate":
		err = runGenerate(logger, os.Args[2:])
	case "info":
		err = runInfo(logger, os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "openham: unknown subcommand %q\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("fatal", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: openham <tx|rx|generate|info> [flags]")
}
