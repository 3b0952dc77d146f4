// Package main is the entry point for the meetscribe CLI.
//
// Usage:
//
//	meetscribe [flags] <command> [args]
//
// Commands:
//
//	record     - Record a meeting (mic + system audio), then transcribe and diarize
//	process    - Re-run transcription and diarization over an existing WAV file
//	devices    - List capture devices
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/meetscribe/cmd/meetscribe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
