package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths names the artifacts of one session. Files are grouped under a
// per-day directory and stamped with the session's start time:
//
//	output/20260829/recording_143005.wav
//	output/20260829/transcription_143005.txt
//	output/20260829/diarized_143005.txt
//	output/20260829/diarized_143005.json
type Paths struct {
	Dir           string
	Recording     string
	Transcription string
	Diarized      string
	DiarizedJSON  string

	// MicRecording and SystemRecording are written only when the mix
	// failed and the raw streams are persisted separately.
	MicRecording    string
	SystemRecording string
}

// NewPaths derives artifact paths under baseDir for a session started at
// the given time.
func NewPaths(baseDir string, start time.Time) Paths {
	dir := filepath.Join(baseDir, start.Format("20060102"))
	stamp := start.Format("150405")
	return Paths{
		Dir:           dir,
		Recording:     filepath.Join(dir, fmt.Sprintf("recording_%s.wav", stamp)),
		Transcription: filepath.Join(dir, fmt.Sprintf("transcription_%s.txt", stamp)),
		Diarized:      filepath.Join(dir, fmt.Sprintf("diarized_%s.txt", stamp)),
		DiarizedJSON:  filepath.Join(dir, fmt.Sprintf("diarized_%s.json", stamp)),

		MicRecording:    filepath.Join(dir, fmt.Sprintf("recording_mic_%s.wav", stamp)),
		SystemRecording: filepath.Join(dir, fmt.Sprintf("recording_system_%s.wav", stamp)),
	}
}

// Ensure creates the artifact directory.
func (p Paths) Ensure() error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("session: create output dir: %w", err)
	}
	return nil
}
