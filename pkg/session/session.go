// Package session orchestrates a full meeting-capture run: record both
// audio streams, merge them, persist the WAV, then transcribe and diarize.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/meetscribe/pkg/capture"
	"github.com/haivivi/meetscribe/pkg/diarize"
	"github.com/haivivi/meetscribe/pkg/mix"
	"github.com/haivivi/meetscribe/pkg/transcribe"
)

// Options configures a session.
type Options struct {
	// OutputDir is the artifact root; per-day directories are created
	// beneath it.
	OutputDir string

	// NoMic skips the microphone stream. The system stream is always
	// attempted; it degrades only when its device is unavailable.
	NoMic bool

	// StopGrace is the quiesce period between halting the devices and
	// sealing the buffers; zero means capture.DefaultStopGrace.
	StopGrace time.Duration

	// Mix tunes stream alignment.
	Mix mix.Options

	// Transcriber is the speech-to-text backend. Nil skips transcription
	// and everything downstream of it.
	Transcriber transcribe.Backend

	// Diarizer labels transcript segments with speakers. Nil skips
	// diarization.
	Diarizer *diarize.Diarizer
}

func (o Options) stopGrace() time.Duration {
	if o.StopGrace > 0 {
		return o.StopGrace
	}
	return capture.DefaultStopGrace
}

// Session is one recording run with a stable identity for logs and
// artifacts.
type Session struct {
	id    string
	start time.Time
	paths Paths
	opts  Options

	mic    capture.Backend
	system capture.Backend
}

// New creates a session over the given capture backends. Either backend may
// be nil when its stream is disabled through Options.
func New(mic, system capture.Backend, opts Options) *Session {
	start := time.Now()
	return &Session{
		id:     uuid.NewString(),
		start:  start,
		paths:  NewPaths(opts.OutputDir, start),
		opts:   opts,
		mic:    mic,
		system: system,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Paths returns the artifact paths of this session.
func (s *Session) Paths() Paths { return s.paths }
