// Package transcribe turns recorded audio into timed transcript segments
// through pluggable speech-to-text backends.
package transcribe

import (
	"context"
	"strings"
	"time"
)

// Segment is one timed span of transcribed speech.
type Segment struct {
	Start float64 `json:"start"` // seconds from recording start
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript bundles the segments of one recording.
type Transcript struct {
	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Segments []Segment     `json:"segments"`
}

// Text joins all segment texts with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the transcript carries no text at all.
func (t Transcript) Empty() bool {
	for _, s := range t.Segments {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}

// Backend is a pluggable speech-to-text engine. It receives the path of a
// WAV file and returns the timed transcript.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (Transcript, error)
}
