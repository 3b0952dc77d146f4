package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
	"github.com/haivivi/meetscribe/pkg/audio/wav"
	"github.com/haivivi/meetscribe/pkg/capture"
	"github.com/haivivi/meetscribe/pkg/diarize"
)

// ProcessFile runs the processing pipeline over an existing WAV file,
// writing transcript and diarization artifacts alongside this session's
// paths. It serves re-processing of earlier recordings.
func (s *Session) ProcessFile(ctx context.Context, wavPath string) error {
	samples, rate, err := wav.ReadFile(wavPath)
	if err != nil {
		return fmt.Errorf("session: read recording: %w", err)
	}
	rec, err := normalize(capture.Recording{
		Samples: samples,
		Format:  pcm.Format{SampleRate: rate, Channels: 1},
	})
	if err != nil {
		return err
	}
	if err := s.paths.Ensure(); err != nil {
		return err
	}
	return s.process(ctx, rec.Samples, wavPath)
}

// diarizedArtifact is the JSON shape of the diarized transcript file.
type diarizedArtifact struct {
	Transcription string         `json:"transcription"`
	Segments      []diarize.Turn `json:"segments"`
	Speakers      []string       `json:"speakers"`
}

// process transcribes the recording and diarizes the transcript. The
// samples must be 16kHz mono; audioPath points at the persisted WAV handed
// to file-based transcription backends. Diarization failure downgrades the
// session to a plain transcript instead of failing it.
func (s *Session) process(ctx context.Context, samples []int16, audioPath string) error {
	if s.opts.Transcriber == nil {
		return nil
	}

	slog.Info("session: transcribing", "session", s.id, "backend", s.opts.Transcriber.Name())
	transcript, err := s.opts.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("session: transcribe: %w", err)
	}
	if transcript.Empty() {
		slog.Warn("session: transcript is empty, skipping diarization", "session", s.id)
		return nil
	}
	if err := os.WriteFile(s.paths.Transcription, []byte(transcript.Text()+"\n"), 0o644); err != nil {
		return fmt.Errorf("session: save transcription: %w", err)
	}
	slog.Info("session: transcription saved", "session", s.id, "path", s.paths.Transcription)

	if s.opts.Diarizer == nil {
		return nil
	}
	result, err := s.opts.Diarizer.Run(ctx, samples, transcript)
	if err != nil {
		return fmt.Errorf("session: diarize: %w", err)
	}
	if result.Empty() {
		slog.Warn("session: diarization produced no turns, skipping", "session", s.id)
		return nil
	}

	if err := os.WriteFile(s.paths.Diarized, []byte(diarize.Format(result.Turns)), 0o644); err != nil {
		return fmt.Errorf("session: save diarized transcript: %w", err)
	}
	artifact := diarizedArtifact{
		Transcription: transcript.Text(),
		Segments:      result.Turns,
		Speakers:      result.Speakers,
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode diarized artifact: %w", err)
	}
	if err := os.WriteFile(s.paths.DiarizedJSON, data, 0o644); err != nil {
		return fmt.Errorf("session: save diarized artifact: %w", err)
	}
	slog.Info("session: diarization saved", "session", s.id,
		"path", s.paths.Diarized, "speakers", len(result.Speakers))
	return nil
}
