package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
	"github.com/haivivi/meetscribe/pkg/audio/resampler"
	"github.com/haivivi/meetscribe/pkg/audio/wav"
	"github.com/haivivi/meetscribe/pkg/capture"
	"github.com/haivivi/meetscribe/pkg/mix"
)

// Run records until ctx is cancelled, merges the streams, persists the WAV,
// and runs the processing pipeline over the result. When nothing was
// captured it returns mix.ErrNoAudioCaptured and writes no artifacts. A
// failed mix still persists each raw stream separately; only persistence
// errors abort the run.
func (s *Session) Run(ctx context.Context) error {
	micRec, systemRec, err := s.Record(ctx)
	if err != nil {
		return err
	}

	result, err := mix.Merge(micRec, systemRec, s.opts.Mix)
	if err != nil {
		return err
	}
	if err := s.paths.Ensure(); err != nil {
		return err
	}

	if result.Strategy == mix.StrategySeparate {
		return s.saveSeparate(result.Mic, result.System)
	}
	if result.Strategy != mix.StrategyMix {
		slog.Warn("session: degraded merge", "session", s.id, "strategy", result.Strategy.String())
	}

	rec, err := normalize(result.Mixed)
	if err != nil {
		return err
	}
	if err := wav.WriteFile(s.paths.Recording, rec.Samples, rec.Format.SampleRate); err != nil {
		return fmt.Errorf("session: save recording: %w", err)
	}
	slog.Info("session: recording saved",
		"session", s.id,
		"path", s.paths.Recording,
		"seconds", fmt.Sprintf("%.1f", rec.Seconds()))

	// The cancellation that ended the recording must not abort
	// post-processing.
	return s.process(context.WithoutCancel(ctx), rec.Samples, s.paths.Recording)
}

// Record captures both streams until ctx is cancelled and returns the raw
// per-stream recordings. A missing system device degrades to
// microphone-only; mic-only by configuration is not offered, the system
// stream is always attempted.
func (s *Session) Record(ctx context.Context) (micRec, systemRec capture.Recording, err error) {
	micStream, err := s.openStream(s.mic, capture.RoleMic, s.opts.NoMic)
	if err != nil {
		return capture.Recording{}, capture.Recording{}, err
	}
	systemStream, err := s.openStream(s.system, capture.RoleSystem, false)
	if err != nil {
		stopStream(micStream, s.opts.stopGrace())
		return capture.Recording{}, capture.Recording{}, err
	}
	if micStream == nil && systemStream == nil {
		return capture.Recording{}, capture.Recording{}, fmt.Errorf("session: no capture stream available")
	}

	slog.Info("session: recording", "session", s.id,
		"mic", micStream != nil, "system", systemStream != nil)
	<-ctx.Done()

	stopStream(micStream, s.opts.stopGrace())
	stopStream(systemStream, s.opts.stopGrace())

	if micStream != nil {
		micRec = micStream.Drain()
	}
	if systemStream != nil {
		systemRec = systemStream.Drain()
	}
	return micRec, systemRec, nil
}

// saveSeparate persists each raw stream as its own artifact after a failed
// mix. The captured audio survives; transcription is skipped because no
// canonical mixed signal exists.
func (s *Session) saveSeparate(micRec, systemRec capture.Recording) error {
	if !micRec.Empty() {
		if err := wav.WriteFile(s.paths.MicRecording, micRec.Mono(), micRec.Format.SampleRate); err != nil {
			return fmt.Errorf("session: save mic stream: %w", err)
		}
		slog.Warn("session: raw mic stream saved", "session", s.id, "path", s.paths.MicRecording)
	}
	if !systemRec.Empty() {
		if err := wav.WriteFile(s.paths.SystemRecording, systemRec.Mono(), systemRec.Format.SampleRate); err != nil {
			return fmt.Errorf("session: save system stream: %w", err)
		}
		slog.Warn("session: raw system stream saved", "session", s.id, "path", s.paths.SystemRecording)
	}
	return nil
}

// openStream opens one capture stream. An unavailable device is logged and
// skipped rather than failing the session; other open errors are fatal.
func (s *Session) openStream(backend capture.Backend, role capture.Role, disabled bool) (*capture.Stream, error) {
	if disabled || backend == nil {
		return nil, nil
	}
	stream, err := backend.OpenStream(role)
	if err != nil {
		if errors.Is(err, capture.ErrDeviceUnavailable) {
			slog.Warn("session: stream unavailable", "role", role.String(), "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("session: open %s stream: %w", role, err)
	}
	return stream, nil
}

func stopStream(stream *capture.Stream, grace time.Duration) {
	if stream != nil {
		stream.Stop(grace)
	}
}

// normalize resamples the merged recording to 16kHz mono, the rate every
// downstream stage assumes.
func normalize(rec capture.Recording) (capture.Recording, error) {
	target := pcm.Mono16K
	if rec.Format.SampleRate == target.SampleRate {
		return rec, nil
	}
	samples, err := resampler.Resample(rec.Samples, rec.Format.SampleRate, target.SampleRate)
	if err != nil {
		return capture.Recording{}, fmt.Errorf("session: normalize to %d Hz: %w", target.SampleRate, err)
	}
	return capture.Recording{Samples: samples, Format: target}, nil
}
