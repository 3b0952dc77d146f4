package mix

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
	"github.com/haivivi/meetscribe/pkg/audio/resampler"
	"github.com/haivivi/meetscribe/pkg/capture"
)

// ErrNoAudioCaptured is returned when both streams came back empty.
var ErrNoAudioCaptured = errors.New("mix: no audio captured")

// AlignPolicy decides how to reconcile streams of unequal duration.
type AlignPolicy int

const (
	// AlignTrim cuts both streams to the shorter duration.
	AlignTrim AlignPolicy = iota
	// AlignPad extends the shorter stream with silence.
	AlignPad
)

// Options controls the mix pipeline.
type Options struct {
	Align AlignPolicy
}

// Mix merges a microphone and a system-audio recording into a single mono
// track at the system stream's sample rate. Either recording may be empty;
// the surviving stream passes through alone. Both empty is
// ErrNoAudioCaptured.
//
// The pipeline is: collapse each stream to mono, resample the microphone to
// the system rate, reconcile lengths per the align policy, then average the
// two sample-by-sample.
func Mix(mic, system capture.Recording, opts Options) (capture.Recording, error) {
	if mic.Empty() && system.Empty() {
		return capture.Recording{}, ErrNoAudioCaptured
	}
	if system.Empty() {
		return monoOf(mic), nil
	}
	if mic.Empty() {
		return monoOf(system), nil
	}

	m := monoOf(mic)
	s := monoOf(system)

	if m.Format.SampleRate != s.Format.SampleRate {
		resampled, err := resampler.Resample(m.Samples, m.Format.SampleRate, s.Format.SampleRate)
		if err != nil {
			return capture.Recording{}, fmt.Errorf("mix: resample mic %d->%d: %w",
				m.Format.SampleRate, s.Format.SampleRate, err)
		}
		m.Samples = resampled
		m.Format.SampleRate = s.Format.SampleRate
	}

	a, b := align(m.Samples, s.Samples, opts.Align)
	mixed := average(a, b)

	slog.Debug("mix: merged streams",
		"mic_seconds", mic.Seconds(),
		"system_seconds", system.Seconds(),
		"out_seconds", s.Format.Seconds(len(mixed)))

	return capture.Recording{
		Samples: mixed,
		Format:  pcm.Format{SampleRate: s.Format.SampleRate, Channels: 1},
	}, nil
}

func monoOf(r capture.Recording) capture.Recording {
	return capture.Recording{
		Samples: pcm.DownmixMono(r.Samples, r.Format.Channels),
		Format:  pcm.Format{SampleRate: r.Format.SampleRate, Channels: 1},
	}
}

// align reconciles two mono tracks at the same rate to equal length.
func align(a, b []int16, policy AlignPolicy) ([]int16, []int16) {
	if len(a) == len(b) {
		return a, b
	}
	switch policy {
	case AlignPad:
		n := max(len(a), len(b))
		return padTo(a, n), padTo(b, n)
	default:
		n := min(len(a), len(b))
		return a[:n], b[:n]
	}
}

func padTo(s []int16, n int) []int16 {
	if len(s) >= n {
		return s
	}
	out := make([]int16, n)
	copy(out, s)
	return out
}

// average mixes equal-length tracks sample-by-sample in the normalized
// float domain, which rounds identically to round((a+b)/2) on raw samples.
func average(a, b []int16) []int16 {
	fa := pcm.ToFloat64(a)
	fb := pcm.ToFloat64(b)
	out := make([]float64, len(fa))
	for i := range out {
		out[i] = (fa[i] + fb[i]) / 2
	}
	return pcm.FromFloat64(out)
}
