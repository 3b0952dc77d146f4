// Package diarize assigns speaker labels to transcript segments by
// clustering voiceprint embeddings, then merges adjacent same-speaker
// segments into conversational turns.
package diarize

import (
	"context"
	"errors"
	"log/slog"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
	"github.com/haivivi/meetscribe/pkg/transcribe"
	"github.com/haivivi/meetscribe/pkg/voiceprint"
)

// DefaultGapTolerance is the largest silence, in seconds, bridged when
// merging adjacent turns of the same speaker.
const DefaultGapTolerance = 2.0

// DefaultMaxSpeakers caps how many distinct speakers clustering considers.
const DefaultMaxSpeakers = 6

// Turn is one contiguous span of speech attributed to a single speaker.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// Result is the outcome of a diarization pass.
type Result struct {
	Turns    []Turn   `json:"turns"`
	Speakers []string `json:"speakers"`
}

// Empty reports whether the pass produced no turns.
func (r Result) Empty() bool { return len(r.Turns) == 0 }

// Options tunes the diarization pass.
type Options struct {
	// GapTolerance is the merge gap in seconds; zero means
	// DefaultGapTolerance.
	GapTolerance float64
	// MaxSpeakers caps the candidate speaker counts; zero means
	// DefaultMaxSpeakers.
	MaxSpeakers int
}

func (o Options) gapTolerance() float64 {
	if o.GapTolerance > 0 {
		return o.GapTolerance
	}
	return DefaultGapTolerance
}

func (o Options) maxSpeakers() int {
	if o.MaxSpeakers > 0 {
		return o.MaxSpeakers
	}
	return DefaultMaxSpeakers
}

// Diarizer labels transcript segments with speakers.
type Diarizer struct {
	model voiceprint.Model
	opts  Options
}

// New builds a Diarizer around an embedding model.
func New(model voiceprint.Model, opts Options) *Diarizer {
	return &Diarizer{model: model, opts: opts}
}

// Run attributes every transcript segment to a speaker and merges adjacent
// same-speaker segments. The audio must be 16kHz mono PCM; segments index
// into it by their timestamps. Diarization never fails a session: when no
// embeddings can be extracted the result is empty.
func (d *Diarizer) Run(ctx context.Context, samples []int16, transcript transcribe.Transcript) (Result, error) {
	if len(transcript.Segments) == 0 {
		return Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	vectors, embedded := d.embedSegments(samples, transcript.Segments)
	if len(vectors) == 0 {
		slog.Warn("diarize: no segment could be embedded, skipping")
		return Result{}, nil
	}

	clusters := clusterEmbeddings(vectors, d.opts.maxSpeakers())
	labels := spreadLabels(clusters, embedded, len(transcript.Segments))

	turns := mergeSegments(transcript.Segments, labels, d.opts.gapTolerance())
	return Result{Turns: turns, Speakers: speakerList(turns)}, nil
}

// embedSegments extracts one embedding per transcript segment. It returns
// the vectors plus, per segment, whether embedding succeeded; short or
// silent segments are skipped and later inherit a neighbor's label.
func (d *Diarizer) embedSegments(samples []int16, segments []transcribe.Segment) ([][]float32, []bool) {
	rate := pcm.Mono16K.SampleRate
	vectors := make([][]float32, 0, len(segments))
	embedded := make([]bool, len(segments))

	for i, seg := range segments {
		start := int(seg.Start * float64(rate))
		end := int(seg.End * float64(rate))
		if start < 0 {
			start = 0
		}
		if end > len(samples) {
			end = len(samples)
		}
		if start >= end {
			continue
		}
		vec, err := d.model.Extract(samples[start:end])
		if err != nil {
			if !errors.Is(err, voiceprint.ErrTooShort) {
				slog.Debug("diarize: embed segment", "index", i, "error", err)
			}
			continue
		}
		vectors = append(vectors, vec)
		embedded[i] = true
	}
	return vectors, embedded
}

// spreadLabels expands cluster labels (one per embedded segment) to all
// segments. Segments without an embedding take the previous segment's label,
// or the next one's when they open the transcript.
func spreadLabels(clusters []int, embedded []bool, n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	k := 0
	for i := 0; i < n; i++ {
		if embedded[i] {
			labels[i] = clusters[k]
			k++
		}
	}
	prev := -1
	for i := 0; i < n; i++ {
		if labels[i] >= 0 {
			prev = labels[i]
		} else if prev >= 0 {
			labels[i] = prev
		}
	}
	next := -1
	for i := n - 1; i >= 0; i-- {
		if labels[i] >= 0 {
			next = labels[i]
		} else if next >= 0 {
			labels[i] = next
		}
	}
	return labels
}

func speakerList(turns []Turn) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range turns {
		if !seen[t.Speaker] {
			seen[t.Speaker] = true
			out = append(out, t.Speaker)
		}
	}
	return out
}
