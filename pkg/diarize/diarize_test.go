package diarize

import (
	"context"
	"testing"

	"github.com/haivivi/meetscribe/pkg/transcribe"
	"github.com/haivivi/meetscribe/pkg/voiceprint"
)

// toneModel is a fake embedder that labels audio by its mean amplitude:
// segments of the same constant value embed identically.
type toneModel struct{}

func (toneModel) Extract(samples []int16) ([]float32, error) {
	if len(samples) < voiceprint.MinSamples {
		return nil, voiceprint.ErrTooShort
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean := float32(sum / float64(len(samples)))
	return []float32{mean, 1}, nil
}

func (toneModel) Dimension() int { return 2 }
func (toneModel) Close() error   { return nil }

// constantAudio writes value into samples over [start, end) seconds at 16kHz.
func constantAudio(samples []int16, start, end float64, value int16) {
	for i := int(start * 16000); i < int(end*16000) && i < len(samples); i++ {
		samples[i] = value
	}
}

func TestRunTwoSpeakerConversation(t *testing.T) {
	samples := make([]int16, 12*16000)
	constantAudio(samples, 0, 1, 1000)
	constantAudio(samples, 1.5, 2.5, 1000)
	constantAudio(samples, 6, 7, -1000)
	constantAudio(samples, 7.5, 8.5, -1000)

	transcript := transcribe.Transcript{Segments: []transcribe.Segment{
		{Start: 0, End: 1, Text: "hi"},
		{Start: 1.5, End: 2.5, Text: "there"},
		{Start: 6, End: 7, Text: "hello"},
		{Start: 7.5, End: 8.5, Text: "yes"},
	}}

	result, err := New(toneModel{}, Options{}).Run(context.Background(), samples, transcript)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Turns) != 2 {
		t.Fatalf("got %d turns, want 2: %+v", len(result.Turns), result.Turns)
	}
	first := result.Turns[0]
	if first.Start != 0 || first.End != 2.5 || first.Text != "hi there" {
		t.Fatalf("first turn = %+v, want 0-2.5 %q", first, "hi there")
	}
	second := result.Turns[1]
	if second.Text != "hello yes" || second.Speaker == first.Speaker {
		t.Fatalf("second turn = %+v, want a different speaker saying %q", second, "hello yes")
	}
	if first.Speaker != "SPEAKER_00" || second.Speaker != "SPEAKER_01" {
		t.Fatalf("speakers = %q/%q, want numbering by first appearance", first.Speaker, second.Speaker)
	}
	if len(result.Speakers) != 2 {
		t.Fatalf("speakers = %v, want two", result.Speakers)
	}
}

func TestRunFewSegmentsBecomeSingletons(t *testing.T) {
	samples := make([]int16, 4*16000)
	constantAudio(samples, 0, 1, 1000)
	constantAudio(samples, 1.5, 2.5, 1000)

	transcript := transcribe.Transcript{Segments: []transcribe.Segment{
		{Start: 0, End: 1, Text: "hi"},
		{Start: 1.5, End: 2.5, Text: "there"},
	}}

	result, err := New(toneModel{}, Options{}).Run(context.Background(), samples, transcript)
	if err != nil {
		t.Fatal(err)
	}
	// Two embeddings are below the clustering threshold, so each segment
	// stays its own speaker and nothing merges.
	if len(result.Turns) != 2 {
		t.Fatalf("got %d turns, want 2: %+v", len(result.Turns), result.Turns)
	}
	if result.Turns[0].Speaker == result.Turns[1].Speaker {
		t.Fatalf("singleton segments should keep distinct speakers: %+v", result.Turns)
	}
}

func TestRunEmptyTranscript(t *testing.T) {
	result, err := New(toneModel{}, Options{}).Run(context.Background(), nil, transcribe.Transcript{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Empty() {
		t.Fatalf("result = %+v, want empty", result)
	}
}

func TestRunNoEmbeddableSegments(t *testing.T) {
	// Segments shorter than the embedder's minimum never embed; the pass
	// degrades to an empty result instead of failing.
	samples := make([]int16, 16000)
	transcript := transcribe.Transcript{Segments: []transcribe.Segment{
		{Start: 0, End: 0.05, Text: "blip"},
	}}

	result, err := New(toneModel{}, Options{}).Run(context.Background(), samples, transcript)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Empty() {
		t.Fatalf("result = %+v, want empty", result)
	}
}

func TestRunShortSegmentInheritsNeighborLabel(t *testing.T) {
	samples := make([]int16, 12*16000)
	constantAudio(samples, 0, 1, 1000)
	constantAudio(samples, 1.5, 2.5, 1000)
	constantAudio(samples, 6, 7, -1000)
	constantAudio(samples, 7.5, 8.5, -1000)

	transcript := transcribe.Transcript{Segments: []transcribe.Segment{
		{Start: 0, End: 1, Text: "hi"},
		{Start: 1.5, End: 2.5, Text: "there"},
		{Start: 2.5, End: 2.55, Text: "uh"}, // too short to embed
		{Start: 6, End: 7, Text: "hello"},
		{Start: 7.5, End: 8.5, Text: "yes"},
	}}

	result, err := New(toneModel{}, Options{}).Run(context.Background(), samples, transcript)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Turns) != 2 {
		t.Fatalf("got %d turns, want 2: %+v", len(result.Turns), result.Turns)
	}
	// "uh" inherits the previous segment's speaker and joins its turn.
	if result.Turns[0].Text != "hi there uh" {
		t.Fatalf("first turn text = %q, want %q", result.Turns[0].Text, "hi there uh")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transcript := transcribe.Transcript{Segments: []transcribe.Segment{{Start: 0, End: 1, Text: "x"}}}
	if _, err := New(toneModel{}, Options{}).Run(ctx, make([]int16, 16000), transcript); err == nil {
		t.Fatal("want context error")
	}
}
