package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
	"github.com/haivivi/meetscribe/pkg/audio/wav"
	"github.com/haivivi/meetscribe/pkg/capture"
	"github.com/haivivi/meetscribe/pkg/diarize"
	"github.com/haivivi/meetscribe/pkg/mix"
	"github.com/haivivi/meetscribe/pkg/transcribe"
	"github.com/haivivi/meetscribe/pkg/voiceprint"
)

type fakeBackend struct {
	samples []int16
	rate    int
	err     error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) OpenStream(role capture.Role) (*capture.Stream, error) {
	if f.err != nil {
		return nil, f.err
	}
	format := pcm.Format{SampleRate: f.rate, Channels: 1}
	return capture.NewStaticStream(role, format, f.samples), nil
}

type fakeTranscriber struct {
	transcript transcribe.Transcript
	err        error
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (transcribe.Transcript, error) {
	if f.err != nil {
		return transcribe.Transcript{}, f.err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return transcribe.Transcript{}, err
	}
	return f.transcript, nil
}

type meanModel struct{}

func (meanModel) Extract(samples []int16) ([]float32, error) {
	if len(samples) < voiceprint.MinSamples {
		return nil, voiceprint.ErrTooShort
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return []float32{float32(sum / float64(len(samples))), 1}, nil
}

func (meanModel) Dimension() int { return 2 }
func (meanModel) Close() error   { return nil }

func constant(value int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	transcript := transcribe.Transcript{Segments: []transcribe.Segment{
		{Start: 0, End: 1, Text: "hello"},
		{Start: 1.5, End: 2.5, Text: "world"},
	}}
	s := New(
		&fakeBackend{samples: constant(1000, 3*16000), rate: 16000},
		&fakeBackend{samples: constant(500, 3*16000), rate: 16000},
		Options{
			OutputDir:   dir,
			StopGrace:   time.Millisecond,
			Transcriber: &fakeTranscriber{transcript: transcript},
			Diarizer:    diarize.New(meanModel{}, diarize.Options{}),
		},
	)

	if err := s.Run(cancelledContext()); err != nil {
		t.Fatal(err)
	}

	paths := s.Paths()
	samples, rate, err := wav.ReadFile(paths.Recording)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 16000 {
		t.Fatalf("recording rate = %d, want 16000", rate)
	}
	if samples[0] != 750 {
		t.Fatalf("mixed sample = %d, want (1000+500)/2 = 750", samples[0])
	}

	text, err := os.ReadFile(paths.Transcription)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(text)) != "hello world" {
		t.Fatalf("transcription = %q", text)
	}

	diarized, err := os.ReadFile(paths.Diarized)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(diarized), "SPEAKER_00") {
		t.Fatalf("diarized = %q, want speaker labels", diarized)
	}

	data, err := os.ReadFile(paths.DiarizedJSON)
	if err != nil {
		t.Fatal(err)
	}
	var artifact diarizedArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatal(err)
	}
	if artifact.Transcription != "hello world" || len(artifact.Segments) == 0 {
		t.Fatalf("artifact = %+v", artifact)
	}
}

func TestRunNoAudioCaptured(t *testing.T) {
	dir := t.TempDir()
	s := New(
		&fakeBackend{rate: 16000},
		&fakeBackend{rate: 16000},
		Options{OutputDir: dir, StopGrace: time.Millisecond},
	)

	err := s.Run(cancelledContext())
	if !errors.Is(err, mix.ErrNoAudioCaptured) {
		t.Fatalf("err = %v, want ErrNoAudioCaptured", err)
	}
	if _, statErr := os.Stat(s.Paths().Recording); !os.IsNotExist(statErr) {
		t.Fatal("no recording file should exist when nothing was captured")
	}
}

func TestRunDegradesWhenSystemUnavailable(t *testing.T) {
	dir := t.TempDir()
	s := New(
		&fakeBackend{samples: constant(1000, 16000), rate: 16000},
		&fakeBackend{err: capture.ErrDeviceUnavailable},
		Options{OutputDir: dir, StopGrace: time.Millisecond},
	)

	if err := s.Run(cancelledContext()); err != nil {
		t.Fatal(err)
	}
	samples, _, err := wav.ReadFile(s.Paths().Recording)
	if err != nil {
		t.Fatal(err)
	}
	if samples[0] != 1000 {
		t.Fatalf("sample = %d, want untouched mic audio", samples[0])
	}
}

func TestRunNoStreamsAvailable(t *testing.T) {
	s := New(nil, nil, Options{OutputDir: t.TempDir(), NoMic: true})
	if err := s.Run(cancelledContext()); err == nil {
		t.Fatal("want error when no stream can be opened")
	}
}

func TestRunSavesSeparateStreamsOnMixFailure(t *testing.T) {
	dir := t.TempDir()
	// A zero mic rate breaks the resample step inside the mix; both raw
	// streams must still land on disk.
	s := New(
		&fakeBackend{samples: constant(100, 100), rate: 0},
		&fakeBackend{samples: constant(300, 16000), rate: 16000},
		Options{OutputDir: dir, StopGrace: time.Millisecond},
	)

	if err := s.Run(cancelledContext()); err != nil {
		t.Fatal(err)
	}
	paths := s.Paths()
	if _, err := os.Stat(paths.Recording); !os.IsNotExist(err) {
		t.Fatal("mixed recording should not exist after a failed mix")
	}
	samples, _, err := wav.ReadFile(paths.SystemRecording)
	if err != nil {
		t.Fatal(err)
	}
	if samples[0] != 300 {
		t.Fatalf("system sample = %d, want raw audio", samples[0])
	}
	if _, err := os.Stat(paths.MicRecording); err != nil {
		t.Fatalf("mic stream artifact missing: %v", err)
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "input.wav")
	if err := wav.WriteFile(wavPath, constant(800, 2*48000), 48000); err != nil {
		t.Fatal(err)
	}

	transcript := transcribe.Transcript{Segments: []transcribe.Segment{
		{Start: 0, End: 1, Text: "replay"},
	}}
	s := New(nil, nil, Options{
		OutputDir:   dir,
		Transcriber: &fakeTranscriber{transcript: transcript},
	})

	if err := s.ProcessFile(context.Background(), wavPath); err != nil {
		t.Fatal(err)
	}
	text, err := os.ReadFile(s.Paths().Transcription)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(text)) != "replay" {
		t.Fatalf("transcription = %q", text)
	}
}

func TestNewPaths(t *testing.T) {
	start := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)
	p := NewPaths("out", start)

	if p.Dir != filepath.Join("out", "20260829") {
		t.Fatalf("dir = %q", p.Dir)
	}
	if filepath.Base(p.Recording) != "recording_143005.wav" {
		t.Fatalf("recording = %q", p.Recording)
	}
	if filepath.Base(p.Transcription) != "transcription_143005.txt" {
		t.Fatalf("transcription = %q", p.Transcription)
	}
	if filepath.Base(p.Diarized) != "diarized_143005.txt" {
		t.Fatalf("diarized = %q", p.Diarized)
	}
	if filepath.Base(p.DiarizedJSON) != "diarized_143005.json" {
		t.Fatalf("diarized json = %q", p.DiarizedJSON)
	}
}
