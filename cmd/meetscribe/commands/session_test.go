package commands

import (
	"testing"
	"time"

	"github.com/haivivi/meetscribe/cmd/meetscribe/internal/config"
	"github.com/haivivi/meetscribe/pkg/mix"
)

func TestSessionOptionsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	opts, err := sessionOptions(config.Default(), "", false)
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputDir != "output" {
		t.Fatalf("output dir = %q", opts.OutputDir)
	}
	if opts.Mix.Align != mix.AlignTrim {
		t.Fatalf("align = %v, want trim", opts.Mix.Align)
	}
	if opts.Transcriber == nil || opts.Transcriber.Name() != "openai" {
		t.Fatalf("transcriber = %v, want openai", opts.Transcriber)
	}
	if opts.Diarizer == nil {
		t.Fatal("diarizer should be wired when transcription is on")
	}
}

func TestSessionOptionsOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Align = "pad"
	cfg.StopGraceMS = 500
	cfg.Transcriber = config.Transcriber{Backend: "faster-whisper", Model: "small"}

	opts, err := sessionOptions(cfg, "/tmp/custom", false)
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputDir != "/tmp/custom" {
		t.Fatalf("output dir = %q", opts.OutputDir)
	}
	if opts.Mix.Align != mix.AlignPad {
		t.Fatalf("align = %v, want pad", opts.Mix.Align)
	}
	if opts.StopGrace != 500*time.Millisecond {
		t.Fatalf("stop grace = %v", opts.StopGrace)
	}
	if opts.Transcriber.Name() != "faster-whisper" {
		t.Fatalf("transcriber = %q", opts.Transcriber.Name())
	}
}

func TestSessionOptionsNoTranscribe(t *testing.T) {
	opts, err := sessionOptions(config.Default(), "", true)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Transcriber != nil || opts.Diarizer != nil {
		t.Fatal("no-transcribe should leave the processing pipeline empty")
	}
}

func TestSessionOptionsBadAlign(t *testing.T) {
	cfg := config.Default()
	cfg.Align = "stretch"
	if _, err := sessionOptions(cfg, "", true); err == nil {
		t.Fatal("want error for unknown align policy")
	}
}

func TestSessionOptionsMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := sessionOptions(config.Default(), "", false); err == nil {
		t.Fatal("want error when the openai backend has no key")
	}
}

func TestTranscriberForNone(t *testing.T) {
	backend, err := transcriberFor(config.Transcriber{Backend: "none"})
	if err != nil || backend != nil {
		t.Fatalf("backend = %v, err = %v", backend, err)
	}
}

func TestTranscriberForUnknown(t *testing.T) {
	if _, err := transcriberFor(config.Transcriber{Backend: "dictation"}); err == nil {
		t.Fatal("want error for unknown backend")
	}
}
