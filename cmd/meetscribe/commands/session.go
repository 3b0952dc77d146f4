package commands

import (
	"fmt"
	"time"

	"github.com/haivivi/meetscribe/cmd/meetscribe/internal/config"
	"github.com/haivivi/meetscribe/pkg/diarize"
	"github.com/haivivi/meetscribe/pkg/mix"
	"github.com/haivivi/meetscribe/pkg/session"
	"github.com/haivivi/meetscribe/pkg/transcribe"
	"github.com/haivivi/meetscribe/pkg/voiceprint"
)

// sessionOptions maps CLI config and flags onto session options.
func sessionOptions(cfg *config.Config, outputDir string, noTranscribe bool) (session.Options, error) {
	opts := session.Options{
		OutputDir: cfg.OutputDir,
	}
	if outputDir != "" {
		opts.OutputDir = outputDir
	}
	if cfg.StopGraceMS > 0 {
		opts.StopGrace = time.Duration(cfg.StopGraceMS) * time.Millisecond
	}

	switch cfg.Align {
	case "", "trim":
		opts.Mix.Align = mix.AlignTrim
	case "pad":
		opts.Mix.Align = mix.AlignPad
	default:
		return session.Options{}, fmt.Errorf("unknown align policy %q (want trim or pad)", cfg.Align)
	}

	if noTranscribe {
		return opts, nil
	}

	backend, err := transcriberFor(cfg.Transcriber)
	if err != nil {
		return session.Options{}, err
	}
	opts.Transcriber = backend
	if backend != nil {
		opts.Diarizer = diarize.New(voiceprint.NewFbankModel(), diarize.Options{
			GapTolerance: cfg.GapTolerance,
			MaxSpeakers:  cfg.MaxSpeakers,
		})
	}
	return opts, nil
}

func transcriberFor(cfg config.Transcriber) (transcribe.Backend, error) {
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "faster-whisper":
		return &transcribe.FasterWhisper{
			Model:    cfg.Model,
			Device:   cfg.Device,
			Language: cfg.Language,
			Python:   cfg.Python,
		}, nil
	case "", "openai":
		key := cfg.ResolveAPIKey()
		if key == "" {
			return nil, fmt.Errorf("no API key: set transcriber.api_key or OPENAI_API_KEY (or use backend: faster-whisper)")
		}
		var opts []transcribe.OpenAIOption
		if cfg.Model != "" {
			opts = append(opts, transcribe.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, transcribe.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Language != "" {
			opts = append(opts, transcribe.WithLanguage(cfg.Language))
		}
		return transcribe.NewOpenAI(key, opts...), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Backend)
	}
}
