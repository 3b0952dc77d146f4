package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIDefaultModel = "whisper-1"

// OpenAI implements [Backend] using the OpenAI audio transcriptions API.
//
// This also works with any OpenAI-compatible provider (e.g. a local
// whisper server) by setting WithBaseURL.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
}

var _ Backend = (*OpenAI)(nil)

// OpenAIOption configures the OpenAI backend.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model      string
	baseURL    string
	language   string
	httpClient *http.Client
}

// WithModel overrides the transcription model.
func WithModel(model string) OpenAIOption {
	return func(c *openAIConfig) { c.model = model }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithLanguage forces a transcription language; empty autodetects.
func WithLanguage(language string) OpenAIOption {
	return func(c *openAIConfig) { c.language = language }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *openAIConfig) { c.httpClient = hc }
}

// NewOpenAI creates an OpenAI transcription backend.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	cfg := openAIConfig{
		model:      openAIDefaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAI{client: &client, model: cfg.model, language: cfg.language}
}

// Name implements Backend.
func (o *OpenAI) Name() string { return "openai" }

// verboseTranscription mirrors the verbose_json response shape, which
// carries the per-segment timings the typed response omits.
type verboseTranscription struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe implements Backend. It requests verbose_json so segment
// timings come back alongside the text.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, fmt.Errorf("transcribe: open audio: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		Model:          openai.AudioModel(o.model),
		File:           f,
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}
	if o.language != "" {
		params.Language = openai.String(o.language)
	}
	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Transcript{}, fmt.Errorf("transcribe: openai: %w", err)
	}

	var verbose verboseTranscription
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil {
		return Transcript{}, fmt.Errorf("transcribe: parse response: %w", err)
	}

	t := Transcript{
		Language: verbose.Language,
		Duration: time.Duration(verbose.Duration * float64(time.Second)),
	}
	for _, s := range verbose.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, Segment{Start: s.Start, End: s.End, Text: text})
	}
	if len(t.Segments) == 0 && strings.TrimSpace(verbose.Text) != "" {
		// Some compatible servers skip segment timings entirely.
		t.Segments = []Segment{{Start: 0, End: verbose.Duration, Text: strings.TrimSpace(verbose.Text)}}
	}
	return t, nil
}
