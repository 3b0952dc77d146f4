package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

//go:embed assets/faster_whisper.py
var fwScript []byte

// FasterWhisper implements [Backend] by driving a local faster-whisper
// install through an embedded Python helper. It keeps audio on the machine,
// at the cost of a Python runtime dependency.
type FasterWhisper struct {
	Model    string // whisper model name or path, default "medium"
	Device   string // auto|cpu|cuda
	Language string // empty means autodetect
	Python   string // interpreter, default "python3"
}

var _ Backend = (*FasterWhisper)(nil)

// Name implements Backend.
func (f *FasterWhisper) Name() string { return "faster-whisper" }

// Transcribe implements Backend.
func (f *FasterWhisper) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	scriptPath := filepath.Join(os.TempDir(), "meetscribe_faster_whisper.py")
	if err := os.WriteFile(scriptPath, fwScript, 0o755); err != nil {
		return Transcript{}, fmt.Errorf("transcribe: write helper script: %w", err)
	}
	defer os.Remove(scriptPath)

	model := f.Model
	if model == "" {
		model = "medium"
	}
	device := f.Device
	if device == "" {
		device = "auto"
	}
	python := f.Python
	if python == "" {
		python = "python3"
	}

	args := []string{scriptPath, "--audio", audioPath, "--model", model, "--device", device}
	if f.Language != "" {
		args = append(args, "--language", f.Language)
	}
	cmd := exec.CommandContext(ctx, python, args...)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return Transcript{}, fmt.Errorf("transcribe: faster-whisper: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return Transcript{}, fmt.Errorf("transcribe: run helper: %w", err)
	}

	var parsed struct {
		Language string  `json:"language"`
		Duration float64 `json:"duration"`
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Transcript{}, fmt.Errorf("transcribe: parse helper output: %w", err)
	}

	t := Transcript{
		Language: parsed.Language,
		Duration: time.Duration(parsed.Duration * float64(time.Second)),
	}
	for _, s := range parsed.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, Segment{Start: s.Start, End: s.End, Text: text})
	}
	return t, nil
}
