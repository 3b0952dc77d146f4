package mix

import (
	"errors"
	"log/slog"

	"github.com/haivivi/meetscribe/pkg/capture"
)

// Strategy names the merge path that produced a result.
type Strategy int

const (
	// StrategyMix is the full two-stream mix.
	StrategyMix Strategy = iota
	// StrategySingle passes the only non-empty stream through.
	StrategySingle
	// StrategySeparate keeps both raw streams for separate persistence
	// after the mix itself failed.
	StrategySeparate
)

func (s Strategy) String() string {
	switch s {
	case StrategyMix:
		return "mix"
	case StrategySingle:
		return "single-stream"
	case StrategySeparate:
		return "separate-streams"
	}
	return "unknown"
}

// Result is the outcome of walking the merge strategies.
type Result struct {
	Strategy Strategy

	// Mixed is the merged signal; valid unless Strategy is
	// StrategySeparate.
	Mixed capture.Recording

	// Mic and System carry the raw streams when Strategy is
	// StrategySeparate, so the caller can persist each on its own.
	Mic    capture.Recording
	System capture.Recording
}

// Merge walks the merge strategies in priority order: the full mix first
// (which itself passes a lone stream through), then, when mixing fails,
// preservation of both raw streams for separate persistence. Captured audio
// is never lost to a synchronization bug. Only empty input yields
// ErrNoAudioCaptured.
func Merge(mic, system capture.Recording, opts Options) (Result, error) {
	mixed, err := Mix(mic, system, opts)
	if err == nil {
		strategy := StrategyMix
		if mic.Empty() || system.Empty() {
			strategy = StrategySingle
		}
		return Result{Strategy: strategy, Mixed: mixed}, nil
	}
	if errors.Is(err, ErrNoAudioCaptured) {
		return Result{}, err
	}
	slog.Warn("mix: falling back to separate per-stream artifacts", "error", err)
	return Result{Strategy: StrategySeparate, Mic: mic, System: system}, nil
}
