// Package resampler converts PCM audio between sample rates using
// band-limited interpolation (SoX-style, pure Go, no CGO dependencies).
//
// It handles 16-bit signed integer mono audio. The one-shot Resample
// function is sized exactly: the output length is round(n * dstRate/srcRate),
// so duration is preserved to within one sample.
package resampler

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts mono int16 samples from srcRate to dstRate using
// high-quality band-limited interpolation. When the rates are equal the
// input is returned unchanged.
func Resample(samples []int16, srcRate, dstRate int) ([]int16, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("resampler: invalid rates %d -> %d", srcRate, dstRate)
	}
	if srcRate == dstRate || len(samples) == 0 {
		return samples, nil
	}

	config := &resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	}
	rs, err := resampling.New(config)
	if err != nil {
		return nil, fmt.Errorf("resampler: create: %w", err)
	}

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s) / 32768.0
	}

	want := int(math.Round(float64(len(samples)) * float64(dstRate) / float64(srcRate)))

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resampler: process: %w", err)
	}

	// The polyphase filter holds back its group delay; feed silence until
	// the tail has been pushed through.
	silence := make([]float64, 1024)
	for attempts := 0; len(output) < want && attempts < 64; attempts++ {
		more, err := rs.Process(silence)
		if err != nil {
			return nil, fmt.Errorf("resampler: flush: %w", err)
		}
		if len(more) == 0 {
			break
		}
		output = append(output, more...)
	}
	if len(output) > want {
		output = output[:want]
	}

	out := make([]int16, len(output))
	for i, s := range output {
		v := math.Round(s * 32768.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out, nil
}
