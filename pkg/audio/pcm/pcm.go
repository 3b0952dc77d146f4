// Package pcm provides types and utilities for working with PCM (Pulse Code
// Modulation) audio data.
//
// All audio in this project is 16-bit signed little-endian PCM. A Format
// describes the sample rate and channel layout negotiated with a capture
// device; helpers convert between byte buffers, int16 sample slices and
// normalized float64 samples, and collapse interleaved multi-channel audio
// to mono.
package pcm

import (
	"math"
	"time"
)

// Format describes a PCM audio format: sample rate and channel count.
// The bit depth is always 16-bit signed little-endian.
type Format struct {
	// SampleRate is the sample rate in Hz (e.g., 16000, 44100, 48000).
	SampleRate int

	// Channels is the number of interleaved channels (1 = mono, 2 = stereo).
	Channels int
}

// Mono16K is the canonical format consumed by transcription and speaker
// embedding models: 16 kHz mono.
var Mono16K = Format{SampleRate: 16000, Channels: 1}

// Frames returns the number of frames (one sample per channel) in the given
// number of samples.
func (f Format) Frames(samples int) int {
	if f.Channels <= 0 {
		return samples
	}
	return samples / f.Channels
}

// Duration returns the play time of the given number of interleaved samples.
func (f Format) Duration(samples int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(f.Frames(samples)) * time.Second / time.Duration(f.SampleRate)
}

// Seconds returns the play time of the given number of interleaved samples
// as a float64 second count.
func (f Format) Seconds(samples int) float64 {
	if f.SampleRate <= 0 {
		return 0
	}
	return float64(f.Frames(samples)) / float64(f.SampleRate)
}

// SamplesInDuration returns the number of interleaved samples in the given
// duration.
func (f Format) SamplesInDuration(d time.Duration) int {
	return int(time.Duration(f.SampleRate) * d / time.Second * time.Duration(f.Channels))
}

// BytesToInt16 converts little-endian PCM bytes to int16 samples.
// A trailing odd byte is ignored.
func BytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(b[i*2]) | int16(b[i*2+1])<<8
	}
	return samples
}

// Int16ToBytes converts int16 samples to little-endian PCM bytes.
func Int16ToBytes(samples []int16) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		b[i*2] = byte(s)
		b[i*2+1] = byte(s >> 8)
	}
	return b
}

// DownmixMono collapses interleaved multi-channel samples to mono by
// averaging each frame's channels. Mono input is returned unchanged.
// A trailing partial frame is dropped.
func DownmixMono(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var sum int32
		for c := 0; c < channels; c++ {
			sum += int32(samples[i*channels+c])
		}
		mono[i] = int16(sum / int32(channels))
	}
	return mono
}

// ToFloat64 converts int16 samples to float64 in [-1, 1).
func ToFloat64(samples []int16) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / 32768.0
	}
	return out
}

// FromFloat64 converts float64 samples in [-1, 1] back to int16, rounding to
// the nearest value and clipping at the int16 range.
func FromFloat64(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(s * 32768.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}
