// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM sample format handling and conversions
//   - wav: WAV file encoding and decoding
//   - resampler: sample-rate conversion
//   - fbank: mel filterbank feature extraction
package audio
