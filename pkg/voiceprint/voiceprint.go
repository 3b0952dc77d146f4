// Package voiceprint extracts speaker embedding vectors from audio
// segments. The diarization pass clusters these vectors to decide which
// transcript turns belong to the same speaker.
package voiceprint

import "errors"

// MinSamples is the shortest segment an embedder accepts, 0.1s at 16kHz.
// Anything shorter carries too little spectral evidence to embed.
const MinSamples = 1600

// ErrTooShort is returned for segments below MinSamples.
var ErrTooShort = errors.New("voiceprint: segment too short")
