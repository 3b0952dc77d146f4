package voiceprint

// Model extracts speaker embedding vectors from raw audio.
//
// The input audio must be 16kHz mono PCM16. The output is a dense float32
// vector whose dimensionality is returned by Dimension().
//
// Implementations must be safe for concurrent use.
type Model interface {
	// Extract computes a speaker embedding from 16kHz mono PCM16 audio.
	// Segments shorter than MinSamples return ErrTooShort.
	Extract(samples []int16) ([]float32, error)

	// Dimension returns the length of the vectors Extract produces.
	Dimension() int

	// Close releases any resources held by the model.
	Close() error
}
