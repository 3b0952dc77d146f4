package capture

import "sync"

// ChunkBuffer accumulates sample chunks pushed by a capture callback.
//
// It has exactly one writer (the device's I/O thread, via Append) and one
// reader (the post-stop pipeline, via Drain). The two phases never overlap:
// CloseWrite is called only after the device is stopped and a grace period
// has passed, and Drain only after CloseWrite. Appends that race the close
// are dropped rather than blocking the audio thread.
type ChunkBuffer struct {
	mu         sync.Mutex
	chunks     [][]int16
	total      int
	closeWrite bool
}

// NewChunkBuffer returns an empty buffer.
func NewChunkBuffer() *ChunkBuffer {
	return &ChunkBuffer{}
}

// Append copies chunk and appends it in arrival order. It never blocks on
// I/O and is safe to call from the backend's audio thread. Appends after
// CloseWrite are discarded.
func (b *ChunkBuffer) Append(chunk []int16) {
	if len(chunk) == 0 {
		return
	}
	c := make([]int16, len(chunk))
	copy(c, chunk)

	b.mu.Lock()
	if !b.closeWrite {
		b.chunks = append(b.chunks, c)
		b.total += len(c)
	}
	b.mu.Unlock()
}

// CloseWrite seals the buffer. Call only after the producer is quiesced.
func (b *ChunkBuffer) CloseWrite() {
	b.mu.Lock()
	b.closeWrite = true
	b.mu.Unlock()
}

// Len returns the total number of buffered samples.
func (b *ChunkBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Drain flattens all chunks into one slice in append order and releases
// the buffered chunks.
func (b *ChunkBuffer) Drain() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	flat := make([]int16, 0, b.total)
	for _, c := range b.chunks {
		flat = append(flat, c...)
	}
	b.chunks = nil
	b.total = 0
	return flat
}
