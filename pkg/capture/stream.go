package capture

import (
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
)

// DefaultStopGrace is how long Stop waits after halting the device before
// sealing the buffer, so chunks already in flight on the I/O thread land.
const DefaultStopGrace = 200 * time.Millisecond

// Stream is one running capture stream. The device callback is its only
// writer; Drain, called after Stop, is its only reader.
type Stream struct {
	role   Role
	format pcm.Format
	buf    *ChunkBuffer

	device *malgo.Device

	stopOnce sync.Once
}

// NewStaticStream builds a device-less stream preloaded with samples.
// Backends that synthesize audio, and tests, use it in place of a device
// stream.
func NewStaticStream(role Role, format pcm.Format, samples []int16) *Stream {
	buf := NewChunkBuffer()
	buf.Append(samples)
	return &Stream{role: role, format: format, buf: buf}
}

// Role reports which role this stream serves.
func (s *Stream) Role() Role { return s.role }

// Format reports the negotiated device format.
func (s *Stream) Format() pcm.Format { return s.format }

// Stop halts the device, waits out the grace period, and seals the buffer.
// Further callback data is dropped. Stop is idempotent; extra calls are
// no-ops.
func (s *Stream) Stop(grace time.Duration) {
	s.stopOnce.Do(func() {
		if s.device != nil {
			_ = s.device.Stop()
		}
		if grace > 0 {
			time.Sleep(grace)
		}
		s.buf.CloseWrite()
		if s.device != nil {
			s.device.Uninit()
			s.device = nil
		}
	})
}

// Drain returns everything captured, in arrival order. Call only after Stop
// has returned.
func (s *Stream) Drain() Recording {
	return Recording{
		Samples: s.buf.Drain(),
		Format:  s.format,
	}
}
