// Package capture opens platform audio input streams and accumulates their
// samples until a recording session stops.
//
// Two logical roles exist: the microphone (default input device) and system
// audio (a loopback/monitor device mirroring what the machine plays). Each
// opened Stream registers a callback that the audio backend invokes from its
// own I/O thread; the callback's only side effect is appending the new chunk
// to the stream's ChunkBuffer. Draining happens strictly after the device is
// stopped, so the producer and consumer never run concurrently.
package capture

import (
	"errors"
	"fmt"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
)

// ErrDeviceUnavailable is returned by a Backend when no suitable capture
// device exists for the requested role. Callers degrade to single-stream
// recording instead of aborting.
var ErrDeviceUnavailable = errors.New("capture: no suitable device")

// Role identifies which logical stream a device feeds.
type Role int

const (
	// RoleMic is the default microphone input.
	RoleMic Role = iota
	// RoleSystem is the system/loopback audio (what the machine plays).
	RoleSystem
)

func (r Role) String() string {
	switch r {
	case RoleMic:
		return "mic"
	case RoleSystem:
		return "system"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Backend opens capture streams. Implementations are selected once at
// startup by probing available devices, not re-branched per call.
type Backend interface {
	// Name identifies the backend for logging.
	Name() string

	// OpenStream opens and starts a capture stream for the given role.
	// Returns ErrDeviceUnavailable when no device can serve the role.
	OpenStream(role Role) (*Stream, error)
}

// Recording is the drained result of one stream: the flattened samples plus
// the format the device negotiated.
type Recording struct {
	Samples []int16
	Format  pcm.Format
}

// Empty reports whether nothing was captured.
func (r Recording) Empty() bool {
	return len(r.Samples) == 0
}

// Seconds returns the recording duration in seconds.
func (r Recording) Seconds() float64 {
	return r.Format.Seconds(len(r.Samples))
}

// Mono returns the recording's samples collapsed to a single channel.
func (r Recording) Mono() []int16 {
	return pcm.DownmixMono(r.Samples, r.Format.Channels)
}
