package capture

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/gen2brain/malgo"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
)

// Context owns the miniaudio backend context shared by all streams and
// backends. Close it after every stream has stopped.
type Context struct {
	ctx *malgo.AllocatedContext
}

// NewContext initializes the platform audio backend.
func NewContext() (*Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("capture: init context: %w", err)
	}
	return &Context{ctx: ctx}, nil
}

// Close tears down the audio backend.
func (c *Context) Close() error {
	if c.ctx == nil {
		return nil
	}
	err := c.ctx.Uninit()
	c.ctx.Free()
	c.ctx = nil
	if err != nil {
		return fmt.Errorf("capture: uninit context: %w", err)
	}
	return nil
}

// DeviceInfo describes one capture-capable device for display.
type DeviceInfo struct {
	Name    string `yaml:"name" json:"name"`
	Default bool   `yaml:"default" json:"default"`
	Monitor bool   `yaml:"monitor" json:"monitor"`
}

// InputDevices lists the capture devices the backend exposes. Monitor
// devices (PulseAudio/PipeWire loopback sources) are flagged.
func (c *Context) InputDevices() ([]DeviceInfo, error) {
	infos, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("capture: enumerate devices: %w", err)
	}
	out := make([]DeviceInfo, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		out = append(out, DeviceInfo{
			Name:    name,
			Default: info.IsDefault != 0,
			Monitor: isMonitorName(name),
		})
	}
	return out, nil
}

// Backends probes the platform once and returns the backend for each role.
// The system backend may still report ErrDeviceUnavailable at open time when
// no loopback-capable device exists.
func (c *Context) Backends() (mic, system Backend) {
	return &GenericInputBackend{ctx: c}, &LoopbackBackend{ctx: c}
}

// isMonitorName reports whether a capture device name looks like a
// loopback/monitor source (PulseAudio names them "<sink>.monitor").
func isMonitorName(name string) bool {
	return strings.Contains(strings.ToLower(name), "monitor")
}

// GenericInputBackend captures from the default input device. It serves the
// microphone role on every platform.
type GenericInputBackend struct {
	ctx *Context
}

// Name identifies the backend for logging.
func (b *GenericInputBackend) Name() string { return "input" }

// OpenStream opens and starts a stream on the default input device.
func (b *GenericInputBackend) OpenStream(role Role) (*Stream, error) {
	config := malgo.DefaultDeviceConfig(malgo.Capture)
	return b.ctx.openStream(role, config)
}

// LoopbackBackend captures system audio. On Windows (WASAPI) it opens a
// native loopback stream on the default output device; elsewhere it looks
// for a PulseAudio/PipeWire monitor source among the capture devices.
type LoopbackBackend struct {
	ctx *Context
}

// Name identifies the backend for logging.
func (b *LoopbackBackend) Name() string { return "loopback" }

// OpenStream opens and starts a system-audio stream, or returns
// ErrDeviceUnavailable when the platform has no loopback-capable device.
func (b *LoopbackBackend) OpenStream(role Role) (*Stream, error) {
	if runtime.GOOS == "windows" {
		config := malgo.DefaultDeviceConfig(malgo.Loopback)
		stream, err := b.ctx.openStream(role, config)
		if err != nil {
			return nil, fmt.Errorf("%w: wasapi loopback: %v", ErrDeviceUnavailable, err)
		}
		return stream, nil
	}

	infos, err := b.ctx.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate devices: %v", ErrDeviceUnavailable, err)
	}
	for i := range infos {
		if !isMonitorName(infos[i].Name()) {
			continue
		}
		slog.Debug("capture: using monitor source", "device", infos[i].Name())
		config := malgo.DefaultDeviceConfig(malgo.Capture)
		config.Capture.DeviceID = infos[i].ID.Pointer()
		return b.ctx.openStream(role, config)
	}
	return nil, fmt.Errorf("%w: no monitor source found", ErrDeviceUnavailable)
}

// openStream initializes and starts a capture device whose callback appends
// every arriving chunk to the stream's buffer. Sample rate and channel count
// stay zero in the config so the device's native values win; they are read
// back from the opened device.
func (c *Context) openStream(role Role, config malgo.DeviceConfig) (*Stream, error) {
	config.Capture.Format = malgo.FormatS16
	config.Alsa.NoMMap = 1

	s := &Stream{
		role: role,
		buf:  NewChunkBuffer(),
	}

	// Invoked from the backend's own I/O thread. Appending to the chunk
	// buffer is its only side effect; it must never block or panic into
	// the backend.
	onData := func(_, inputSamples []byte, frameCount uint32) {
		s.buf.Append(pcm.BytesToInt16(inputSamples))
	}

	device, err := malgo.InitDevice(c.ctx.Context, config, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return nil, fmt.Errorf("capture: init %s device: %w", role, err)
	}

	s.device = device
	s.format = pcm.Format{
		SampleRate: int(device.SampleRate()),
		Channels:   int(device.CaptureChannels()),
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("capture: start %s device: %w", role, err)
	}
	slog.Info("capture: stream opened",
		"role", role.String(),
		"sample_rate", s.format.SampleRate,
		"channels", s.format.Channels)
	return s, nil
}
