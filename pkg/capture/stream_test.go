package capture

import (
	"testing"
	"time"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
)

func TestStaticStreamDrain(t *testing.T) {
	format := pcm.Format{SampleRate: 48000, Channels: 2}
	s := NewStaticStream(RoleSystem, format, []int16{1, 2, 3, 4})

	s.Stop(0)
	rec := s.Drain()

	if rec.Format != format {
		t.Fatalf("format = %+v, want %+v", rec.Format, format)
	}
	if len(rec.Samples) != 4 || rec.Samples[0] != 1 {
		t.Fatalf("samples = %v", rec.Samples)
	}
}

func TestStreamStopIdempotent(t *testing.T) {
	s := NewStaticStream(RoleMic, pcm.Mono16K, []int16{7})

	s.Stop(time.Millisecond)
	s.Stop(time.Millisecond) // extra stops are no-ops
	s.Stop(0)

	if rec := s.Drain(); len(rec.Samples) != 1 || rec.Samples[0] != 7 {
		t.Fatalf("samples = %v, want [7]", rec.Samples)
	}
}

func TestRoleString(t *testing.T) {
	if RoleMic.String() != "mic" || RoleSystem.String() != "system" {
		t.Fatalf("roles = %q/%q", RoleMic.String(), RoleSystem.String())
	}
}

func TestIsMonitorName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Monitor of Built-in Audio Analog Stereo", true},
		{"alsa_output.pci-0000_00_1f.3.analog-stereo.monitor", true},
		{"Built-in Audio Analog Stereo", false},
	}
	for _, tt := range tests {
		if got := isMonitorName(tt.name); got != tt.want {
			t.Errorf("isMonitorName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
