package capture

import (
	"testing"
)

func TestChunkBufferOrder(t *testing.T) {
	buf := NewChunkBuffer()
	buf.Append([]int16{1, 2})
	buf.Append([]int16{3})
	buf.Append([]int16{4, 5, 6})
	buf.CloseWrite()

	got := buf.Drain()
	want := []int16{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("Drain len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestChunkBufferCopiesChunks(t *testing.T) {
	buf := NewChunkBuffer()
	chunk := []int16{7, 8}
	buf.Append(chunk)
	chunk[0] = 99 // callback may reuse its backing array
	buf.CloseWrite()

	got := buf.Drain()
	if got[0] != 7 {
		t.Fatalf("Drain[0] = %d, want 7 (chunk not copied)", got[0])
	}
}

func TestChunkBufferDropsAfterClose(t *testing.T) {
	buf := NewChunkBuffer()
	buf.Append([]int16{1})
	buf.CloseWrite()
	buf.Append([]int16{2}) // late callback racing shutdown

	got := buf.Drain()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("Drain = %v, want [1]", got)
	}
}

func TestChunkBufferEmpty(t *testing.T) {
	buf := NewChunkBuffer()
	buf.CloseWrite()
	if got := buf.Drain(); len(got) != 0 {
		t.Fatalf("Drain = %v, want empty", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("Len = %d, want 0", buf.Len())
	}
}

func TestRecordingEmpty(t *testing.T) {
	var r Recording
	if !r.Empty() {
		t.Fatal("zero Recording should be empty")
	}
	r.Samples = []int16{0}
	if r.Empty() {
		t.Fatal("recording with samples should not be empty")
	}
}
